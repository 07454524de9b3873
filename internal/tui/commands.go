package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LckyLuciano/meshmon/internal/control"
)

const requestTimeout = 2 * time.Second

// tickCmd creates a command that sends a tick message every 2 seconds
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// connectCmd dials the daemon control socket
func connectCmd(socketPath string) tea.Cmd {
	return func() tea.Msg {
		client, err := control.Dial(socketPath)
		return connectedMsg{client: client, err: err}
	}
}

// fetchStatus asks the daemon for a status snapshot
func fetchStatus(client *control.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := client.Request(ctx, control.MethodStatus, nil)
		if err != nil {
			return statusMsg{err: err}
		}

		var st control.StatusResponse
		if err := resp.UnmarshalData(&st); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{status: &st}
	}
}

// fetchEvents asks the daemon for the recent event journal
func fetchEvents(client *control.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := client.Request(ctx, control.MethodEvents, control.EventsRequest{Limit: 25})
		if err != nil {
			return eventsMsg{err: err}
		}

		var er control.EventsResponse
		if err := resp.UnmarshalData(&er); err != nil {
			return eventsMsg{err: err}
		}
		return eventsMsg{events: er.Events}
	}
}

// subscribeLogs asks the daemon to start tailing the container's logs
func subscribeLogs(client *control.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		client.Request(ctx, control.MethodLogsSubscribe, nil)
		return nil
	}
}

// waitForPush waits for the next daemon-pushed event
func waitForPush(pushes <-chan control.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-pushes
		if !ok {
			return nil
		}
		return pushMsg(msg)
	}
}
