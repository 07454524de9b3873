package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LckyLuciano/meshmon/internal/control"
	"github.com/LckyLuciano/meshmon/internal/model"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.client != nil {
				// Best effort; the daemon also reaps orphaned
				// subscriptions on its own.
				ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				m.client.Request(ctx, control.MethodLogsUnsubscribe, nil)
				cancel()
				m.client.Close()
			}
			return m, tea.Quit

		case "pgup":
			// Scroll logs up by half page for better readability
			if m.logsScroll > 0 {
				visibleLines := m.calculateVisibleLogLines()
				scrollAmount := visibleLines / 2
				if scrollAmount < 1 {
					scrollAmount = 1
				}
				m.logsScroll -= scrollAmount
				if m.logsScroll < 0 {
					m.logsScroll = 0
				}
				m.logsAutoScroll = false
			}

		case "pgdown":
			// Scroll logs down by half page for better readability
			visibleLines := m.calculateVisibleLogLines()
			maxScroll := m.calculateMaxScroll()
			scrollAmount := visibleLines / 2
			if scrollAmount < 1 {
				scrollAmount = 1
			}
			m.logsScroll += scrollAmount
			if m.logsScroll >= maxScroll {
				m.logsScroll = maxScroll
				m.logsAutoScroll = true
			}

		case "home":
			m.logsScroll = 0
			m.logsAutoScroll = false

		case "end":
			m.logsScroll = m.calculateMaxScroll()
			m.logsAutoScroll = true

		case "a":
			// Toggle auto-scroll
			m.logsAutoScroll = !m.logsAutoScroll
			if m.logsAutoScroll {
				m.logsScroll = m.calculateMaxScroll()
			}

		case "c":
			// Clear logs
			m.logs = []model.LogEntry{}
			m.logsScroll = 0

		case "R":
			if m.connected {
				m.message = "Refreshing..."
				return m, tea.Batch(fetchStatus(m.client), fetchEvents(m.client))
			}
		}

	case spinner.TickMsg:
		if !m.connected {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case connectedMsg:
		if msg.err != nil {
			m.err = msg.err
			// Retry on the next tick
			return m, tickCmd()
		}

		m.client = msg.client
		m.connected = true
		m.err = nil

		pushes := m.pushes
		m.client.OnEvent(func(ev control.Message) {
			select {
			case pushes <- ev:
			default: // drop when the UI cannot keep up
			}
		})

		cmds := []tea.Cmd{
			tickCmd(),
			fetchStatus(m.client),
			fetchEvents(m.client),
			subscribeLogs(m.client),
		}
		if !m.pushArmed {
			m.pushArmed = true
			cmds = append(cmds, waitForPush(m.pushes))
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		if !m.connected {
			return m, connectCmd(m.socketPath)
		}
		return m, tea.Batch(tickCmd(), fetchStatus(m.client), fetchEvents(m.client))

	case statusMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Status error: %v", msg.err)
			return m, m.checkConnection(msg.err)
		}
		m.status = msg.status
		m.message = ""

	case eventsMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Events error: %v", msg.err)
			return m, m.checkConnection(msg.err)
		}
		m.events = msg.events

	case pushMsg:
		env := control.Message(msg)
		switch env.Method {
		case control.EventWatch:
			var ev model.WatchEvent
			if err := env.UnmarshalData(&ev); err == nil {
				m.events = append([]model.WatchEvent{ev}, m.events...)
				if len(m.events) > 100 {
					m.events = m.events[:100]
				}
			}

		case control.EventLogLine:
			var entry model.LogEntry
			if err := env.UnmarshalData(&entry); err == nil && entry.Message != "" {
				m.logs = append(m.logs, entry)
				if len(m.logs) > 1000 {
					m.logs = m.logs[len(m.logs)-1000:]
				}
				if m.logsAutoScroll {
					m.logsScroll = m.calculateMaxScroll()
				}
			}
		}
		// Keep waiting for the next push
		return m, waitForPush(m.pushes)
	}

	return m, nil
}

// checkConnection drops back into connect-retry mode when the daemon
// went away mid-session. Errors the daemon itself returned are just
// displayed; anything else means the transport is suspect.
func (m *Model) checkConnection(err error) tea.Cmd {
	if err == nil || strings.HasPrefix(err.Error(), "daemon error:") {
		return nil
	}

	// Status and events can fail in the same refresh; only tear down once.
	if m.client == nil {
		return nil
	}

	m.client.Close()
	m.client = nil
	m.connected = false
	m.status = nil
	m.err = err
	return m.spin.Tick
}
