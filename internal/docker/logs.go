// internal/docker/logs.go
package docker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"

	"github.com/LckyLuciano/meshmon/internal/model"
)

// RecentLogs returns the combined stdout/stderr text of the trailing
// window as one raw blob. The stream multiplex framing is stripped;
// nothing else is parsed.
func (c *Client) RecentLogs(ctx context.Context, id string, window time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	options := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Since:      window.String(), // the engine resolves relative durations
	}

	reader, err := c.cli.ContainerLogs(ctx, id, options)
	if err != nil {
		return "", fmt.Errorf("container logs %s: %w", id, err)
	}
	defer reader.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		_, text := splitFrame(scanner.Text())
		b.WriteString(text)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read logs %s: %w", id, err)
	}

	return b.String(), nil
}

// StreamLogs follows the container's log stream until ctx is cancelled,
// starting with the last tail lines. The error channel receives at most
// one error; both channels close when the stream ends.
func (c *Client) StreamLogs(ctx context.Context, id string, tail int) (<-chan model.LogEntry, <-chan error) {
	logsChan := make(chan model.LogEntry)
	errChan := make(chan error, 1)

	go func() {
		defer close(logsChan)
		defer close(errChan)

		options := container.LogsOptions{
			ShowStdout: true,
			ShowStderr: true,
			Timestamps: true,
			Follow:     true,
			Tail:       strconv.Itoa(tail),
		}

		reader, err := c.cli.ContainerLogs(ctx, id, options)
		if err != nil {
			errChan <- err
			return
		}
		defer reader.Close()

		scanner := bufio.NewScanner(reader)
		// Increase buffer size for long log lines
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			entry, valid := parseLogLine(scanner.Text())
			if !valid {
				continue
			}

			select {
			case logsChan <- entry:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	return logsChan, errChan
}

// splitFrame strips the 8-byte multiplex header Docker prepends to each
// frame when the container runs without a TTY, and reports which stream
// the frame belongs to.
func splitFrame(line string) (stream, text string) {
	if len(line) >= 8 && line[1] == 0 && line[2] == 0 && line[3] == 0 {
		switch line[0] {
		case 0x00, 0x01:
			return "stdout", line[8:]
		case 0x02:
			return "stderr", line[8:]
		}
	}
	return "stdout", line
}

// parseLogLine parses a single log line into an entry. With Timestamps
// requested the payload starts with an RFC3339Nano timestamp.
func parseLogLine(line string) (model.LogEntry, bool) {
	stream, text := splitFrame(line)

	text = strings.TrimSpace(text)
	if text == "" {
		return model.LogEntry{}, false
	}

	entry := model.LogEntry{
		Timestamp: time.Now(),
		Message:   text,
		Stream:    stream,
	}

	// Format: 2024-01-15T10:30:45.123456789Z message
	parts := strings.SplitN(text, " ", 2)
	if len(parts) == 2 {
		if timestamp, err := time.Parse(time.RFC3339Nano, parts[0]); err == nil {
			entry.Timestamp = timestamp
			entry.Message = strings.TrimSpace(parts[1])

			if entry.Message == "" {
				return model.LogEntry{}, false
			}
		}
	}

	return entry, true
}
