// internal/model/logs.go
package model

import "time"

// LogEntry represents a single log line from a container.
// Entries travel over the control socket, hence the JSON tags.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Stream    string    `json:"stream"` // "stdout" or "stderr"
}
