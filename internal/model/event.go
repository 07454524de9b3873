// internal/model/event.go
package model

import "time"

// EventKind classifies watchdog events.
type EventKind string

const (
	// EventDetected means the error marker was found in the log window.
	EventDetected EventKind = "detected"
	// EventRestarted means the restart command was issued successfully.
	EventRestarted EventKind = "restarted"
	// EventRestartFailed means the restart command returned an error.
	EventRestartFailed EventKind = "restart-failed"
)

// WatchEvent records one watchdog occurrence. Events are journaled in
// SQLite and broadcast over the control socket.
type WatchEvent struct {
	ID        int64     `json:"id,omitempty"` // assigned by storage
	Container string    `json:"container"`
	Kind      EventKind `json:"kind"`
	Line      string    `json:"line,omitempty"`  // matched log line, for detections
	Error     string    `json:"error,omitempty"` // restart error text, if any
	At        time.Time `json:"at"`
}
