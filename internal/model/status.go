// internal/model/status.go
package model

import "time"

// WatchStatus is a point-in-time snapshot of the watchdog loop.
type WatchStatus struct {
	Container     string    `json:"container"`
	Marker        string    `json:"marker"`
	State         string    `json:"state"` // "idle" or "restarting"
	CheckInterval string    `json:"check_interval"`
	RecoveryDelay string    `json:"recovery_delay"`
	LastCheck     time.Time `json:"last_check"`
	LastDetection time.Time `json:"last_detection"`
	Restarts      int64     `json:"restarts"` // since daemon start
}

// BridgeStatus is a point-in-time snapshot of the MQTT bridge.
type BridgeStatus struct {
	LocalConnected  bool   `json:"local_connected"`
	RemoteConnected bool   `json:"remote_connected"`
	LocalTopic      string `json:"local_topic"`
	RemotePrefix    string `json:"remote_prefix"`
	Forwarded       uint64 `json:"forwarded"`
	Failed          uint64 `json:"failed"`
}
