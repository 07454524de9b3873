package model

import "time"

// Container is the subset of Docker container metadata meshmon cares about.
type Container struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Image   string    `json:"image"`
	Status  string    `json:"status"` // human readable, e.g. "Up 3 hours"
	State   string    `json:"state"`  // running, exited, restarting, ...
	Created time.Time `json:"created"`
}

// Running reports whether the container is in the running state.
func (c Container) Running() bool {
	return c.State == "running"
}
