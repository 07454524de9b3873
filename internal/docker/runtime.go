// internal/docker/runtime.go
package docker

import (
	"context"
	"time"
)

// ContainerRuntime binds a Client to one named container, exposing the
// two operations the watchdog loop performs against it.
type ContainerRuntime struct {
	cli  *Client
	name string
}

// NewContainerRuntime returns a runtime for the named container.
func NewContainerRuntime(cli *Client, name string) *ContainerRuntime {
	return &ContainerRuntime{cli: cli, name: name}
}

// FetchRecentLogs returns the raw combined log text from the trailing
// window.
func (r *ContainerRuntime) FetchRecentLogs(ctx context.Context, window time.Duration) (string, error) {
	return r.cli.RecentLogs(ctx, r.name, window)
}

// Restart restarts the watched container.
func (r *ContainerRuntime) Restart(ctx context.Context) error {
	return r.cli.RestartContainer(ctx, r.name)
}

// Name returns the watched container name.
func (r *ContainerRuntime) Name() string {
	return r.name
}
