// internal/docker/container.go
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"

	"github.com/LckyLuciano/meshmon/internal/model"
)

// ErrNotFound is returned when no container matches the requested name.
var ErrNotFound = errors.New("container not found")

// FindContainer looks a container up by name across running and stopped
// containers.
func (c *Client) FindContainer(ctx context.Context, name string) (model.Container, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{
		All: true,
	})
	if err != nil {
		return model.Container{}, fmt.Errorf("list containers: %w", err)
	}

	for _, cont := range containers {
		for _, n := range cont.Names {
			// Docker prefixes names with "/"
			if strings.TrimPrefix(n, "/") != name {
				continue
			}
			return model.Container{
				ID:      shortID(cont.ID),
				Name:    name,
				Image:   cont.Image,
				Status:  cont.Status,
				State:   cont.State,
				Created: time.Unix(cont.Created, 0),
			}, nil
		}
	}

	return model.Container{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// RestartContainer restarts a container by name or ID. The engine gets
// 10 seconds to stop the container gracefully before it is killed.
func (c *Client) RestartContainer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	timeout := 10
	if err := c.cli.ContainerRestart(ctx, id, container.StopOptions{
		Timeout: &timeout,
	}); err != nil {
		return fmt.Errorf("restart container %s: %w", id, err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
