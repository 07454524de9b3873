package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/client"
)

// Config holds the Docker Engine API connection settings.
type Config struct {
	Host      string
	TLSVerify bool
	CertPath  string
	Timeout   time.Duration // startup ping timeout
}

// Client wraps the Docker API client. All operations take an explicit
// context; the client itself holds no request state.
type Client struct {
	cli *client.Client
}

// NewClient connects to the Docker daemon and verifies it responds.
func NewClient(cfg Config) (*Client, error) {
	opts := []client.Opt{
		client.WithHost(cfg.Host),
		client.WithAPIVersionNegotiation(),
	}

	if cfg.TLSVerify {
		opts = append(opts, client.WithTLSClientConfig(
			cfg.CertPath+"/ca.pem",
			cfg.CertPath+"/cert.pem",
			cfg.CertPath+"/key.pem",
		))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("ping docker daemon at %s: %w", cfg.Host, err)
	}

	return &Client{cli: cli}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
