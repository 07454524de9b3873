// Package config loads meshmon configuration from compiled defaults,
// an optional YAML file and MESHMON_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "/etc/meshmon/meshmon.yaml"

// Config is the full daemon configuration.
type Config struct {
	LogLevel string   `yaml:"log_level"`
	Socket   string   `yaml:"socket"`
	DataDir  string   `yaml:"data_dir"` // empty means ~/.meshmon
	Docker   Docker   `yaml:"docker"`
	Watchdog Watchdog `yaml:"watchdog"`
	Bridge   Bridge   `yaml:"bridge"`
}

// Docker configures the Docker Engine API connection.
type Docker struct {
	Host      string   `yaml:"host"`
	TLSVerify bool     `yaml:"tls_verify"`
	CertPath  string   `yaml:"cert_path"`
	Timeout   Duration `yaml:"timeout"`
}

// Watchdog configures the log-watch loop.
type Watchdog struct {
	Container     string   `yaml:"container"`
	Marker        string   `yaml:"marker"`
	CheckInterval Duration `yaml:"check_interval"`
	RecoveryDelay Duration `yaml:"recovery_delay"`
}

// Bridge configures the MQTT topic bridge. Disabled by default.
type Bridge struct {
	Enabled      bool   `yaml:"enabled"`
	LocalTopic   string `yaml:"local_topic"`   // subscription filter, keep the trailing #
	RemotePrefix string `yaml:"remote_prefix"` // prepended to the suffix on republish
	Local        Broker `yaml:"local"`
	Remote       Broker `yaml:"remote"`
}

// Broker is one MQTT endpoint.
type Broker struct {
	URL      string `yaml:"url"` // e.g. tcp://127.0.0.1:1883
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"client_id"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Socket:   "/tmp/meshmon.sock",
		Docker: Docker{
			Host:    "unix:///var/run/docker.sock",
			Timeout: Duration(30 * time.Second),
		},
		Watchdog: Watchdog{
			Container:     "tc2-bbs-mesh",
			Marker:        "Broken pipe",
			CheckInterval: Duration(1 * time.Minute),
			RecoveryDelay: Duration(2 * time.Minute),
		},
		Bridge: Bridge{
			LocalTopic:   "msh/US/2/e/LongFast/#",
			RemotePrefix: "egr/home/2/e/LongFast/",
			Local:        Broker{URL: "tcp://127.0.0.1:1883", ClientID: "meshmon-local"},
			Remote:       Broker{ClientID: "meshmon-remote"},
		},
	}
}

// Parse unmarshals YAML over the defaults. It does not validate.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load builds the effective configuration. A missing file is only an
// error when the path was given explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults + environment only
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the configuration for structural correctness and
// returns every problem found.
func (c Config) Validate() []error {
	var errs []error

	if c.Socket == "" {
		errs = append(errs, fmt.Errorf("socket is required"))
	}
	if c.Docker.Host == "" {
		errs = append(errs, fmt.Errorf("docker: host is required"))
	}
	if c.Docker.TLSVerify && c.Docker.CertPath == "" {
		errs = append(errs, fmt.Errorf("docker: cert_path is required when tls_verify is set"))
	}

	if c.Watchdog.Container == "" {
		errs = append(errs, fmt.Errorf("watchdog: container is required"))
	}
	if c.Watchdog.Marker == "" {
		errs = append(errs, fmt.Errorf("watchdog: marker is required"))
	}
	if c.Watchdog.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("watchdog: check_interval must be positive, got %s", c.Watchdog.CheckInterval))
	}
	if c.Watchdog.RecoveryDelay < 0 {
		errs = append(errs, fmt.Errorf("watchdog: recovery_delay must not be negative, got %s", c.Watchdog.RecoveryDelay))
	}

	if c.Bridge.Enabled {
		if c.Bridge.Local.URL == "" {
			errs = append(errs, fmt.Errorf("bridge: local.url is required"))
		}
		if c.Bridge.Remote.URL == "" {
			errs = append(errs, fmt.Errorf("bridge: remote.url is required"))
		}
		if !strings.HasSuffix(c.Bridge.LocalTopic, "#") {
			errs = append(errs, fmt.Errorf("bridge: local_topic must end with #, got %q", c.Bridge.LocalTopic))
		}
		if c.Bridge.RemotePrefix == "" {
			errs = append(errs, fmt.Errorf("bridge: remote_prefix is required"))
		}
	}

	return errs
}
