package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Watchdog.Container != "tc2-bbs-mesh" {
		t.Errorf("container: got %q", cfg.Watchdog.Container)
	}
	if cfg.Watchdog.Marker != "Broken pipe" {
		t.Errorf("marker: got %q", cfg.Watchdog.Marker)
	}
	if cfg.Watchdog.CheckInterval.Std() != time.Minute {
		t.Errorf("check_interval: got %s", cfg.Watchdog.CheckInterval)
	}
	if cfg.Watchdog.RecoveryDelay.Std() != 2*time.Minute {
		t.Errorf("recovery_delay: got %s", cfg.Watchdog.RecoveryDelay)
	}
	if cfg.Docker.Host != "unix:///var/run/docker.sock" {
		t.Errorf("docker host: got %q", cfg.Docker.Host)
	}
	if cfg.Bridge.Enabled {
		t.Error("bridge should be disabled by default")
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("defaults should validate, got %v", errs)
	}
}

func TestParseValidConfig(t *testing.T) {
	yaml := `
log_level: debug
socket: /run/meshmon.sock
watchdog:
  container: my-node
  marker: "Broken pipe"
  check_interval: 90s
  recovery_delay: 120
docker:
  host: tcp://dockerhost:2376
  tls_verify: true
  cert_path: /etc/docker/certs
bridge:
  enabled: true
  local_topic: msh/EU/2/e/LongFast/#
  remote_prefix: egr/site/2/e/LongFast/
  local:
    url: tcp://127.0.0.1:1883
  remote:
    url: tcp://mqtt.example.net:1883
    username: egr
    password: secret
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log_level: got %q", cfg.LogLevel)
	}
	if cfg.Watchdog.Container != "my-node" {
		t.Errorf("container: got %q", cfg.Watchdog.Container)
	}
	if cfg.Watchdog.CheckInterval.Std() != 90*time.Second {
		t.Errorf("check_interval: got %s", cfg.Watchdog.CheckInterval)
	}
	// bare number means seconds
	if cfg.Watchdog.RecoveryDelay.Std() != 120*time.Second {
		t.Errorf("recovery_delay: got %s", cfg.Watchdog.RecoveryDelay)
	}
	if !cfg.Docker.TLSVerify || cfg.Docker.CertPath != "/etc/docker/certs" {
		t.Errorf("docker tls: got %+v", cfg.Docker)
	}
	if !cfg.Bridge.Enabled {
		t.Error("bridge should be enabled")
	}
	if cfg.Bridge.Remote.Username != "egr" {
		t.Errorf("remote username: got %q", cfg.Bridge.Remote.Username)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestParseKeepsDefaultsForOmittedFields(t *testing.T) {
	cfg, err := Parse([]byte("log_level: warn\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if cfg.Watchdog.Container != "tc2-bbs-mesh" {
		t.Errorf("container default lost: got %q", cfg.Watchdog.Container)
	}
	if cfg.Socket != "/tmp/meshmon.sock" {
		t.Errorf("socket default lost: got %q", cfg.Socket)
	}
}

func TestValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.Watchdog.Container = ""
	cfg.Watchdog.Marker = ""
	cfg.Watchdog.CheckInterval = 0
	cfg.Bridge.Enabled = true
	cfg.Bridge.LocalTopic = "msh/US/2/e/LongFast/" // missing #
	cfg.Bridge.Remote.URL = ""

	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}

	wants := []string{
		"container is required",
		"marker is required",
		"check_interval must be positive",
		"local_topic must end with #",
		"remote.url is required",
	}
	joined := ""
	for _, e := range errs {
		joined += e.Error() + "\n"
	}
	for _, want := range wants {
		if !strings.Contains(joined, want) {
			t.Errorf("missing error %q in:\n%s", want, joined)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MESHMON_CONTAINER_NAME", "other-node")
	t.Setenv("MESHMON_ERROR_MSG", "connection reset")
	t.Setenv("MESHMON_CHECK_INTERVAL", "30s")
	t.Setenv("MESHMON_RECOVERY_DELAY", "45")
	t.Setenv("MESHMON_BRIDGE_ENABLED", "true")

	cfg := Default()
	applyEnv(&cfg)

	if cfg.Watchdog.Container != "other-node" {
		t.Errorf("container: got %q", cfg.Watchdog.Container)
	}
	if cfg.Watchdog.Marker != "connection reset" {
		t.Errorf("marker: got %q", cfg.Watchdog.Marker)
	}
	if cfg.Watchdog.CheckInterval.Std() != 30*time.Second {
		t.Errorf("check_interval: got %s", cfg.Watchdog.CheckInterval)
	}
	if cfg.Watchdog.RecoveryDelay.Std() != 45*time.Second {
		t.Errorf("recovery_delay: got %s", cfg.Watchdog.RecoveryDelay)
	}
	if !cfg.Bridge.Enabled {
		t.Error("bridge should be enabled via env")
	}
}

func TestEnvIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("MESHMON_CHECK_INTERVAL", "soon")
	t.Setenv("MESHMON_BRIDGE_ENABLED", "maybe")

	cfg := Default()
	applyEnv(&cfg)

	if cfg.Watchdog.CheckInterval.Std() != time.Minute {
		t.Errorf("check_interval should keep default, got %s", cfg.Watchdog.CheckInterval)
	}
	if cfg.Bridge.Enabled {
		t.Error("bridge.enabled should keep default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshmon.yaml")
	content := "watchdog:\n  container: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Watchdog.Container != "from-file" {
		t.Errorf("container: got %q", cfg.Watchdog.Container)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicitly given missing file")
	}
}

func TestParseDurationForms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"90s", 90 * time.Second, true},
		{"2m", 2 * time.Minute, true},
		{"1m30s", 90 * time.Second, true},
		{"120", 120 * time.Second, true},
		{"soon", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := parseDuration(tc.in)
		if tc.ok && err != nil {
			t.Errorf("parseDuration(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("parseDuration(%q): expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("parseDuration(%q): got %s, want %s", tc.in, got, tc.want)
		}
	}
}
