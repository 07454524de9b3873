package service

import (
	"os"
	"strings"
	"testing"
)

func TestUnitContents(t *testing.T) {
	got := UnitContents("/usr/local/bin/meshmon")

	if !strings.Contains(got, "ExecStart=/usr/local/bin/meshmon run") {
		t.Error("unit file missing ExecStart with binary path")
	}
	if !strings.Contains(got, "Type=notify") {
		t.Error("unit file missing Type=notify")
	}
	if !strings.Contains(got, "Restart=on-failure") {
		t.Error("unit file missing Restart=on-failure")
	}
	if !strings.Contains(got, "WatchdogSec=") {
		t.Error("unit file missing WatchdogSec")
	}
	if !strings.Contains(got, "[Install]") {
		t.Error("unit file missing [Install] section")
	}
}

func TestUnitPath(t *testing.T) {
	if got := UnitPath(); got != "/etc/systemd/system/meshmon.service" {
		t.Errorf("UnitPath() = %q", got)
	}
}

func TestStatusNoSocket(t *testing.T) {
	got := Status("/tmp/meshmon-test-nonexistent.sock")
	if !strings.Contains(got, "socket: inactive") {
		t.Errorf("Status() should report inactive socket, got: %s", got)
	}
}

func TestStatusWithSocket(t *testing.T) {
	f, err := os.CreateTemp("", "meshmon-test-*.sock")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.Close()

	got := Status(f.Name())
	if !strings.Contains(got, "socket: active") {
		t.Errorf("Status() should report active socket, got: %s", got)
	}
}
