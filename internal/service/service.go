// Package service manages the meshmon systemd unit.
package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const unitName = "meshmon.service"

// UnitContents returns the systemd unit file contents for the given binary path.
func UnitContents(binaryPath string) string {
	return fmt.Sprintf(`[Unit]
Description=Meshtastic container watchdog and MQTT bridge
Documentation=https://github.com/LckyLuciano/meshmon
After=network-online.target docker.service
Wants=network-online.target

[Service]
Type=notify
ExecStart=%s run
Restart=on-failure
RestartSec=5
WatchdogSec=120

[Install]
WantedBy=multi-user.target
`, binaryPath)
}

// UnitPath returns the path of the system unit file.
func UnitPath() string {
	return filepath.Join("/etc/systemd/system", unitName)
}

// Install writes the unit file, reloads systemd, and enables+starts the service.
func Install() error {
	binaryPath, err := exec.LookPath("meshmon")
	if err != nil {
		return fmt.Errorf("meshmon not found in PATH: %w", err)
	}
	binaryPath, err = filepath.Abs(binaryPath)
	if err != nil {
		return fmt.Errorf("cannot resolve meshmon path: %w", err)
	}

	contents := UnitContents(binaryPath)
	if err := os.WriteFile(UnitPath(), []byte(contents), 0o644); err != nil {
		return fmt.Errorf("cannot write unit file: %w", err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}
	return systemctl("enable", "--now", unitName)
}

// Uninstall stops+disables the service, removes the unit file, and reloads systemd.
func Uninstall() error {
	// Best-effort stop and disable; ignore errors if not running.
	_ = systemctl("stop", unitName)
	_ = systemctl("disable", unitName)

	if err := os.Remove(UnitPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot remove unit file: %w", err)
	}

	return systemctl("daemon-reload")
}

// Status returns a human-readable status string.
func Status(socketPath string) string {
	var lines []string

	// Socket check
	if _, err := os.Stat(socketPath); err == nil {
		lines = append(lines, "socket: active ("+socketPath+")")
	} else {
		lines = append(lines, "socket: inactive ("+socketPath+")")
	}

	// Systemd unit check
	if _, err := os.Stat(UnitPath()); err == nil {
		out, runErr := exec.Command("systemctl", "is-active", unitName).Output()
		state := strings.TrimSpace(string(out))
		if runErr != nil && state == "" {
			state = "unknown"
		}
		lines = append(lines, "systemd service: "+state)
	} else {
		lines = append(lines, "systemd service: not installed")
	}

	return strings.Join(lines, "\n")
}

func systemctl(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
