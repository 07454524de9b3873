package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/LckyLuciano/meshmon/internal/model"
)

// renderWatchdogPanel renders the watchdog status panel
func (m Model) renderWatchdogPanel(width, height int) string {
	content := m.renderWatchdogPanelContent()
	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(content)
}

// renderWatchdogPanelContent renders the content of the watchdog panel
func (m Model) renderWatchdogPanelContent() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🐕 Watchdog") + "\n\n")

	if m.status == nil {
		s.WriteString("Loading...\n")
		return s.String()
	}

	wd := m.status.Watchdog

	containerState := m.status.ContainerState
	if containerState == "" {
		containerState = "unknown"
	}
	var stateStr string
	if containerState == "running" {
		stateStr = runningStyle.Render(containerState)
	} else {
		stateStr = stoppedStyle.Render(containerState)
	}

	var loopStr string
	if wd.State == "restarting" {
		loopStr = alertStyle.Render("restarting")
	} else {
		loopStr = runningStyle.Render(wd.State)
	}

	row := func(label, value string) {
		s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-11s", label)), value))
	}

	row("Container:", valueStyle.Render(wd.Container)+" ("+stateStr+")")
	row("Marker:", valueStyle.Render(fmt.Sprintf("%q", wd.Marker)))
	row("State:", loopStr)
	row("Interval:", valueStyle.Render(wd.CheckInterval)+labelStyle.Render("   recovery ")+valueStyle.Render(wd.RecoveryDelay))
	row("Last check:", valueStyle.Render(timeAgo(wd.LastCheck)))
	row("Last hit:", valueStyle.Render(timeAgo(wd.LastDetection)))
	row("Restarts:", valueStyle.Render(fmt.Sprintf("%d", wd.Restarts)))

	s.WriteString("\n" + labelStyle.Render(fmt.Sprintf("meshmon %s · up %s",
		m.status.Version, uptime(m.status.StartedAt))))

	if m.message != "" {
		s.WriteString("\n" + m.message)
	}

	help := "\n[R] refresh  [pgup/pgdn] scroll logs  [a] auto  [c] clear  [q] quit"
	s.WriteString(helpStyle.Render(help))

	return s.String()
}

// renderEventsPanel renders the recent watchdog events panel
func (m Model) renderEventsPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("⚡ Events") + "\n\n")

	if len(m.events) == 0 {
		s.WriteString("No events recorded")
	} else {
		maxEvents := height - 8
		if maxEvents < 1 {
			maxEvents = 1
		}
		maxLineWidth := width - 8

		for i, ev := range m.events {
			if i >= maxEvents {
				break
			}

			line := ev.At.Format("Jan 02 15:04:05") + " " + styleEventKind(ev.Kind)
			if ev.Line != "" {
				line += " " + truncate(ev.Line, maxLineWidth-31)
			}
			if ev.Error != "" {
				line += " " + truncate(ev.Error, maxLineWidth-31)
			}
			s.WriteString(line + "\n")
		}
	}

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}

// renderBridgePanel renders the MQTT bridge panel
func (m Model) renderBridgePanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📡 MQTT Bridge") + "\n\n")

	if m.status == nil || m.status.Bridge == nil {
		s.WriteString(labelStyle.Render("Bridge disabled"))
	} else {
		br := m.status.Bridge

		conn := func(ok bool) string {
			if ok {
				return runningStyle.Render("connected")
			}
			return stoppedStyle.Render("disconnected")
		}

		s.WriteString(fmt.Sprintf("%s %s  %s\n",
			labelStyle.Render("Local: "), conn(br.LocalConnected), valueStyle.Render(br.LocalTopic)))
		s.WriteString(fmt.Sprintf("%s %s  %s\n",
			labelStyle.Render("Remote:"), conn(br.RemoteConnected), valueStyle.Render(br.RemotePrefix)))
		s.WriteString(fmt.Sprintf("\n%s %d   %s %d",
			labelStyle.Render("Forwarded:"), br.Forwarded,
			labelStyle.Render("Failed:"), br.Failed))
	}

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}

// renderLogPanel renders the container log tail panel
func (m Model) renderLogPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📋 Log Tail") + "\n\n")

	marker := ""
	if m.status != nil {
		s.WriteString(fmt.Sprintf("Container: %s", m.status.Watchdog.Container))
		marker = m.status.Watchdog.Marker

		// Show auto-scroll indicator
		if m.logsAutoScroll {
			s.WriteString(" [Auto-scroll: ON]")
		}
		s.WriteString("\n\n")
	}

	if len(m.logs) == 0 {
		s.WriteString("No logs yet...")
	} else {
		// Calculate visible lines: reserve space for title, container name, and help text
		visibleLines := height - 8
		if visibleLines < 1 {
			visibleLines = 1
		}

		// Calculate the window of logs to display
		totalLogs := len(m.logs)
		start := m.logsScroll
		end := start + visibleLines

		// Clamp the range
		if start < 0 {
			start = 0
		}
		if end > totalLogs {
			end = totalLogs
		}
		if start >= totalLogs {
			start = totalLogs - visibleLines
			if start < 0 {
				start = 0
			}
		}

		// Render only the visible window of logs
		maxLineWidth := width - 8
		for i := start; i < end && i < totalLogs; i++ {
			s.WriteString(styleLogEntry(m.logs[i], marker, maxLineWidth) + "\n")
		}

		// Show scroll indicator if there are more logs
		if totalLogs > visibleLines {
			s.WriteString(fmt.Sprintf("\n[%d/%d] PgUp/PgDown:scroll | a:toggle auto | c:clear",
				start+1, totalLogs))
		}
	}

	return panelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(s.String())
}

// styleEventKind colors an event kind for the events panel
func styleEventKind(kind model.EventKind) string {
	switch kind {
	case model.EventDetected:
		return alertStyle.Render(fmt.Sprintf("%-14s", string(kind)))
	case model.EventRestarted:
		return runningStyle.Render(fmt.Sprintf("%-14s", string(kind)))
	case model.EventRestartFailed:
		return stoppedStyle.Render(fmt.Sprintf("%-14s", string(kind)))
	default:
		return fmt.Sprintf("%-14s", string(kind))
	}
}

// uptime formats the elapsed time since start, coarsely
func uptime(start time.Time) string {
	if start.IsZero() {
		return "unknown"
	}
	d := time.Since(start).Round(time.Second)
	if d < time.Minute {
		return d.String()
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
