package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LckyLuciano/meshmon/internal/model"
)

var (
	// Log level patterns
	errorPattern   = regexp.MustCompile(`(?i)\b(error|err|fatal|fail|failed|exception|panic)\b`)
	warningPattern = regexp.MustCompile(`(?i)\b(warn|warning|caution)\b`)
	debugPattern   = regexp.MustCompile(`(?i)\b(debug|trace)\b`)

	// Styles for log levels
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim gray

	errorLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")) // Red
	warningLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")) // Orange
	debugLogStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")) // Dim
	defaultLogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4")) // Normal

	// The watchdog marker is rendered inverted so a hit is unmissable
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#F38BA8"))

	// Stream indicators
	stdoutIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Render("○") // Green circle
	stderrIndicator = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Render("●") // Red circle
)

// styleLogEntry renders one log line with timestamp, stream indicator,
// and level coloring. Occurrences of the watchdog marker stand out.
func styleLogEntry(entry model.LogEntry, marker string, maxWidth int) string {
	// Format timestamp (dimmed)
	timestamp := timestampStyle.Render(entry.Timestamp.Format("15:04:05"))

	// Stream indicator
	streamIndicator := stdoutIndicator
	if entry.Stream == "stderr" {
		streamIndicator = stderrIndicator
	}

	// Truncate before styling so ANSI sequences stay intact
	message := entry.Message
	budget := maxWidth - 11 // timestamp, indicator, spacing
	if budget > 3 && len(message) > budget {
		message = message[:budget-3] + "..."
	}

	// Detect log level and apply appropriate style
	var style lipgloss.Style
	switch {
	case errorPattern.MatchString(message):
		style = errorLogStyle
	case warningPattern.MatchString(message):
		style = warningLogStyle
	case debugPattern.MatchString(message):
		style = debugLogStyle
	default:
		style = defaultLogStyle
	}

	styled := style.Render(message)
	if marker != "" && strings.Contains(message, marker) {
		styled = highlightMarker(message, marker, style)
	}

	return timestamp + " " + streamIndicator + " " + styled
}

// highlightMarker re-renders the message with every marker occurrence inverted
func highlightMarker(message, marker string, base lipgloss.Style) string {
	parts := strings.Split(message, marker)
	for i := range parts {
		parts[i] = base.Render(parts[i])
	}
	return strings.Join(parts, markerStyle.Render(marker))
}
