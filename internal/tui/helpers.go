package tui

import (
	"fmt"
	"time"
)

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// timeAgo renders how long ago a timestamp was, or "never"
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t).Round(time.Second)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%dm ago", int(d.Hours()), int(d.Minutes())%60)
	}
}

// calculateVisibleLogLines calculates how many log lines can fit in the panel
func (m Model) calculateVisibleLogLines() int {
	// Bottom panel is 40% of height
	bottomHeight := m.height - int(float64(m.height)*0.6)
	// Reserve space for borders, title, container name, help text, and spacing
	visibleLines := bottomHeight - 12
	if visibleLines < 3 {
		visibleLines = 3
	}
	return visibleLines
}

// calculateMaxScroll calculates the maximum scroll position
func (m Model) calculateMaxScroll() int {
	visibleLines := m.calculateVisibleLogLines()
	maxScroll := len(m.logs) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	return maxScroll
}
