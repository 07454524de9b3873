package tui

import "github.com/charmbracelet/lipgloss"

// View renders the TUI interface
func (m Model) View() string {
	if !m.connected {
		return m.renderConnecting()
	}
	return m.renderFourPanelView()
}

// renderConnecting shows a spinner until the daemon socket answers
func (m Model) renderConnecting() string {
	msg := m.spin.View() + " Connecting to meshmon daemon..."
	if m.err != nil {
		msg += "\n\n" + stoppedStyle.Render(m.err.Error()) +
			"\n" + helpStyle.Render("is the daemon running? try: meshmon run")
	}
	if m.width == 0 {
		return msg
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderFourPanelView renders the four-panel grid layout
func (m Model) renderFourPanelView() string {
	// Calculate dimensions for 4-panel grid
	// 60% left, 40% right for columns
	// 60% top, 40% bottom for rows
	leftWidth := int(float64(m.width) * 0.6)
	rightWidth := m.width - leftWidth

	topHeight := int(float64(m.height) * 0.6)
	bottomHeight := m.height - topHeight

	// Render all four panels
	topLeftPanel := m.renderWatchdogPanel(leftWidth, topHeight)
	topRightPanel := m.renderEventsPanel(rightWidth, topHeight)
	bottomLeftPanel := m.renderBridgePanel(leftWidth, bottomHeight)
	bottomRightPanel := m.renderLogPanel(rightWidth, bottomHeight)

	// Join top row
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, topLeftPanel, topRightPanel)

	// Join bottom row
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top, bottomLeftPanel, bottomRightPanel)

	// Join rows vertically
	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow)
}
