package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LckyLuciano/meshmon/internal/control"
	"github.com/LckyLuciano/meshmon/internal/model"
)

// Model represents the TUI application state
type Model struct {
	socketPath string
	client     *control.Client
	connected  bool

	status *control.StatusResponse
	events []model.WatchEvent

	logs           []model.LogEntry
	logsScroll     int
	logsAutoScroll bool

	// pushes carries daemon-pushed envelopes from the client callback
	// into the update loop.
	pushes    chan control.Message
	pushArmed bool

	spin    spinner.Model
	err     error
	message string
	width   int
	height  int
}

// Message types for the Bubble Tea update loop
type tickMsg time.Time

type connectedMsg struct {
	client *control.Client
	err    error
}

type statusMsg struct {
	status *control.StatusResponse
	err    error
}

type eventsMsg struct {
	events []model.WatchEvent
	err    error
}

// pushMsg carries one daemon-pushed event envelope.
type pushMsg control.Message

// NewModel creates a new TUI model
func NewModel(socketPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return Model{
		socketPath:     socketPath,
		spin:           sp,
		logsAutoScroll: true,
		pushes:         make(chan control.Message, 64),
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		connectCmd(m.socketPath),
		tea.SetWindowTitle("meshmon"),
	)
}
