// Package watchdog implements the container watch loop: poll the
// trailing log window for a fixed error marker, restart the container
// on a match, pause, repeat.
package watchdog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LckyLuciano/meshmon/internal/log"
	"github.com/LckyLuciano/meshmon/internal/model"
)

// State names the loop's two states.
type State string

const (
	// StateIdle covers checking and the poll delay between cycles.
	StateIdle State = "idle"
	// StateRestarting covers the restart and the recovery pause after it.
	StateRestarting State = "restarting"
)

// Runtime is the container collaborator the loop drives.
type Runtime interface {
	// FetchRecentLogs returns the raw combined log text of the trailing
	// window.
	FetchRecentLogs(ctx context.Context, window time.Duration) (string, error)
	// Restart restarts the watched container.
	Restart(ctx context.Context) error
}

// Config parameterises a Watchdog.
type Config struct {
	Container     string
	Marker        string        // case-sensitive substring
	CheckInterval time.Duration // log window size and poll cadence
	RecoveryDelay time.Duration // pause after a restart

	// Clock abstracts time. Defaults to SystemClock.
	Clock Clock
	// OnEvent, when set, receives every emitted event synchronously
	// from the loop goroutine.
	OnEvent func(model.WatchEvent)
}

// Watchdog runs the watch loop against a Runtime.
type Watchdog struct {
	cfg     Config
	runtime Runtime
	clock   Clock
	logger  zerolog.Logger

	mu            sync.RWMutex
	state         State
	lastCheck     time.Time
	lastDetection time.Time
	restarts      int64
}

// New creates a watchdog for the given runtime.
func New(cfg Config, rt Runtime) *Watchdog {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &Watchdog{
		cfg:     cfg,
		runtime: rt,
		clock:   clock,
		logger:  log.WithComponent("watchdog"),
		state:   StateIdle,
	}
}

// Run executes detection cycles until ctx is cancelled. Collaborator
// failures never stop the loop; cancellation is the only way out.
func (w *Watchdog) Run(ctx context.Context) error {
	w.logger.Info().
		Str("container", w.cfg.Container).
		Str("marker", w.cfg.Marker).
		Dur("check_interval", w.cfg.CheckInterval).
		Dur("recovery_delay", w.cfg.RecoveryDelay).
		Msg("watchdog started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, matched := w.check(ctx)
		if matched {
			w.setState(StateRestarting)
			w.restart(ctx, line)
			if err := w.clock.Sleep(ctx, w.cfg.RecoveryDelay); err != nil {
				return err
			}
			w.setState(StateIdle)
		}

		// Poll delay. The cadence stays coupled to the window size so a
		// detection cycle never inspects more than one interval of logs.
		if err := w.clock.Sleep(ctx, w.cfg.CheckInterval); err != nil {
			return err
		}
	}
}

// CheckOnce runs a single detection pass without restarting or
// sleeping. Unlike the loop it surfaces the query error, so one-shot
// callers can show it.
func (w *Watchdog) CheckOnce(ctx context.Context) (string, bool, error) {
	text, err := w.runtime.FetchRecentLogs(ctx, w.cfg.CheckInterval)
	if err != nil {
		return "", false, err
	}
	if !strings.Contains(text, w.cfg.Marker) {
		return "", false, nil
	}
	return matchLine(text, w.cfg.Marker), true, nil
}

// Status returns a snapshot of the loop.
func (w *Watchdog) Status() model.WatchStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return model.WatchStatus{
		Container:     w.cfg.Container,
		Marker:        w.cfg.Marker,
		State:         string(w.state),
		CheckInterval: w.cfg.CheckInterval.String(),
		RecoveryDelay: w.cfg.RecoveryDelay.String(),
		LastCheck:     w.lastCheck,
		LastDetection: w.lastDetection,
		Restarts:      w.restarts,
	}
}

// check fetches the trailing window and scans it for the marker. A
// failed query counts as "no match": the loop never dies because the
// log source hiccupped.
func (w *Watchdog) check(ctx context.Context) (string, bool) {
	line, matched, err := w.CheckOnce(ctx)

	w.mu.Lock()
	w.lastCheck = w.clock.Now()
	w.mu.Unlock()

	if err != nil {
		w.logger.Debug().Err(err).Str("container", w.cfg.Container).
			Msg("log query failed, treating as no match")
		return "", false
	}
	return line, matched
}

// restart emits the diagnostic, issues exactly one restart command and
// records the outcome. A restart error is logged and journaled but the
// loop proceeds into the recovery pause regardless.
func (w *Watchdog) restart(ctx context.Context, line string) {
	now := w.clock.Now()
	w.mu.Lock()
	w.lastDetection = now
	w.mu.Unlock()

	w.logger.Warn().
		Str("container", w.cfg.Container).
		Str("marker", w.cfg.Marker).
		Str("line", line).
		Msg("error marker detected, restarting container")

	w.emit(model.WatchEvent{
		Container: w.cfg.Container,
		Kind:      model.EventDetected,
		Line:      line,
		At:        now,
	})

	if err := w.runtime.Restart(ctx); err != nil {
		w.logger.Error().Err(err).Str("container", w.cfg.Container).
			Msg("restart command failed")
		w.emit(model.WatchEvent{
			Container: w.cfg.Container,
			Kind:      model.EventRestartFailed,
			Error:     err.Error(),
			At:        w.clock.Now(),
		})
		return
	}

	w.mu.Lock()
	w.restarts++
	w.mu.Unlock()

	w.logger.Info().Str("container", w.cfg.Container).Msg("container restarted")
	w.emit(model.WatchEvent{
		Container: w.cfg.Container,
		Kind:      model.EventRestarted,
		At:        w.clock.Now(),
	})
}

func (w *Watchdog) emit(ev model.WatchEvent) {
	if w.cfg.OnEvent != nil {
		w.cfg.OnEvent(ev)
	}
}

func (w *Watchdog) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// matchLine returns the full log line containing the first occurrence
// of marker, or "" when the marker is absent.
func matchLine(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := strings.IndexByte(text[idx:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += idx
	}
	return strings.TrimSpace(text[start:end])
}
