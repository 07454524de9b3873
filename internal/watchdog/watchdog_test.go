package watchdog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LckyLuciano/meshmon/internal/model"
)

const (
	testContainer = "tc2-bbs-mesh"
	testMarker    = "Broken pipe"
	testInterval  = time.Minute
	testRecovery  = 2 * time.Minute
)

// fakeRuntime serves scripted log windows and counts restarts.
type fakeRuntime struct {
	logs       []string
	fetchErrs  []error
	fetches    int
	windows    []time.Duration
	restarts   int
	restartErr error
}

func (f *fakeRuntime) FetchRecentLogs(_ context.Context, window time.Duration) (string, error) {
	i := f.fetches
	f.fetches++
	f.windows = append(f.windows, window)

	var err error
	if i < len(f.fetchErrs) {
		err = f.fetchErrs[i]
	}
	var text string
	if i < len(f.logs) {
		text = f.logs[i]
	}
	return text, err
}

func (f *fakeRuntime) Restart(context.Context) error {
	f.restarts++
	return f.restartErr
}

// fakeClock advances virtual time on every sleep and cancels the run
// context once the scripted number of sleeps has happened.
type fakeClock struct {
	now         time.Time
	sleeps      []time.Duration
	cancelAfter int
	cancel      context.CancelFunc
}

func newFakeClock(cancelAfter int, cancel context.CancelFunc) *fakeClock {
	return &fakeClock{
		now:         time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		cancelAfter: cancelAfter,
		cancel:      cancel,
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if len(c.sleeps) >= c.cancelAfter {
		c.cancel()
		return context.Canceled
	}
	return ctx.Err()
}

// runCycles runs the loop until the clock has slept `sleeps` times.
func runCycles(t *testing.T, rt *fakeRuntime, sleeps int, events *[]model.WatchEvent) (*fakeClock, *Watchdog) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock(sleeps, cancel)
	cfg := Config{
		Container:     testContainer,
		Marker:        testMarker,
		CheckInterval: testInterval,
		RecoveryDelay: testRecovery,
		Clock:         clock,
	}
	if events != nil {
		cfg.OnEvent = func(ev model.WatchEvent) { *events = append(*events, ev) }
	}

	w := New(cfg, rt)
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run should end with context.Canceled, got %v", err)
	}
	return clock, w
}

func TestNoMatchNoRestart(t *testing.T) {
	rt := &fakeRuntime{logs: []string{"connection reset by peer\nretrying in 5s"}}

	clock, _ := runCycles(t, rt, 1, nil)

	if rt.restarts != 0 {
		t.Errorf("restarts: got %d, want 0", rt.restarts)
	}
	if rt.fetches != 1 {
		t.Errorf("fetches: got %d, want 1", rt.fetches)
	}
	// only the poll delay, no recovery pause
	if len(clock.sleeps) != 1 || clock.sleeps[0] != testInterval {
		t.Errorf("sleeps: got %v, want [%s]", clock.sleeps, testInterval)
	}
}

func TestMarkerTriggersExactlyOneRestart(t *testing.T) {
	rt := &fakeRuntime{logs: []string{"starting up\nfatal: Broken pipe detected\nreconnecting"}}
	var events []model.WatchEvent

	clock, w := runCycles(t, rt, 2, &events)

	if rt.restarts != 1 {
		t.Fatalf("restarts: got %d, want exactly 1", rt.restarts)
	}
	// recovery pause first, then the poll delay
	want := []time.Duration{testRecovery, testInterval}
	if len(clock.sleeps) != 2 || clock.sleeps[0] != want[0] || clock.sleeps[1] != want[1] {
		t.Errorf("sleeps: got %v, want %v", clock.sleeps, want)
	}

	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2: %+v", len(events), events)
	}
	if events[0].Kind != model.EventDetected || events[1].Kind != model.EventRestarted {
		t.Errorf("event kinds: got %s, %s", events[0].Kind, events[1].Kind)
	}
	if events[0].Line != "fatal: Broken pipe detected" {
		t.Errorf("matched line: got %q", events[0].Line)
	}
	if events[0].Container != testContainer {
		t.Errorf("event container: got %q", events[0].Container)
	}

	if got := w.Status().Restarts; got != 1 {
		t.Errorf("status restarts: got %d", got)
	}
}

func TestMatchIsCaseSensitive(t *testing.T) {
	rt := &fakeRuntime{logs: []string{"broken pipe in lowercase"}}

	runCycles(t, rt, 1, nil)

	if rt.restarts != 0 {
		t.Errorf("restarts: got %d, want 0 for case mismatch", rt.restarts)
	}
}

func TestWindowAlwaysEqualsCheckInterval(t *testing.T) {
	// A detection cycle inserts a recovery pause, so wall clock between
	// queries varies; the window passed to the runtime must not.
	rt := &fakeRuntime{logs: []string{
		"fatal: Broken pipe detected",
		"all quiet",
		"fatal: Broken pipe detected",
		"all quiet",
	}}

	// cycle1: recovery+poll, cycle2: poll, cycle3: recovery+poll, cycle4: poll
	runCycles(t, rt, 6, nil)

	if rt.fetches != 4 {
		t.Fatalf("fetches: got %d, want 4", rt.fetches)
	}
	for i, window := range rt.windows {
		if window != testInterval {
			t.Errorf("window[%d]: got %s, want %s", i, window, testInterval)
		}
	}
}

func TestQueryFailureIsTreatedAsNoMatch(t *testing.T) {
	rt := &fakeRuntime{
		logs:      []string{"", "all quiet"},
		fetchErrs: []error{errors.New("docker daemon unavailable")},
	}
	var events []model.WatchEvent

	clock, _ := runCycles(t, rt, 2, &events)

	if rt.restarts != 0 {
		t.Errorf("restarts: got %d, want 0", rt.restarts)
	}
	if rt.fetches != 2 {
		t.Errorf("loop should survive the failed query, fetches: got %d, want 2", rt.fetches)
	}
	if len(events) != 0 {
		t.Errorf("events: got %+v, want none", events)
	}
	// two plain poll delays, no recovery pause
	if len(clock.sleeps) != 2 || clock.sleeps[0] != testInterval || clock.sleeps[1] != testInterval {
		t.Errorf("sleeps: got %v", clock.sleeps)
	}
}

func TestRestartFailureStillPausesAndContinues(t *testing.T) {
	rt := &fakeRuntime{
		logs:       []string{"fatal: Broken pipe detected", "all quiet"},
		restartErr: errors.New("engine timeout"),
	}
	var events []model.WatchEvent

	clock, w := runCycles(t, rt, 3, &events)

	if rt.fetches != 2 {
		t.Errorf("loop should continue after the failed restart, fetches: got %d", rt.fetches)
	}
	// the recovery pause is taken even when the restart command failed
	want := []time.Duration{testRecovery, testInterval, testInterval}
	if len(clock.sleeps) != 3 {
		t.Fatalf("sleeps: got %v, want %v", clock.sleeps, want)
	}
	for i := range want {
		if clock.sleeps[i] != want[i] {
			t.Errorf("sleeps[%d]: got %s, want %s", i, clock.sleeps[i], want[i])
		}
	}

	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}
	if events[1].Kind != model.EventRestartFailed {
		t.Errorf("second event: got %s, want restart-failed", events[1].Kind)
	}
	if events[1].Error == "" {
		t.Error("restart-failed event should carry the error text")
	}
	if got := w.Status().Restarts; got != 0 {
		t.Errorf("failed restart must not count, got %d", got)
	}
}

func TestStatusSnapshot(t *testing.T) {
	rt := &fakeRuntime{logs: []string{"all quiet"}}

	_, w := runCycles(t, rt, 1, nil)

	st := w.Status()
	if st.Container != testContainer || st.Marker != testMarker {
		t.Errorf("identity: got %q / %q", st.Container, st.Marker)
	}
	if st.State != "idle" {
		t.Errorf("state: got %q", st.State)
	}
	if st.CheckInterval != "1m0s" || st.RecoveryDelay != "2m0s" {
		t.Errorf("intervals: got %q / %q", st.CheckInterval, st.RecoveryDelay)
	}
	if st.LastCheck.IsZero() {
		t.Error("last check should be recorded")
	}
	if !st.LastDetection.IsZero() {
		t.Error("no detection happened")
	}
}

func TestCheckOnceSurfacesQueryError(t *testing.T) {
	rt := &fakeRuntime{fetchErrs: []error{errors.New("no such container")}}
	w := New(Config{
		Container:     testContainer,
		Marker:        testMarker,
		CheckInterval: testInterval,
	}, rt)

	if _, _, err := w.CheckOnce(context.Background()); err == nil {
		t.Fatal("expected the query error to surface")
	}
	if rt.restarts != 0 {
		t.Errorf("CheckOnce must never restart, got %d", rt.restarts)
	}
}

func TestCheckOnceReportsMatch(t *testing.T) {
	rt := &fakeRuntime{logs: []string{"a\nfatal: Broken pipe detected\nb"}}
	w := New(Config{
		Container:     testContainer,
		Marker:        testMarker,
		CheckInterval: testInterval,
	}, rt)

	line, matched, err := w.CheckOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected a match")
	}
	if line != "fatal: Broken pipe detected" {
		t.Errorf("line: got %q", line)
	}
	if rt.windows[0] != testInterval {
		t.Errorf("window: got %s", rt.windows[0])
	}
}

func TestMatchLine(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		marker string
		want   string
	}{
		{"middle line", "one\ntwo Broken pipe three\nfour", "Broken pipe", "two Broken pipe three"},
		{"first line", "Broken pipe at start\nrest", "Broken pipe", "Broken pipe at start"},
		{"last line no newline", "head\ntail: Broken pipe", "Broken pipe", "tail: Broken pipe"},
		{"absent", "nothing here", "Broken pipe", ""},
		{"whole text single line", "Broken pipe", "Broken pipe", "Broken pipe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchLine(tc.text, tc.marker); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
