package tui

import (
	"testing"
	"time"

	"github.com/LckyLuciano/meshmon/internal/model"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long container name", 10, "a very ..."},
		{"abc", 3, "abc"},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, "never"},
		{"seconds", now.Add(-42 * time.Second), "42s ago"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3*time.Hour - 7*time.Minute), "3h7m ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timeAgo(tc.t); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScrollClamping(t *testing.T) {
	m := Model{height: 40}

	// No logs means nothing to scroll
	if got := m.calculateMaxScroll(); got != 0 {
		t.Errorf("max scroll with no logs: got %d, want 0", got)
	}

	for i := 0; i < 100; i++ {
		m.logs = append(m.logs, model.LogEntry{Message: "line"})
	}

	visible := m.calculateVisibleLogLines()
	if visible < 3 {
		t.Fatalf("visible lines: got %d", visible)
	}
	if got, want := m.calculateMaxScroll(), 100-visible; got != want {
		t.Errorf("max scroll: got %d, want %d", got, want)
	}
}
