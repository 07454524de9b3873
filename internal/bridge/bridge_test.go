package bridge

import (
	"testing"

	"github.com/LckyLuciano/meshmon/internal/config"
)

func testBridge() *Bridge {
	return New(config.Bridge{
		LocalTopic:   "msh/US/2/e/LongFast/#",
		RemotePrefix: "egr/home/2/e/LongFast/",
	})
}

func TestRemoteTopic(t *testing.T) {
	b := testBridge()

	cases := []struct {
		name  string
		local string
		want  string
	}{
		{
			"node suffix",
			"msh/US/2/e/LongFast/!abcd1234",
			"egr/home/2/e/LongFast/!abcd1234",
		},
		{
			"nested suffix",
			"msh/US/2/e/LongFast/!abcd1234/position",
			"egr/home/2/e/LongFast/!abcd1234/position",
		},
		{
			"bare prefix",
			"msh/US/2/e/LongFast/",
			"egr/home/2/e/LongFast/",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.remoteTopic(tc.local); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStatusBeforeRun(t *testing.T) {
	b := testBridge()

	st := b.Status()
	if st.LocalConnected || st.RemoteConnected {
		t.Error("no client exists yet, nothing can be connected")
	}
	if st.LocalTopic != "msh/US/2/e/LongFast/#" {
		t.Errorf("local topic: got %q", st.LocalTopic)
	}
	if st.Forwarded != 0 || st.Failed != 0 {
		t.Errorf("counters should start at zero: %d / %d", st.Forwarded, st.Failed)
	}
}

func TestCountersTrackForwarding(t *testing.T) {
	b := testBridge()

	b.forwarded.Add(3)
	b.failed.Add(1)

	st := b.Status()
	if st.Forwarded != 3 {
		t.Errorf("forwarded: got %d, want 3", st.Forwarded)
	}
	if st.Failed != 1 {
		t.Errorf("failed: got %d, want 1", st.Failed)
	}
}
