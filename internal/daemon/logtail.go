package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LckyLuciano/meshmon/internal/control"
	"github.com/LckyLuciano/meshmon/internal/docker"
	"github.com/LckyLuciano/meshmon/internal/log"
)

// logTail follows the watched container's output while at least one
// control client is subscribed. The stream starts with the first
// subscriber and stops with the last, so an idle daemon costs nothing.
type logTail struct {
	client    *docker.Client
	container string
	server    *control.Server
	logger    zerolog.Logger

	mu     sync.Mutex
	subs   int
	cancel context.CancelFunc
}

func newLogTail(client *docker.Client, container string, server *control.Server) *logTail {
	return &logTail{
		client:    client,
		container: container,
		server:    server,
		logger:    log.WithComponent("logtail"),
	}
}

func (t *logTail) subscribe() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subs++
	if t.subs > 1 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.run(ctx)
}

func (t *logTail) unsubscribe() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.subs == 0 {
		return
	}
	t.subs--
	if t.subs == 0 && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *logTail) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.subs = 0
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// run keeps a follow stream attached until cancelled. The stream drops
// when the container stops or the engine hiccups, so reattach after a
// short pause.
func (t *logTail) run(ctx context.Context) {
	for {
		if err := t.follow(ctx); err != nil && ctx.Err() == nil {
			t.logger.Debug().Err(err).Msg("log stream interrupted, reattaching")
		}

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

func (t *logTail) follow(ctx context.Context) error {
	cont, err := t.client.FindContainer(ctx, t.container)
	if err != nil {
		return err
	}

	// Clients can vanish without unsubscribing; drop the tail once
	// nobody is connected anymore.
	orphanCheck := time.NewTicker(10 * time.Second)
	defer orphanCheck.Stop()

	lines, errs := t.client.StreamLogs(ctx, cont.ID, 50)
	for {
		select {
		case entry, ok := <-lines:
			if !ok {
				return nil
			}
			if msg, err := control.NewEvent(control.EventLogLine, entry); err == nil {
				t.server.Broadcast(msg)
			}
		case err, ok := <-errs:
			if ok && err != nil {
				return err
			}
			errs = nil
		case <-orphanCheck.C:
			if t.server.ClientCount() == 0 {
				t.logger.Debug().Msg("no clients left, stopping log tail")
				t.stop()
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
