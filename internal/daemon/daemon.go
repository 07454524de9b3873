// Package daemon assembles the watchdog, MQTT bridge, event journal,
// and control socket into the long-running meshmon process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"

	"github.com/LckyLuciano/meshmon/internal/bridge"
	"github.com/LckyLuciano/meshmon/internal/buildinfo"
	"github.com/LckyLuciano/meshmon/internal/config"
	"github.com/LckyLuciano/meshmon/internal/control"
	"github.com/LckyLuciano/meshmon/internal/docker"
	"github.com/LckyLuciano/meshmon/internal/log"
	"github.com/LckyLuciano/meshmon/internal/model"
	"github.com/LckyLuciano/meshmon/internal/storage"
	"github.com/LckyLuciano/meshmon/internal/watchdog"
)

// Daemon owns every long-lived component of the meshmon process.
type Daemon struct {
	cfg       *config.Config
	server    *control.Server
	client    *docker.Client
	watchdog  *watchdog.Watchdog
	bridge    *bridge.Bridge // nil unless enabled
	store     *storage.Store
	tail      *logTail
	startedAt time.Time
	logger    zerolog.Logger
}

// New wires up a daemon from the given configuration.
func New(cfg *config.Config) (*Daemon, error) {
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open event journal: %w", err)
	}

	client, err := docker.NewClient(docker.Config{
		Host:      cfg.Docker.Host,
		TLSVerify: cfg.Docker.TLSVerify,
		CertPath:  cfg.Docker.CertPath,
		Timeout:   cfg.Docker.Timeout.Std(),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		server:    control.NewServer(cfg.Socket),
		client:    client,
		store:     store,
		startedAt: time.Now(),
		logger:    log.WithComponent("daemon"),
	}

	runtime := docker.NewContainerRuntime(client, cfg.Watchdog.Container)
	d.watchdog = watchdog.New(watchdog.Config{
		Container:     cfg.Watchdog.Container,
		Marker:        cfg.Watchdog.Marker,
		CheckInterval: cfg.Watchdog.CheckInterval.Std(),
		RecoveryDelay: cfg.Watchdog.RecoveryDelay.Std(),
		OnEvent:       d.onWatchEvent,
	}, runtime)

	if cfg.Bridge.Enabled {
		d.bridge = bridge.New(cfg.Bridge)
	}

	d.tail = newLogTail(client, cfg.Watchdog.Container, d.server)
	d.registerHandlers()
	return d, nil
}

// Run starts all components and blocks until the context is cancelled
// or a component fails.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	go func() {
		if err := d.server.Start(ctx); err != nil {
			errCh <- fmt.Errorf("control socket: %w", err)
		}
	}()

	go func() {
		if err := d.watchdog.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("watchdog: %w", err)
		}
	}()

	if d.bridge != nil {
		go func() {
			if err := d.bridge.Run(ctx); err != nil {
				errCh <- fmt.Errorf("bridge: %w", err)
			}
		}()
	}

	d.notifyReady(ctx)
	d.logger.Info().Str("version", buildinfo.Version).Msg("meshmon daemon running")

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown releases every resource the daemon holds.
func (d *Daemon) Shutdown() {
	d.tail.stop()
	d.server.Shutdown()
	if err := d.store.Close(); err != nil {
		d.logger.Debug().Err(err).Msg("journal close failed")
	}
	if err := d.client.Close(); err != nil {
		d.logger.Debug().Err(err).Msg("docker client close failed")
	}
}

// notifyReady signals readiness to systemd and keeps the unit watchdog
// fed when one is configured. Outside systemd both calls are no-ops.
func (d *Daemon) notifyReady(ctx context.Context) {
	if ok, err := sd.SdNotify(false, sd.SdNotifyReady); err != nil {
		d.logger.Debug().Err(err).Msg("sd_notify failed")
	} else if ok {
		d.logger.Debug().Msg("notified systemd of readiness")
	}

	interval, err := sd.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sd.SdNotify(false, sd.SdNotifyWatchdog)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// onWatchEvent journals the event and pushes it to connected clients.
func (d *Daemon) onWatchEvent(ev model.WatchEvent) {
	if err := d.store.RecordEvent(&ev); err != nil {
		d.logger.Error().Err(err).Msg("failed to journal event")
	}
	if msg, err := control.NewEvent(control.EventWatch, ev); err == nil {
		d.server.Broadcast(msg)
	}
}

func (d *Daemon) registerHandlers() {
	d.server.Handle(control.MethodPing, d.handlePing)
	d.server.Handle(control.MethodStatus, d.handleStatus)
	d.server.Handle(control.MethodEvents, d.handleEvents)
	d.server.Handle(control.MethodLogsSubscribe, d.handleLogsSubscribe)
	d.server.Handle(control.MethodLogsUnsubscribe, d.handleLogsUnsubscribe)
}

func (d *Daemon) handlePing(_ context.Context, _ control.Message) (any, error) {
	return control.PingResponse{Pong: true}, nil
}

func (d *Daemon) handleStatus(ctx context.Context, _ control.Message) (any, error) {
	resp := control.StatusResponse{
		Version:   buildinfo.Version,
		StartedAt: d.startedAt,
		Watchdog:  d.watchdog.Status(),
	}

	// Container state is best effort, the daemon itself stays up even
	// when the engine is unreachable.
	if cont, err := d.client.FindContainer(ctx, d.cfg.Watchdog.Container); err == nil {
		resp.ContainerState = cont.State
	}

	if n, err := d.store.CountEvents(model.EventDetected); err == nil {
		resp.TotalDetections = n
	}
	if n, err := d.store.CountEvents(model.EventRestarted); err == nil {
		resp.TotalRestarts = n
	}

	if d.bridge != nil {
		st := d.bridge.Status()
		resp.Bridge = &st
	}
	return resp, nil
}

func (d *Daemon) handleEvents(_ context.Context, msg control.Message) (any, error) {
	req := control.EventsRequest{Limit: 50}
	if len(msg.Data) > 0 {
		if err := msg.UnmarshalData(&req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	events, err := d.store.RecentEvents(req.Limit)
	if err != nil {
		return nil, err
	}
	return control.EventsResponse{Events: events}, nil
}

func (d *Daemon) handleLogsSubscribe(_ context.Context, _ control.Message) (any, error) {
	d.tail.subscribe()
	return map[string]bool{"ok": true}, nil
}

func (d *Daemon) handleLogsUnsubscribe(_ context.Context, _ control.Message) (any, error) {
	d.tail.unsubscribe()
	return map[string]bool{"ok": true}, nil
}
