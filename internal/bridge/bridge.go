// Package bridge republishes Meshtastic MQTT traffic from a local
// broker onto a remote broker under a different topic prefix.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/LckyLuciano/meshmon/internal/config"
	"github.com/LckyLuciano/meshmon/internal/log"
	"github.com/LckyLuciano/meshmon/internal/model"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Bridge owns one client per broker and forwards everything that
// arrives under the local subscription.
type Bridge struct {
	cfg         config.Bridge
	localPrefix string

	local  mqtt.Client
	remote mqtt.Client

	forwarded atomic.Uint64
	failed    atomic.Uint64

	logger zerolog.Logger
}

// New creates a bridge from the given configuration.
func New(cfg config.Bridge) *Bridge {
	return &Bridge{
		cfg:         cfg,
		localPrefix: strings.TrimSuffix(cfg.LocalTopic, "#"),
		logger:      log.WithComponent("bridge"),
	}
}

// Run connects both brokers and forwards messages until the context is
// cancelled. Lost connections reconnect automatically, and the local
// subscription is re-established on every reconnect.
func (b *Bridge) Run(ctx context.Context) error {
	remoteOpts := b.clientOptions(b.cfg.Remote)
	remoteOpts.SetOnConnectHandler(func(mqtt.Client) {
		b.logger.Info().Str("broker", b.cfg.Remote.URL).Msg("connected to remote broker")
	})

	localOpts := b.clientOptions(b.cfg.Local)
	localOpts.SetOnConnectHandler(func(c mqtt.Client) {
		b.logger.Info().Str("broker", b.cfg.Local.URL).Msg("connected to local broker")
		token := c.Subscribe(b.cfg.LocalTopic, 0, b.forward)
		if token.WaitTimeout(connectTimeout) && token.Error() != nil {
			b.logger.Error().Err(token.Error()).
				Str("topic", b.cfg.LocalTopic).
				Msg("subscribe failed")
		}
	})

	b.remote = mqtt.NewClient(remoteOpts)
	b.local = mqtt.NewClient(localOpts)

	// With connect retry enabled the token only errors on permanent
	// failures such as an unparsable broker URL.
	if token := b.remote.Connect(); token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return fmt.Errorf("connect remote broker: %w", token.Error())
	}
	if token := b.local.Connect(); token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return fmt.Errorf("connect local broker: %w", token.Error())
	}

	<-ctx.Done()

	b.local.Disconnect(250)
	b.remote.Disconnect(250)
	b.logger.Info().
		Uint64("forwarded", b.forwarded.Load()).
		Uint64("failed", b.failed.Load()).
		Msg("bridge stopped")
	return nil
}

// Status reports connection state and forwarding counters.
func (b *Bridge) Status() model.BridgeStatus {
	st := model.BridgeStatus{
		LocalTopic:   b.cfg.LocalTopic,
		RemotePrefix: b.cfg.RemotePrefix,
		Forwarded:    b.forwarded.Load(),
		Failed:       b.failed.Load(),
	}
	if b.local != nil {
		st.LocalConnected = b.local.IsConnected()
	}
	if b.remote != nil {
		st.RemoteConnected = b.remote.IsConnected()
	}
	return st
}

func (b *Bridge) clientOptions(broker config.Broker) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(broker.URL).
		SetClientID(broker.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(60 * time.Second)

	if broker.Username != "" {
		opts.SetUsername(broker.Username)
		opts.SetPassword(broker.Password)
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.logger.Warn().Err(err).Str("broker", broker.URL).Msg("broker connection lost, reconnecting")
	})
	return opts
}

// forward republishes one local message on the remote broker.
func (b *Bridge) forward(_ mqtt.Client, msg mqtt.Message) {
	topic := b.remoteTopic(msg.Topic())

	token := b.remote.Publish(topic, 0, false, msg.Payload())
	if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
		b.failed.Add(1)
		b.logger.Error().Err(token.Error()).Str("topic", topic).Msg("failed to forward message")
		return
	}

	b.forwarded.Add(1)
	b.logger.Info().Str("topic", topic).Msg("message forwarded")
}

// remoteTopic maps a local topic onto the remote prefix.
func (b *Bridge) remoteTopic(localTopic string) string {
	return b.cfg.RemotePrefix + strings.TrimPrefix(localTopic, b.localPrefix)
}
