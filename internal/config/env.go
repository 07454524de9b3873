package config

import (
	"os"
	"strconv"

	"github.com/LckyLuciano/meshmon/internal/log"
)

// applyEnv overlays MESHMON_* environment variables onto cfg. Unset or
// empty variables leave the existing value untouched; unparsable values
// are logged and ignored.
func applyEnv(cfg *Config) {
	cfg.LogLevel = envString("MESHMON_LOG_LEVEL", cfg.LogLevel)
	cfg.Socket = envString("MESHMON_SOCKET", cfg.Socket)
	cfg.DataDir = envString("MESHMON_DATA_DIR", cfg.DataDir)

	cfg.Docker.Host = envString("MESHMON_DOCKER_HOST", cfg.Docker.Host)

	cfg.Watchdog.Container = envString("MESHMON_CONTAINER_NAME", cfg.Watchdog.Container)
	cfg.Watchdog.Marker = envString("MESHMON_ERROR_MSG", cfg.Watchdog.Marker)
	cfg.Watchdog.CheckInterval = envDuration("MESHMON_CHECK_INTERVAL", cfg.Watchdog.CheckInterval)
	cfg.Watchdog.RecoveryDelay = envDuration("MESHMON_RECOVERY_DELAY", cfg.Watchdog.RecoveryDelay)

	cfg.Bridge.Enabled = envBool("MESHMON_BRIDGE_ENABLED", cfg.Bridge.Enabled)
	cfg.Bridge.LocalTopic = envString("MESHMON_LOCAL_TOPIC", cfg.Bridge.LocalTopic)
	cfg.Bridge.RemotePrefix = envString("MESHMON_REMOTE_PREFIX", cfg.Bridge.RemotePrefix)
	cfg.Bridge.Local.URL = envString("MESHMON_LOCAL_BROKER", cfg.Bridge.Local.URL)
	cfg.Bridge.Local.Username = envString("MESHMON_LOCAL_USERNAME", cfg.Bridge.Local.Username)
	cfg.Bridge.Local.Password = envString("MESHMON_LOCAL_PASSWORD", cfg.Bridge.Local.Password)
	cfg.Bridge.Remote.URL = envString("MESHMON_REMOTE_BROKER", cfg.Bridge.Remote.URL)
	cfg.Bridge.Remote.Username = envString("MESHMON_REMOTE_USERNAME", cfg.Bridge.Remote.Username)
	cfg.Bridge.Remote.Password = envString("MESHMON_REMOTE_PASSWORD", cfg.Bridge.Remote.Password)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		log.WithComponent("config").Warn().Str("key", key).Str("value", v).Msg("ignoring unparsable boolean")
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback Duration) Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parsed, err := parseDuration(v)
	if err != nil {
		log.WithComponent("config").Warn().Str("key", key).Str("value", v).Msg("ignoring unparsable duration")
		return fallback
	}
	return Duration(parsed)
}
