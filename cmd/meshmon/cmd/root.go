// Package cmd implements the meshmon command line interface.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/config"
	"github.com/LckyLuciano/meshmon/internal/control"
)

// requestTimeout bounds every request/response exchange with the daemon.
const requestTimeout = 2 * time.Second

var (
	cfgFile    string
	socketFlag string
)

var rootCmd = &cobra.Command{
	Use:   "meshmon",
	Short: "Container watchdog and MQTT bridge for a Meshtastic node",
	Long: `meshmon keeps a Meshtastic node healthy. It watches one container's
logs for a fatal error marker and restarts the container whenever the
marker appears, and it can bridge the node's MQTT uplink to a remote
broker.

Start the daemon with "meshmon run", then inspect it with "meshmon
status", "meshmon events" or the live dashboard "meshmon top".`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "daemon socket path (overrides config)")
}

// loadConfig builds the effective configuration with the --socket flag
// applied on top of file and environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	if socketFlag != "" {
		cfg.Socket = socketFlag
	}
	return cfg, nil
}

// dialDaemon connects to the control socket of a running daemon.
func dialDaemon() (*control.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := control.Dial(cfg.Socket)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to daemon (is it running? try: meshmon run): %w", err)
	}
	return client, nil
}
