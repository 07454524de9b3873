package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/daemon"
	"github.com/LckyLuciano/meshmon/internal/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the meshmon daemon in the foreground",
	Long: `Starts the watchdog loop, the event journal, the control socket and,
when enabled, the MQTT bridge. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log.Configure(log.Config{Level: cfg.LogLevel})

		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}
		defer d.Shutdown()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return d.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
