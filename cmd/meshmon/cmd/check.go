package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/docker"
	"github.com/LckyLuciano/meshmon/internal/watchdog"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one detection pass and report the result",
	Long: `Scans the container's trailing log window for the error marker once,
without restarting anything. Exits 1 when the marker is present, so the
command can serve as a health probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := docker.NewClient(docker.Config{
			Host:      cfg.Docker.Host,
			TLSVerify: cfg.Docker.TLSVerify,
			CertPath:  cfg.Docker.CertPath,
			Timeout:   cfg.Docker.Timeout.Std(),
		})
		if err != nil {
			return err
		}
		defer client.Close()

		w := watchdog.New(watchdog.Config{
			Container:     cfg.Watchdog.Container,
			Marker:        cfg.Watchdog.Marker,
			CheckInterval: cfg.Watchdog.CheckInterval.Std(),
			RecoveryDelay: cfg.Watchdog.RecoveryDelay.Std(),
		}, docker.NewContainerRuntime(client, cfg.Watchdog.Container))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Docker.Timeout.Std())
		defer cancel()

		line, matched, err := w.CheckOnce(ctx)
		if err != nil {
			return fmt.Errorf("log query failed: %w", err)
		}
		if !matched {
			fmt.Printf("%s: no %q in the last %s\n",
				cfg.Watchdog.Container, cfg.Watchdog.Marker, cfg.Watchdog.CheckInterval.Std())
			return nil
		}

		fmt.Printf("%s: marker found: %s\n", cfg.Watchdog.Container, line)
		os.Exit(1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
