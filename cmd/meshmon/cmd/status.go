package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/control"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon, watchdog and bridge status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialDaemon()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := client.Request(ctx, control.MethodStatus, nil)
		if err != nil {
			return err
		}

		var status control.StatusResponse
		if err := resp.UnmarshalData(&status); err != nil {
			return err
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Field", "Value")

		table.Append([]string{"Daemon", fmt.Sprintf("%s, up %s", status.Version, time.Since(status.StartedAt).Round(time.Second))})
		table.Append([]string{"Container", status.Watchdog.Container})
		if status.ContainerState != "" {
			table.Append([]string{"Container state", status.ContainerState})
		}
		table.Append([]string{"Marker", fmt.Sprintf("%q", status.Watchdog.Marker)})
		table.Append([]string{"Loop state", status.Watchdog.State})
		table.Append([]string{"Check interval", status.Watchdog.CheckInterval})
		table.Append([]string{"Recovery delay", status.Watchdog.RecoveryDelay})
		if !status.Watchdog.LastCheck.IsZero() {
			table.Append([]string{"Last check", status.Watchdog.LastCheck.Format(time.RFC3339)})
		}
		if !status.Watchdog.LastDetection.IsZero() {
			table.Append([]string{"Last detection", status.Watchdog.LastDetection.Format(time.RFC3339)})
		}
		table.Append([]string{"Restarts", fmt.Sprintf("%d", status.Watchdog.Restarts)})
		table.Append([]string{"All time", fmt.Sprintf("%d detections, %d restarts", status.TotalDetections, status.TotalRestarts)})

		if status.Bridge != nil {
			table.Append([]string{"Bridge local", brokerState(status.Bridge.LocalConnected)})
			table.Append([]string{"Bridge remote", brokerState(status.Bridge.RemoteConnected)})
			table.Append([]string{"Forwarded", fmt.Sprintf("%d (%d failed)", status.Bridge.Forwarded, status.Bridge.Failed)})
		}

		table.Render()
		return nil
	},
}

func brokerState(connected bool) string {
	if connected {
		return "connected"
	}
	return "disconnected"
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}
