package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/control"
	"github.com/LckyLuciano/meshmon/internal/model"
)

var (
	eventsLimit int
	eventsJSON  bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent watchdog events",
	Long: `Prints the most recent detections and restarts from the event
journal, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialDaemon()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := client.Request(ctx, control.MethodEvents, control.EventsRequest{Limit: eventsLimit})
		if err != nil {
			return err
		}

		var er control.EventsResponse
		if err := resp.UnmarshalData(&er); err != nil {
			return err
		}

		if eventsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(er.Events)
		}

		if len(er.Events) == 0 {
			fmt.Println("no events recorded")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Time", "Kind", "Container", "Detail")

		for _, ev := range er.Events {
			detail := ev.Line
			if ev.Kind == model.EventRestartFailed {
				detail = ev.Error
			}
			table.Append(ev.At.Format("2006-01-02 15:04:05"), string(ev.Kind), ev.Container, detail)
		}

		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum number of events to show")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "output as JSON")
}
