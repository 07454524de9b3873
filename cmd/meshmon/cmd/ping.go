package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/control"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check whether the daemon is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dialDaemon()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := client.Request(ctx, control.MethodPing, nil)
		if err != nil {
			return err
		}

		var pong control.PingResponse
		if err := resp.UnmarshalData(&pong); err != nil {
			return err
		}
		if pong.Pong {
			fmt.Println("daemon is up")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
