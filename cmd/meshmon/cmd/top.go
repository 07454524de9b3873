package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/tui"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Open the live dashboard",
	Long: `Full-screen view of the watchdog, recent events, bridge counters and
the container's log tail. Requires a running daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.NewModel(cfg.Socket), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
}
