package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LckyLuciano/meshmon/internal/service"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the meshmon systemd unit",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install, enable and start the systemd unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Install(); err != nil {
			return err
		}
		fmt.Printf("installed %s\n", service.UnitPath())
		return nil
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop and remove the systemd unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.Uninstall(); err != nil {
			return err
		}
		fmt.Println("removed " + service.UnitPath())
		return nil
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show unit and control socket status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(service.Status(cfg.Socket))
		return nil
	},
}

func init() {
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	rootCmd.AddCommand(serviceCmd)
}
