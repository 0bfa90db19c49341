package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tini-presence/tinibar/internal/config"
	"github.com/tini-presence/tinibar/internal/updater"
)

var updateInstallFlag bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer tinibar release",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(styleLabel.Render("Checking for updates..."))

		status, err := updater.Check()
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}

		if !status.Available {
			fmt.Printf("%s (v%s)\n", styleSuccess.Render("Already up to date"), status.Current)
			return nil
		}

		fmt.Printf("%s v%s → v%s\n", styleUpdate.Render("Update available:"), status.Current, status.Latest)
		fmt.Printf("  %s %s\n", styleLabel.Render("Release:"), status.URL)

		if !updateInstallFlag {
			fmt.Printf("  %s\n", styleLabel.Render("Run with --install to download and replace the binaries."))
			return nil
		}

		running, info, _ := config.IsAppRunning()
		if running && info != nil {
			fmt.Println(styleError.Render("tinibar is running; quit it from the menu bar first."))
			return fmt.Errorf("app running (PID %d)", info.PID)
		}

		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate current binary: %w", err)
		}
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		report := func(line string) {
			fmt.Printf("  %s\n", styleLabel.Render(line))
		}
		if err := updater.InstallRelease(status.Release, execPath, settings.Helper.Name, report); err != nil {
			return fmt.Errorf("install failed: %w", err)
		}

		fmt.Printf("%s v%s\n", styleSuccess.Render("Updated to"), status.Latest)
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateInstallFlag, "install", false, "Download and install the update")
}
