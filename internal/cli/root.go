// Package cli implements the tinibar CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tinibar",
	Short: "Menu-bar media presence for your own music library",
	Long: `Tinibar sits in the menu bar and supervises the tini-presence-core
helper, which detects local playback and publishes rich presence.
Run without arguments to start the menu-bar app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().IntVar(&bridgePortFlag, "bridge-port", -1, "Port for the local UI bridge (-1 uses settings, 0 for dynamic allocation)")
	rootCmd.Flags().BoolVar(&noAutoStartFlag, "no-autostart", false, "Do not start the helper on launch")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
