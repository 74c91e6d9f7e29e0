// Package cli provides the Cobra-based mdgate command line: Spotlight
// queries, index management, metadata and log inspection, and the MCP
// server, all behind the shared protection policy.
package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mdgate",
	Short: "Safety-gated front-end for the Spotlight tools",
	Long: `mdgate wraps the macOS metadata tools (mdfind, mdutil, mdls, log)
behind a protection policy: operations that target a protected volume
are refused before any process is spawned.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newSearchCmd(),
		newStatusCmd(),
		newVolumesCmd(),
		newIndexCmd(),
		newProgressCmd(),
		newMetadataCmd(),
		newLogsCmd(),
		newActivityCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)
}
