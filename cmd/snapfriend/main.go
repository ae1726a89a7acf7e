package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snapfriend",
	Short: "snapfriend - lvm snapshot mount broker",
	Long: `snapfriend creates lvm snapshots on demand and mounts them into the
mount namespace of the requesting process.

The daemon listens on a unix socket for a tiny text protocol: a client asks
for a mount at a path, optionally naming tags to select the snapshot source
and tags to apply to the new snapshot. Tagged snapshots can themselves be
selected by later requests, which makes chains of derived volumes cheap.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"snapfriend version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(volumesCmd)
	rootCmd.AddCommand(historyCmd)
}
