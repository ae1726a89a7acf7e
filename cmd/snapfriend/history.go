package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/snapfriend/snapfriend/pkg/ledger"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the snapshot ledger",
	Long: `Show every snapshot the daemon has attempted, in creation order.

Requires the daemon to run with a data directory configured. The daemon
must not be running against the same database while this reads it.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("data-dir", "", "daemon data directory (required)")
	historyCmd.Flags().Bool("failed", false, "only show failed attempts")
	_ = historyCmd.MarkFlagRequired("data-dir")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	failedOnly, _ := cmd.Flags().GetBool("failed")

	l, err := ledger.Open(dataDir)
	if err != nil {
		return err
	}
	defer l.Close()

	entries, err := l.List()
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %-16s %-20s %-20s %s\n", "CREATED", "NAME", "SOURCE", "DESTINATION", "TAGS")
	for _, e := range entries {
		if failedOnly && e.Error == "" {
			continue
		}
		fmt.Printf("%-20s %-16s %-20s %-20s %s\n",
			e.CreatedAt.Format(time.DateTime),
			e.Name,
			e.SourceGroup+"/"+e.SourceName,
			e.Destination,
			strings.Join(e.Tags, ","),
		)
		if e.Error != "" {
			fmt.Printf("  error: %s\n", e.Error)
		}
	}

	return nil
}
