package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/snapfriend/snapfriend/pkg/lvm"
	"github.com/snapfriend/snapfriend/pkg/runner"
	"github.com/spf13/cobra"
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List logical volumes as the daemon sees them",
	Long: `List the volume catalog, most recently created first.

This runs the same lvs query the daemon runs for every request, so it shows
exactly the candidates and tags the matcher would consider.`,
	RunE: runVolumes,
}

func init() {
	volumesCmd.Flags().String("tag", "", "only show volumes carrying this exact tag")
}

func runVolumes(cmd *cobra.Command, args []string) error {
	tag, _ := cmd.Flags().GetString("tag")

	catalog := lvm.NewLVMCatalog(runner.NewExecRunner())
	volumes, err := catalog.Catalog(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%-15s %-30s %s\n", "GROUP", "NAME", "TAGS")
	for _, v := range volumes {
		if tag != "" && !v.HasTag(tag) {
			continue
		}
		fmt.Printf("%-15s %-30s %s\n", v.Group, v.Name, strings.Join(v.Tags, ","))
	}

	return nil
}
