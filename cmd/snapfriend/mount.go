package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/snapfriend/snapfriend/pkg/client"
	"github.com/snapfriend/snapfriend/pkg/config"
	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:   "mount <destination>",
	Short: "Request a snapshot mount from the daemon",
	Long: `Request that the daemon snapshot a volume and mount it at the given
path in this process's mount namespace.

Each --find flag names one tag group: all tags in the group must be present
on a volume for it to match, and groups are tried in order, so give the most
specific group first. Tags within a group are separated by commas.

Examples:
  # mount the newest snapshot tagged app+hash, else newest tagged app,
  # else the default volume; tag the result for future requests
  snapfriend mount /some/place --find app,hash --find app --tag app --tag hash`,
	Args: cobra.ExactArgs(1),
	RunE: runMount,
}

func init() {
	mountCmd.Flags().String("socket", config.DefaultSocketPath, "daemon socket path")
	mountCmd.Flags().StringArray("find", nil, "tag group to match (comma separated); repeatable, tried in order")
	mountCmd.Flags().StringSlice("tag", nil, "tag to apply to the created snapshot; repeatable")
	mountCmd.Flags().Duration("timeout", 10*time.Second, "connect timeout")
}

func runMount(cmd *cobra.Command, args []string) error {
	destination := args[0]
	socket, _ := cmd.Flags().GetString("socket")
	findFlags, _ := cmd.Flags().GetStringArray("find")
	addTags, _ := cmd.Flags().GetStringSlice("tag")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	var findGroups [][]string
	for _, group := range findFlags {
		findGroups = append(findGroups, strings.Split(group, ","))
	}

	c, err := client.Dial(socket, timeout)
	if err != nil {
		return err
	}
	defer c.Close()

	response, err := c.Mount(destination, findGroups, addTags)
	if err != nil {
		return err
	}
	fmt.Println(response)

	return c.Bye()
}
