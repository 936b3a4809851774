package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/util"
	"github.com/waverip-cli/waverip/where"
)

// clearTarget defines a filesystem resource eligible for automated cleanup.
type clearTarget struct {
	name     string
	flag     string
	short    string
	location func() string
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"search cache", "cache", "c", where.Cache},
	{"download history", "history", "s", where.History},
	{"query history", "queries", "q", where.Queries},
	{"log files", "logs", "l", where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		clearCmd.Flags().BoolP(target.flag, target.short, false, fmt.Sprintf("clear %s", target.name))
	}
}

// clearCmd manages the cleanup of temporary and cached application artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear temporary and cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var cleared int

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.flag)) {
				continue
			}

			cleared++
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			handleErr(filesystem.API().RemoveAll(target.location()))
			erase()
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if cleared == 0 {
			handleErr(cmd.Help())
		}
	},
}
