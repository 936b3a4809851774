package cmd

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/waverip-cli/waverip/history"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd displays previously completed downloads.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display previously completed downloads",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		tracks := lo.Values(saved)
		sort.Slice(tracks, func(i, j int) bool {
			return tracks[i].DownloadedAt.After(tracks[j].DownloadedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(tracks))
			return
		}

		for _, t := range tracks {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Track), t, style.Faint(t.Path))
		}
	},
}
