package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/waverip-cli/waverip/color"
	"github.com/waverip-cli/waverip/download"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/key"
	"github.com/waverip-cli/waverip/log"
	"github.com/waverip-cli/waverip/provider"
	"github.com/waverip-cli/waverip/query"
	"github.com/waverip-cli/waverip/source"
	"github.com/waverip-cli/waverip/style"
	"github.com/waverip-cli/waverip/tui"
	"github.com/waverip-cli/waverip/util"
)

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolP("first", "f", false, "Download the closest match without prompting")
	getCmd.Flags().BoolP("json", "j", false, "Print search results as JSON and exit without downloading")
	getCmd.Flags().IntSliceP("index", "i", []int{}, "Download results at the given positions (1-based)")

	getCmd.Flags().StringP("dir", "d", "", "Destination directory for completed files")
	getCmd.Flags().IntP("concurrency", "c", 0, "How many tracks to download at once")
	getCmd.Flags().BoolP("overwrite", "o", false, "Overwrite existing destination files")
	getCmd.Flags().Bool("exclusive", false, "Download gated exclusive content")
	getCmd.Flags().Bool("no-preview", false, "Never fall back to the reduced-quality preview clip")
	getCmd.Flags().BoolP("playlist", "p", false, "Write a companion .m3u playlist")

	getCmd.SetOut(os.Stdout)
}

// getCmd searches the configured providers and downloads the selected tracks.
var getCmd = &cobra.Command{
	Use:     "get [query]",
	Short:   "Search for tracks and download them",
	Args:    cobra.MinimumNArgs(1),
	Example: `  waverip get "deadmau5 strobe" --first`,
	Run: func(cmd *cobra.Command, args []string) {
		q := strings.Join(args, " ")

		sources, err := selectedSources(cmd)
		handleErr(err)

		tracks := searchAll(sources, q)
		if len(tracks) == 0 {
			msg := fmt.Sprintf("no tracks found for %s", style.Fg(color.Red)(q))
			if suggestion := query.Suggest(q); suggestion.IsPresent() {
				msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Yellow)(suggestion.MustGet()))
			}
			handleErr(errors.New(msg))
		}

		_ = query.Remember(q, 1)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(tracks))
			return
		}

		chosen, err := pickTracks(cmd, tracks, q)
		handleErr(err)

		batch, err := tui.Run(&tui.Options{
			Tracks:          chosen,
			DownloadOptions: downloadOptions(cmd),
		})
		handleErr(err)

		printSummary(cmd, batch)
	},
}

// selectedSources loads the sources named in the configuration, prompting for
// one when nothing is configured.
func selectedSources(cmd *cobra.Command) ([]source.Source, error) {
	names := viper.GetStringSlice(key.DefaultSources)

	if len(names) == 0 {
		available := lo.Map(provider.Customs(), func(p *provider.Provider, _ int) string {
			return p.Name
		})
		if len(available) == 0 {
			return nil, errors.New("no sources installed, run \"waverip sources gen\" to scaffold one")
		}

		var picked string
		prompt := &survey.Select{
			Message: "Select a source",
			Options: available,
		}
		if err := survey.AskOne(prompt, &picked); err != nil {
			return nil, err
		}
		names = []string{picked}
	}

	var sources []source.Source
	for _, name := range names {
		p, ok := provider.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %s", style.Fg(color.Red)(name))
		}

		src, err := p.CreateSource()
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// searchAll queries every source, merging results. A single source failing
// only costs its own results.
func searchAll(sources []source.Source, q string) []*source.Track {
	var tracks []*source.Track
	for _, src := range sources {
		found, err := src.Search(q)
		if err != nil {
			log.Warnf("search on %s failed: %v", src.Name(), err)
			continue
		}
		tracks = append(tracks, found...)
	}
	return tracks
}

// pickTracks narrows search results to the tracks to download.
func pickTracks(cmd *cobra.Command, tracks []*source.Track, q string) ([]*source.Track, error) {
	if lo.Must(cmd.Flags().GetBool("first")) {
		closest, ok := source.Closest(tracks, q)
		if !ok {
			return nil, errors.New("no tracks to pick from")
		}
		return []*source.Track{closest}, nil
	}

	if indexes := lo.Must(cmd.Flags().GetIntSlice("index")); len(indexes) > 0 {
		var chosen []*source.Track
		for _, i := range indexes {
			if i < 1 || i > len(tracks) {
				return nil, fmt.Errorf("index %d is out of range, have %s", i, util.Quantify(len(tracks), "result", "results"))
			}
			chosen = append(chosen, tracks[i-1])
		}
		return chosen, nil
	}

	options := lo.Map(tracks, func(t *source.Track, _ int) string {
		return t.String()
	})

	var picked []string
	prompt := &survey.MultiSelect{
		Message:  "Select tracks to download",
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &picked, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(picked))
	for _, p := range picked {
		set[p] = struct{}{}
	}

	return lo.Filter(tracks, func(t *source.Track, _ int) bool {
		_, ok := set[t.String()]
		return ok
	}), nil
}

// downloadOptions merges the configuration defaults with per-invocation flags.
func downloadOptions(cmd *cobra.Command) download.Options {
	opts := download.OptionsFromConfig()

	if dir := lo.Must(cmd.Flags().GetString("dir")); dir != "" {
		opts.Dir = dir
	}
	if c := lo.Must(cmd.Flags().GetInt("concurrency")); c > 0 {
		opts.Concurrency = c
	}
	if lo.Must(cmd.Flags().GetBool("overwrite")) {
		opts.Overwrite = true
	}
	if lo.Must(cmd.Flags().GetBool("exclusive")) {
		opts.AllowExclusive = true
	}
	if lo.Must(cmd.Flags().GetBool("no-preview")) {
		opts.SkipPreview = true
	}
	if lo.Must(cmd.Flags().GetBool("playlist")) {
		opts.PlaylistFile = true
	}

	return opts
}

func printSummary(cmd *cobra.Command, batch *download.BatchResult) {
	if batch == nil {
		return
	}

	for _, r := range batch.Results {
		switch {
		case r.Success && r.Warning != "":
			cmd.Printf("%s %s %s\n", icon.Get(icon.Warning), r.Track, style.Faint(r.Warning))
		case r.Success:
			cmd.Printf("%s %s %s\n", icon.Get(icon.Success), r.Track, style.Faint(r.Path))
		default:
			cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), r.Track, style.Fg(color.Red)(r.Err.Error()))
		}
	}

	if batch.Playlist != "" {
		cmd.Printf("%s playlist written to %s\n", icon.Get(icon.Track), style.Faint(batch.Playlist))
	}

	if failed := batch.Failed(); failed > 0 {
		cmd.Println(style.Fg(color.Red)(fmt.Sprintf("%s failed", util.Quantify(failed, "download", "downloads"))))
		os.Exit(1)
	}
}
