package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/waverip-cli/waverip/color"
	"github.com/waverip-cli/waverip/constant"
	"github.com/waverip-cli/waverip/filesystem"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/provider"
	"github.com/waverip-cli/waverip/style"
	"github.com/waverip-cli/waverip/util"
	"github.com/waverip-cli/waverip/where"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for managing platform providers.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage Lua platform providers",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd displays a summary of all registered providers.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display a collection of all registered providers",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		if printHeader {
			cmd.Println(headerStyle("Custom:"))
		}
		for _, p := range provider.Customs() {
			cmd.Println(p.Name)
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Specify the name of the source(s) to uninstall")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		sources, err := filesystem.API().ReadDir(where.Sources())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(sources, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, ".lua") {
				return "", false
			}

			return util.FileStem(filepath.Base(name)), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// sourcesRemoveCmd facilitates the uninstallation of Lua sources.
var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Permanently uninstall specified Lua sources from the system",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+".lua")
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesUpdateCmd)
}

// sourcesUpdateCmd pulls the latest published versions of installed scripts.
var sourcesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update installed provider scripts from the official repository",
	Run: func(cmd *cobra.Command, args []string) {
		names := lo.Map(provider.Customs(), func(p *provider.Provider, _ int) string {
			return p.Name + ".lua"
		})
		names = append(names, "common.lua")

		updated := provider.UpdateSources(names)
		if len(updated) == 0 {
			fmt.Printf("%s everything up to date\n", icon.Get(icon.Success))
			return
		}

		for _, name := range updated {
			fmt.Printf("%s updated %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "The display name of the new provider")
	sourcesGenCmd.Flags().StringP("url", "u", "", "The base URL of the target platform")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

// sourcesGenCmd scaffolds a boilerplate Lua provider script.
var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new Lua provider script using a predefined template",
	Long:  `Generate a boilerplate Lua provider script with core functions and metadata.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name              string
			URL               string
			SearchTracksFn    string
			TrackCandidatesFn string
			AuthHeadersFn     string
			Author            string
		}{
			Name:              lo.Must(cmd.Flags().GetString("name")),
			URL:               lo.Must(cmd.Flags().GetString("url")),
			SearchTracksFn:    constant.SearchTracksFn,
			TrackCandidatesFn: constant.TrackCandidatesFn,
			AuthHeadersFn:     constant.AuthHeadersFn,
			Author:            author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("source").Funcs(funcMap).Parse(constant.SourceTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+".lua")
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}
