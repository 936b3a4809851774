package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/waverip-cli/waverip/auth"
	"github.com/waverip-cli/waverip/color"
	"github.com/waverip-cli/waverip/icon"
	"github.com/waverip-cli/waverip/provider"
	"github.com/waverip-cli/waverip/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages platform bearer tokens stored in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage platform tokens stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)

	authSetCmd.Flags().StringP("source", "s", "", "The source to store the token for")
	authSetCmd.Flags().StringP("token", "t", "", "The bearer token (prompted when omitted)")
	lo.Must0(authSetCmd.MarkFlagRequired("source"))
	lo.Must0(authSetCmd.RegisterFlagCompletionFunc("source", completionSourceNames))
}

// authSetCmd persists a bearer token for a source.
var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a bearer token for a source",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("source"))
		p, ok := provider.Get(name)
		if !ok {
			handleErr(fmt.Errorf("unknown source %s", style.Fg(color.Red)(name)))
		}

		token := lo.Must(cmd.Flags().GetString("token"))
		if token == "" {
			prompt := &survey.Password{Message: "Token"}
			handleErr(survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(p.ID, token))
		fmt.Printf("%s token stored for %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)

	authDeleteCmd.Flags().StringP("source", "s", "", "The source to delete the token of")
	lo.Must0(authDeleteCmd.MarkFlagRequired("source"))
	lo.Must0(authDeleteCmd.RegisterFlagCompletionFunc("source", completionSourceNames))
}

// authDeleteCmd removes a stored bearer token.
var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a stored bearer token",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("source"))
		p, ok := provider.Get(name)
		if !ok {
			handleErr(errors.New("unknown source " + name))
		}

		handleErr(auth.DeleteToken(p.ID))
		fmt.Printf("%s token removed for %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
	},
}
