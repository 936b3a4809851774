package cmd

import (
	"github.com/spf13/cobra"
	"github.com/waverip-cli/waverip/provider/custom"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCmd facilitates the execution of local Lua source files for development and debugging.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a local Lua source file",
	Long: `Initialize the Lua 5.1 virtual machine to execute a specified script. Useful for provider development and debugging.
The script must define the required provider functions to load successfully.`,
	Args:    cobra.ExactArgs(1),
	Example: "  waverip run ./test.lua",
	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := args[0]

		_, err := custom.LoadSource(sourcePath)
		handleErr(err)
	},
}
