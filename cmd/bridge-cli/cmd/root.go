package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bridge-cli",
	Short: "EVM account/transaction bridge command line tool",
	Long: `Build, prepare and broadcast EVM transactions against a configured
currency. Drafts travel as JSON files in the raw wire shape, so the output of
one step is the input of the next.`,
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
