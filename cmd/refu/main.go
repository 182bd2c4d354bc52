// Command refu is the CLI front end for the refu compiler pipeline: module
// discovery, semantic analysis, and RIR lowering.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "refu",
	Short: "refu compiler and RIR toolchain",
	Long:  "refu analyzes and lowers a refu project to its typed intermediate representation.",
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(rirCmd)
	rootCmd.AddCommand(tokensCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
