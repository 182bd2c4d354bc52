package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"refu/internal/driver"
)

var rirCmd = &cobra.Command{
	Use:   "rir [path]",
	Short: "Print the RIR textual form of every module in a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRIR,
}

func runRIR(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	ctx := cmd.Context()
	result := driver.Run(ctx, driver.Options{Dir: dir})
	driver.Flush(os.Stdout, result)

	for _, mod := range result.Modules {
		if mod.RIR == nil {
			continue
		}
		fmt.Printf("// module %s\n%s\n", mod.Path, mod.RIR.ToString())
	}

	os.Exit(result.Outcome.ExitCode())
	return nil
}
