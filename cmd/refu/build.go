package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"refu/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Compile a refu project and report diagnostics",
	Long:  "build discovers every module under path, analyzes and lowers each one, and flushes diagnostics to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("snapshot", "", "write a msgpack debug snapshot of the built RIR graph to this path")
	buildCmd.Flags().Bool("progress", false, "show a live per-module compile progress view")
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	snapshotPath, err := cmd.Flags().GetString("snapshot")
	if err != nil {
		return err
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result *driver.Result
	if showProgress && isTerminalStdout() {
		result = runWithProgress(ctx, driver.Options{Dir: dir})
	} else {
		result = driver.Run(ctx, driver.Options{Dir: dir})
	}

	if !quiet {
		driver.Flush(os.Stdout, result)
	}
	if result.Err != nil && result.Outcome == driver.DriverError {
		fmt.Fprintf(os.Stderr, "refu: %v\n", result.Err)
	}

	if snapshotPath != "" && result.Outcome != driver.DriverError {
		snap := driver.BuildSnapshot(result)
		if err := driver.WriteSnapshot(snapshotPath, snap); err != nil {
			fmt.Fprintf(os.Stderr, "refu: writing snapshot: %v\n", err)
			os.Exit(2)
		}
	}

	os.Exit(result.Outcome.ExitCode())
	return nil
}

func isTerminalStdout() bool {
	return termIsTerminal(os.Stdout)
}
