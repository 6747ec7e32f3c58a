//go:build !windows

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "runcap",
	Short: "Run a command and capture its output streams",
	Long: `runcap runs a child process, routes its stdout and stderr
independently to capture and/or passthrough, and reports the exit code
once both streams have been fully drained.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Log session lifecycle events to stderr")
}
