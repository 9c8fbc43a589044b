// Package cmd provides the command-line interface of sdsim.
package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// NewRootCmd builds the command tree. Flag defaults come from the
// environment, so it must be called after the environment is set up.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sdsim",
		Short: "sdsim runs system dynamics models with discrete events.",
		Long: `sdsim runs the suicidal mind stock-and-flow model. Events ` +
			`declared in a scenario file can change the model while it runs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newParamsCmd())
	rootCmd.AddCommand(newRunsCmd())

	return rootCmd
}

// Execute loads the .env file if there is one, runs the command, and exits
// through atexit so that registered flushes happen.
func Execute() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot load .env: %v", err)
	}

	err = NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
