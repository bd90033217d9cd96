package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dmpack",
		Short: "Inspect pack messages",
		Long: `dmpack reads messages produced by the pack codec and prints their headers,
or checks whether two messages were written with compatible schemas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log codec internals")
	rootCmd.PersistentFlags().Bool("color", true, "Colorize output")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(compatCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errIncompatible) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
