package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmtypes/pack"
)

var errIncompatible = errors.New("schemas are incompatible")

var compatCmd = &cobra.Command{
	Use:   "compat A B",
	Short: "Check whether two messages share a schema",
	Long: `Compare the type codes of the first message in A and in B. The command
exits with status 1 when a reader of one could not decode the other.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var headers [2]pack.Header
		for i, arg := range args {
			b, err := os.ReadFile(arg)
			if err != nil {
				return err
			}
			headers[i], err = pack.ReadHeader(b)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
		}

		a, b := headers[0], headers[1]
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %#08x (compatible fields: %t)\n", args[0], a.TypeCode, a.Compatible)
		fmt.Fprintf(w, "%s %#08x (compatible fields: %t)\n", args[1], b.TypeCode, b.Compatible)

		if !pack.SchemaCompatible(a.TypeCode, b.TypeCode) {
			fmt.Fprintln(w, color.RedString("incompatible"))
			return errIncompatible
		}
		fmt.Fprintln(w, color.GreenString("compatible"))
		return nil
	},
}
