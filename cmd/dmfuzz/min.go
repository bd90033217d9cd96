package main

import (
	"fmt"
	"os"

	"github.com/dgryski/go-ddmin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var minCmd = &cobra.Command{
	Use:   "min FILE",
	Short: "Shrink a failing input to a minimal one",
	Long: `Run delta debugging over FILE, keeping only the bytes needed to make the
oracle fail, and write the result to FILE.min.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		if _, err := check(data); err == nil {
			return fmt.Errorf("%s does not fail the oracle", args[0])
		}

		memo := make(map[uint64]ddmin.Result)
		smaller := ddmin.Minimize(data, func(b []byte) ddmin.Result {
			id := inputID(b)
			if r, ok := memo[id]; ok {
				return r
			}

			r := ddmin.Pass
			if _, err := check(b); err != nil {
				r = ddmin.Fail
			}
			memo[id] = r
			return r
		})

		logger.Debug("minimized", zap.Int("from", len(data)), zap.Int("to", len(smaller)), zap.Int("tries", len(memo)))

		out := args[0] + ".min"
		if err := os.WriteFile(out, smaller, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d -> %d bytes, written to %s\n", len(data), len(smaller), out)
		return nil
	},
}
