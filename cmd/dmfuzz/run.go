package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmtypes/pack/internal/fuzzcheck"
)

var (
	runIterations int
	runSeed       int64
	runOut        string
)

func init() {
	runCmd.Flags().IntVar(&runIterations, "iterations", 10000, "Number of inputs to try")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Random seed, 0 for the current time")
	runCmd.Flags().StringVar(&runOut, "out", "crashers", "Directory for failing inputs")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Feed random and mutated documents to the oracle",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := runSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		r := rand.New(rand.NewSource(seed))

		seen := make(map[uint64]bool)
		var decoded, failures int

		for i := 0; i < runIterations; i++ {
			in := fuzzcheck.Seeds(r.Int63(), 1)[0]
			if r.Intn(4) != 0 {
				in = fuzzcheck.Mutate(r, in)
			}

			id := inputID(in)
			if seen[id] {
				continue
			}
			seen[id] = true

			ok, err := check(in)
			if ok {
				decoded++
			}
			if err == nil {
				continue
			}

			failures++
			logger.Info("oracle failure", zap.Uint64("id", id), zap.Error(err))
			if err := save(in, id); err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "seed %d: %d unique inputs, %d decoded\n", seed, len(seen), decoded)
		if failures > 0 {
			fmt.Fprintln(w, color.RedString("%d failures written to %s", failures, runOut))
			return fmt.Errorf("%d oracle failures", failures)
		}
		fmt.Fprintln(w, color.GreenString("no failures"))
		return nil
	},
}

func save(b []byte, id uint64) error {
	if err := os.MkdirAll(runOut, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(runOut, fmt.Sprintf("%016x.bin", id)), b, 0o644)
}
