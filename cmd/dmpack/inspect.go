package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmtypes/pack"
)

func init() {
	inspectCmd.Flags().Int("hex-limit", 256, "Bytes of payload to hex dump, 0 for none")
	inspectCmd.Flags().Bool("dump", false, "Dump each parsed header with spew")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [FILE...]",
	Short: "Print the headers of the messages in each file",
	Long: `Walk the messages stored back to back in each file (stdin when none is
given) and print their type code, flags and sizes. Messages without a stored
total length end the walk, since their extent depends on the reader's schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			return inspect(cmd.OutOrStdout(), "stdin", b)
		}

		for _, arg := range args {
			b, err := os.ReadFile(arg)
			if err != nil {
				return err
			}
			if err := inspect(cmd.OutOrStdout(), arg, b); err != nil {
				return err
			}
		}
		return nil
	},
}

var (
	label = color.New(color.FgCyan).SprintFunc()
	warn  = color.New(color.FgYellow).SprintFunc()
)

func inspect(w io.Writer, name string, b []byte) error {
	s := pack.NewStream(b)

	for {
		off := s.Offset()
		h, err := s.Skip()

		switch {
		case errors.Is(err, io.EOF):
			return nil

		case errors.Is(err, pack.ErrInvalidArgument):
			// no stored length: the message runs to the end of the buffer
			// as far as we can tell
			printHeader(w, name, s.Count(), off, h, len(b)-off)
			fmt.Fprintf(w, "  %s\n", warn("no stored length, stopping"))
			dumpPayload(w, b[off+h.PayloadOffset:])
			return nil

		case err != nil:
			return fmt.Errorf("%s: message %d at offset %d: %w", name, s.Count(), off, err)
		}

		printHeader(w, name, s.Count()-1, off, h, int(h.TotalLength))
		dumpPayload(w, b[off+h.PayloadOffset:off+int(h.TotalLength)])
	}
}

func printHeader(w io.Writer, name string, i, off int, h pack.Header, size int) {
	fmt.Fprintf(w, "%s: message %d at offset %d\n", name, i, off)
	fmt.Fprintf(w, "  %s %#08x\n", label("type code  "), h.TypeCode)
	fmt.Fprintf(w, "  %s %t\n", label("compatible "), h.Compatible)
	fmt.Fprintf(w, "  %s %d\n", label("size       "), size)
	fmt.Fprintf(w, "  %s %d bytes at offset %d\n", label("payload    "), size-h.PayloadOffset, off+h.PayloadOffset)

	if cfg.Dump {
		spew.Fdump(w, h)
	}
}

func dumpPayload(w io.Writer, payload []byte) {
	if cfg.HexLimit <= 0 || len(payload) == 0 {
		return
	}
	if len(payload) > cfg.HexLimit {
		payload = payload[:cfg.HexLimit]
	}
	fmt.Fprint(w, hex.Dump(payload))
}
