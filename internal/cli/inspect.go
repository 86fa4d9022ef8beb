package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/wippyai/rbuf/codec"
	"github.com/wippyai/rbuf/value"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	Hex bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Check and describe rbuf wire bytes",
		Long: `Check and decode rbuf wire bytes, then print the wire size, the size of
the uncompressed tagged layout, the BLAKE3 digest of the wire bytes and the
value tree with its tags.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Hex, "hex", false, "read hex text instead of raw bytes")

	return cmd
}

func runInspect(rootOpts *RootOptions, opts *InspectOptions, cmd *cobra.Command, args []string) error {
	wire, err := readWire(cmd, args, opts.Hex)
	if err != nil {
		return err
	}

	if err := codec.CheckBuffer(wire); err != nil {
		return WrapExitError(ExitFailure, "check", err)
	}
	tree, err := rootOpts.decoder().Decode(wire)
	if err != nil {
		return WrapExitError(ExitFailure, "decode", err)
	}

	digest := blake3.Sum256(wire)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "wire:    %d bytes\n", len(wire))
	fmt.Fprintf(w, "tagged:  %d bytes\n", len(codec.EncodeTagged(tree)))
	fmt.Fprintf(w, "depth:   %d\n", value.Depth(tree))
	fmt.Fprintf(w, "blake3:  %s\n", hex.EncodeToString(digest[:]))
	fmt.Fprintln(w)
	writeTree(w, tree, "", 0)
	return nil
}

// writeTree prints one line per value: the label, the tag name and, for
// scalars, the value; containers show their element count.
func writeTree(w io.Writer, v value.Value, label string, indent int) {
	pad := strings.Repeat("  ", indent)
	switch x := v.(type) {
	case value.Array:
		fmt.Fprintf(w, "%s%s%s (%d)\n", pad, label, x.Tag(), len(x))
		for i, item := range x {
			writeTree(w, item, "["+strconv.Itoa(i)+"] ", indent+1)
		}
	case value.Object:
		fmt.Fprintf(w, "%s%s%s (%d)\n", pad, label, x.Tag(), len(x))
		for _, m := range x {
			writeTree(w, m.Value, strconv.Quote(m.Key)+": ", indent+1)
		}
	case value.Number:
		fmt.Fprintf(w, "%s%s%s %s\n", pad, label, x.Tag(), strconv.FormatFloat(float64(x), 'g', -1, 64))
	case value.String:
		fmt.Fprintf(w, "%s%s%s %s\n", pad, label, x.Tag(), strconv.Quote(string(x)))
	case nil:
		fmt.Fprintf(w, "%s%s%s\n", pad, label, value.TagNull)
	default:
		fmt.Fprintf(w, "%s%s%s\n", pad, label, v.Tag())
	}
}
