package cli

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/rbuf/internal/formats"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	To     string
	Hex    bool
	Output string
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode rbuf wire bytes into a document",
		Long: `Decode rbuf wire bytes into JSON, YAML or CBOR.

Reads the file argument, or stdin when it is absent. With --hex the input is
hex text; whitespace between digits is ignored.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.To, "to", "t", string(formats.JSON), "output format (json|yaml|cbor)")
	cmd.Flags().BoolVar(&opts.Hex, "hex", false, "read hex text instead of raw bytes")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runDecode(rootOpts *RootOptions, opts *DecodeOptions, cmd *cobra.Command, args []string) error {
	to, err := formats.Parse(opts.To)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --to", err)
	}

	wire, err := readWire(cmd, args, opts.Hex)
	if err != nil {
		return err
	}

	tree, err := rootOpts.decoder().Decode(wire)
	if err != nil {
		return WrapExitError(ExitFailure, "decode", err)
	}

	out, err := formats.Encode(to, tree)
	if err != nil {
		return WrapExitError(ExitFailure, "render "+string(to), err)
	}

	return writeOutput(cmd, opts.Output, out, to.Binary(), false)
}
