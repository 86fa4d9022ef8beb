package cli

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/rbuf/internal/formats"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	From   string
	Hex    bool
	Output string
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a document into rbuf wire bytes",
		Long: `Encode a JSON, JSONC, YAML or CBOR document into rbuf wire bytes.

Reads the file argument, or stdin when it is absent. Output is raw bytes
unless --hex is given or stdout is a terminal.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.From, "from", "f", string(formats.JSON), "input format (json|jsonc|yaml|cbor)")
	cmd.Flags().BoolVar(&opts.Hex, "hex", false, "write hex text instead of raw bytes")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runEncode(rootOpts *RootOptions, opts *EncodeOptions, cmd *cobra.Command, args []string) error {
	from, err := formats.Parse(opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --from", err)
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tree, err := formats.Decode(from, data)
	if err != nil {
		return WrapExitError(ExitFailure, "parse "+string(from), err)
	}

	wire, err := rootOpts.encoder().Encode(tree)
	if err != nil {
		return WrapExitError(ExitFailure, "encode", err)
	}

	return writeOutput(cmd, opts.Output, wire, true, opts.Hex)
}
