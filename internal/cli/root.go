// Package cli implements the rbuf command line tool.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/rbuf/codec"
	"github.com/wippyai/rbuf/wasmhost"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	MaxDepth    int // 0 means unbounded
	Interactive bool
}

func (o *RootOptions) encoder() *codec.Encoder {
	return codec.NewEncoder(codec.EncoderOptions{MaxDepth: o.MaxDepth})
}

func (o *RootOptions) decoder() *codec.Decoder {
	return codec.NewDecoder(codec.DecoderOptions{MaxDepth: o.MaxDepth})
}

// NewRootCommand creates the root command for the rbuf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rbuf",
		Short: "rbuf - compact binary encoding for JSON-like documents",
		Long: `Encode JSON, JSONC, YAML and CBOR documents into the rbuf wire format,
decode them back, and inspect or measure encoded buffers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.MaxDepth < 0 {
				return NewExitError(ExitCommandError, "--max-depth must not be negative")
			}
			installLogger(newLogger(opts.Verbose, cmd.ErrOrStderr()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Interactive {
				return runInteractive(opts)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	cmd.PersistentFlags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum nesting depth (0 = unbounded)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "interactive mode with TUI")

	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// newLogger returns a development console logger at debug level when verbose
// is set, otherwise a JSON logger that only reports warnings and errors.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	sink := zapcore.Lock(zapcore.AddSync(w))
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, sink, zapcore.DebugLevel), zap.Development())
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, sink, zapcore.WarnLevel))
}

func installLogger(l *zap.Logger) {
	codec.SetLogger(l)
	wasmhost.SetLogger(l)
}
