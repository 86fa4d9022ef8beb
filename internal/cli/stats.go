package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/cobra"

	"github.com/wippyai/rbuf/internal/formats"
	"github.com/wippyai/rbuf/rle"
	"github.com/wippyai/rbuf/transcoder"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	From string
}

// SizeReport lists the size of one document in each representation.
type SizeReport struct {
	JSON     int
	Tagged   int
	Wire     int
	JSONZstd int
	JSONLZ4  int
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Compare encoded sizes of a document",
		Long: `Compare the size of a document as compact JSON, as the uncompressed
tagged layout, as rbuf wire bytes, and as JSON compressed with zstd and lz4.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.From, "from", "f", string(formats.JSON), "input format (json|jsonc|yaml|cbor)")

	return cmd
}

func runStats(rootOpts *RootOptions, opts *StatsOptions, cmd *cobra.Command, args []string) error {
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

	tagged, err := rootOpts.encoder().EncodeTagged(tree)
	if err != nil {
		return WrapExitError(ExitFailure, "encode", err)
	}
	compact, err := transcoder.ToJSON(tree)
	if err != nil {
		return WrapExitError(ExitFailure, "render json", err)
	}

	report, err := measure(compact, tagged)
	if err != nil {
		return WrapExitError(ExitFailure, "compress", err)
	}
	report.write(cmd.OutOrStdout())
	return nil
}

func measure(compact, tagged []byte) (SizeReport, error) {
	zs, err := zstdSize(compact)
	if err != nil {
		return SizeReport{}, err
	}
	ls, err := lz4Size(compact)
	if err != nil {
		return SizeReport{}, err
	}
	return SizeReport{
		JSON:     len(compact),
		Tagged:   len(tagged),
		Wire:     rle.EncodedLen(tagged),
		JSONZstd: zs,
		JSONLZ4:  ls,
	}, nil
}

func (r SizeReport) write(w io.Writer) {
	fmt.Fprintf(w, "json:       %8d bytes\n", r.JSON)
	fmt.Fprintf(w, "tagged:     %8d bytes  %s\n", r.Tagged, ratio(r.Tagged, r.JSON))
	fmt.Fprintf(w, "rbuf:       %8d bytes  %s\n", r.Wire, ratio(r.Wire, r.JSON))
	fmt.Fprintf(w, "json+zstd:  %8d bytes  %s\n", r.JSONZstd, ratio(r.JSONZstd, r.JSON))
	fmt.Fprintf(w, "json+lz4:   %8d bytes  %s\n", r.JSONLZ4, ratio(r.JSONLZ4, r.JSON))
}

func ratio(n, base int) string {
	if base == 0 {
		return ""
	}
	return fmt.Sprintf("%6.1f%%", 100*float64(n)/float64(base))
}

func zstdSize(src []byte) (int, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, err
	}
	defer enc.Close()
	return len(enc.EncodeAll(src, nil)), nil
}

// lz4Size measures an lz4 frame, so incompressible input still has a size.
func lz4Size(src []byte) (int, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}
