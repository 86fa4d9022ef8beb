package cli

import (
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readInput reads the last positional file argument, or stdin when there is
// none or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[len(args)-1] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "read stdin", err)
		}
		return data, nil
	}
	path := args[len(args)-1]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read "+path, err)
	}
	return data, nil
}

// readWire reads encoded input, decoding hex text when asHex is set.
func readWire(cmd *cobra.Command, args []string, asHex bool) ([]byte, error) {
	data, err := readInput(cmd, args)
	if err != nil || !asHex {
		return data, err
	}
	raw, err := hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid hex input", err)
	}
	return raw, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty. Binary data is hex-encoded when asHex is set or stdout is a terminal.
func writeOutput(cmd *cobra.Command, path string, data []byte, binary, asHex bool) error {
	if path != "" {
		if binary && asHex {
			data = hexLine(data)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write "+path, err)
		}
		return nil
	}

	w := cmd.OutOrStdout()
	if binary && (asHex || isTerminal(w)) {
		data = hexLine(data)
	}
	if _, err := w.Write(data); err != nil {
		return WrapExitError(ExitCommandError, "write stdout", err)
	}
	return nil
}

func hexLine(data []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(data))+1)
	hex.Encode(out, data)
	out[len(out)-1] = '\n'
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
