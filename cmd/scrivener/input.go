package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// readInput reads the file named by the first argument, or standard input
// when there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}
