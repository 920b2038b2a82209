package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"scrivener/internal/bank"
	"scrivener/internal/engine"
	"scrivener/internal/render"
)

type resolveOptions struct {
	render  bool
	format  string
	bank    bool
	bankOut string
}

func resolveCmd() *cobra.Command {
	var opts resolveOptions
	cmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Resolve the references of one document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.render, "render", false, "Render the resolved text")
	cmd.Flags().StringVar(&opts.format, "format", "", "Format hint for --render (defaults to the file extension)")
	cmd.Flags().BoolVar(&opts.bank, "bank", false, "Print the Object Bank as JSON to stderr")
	cmd.Flags().StringVar(&opts.bankOut, "bank-out", "", "Write the Object Bank as JSON to this file")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string, opts resolveOptions) error {
	document, path, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var index bank.Index
	text := engine.Resolve(document, bank.Collect(&index))
	clog.FromContext(cmd.Context()).Debugf("resolved %d bytes, %d entities", len(document), len(index))

	if opts.render {
		hint := opts.format
		if hint == "" {
			hint = render.HintFromPath(path)
		}
		text, err = render.Render(text, hint)
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if !opts.bank && opts.bankOut == "" {
		return nil
	}
	payload, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding object bank: %w", err)
	}
	if opts.bank {
		fmt.Fprintln(cmd.ErrOrStderr(), string(payload))
	}
	if opts.bankOut != "" {
		if err := os.WriteFile(opts.bankOut, append(payload, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.bankOut, err)
		}
	}
	return nil
}
