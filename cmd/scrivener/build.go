package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrivener/internal/build"
)

func buildCmd() *cobra.Command {
	var opts build.Options
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve every collection and record the Object Bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Full, "full", false, "Rebuild every document (ignore stored hashes)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Documents resolved at once (0 means GOMAXPROCS)")
	return cmd
}

func runBuild(cmd *cobra.Command, opts build.Options) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := build.Run(ctx, cfg, db, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Build complete.")
	fmt.Fprintf(out, "  Documents built:   %d\n", result.DocumentsBuilt)
	fmt.Fprintf(out, "  Entities indexed:  %d\n", result.EntitiesIndexed)
	fmt.Fprintf(out, "  Documents removed: %d\n", result.DocumentsRemoved)
	fmt.Fprintf(out, "  Files skipped:     %d\n", result.FilesSkipped)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(out, "  - %v\n", item)
		}
		return fmt.Errorf("build completed with errors")
	}

	return nil
}
