package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scrivener/internal/build"
	"scrivener/internal/check"
)

func checkCmd() *cobra.Command {
	var useDB bool
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report broken declarations and unresolved references",
		Long: "Check parses each file and reports what resolve would silently degrade. " +
			"Without arguments every document of the project's collections is checked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, useDB)
		},
	}
	cmd.Flags().BoolVar(&useDB, "db", false, "Also report entities declared by several stored documents")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string, useDB bool) error {
	paths := args
	var shared check.SharedLister

	if len(paths) == 0 || useDB {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			paths, err = build.SourceFiles(cfg)
			if err != nil {
				return err
			}
		}
		if useDB {
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close(cmd.Context())
			shared = db
		}
	}

	report, err := check.Run(cmd.Context(), paths, shared)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if report.HasErrors() {
		return fmt.Errorf("check found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []check.Issue) {
	for _, issue := range issues {
		location := issue.Entity
		if issue.Reference != "" {
			location = issue.Reference
		}
		if issue.FilePath != "" {
			if location == "" {
				location = issue.FilePath
			} else {
				location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
			}
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
