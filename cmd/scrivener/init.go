package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const projectTemplate = `project: %s
version: 1

database:
  dsn: sqlite://scrivener.db

output: ./dist/

log:
  level: info
  format: text

collections:
  - name: docs
    paths:
      - ./docs/

exclude:
  - ./docs/drafts/
`

const sampleDocument = `def narrator {name: "ann", title: "keeper of the lighthouse"}

@narrator:name^ is the @narrator:title!.
`

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a new scrivener project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := runInit(dir, projectName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", filepath.Join(dir, "scrivener.yaml"))
			return nil
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(dir, projectName string) error {
	configPath := filepath.Join(dir, "scrivener.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", docsDir, err)
	}

	configContents := fmt.Sprintf(projectTemplate, projectName)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	samplePath := filepath.Join(docsDir, "welcome.md")
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}
	if err := os.WriteFile(samplePath, []byte(sampleDocument), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", samplePath, err)
	}
	return nil
}
