package main

import (
	"github.com/spf13/cobra"

	"scrivener/internal/config"
)

// loadConfig reads the project file. The project's log settings apply unless
// the matching flags were given.
func loadConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	cfg, err := config.LoadProjectConfig(cmd.Context(), configPath)
	if err != nil {
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	installLogger(cmd, level, format)

	return cfg, nil
}
