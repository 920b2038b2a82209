package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "scrivener",
		Short:        "Resolve entity references in prose documents",
		SilenceUsage: true,
	}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		installLogger(cmd, logLevel, logFormat)
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "scrivener.yaml", "Path to the project file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(resolveCmd())
	root.AddCommand(renderCmd())
	root.AddCommand(buildCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(bankCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	return root
}
