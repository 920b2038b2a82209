package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scrivener/internal/render"
)

func renderCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render already resolved text",
		Long:  "Render converts markdown to HTML. Any other format is passed through unchanged.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if format == "" {
				format = render.HintFromPath(path)
			}
			out, err := render.Render(text, format)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Format hint (defaults to the file extension)")
	return cmd
}
