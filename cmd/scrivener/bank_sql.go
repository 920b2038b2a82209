package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scrivener/internal/store"
)

func bankSQLCmd() *cobra.Command {
	var paramPairs []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a read-only SQL query against the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			params, err := parseParamPairs(paramPairs)
			if err != nil {
				return err
			}
			return withDB(cmd, func(ctx context.Context, db store.Store) error {
				rows, err := db.RunSQL(ctx, query, params)
				if err != nil {
					return err
				}
				payload, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Query parameter as key=value (repeatable)")
	return cmd
}

func parseParamPairs(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
