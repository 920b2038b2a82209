package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scrivener/internal/store"
)

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Query the stored Object Bank",
	}
	cmd.AddCommand(bankListCmd())
	cmd.AddCommand(bankFieldsCmd())
	cmd.AddCommand(bankSharedCmd())
	cmd.AddCommand(bankSearchCmd())
	cmd.AddCommand(bankSQLCmd())
	return cmd
}

// withDB loads the project, opens its store and hands it to fn.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db store.Store) error) error {
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

	return fn(ctx, db)
}

func bankListCmd() *cobra.Command {
	var collection, prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db store.Store) error {
				entities, err := db.ListEntities(ctx, collection, prefix)
				if err != nil {
					return err
				}
				return printEntities(cmd.OutOrStdout(), entities)
			})
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Collection to filter")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Entity name prefix")
	return cmd
}

func bankFieldsCmd() *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "fields <entity>",
		Short: "Show the fields of an entity in every document declaring it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db store.Store) error {
				entities, err := db.GetEntityFields(ctx, args[0], collection)
				if err != nil {
					return err
				}
				return printEntities(cmd.OutOrStdout(), entities)
			})
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Collection to filter")
	return cmd
}

func bankSharedCmd() *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "shared",
		Short: "List entities declared by more than one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db store.Store) error {
				entities, err := db.ListSharedEntities(ctx, collection)
				if err != nil {
					return err
				}
				return printEntities(cmd.OutOrStdout(), entities)
			})
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Collection to filter")
	return cmd
}

func bankSearchCmd() *cobra.Command {
	var collection string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over resolved documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withDB(cmd, func(ctx context.Context, db store.Store) error {
				results, err := db.Search(ctx, query, collection)
				if err != nil {
					return err
				}
				return printSearchResults(cmd.OutOrStdout(), results)
			})
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "Collection to filter")
	return cmd
}

func printEntities(w io.Writer, entities []store.EntitySummary) error {
	if len(entities) == 0 {
		fmt.Fprintln(w, "No entities found.")
		return nil
	}

	table := newTable(w, []string{"Entity", "Collection", "Source", "Fields"})
	for _, entity := range entities {
		row := []string{entity.Name, entity.Collection, entity.SourceFile, strings.Join(entity.Fields, ", ")}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending row: %w", err)
		}
	}
	return table.Render()
}

func printSearchResults(w io.Writer, results []store.SearchResult) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No documents found.")
		return nil
	}

	table := newTable(w, []string{"Source", "Collection", "Score", "Snippet"})
	for _, result := range results {
		row := []string{result.SourceFile, result.Collection, fmt.Sprintf("%.3f", result.Score), result.Snippet}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending row: %w", err)
		}
	}
	return table.Render()
}
