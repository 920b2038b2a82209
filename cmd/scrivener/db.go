package main

import (
	"context"
	"fmt"
	"strings"

	"scrivener/internal/config"
	"scrivener/internal/store"
	"scrivener/internal/store/postgres"
	"scrivener/internal/store/sqlite"
)

// openDB opens the store named by the project DSN and makes sure its schema
// exists, so read commands work before the first build.
func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	db, err := dial(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

func dial(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
	}
}
