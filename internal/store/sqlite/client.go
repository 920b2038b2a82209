package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scrivener/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection serialises writers and keeps :memory: databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
