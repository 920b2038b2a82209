package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"scrivener/internal/store"
)

func (c *Client) UpsertDocument(ctx context.Context, d store.DocumentInput) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
INSERT INTO documents (source_file, collection, source_hash, format, resolved, built_at, search_vector)
VALUES ($1, $2, $3, $4, $5, now(),
    setweight(to_tsvector('simple', coalesce($1, '')), 'A') ||
    setweight(to_tsvector('english', coalesce($5, '')), 'B')
)
ON CONFLICT (source_file) DO UPDATE SET
    collection = EXCLUDED.collection,
    source_hash = EXCLUDED.source_hash,
    format = EXCLUDED.format,
    resolved = EXCLUDED.resolved,
    built_at = now(),
    search_vector = EXCLUDED.search_vector
RETURNING id
`

	var documentID int64
	err = tx.QueryRow(ctx, query,
		d.SourceFile,
		d.Collection,
		d.SourceHash,
		d.Format,
		d.Resolved,
	).Scan(&documentID)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue("DELETE FROM entities WHERE document_id = $1", documentID)
	for _, name := range d.Bank.Names() {
		fields := d.Bank[name]
		if fields == nil {
			fields = []string{}
		}
		batch.Queue(
			"INSERT INTO entities (document_id, name, name_normalized, fields) VALUES ($1, $2, $3, $4)",
			documentID, name, store.NormalizeName(name), fields,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replacing entities: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

func (c *Client) GetDocument(ctx context.Context, sourceFile string) (*store.Document, error) {
	query := `
SELECT id, source_file, collection, source_hash, format, resolved, built_at
FROM documents
WHERE source_file = $1
`

	var (
		d          store.Document
		documentID int64
	)
	err := c.pool.QueryRow(ctx, query, sourceFile).Scan(
		&documentID,
		&d.SourceFile,
		&d.Collection,
		&d.SourceHash,
		&d.Format,
		&d.Resolved,
		&d.BuiltAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	rows, err := c.pool.Query(ctx, `
SELECT name, fields FROM entities WHERE document_id = $1 ORDER BY name
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document entities: %w", err)
	}
	defer rows.Close()

	d.Entities = []store.EntitySummary{}
	for rows.Next() {
		s := store.EntitySummary{Collection: d.Collection, SourceFile: d.SourceFile}
		if err := rows.Scan(&s.Name, &s.Fields); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if s.Fields == nil {
			s.Fields = []string{}
		}
		d.Entities = append(d.Entities, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}

	return &d, nil
}
