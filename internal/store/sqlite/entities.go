package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"scrivener/internal/store"
)

func (c *Client) ListEntities(ctx context.Context, collection, prefix string) ([]store.EntitySummary, error) {
	query := `
	SELECT e.name, d.collection, d.source_file, e.fields
	FROM entities e
	JOIN documents d ON d.id = e.document_id
	WHERE (? = '' OR d.collection = ?)
	  AND (? = '' OR e.name_normalized LIKE ? || '%')
	ORDER BY e.name, d.source_file
	`

	normalized := store.NormalizeName(prefix)
	rows, err := c.db.QueryContext(ctx, query, collection, collection, normalized, normalized)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return scanSummaries(rows)
}

func (c *Client) GetEntityFields(ctx context.Context, name, collection string) ([]store.EntitySummary, error) {
	query := `
	SELECT e.name, d.collection, d.source_file, e.fields
	FROM entities e
	JOIN documents d ON d.id = e.document_id
	WHERE e.name_normalized = ?
	  AND (? = '' OR d.collection = ?)
	ORDER BY d.source_file
	`

	rows, err := c.db.QueryContext(ctx, query, store.NormalizeName(name), collection, collection)
	if err != nil {
		return nil, fmt.Errorf("getting entity fields: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]store.EntitySummary, error) {
	defer rows.Close()

	summaries := []store.EntitySummary{}
	for rows.Next() {
		var s store.EntitySummary
		var fieldsBytes []byte
		if err := rows.Scan(&s.Name, &s.Collection, &s.SourceFile, &fieldsBytes); err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		fields, err := decodeFields(fieldsBytes)
		if err != nil {
			return nil, err
		}
		s.Fields = fields
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}
	return summaries, nil
}
