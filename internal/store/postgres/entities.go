package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"scrivener/internal/store"
)

func (c *Client) ListEntities(ctx context.Context, collection, prefix string) ([]store.EntitySummary, error) {
	query := `
SELECT e.name, d.collection, d.source_file, e.fields
FROM entities e
JOIN documents d ON d.id = e.document_id
WHERE ($1 = '' OR d.collection = $1)
  AND ($2 = '' OR e.name_normalized LIKE $2 || '%')
ORDER BY e.name, d.source_file
`

	rows, err := c.pool.Query(ctx, query, collection, store.NormalizeName(prefix))
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
WHERE e.name_normalized = $1
  AND ($2 = '' OR d.collection = $2)
ORDER BY d.source_file
`

	rows, err := c.pool.Query(ctx, query, store.NormalizeName(name), collection)
	if err != nil {
		return nil, fmt.Errorf("getting entity fields: %w", err)
	}
	return scanSummaries(rows)
}

// ListSharedEntities returns every entity whose name is declared by more than
// one document in the collection.
func (c *Client) ListSharedEntities(ctx context.Context, collection string) ([]store.EntitySummary, error) {
	query := `
SELECT e.name, d.collection, d.source_file, e.fields
FROM entities e
JOIN documents d ON d.id = e.document_id
WHERE ($1 = '' OR d.collection = $1)
  AND e.name_normalized IN (
    SELECT e2.name_normalized
    FROM entities e2
    JOIN documents d2 ON d2.id = e2.document_id
    WHERE ($1 = '' OR d2.collection = $1)
    GROUP BY e2.name_normalized
    HAVING COUNT(DISTINCT e2.document_id) > 1
  )
ORDER BY e.name_normalized, d.source_file
`

	rows, err := c.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("listing shared entities: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]store.EntitySummary, error) {
	defer rows.Close()

	summaries := []store.EntitySummary{}
	for rows.Next() {
		var s store.EntitySummary
		if err := rows.Scan(&s.Name, &s.Collection, &s.SourceFile, &s.Fields); err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		if s.Fields == nil {
			s.Fields = []string{}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}
	return summaries, nil
}
