package sqlite

import (
	"context"
	"fmt"

	"scrivener/internal/store"
)

// ListSharedEntities returns every entity whose name is declared by more than
// one document in the collection.
func (c *Client) ListSharedEntities(ctx context.Context, collection string) ([]store.EntitySummary, error) {
	query := `
	SELECT e.name, d.collection, d.source_file, e.fields
	FROM entities e
	JOIN documents d ON d.id = e.document_id
	WHERE (? = '' OR d.collection = ?)
	  AND e.name_normalized IN (
		SELECT e2.name_normalized
		FROM entities e2
		JOIN documents d2 ON d2.id = e2.document_id
		WHERE (? = '' OR d2.collection = ?)
		GROUP BY e2.name_normalized
		HAVING COUNT(DISTINCT e2.document_id) > 1
	  )
	ORDER BY e.name_normalized, d.source_file
	`

	rows, err := c.db.QueryContext(ctx, query, collection, collection, collection, collection)
	if err != nil {
		return nil, fmt.Errorf("listing shared entities: %w", err)
	}
	return scanSummaries(rows)
}
