package postgres

import (
	"context"
	"fmt"
)

// RemoveStaleDocuments deletes the collection's documents whose source file is
// no longer present. An empty file list clears the collection.
func (c *Client) RemoveStaleDocuments(ctx context.Context, collection string, currentSourceFiles []string) (int64, error) {
	if currentSourceFiles == nil {
		currentSourceFiles = []string{}
	}

	query := `
DELETE FROM documents
WHERE collection = $1
  AND NOT (source_file = ANY($2))
`

	tag, err := c.pool.Exec(ctx, query, collection, currentSourceFiles)
	if err != nil {
		return 0, fmt.Errorf("removing stale documents: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (c *Client) GetCollectionHashes(ctx context.Context, collection string) (map[string]string, error) {
	query := `SELECT source_file, source_hash FROM documents WHERE collection = $1`

	rows, err := c.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("query collection hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var sourceFile, sourceHash string
		if err := rows.Scan(&sourceFile, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning collection hash: %w", err)
		}
		hashes[sourceFile] = sourceHash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection hashes: %w", err)
	}

	return hashes, nil
}
