package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// RemoveStaleDocuments deletes the collection's documents whose source file is
// no longer present. An empty file list clears the collection.
func (c *Client) RemoveStaleDocuments(ctx context.Context, collection string, currentSourceFiles []string) (int64, error) {
	args := make([]any, 0, len(currentSourceFiles)+1)
	args = append(args, collection)

	query := `DELETE FROM documents WHERE collection = ?`
	if len(currentSourceFiles) > 0 {
		placeholders := make([]string, len(currentSourceFiles))
		for i, f := range currentSourceFiles {
			placeholders[i] = "?"
			args = append(args, f)
		}
		query += fmt.Sprintf(" AND source_file NOT IN (%s)", strings.Join(placeholders, ", "))
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale documents: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}

func (c *Client) GetCollectionHashes(ctx context.Context, collection string) (map[string]string, error) {
	query := `SELECT source_file, source_hash FROM documents WHERE collection = ?`

	rows, err := c.db.QueryContext(ctx, query, collection)
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
