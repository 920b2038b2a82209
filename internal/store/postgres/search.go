package postgres

import (
	"context"
	"fmt"
	"strings"

	"scrivener/internal/store"
)

func (c *Client) Search(ctx context.Context, query, collection string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, store.ErrEmptyQuery
	}

	sql := `
SELECT source_file, collection,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    CASE WHEN resolved <> '' THEN
        ts_headline('english', resolved, websearch_to_tsquery('english', $1),
            'MaxFragments=2, MaxWords=40, MinWords=20, StartSel=**, StopSel=**')
    ELSE '' END AS snippet
FROM documents
WHERE search_vector @@ websearch_to_tsquery('english', $1)
  AND ($2 = '' OR collection = $2)
ORDER BY score DESC, source_file ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, collection)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.SourceFile, &r.Collection, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
