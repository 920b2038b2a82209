package sqlite

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

	ftsQuery := convertWebsearchToFTS5(query)

	sqlQuery := `
	SELECT d.source_file, d.collection,
		   -bm25(documents_fts, 2.0, 1.0) AS score,
		   snippet(documents_fts, 1, '**', '**', '...', 32) AS snippet
	FROM documents_fts
	JOIN documents d ON documents_fts.rowid = d.id
	WHERE documents_fts MATCH ?
	  AND (? = '' OR d.collection = ?)
	ORDER BY score DESC, d.source_file ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, collection, collection)
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

// convertWebsearchToFTS5 rewrites a web-search style query (bare terms,
// quoted phrases, -negation, OR) into FTS5 query syntax.
func convertWebsearchToFTS5(query string) string {
	var result strings.Builder
	var inQuote bool
	var current strings.Builder

	join := func(op string) {
		if result.Len() == 0 {
			return
		}
		switch lastWord(result.String()) {
		case "AND", "OR", "NOT":
			result.WriteString(" ")
		default:
			result.WriteString(" " + op + " ")
		}
	}

	flushToken := func() {
		token := current.String()
		current.Reset()
		if token == "" {
			return
		}

		upper := strings.ToUpper(token)
		switch upper {
		case "AND", "OR", "NOT":
			if result.Len() > 0 {
				result.WriteString(" ")
			}
			result.WriteString(upper)
			return
		}

		if strings.HasPrefix(token, "-") && len(token) > 1 {
			join("NOT")
			result.WriteString(token[1:])
			return
		}
		join("AND")
		result.WriteString(token)
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if inQuote {
				inQuote = false
				token := current.String()
				current.Reset()
				if token != "" {
					join("AND")
					result.WriteString(`"`)
					result.WriteString(token)
					result.WriteString(`"`)
				}
			} else {
				flushToken()
				inQuote = true
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}

	flushToken()

	return result.String()
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
