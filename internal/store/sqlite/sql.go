package sqlite

import (
	"context"
	"fmt"
	"strconv"

	"scrivener/internal/store"
)

// RunSQL runs a read-only query. Positional parameters are keyed "1", "2"
// and so on in params.
func (c *Client) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := store.CheckReadOnly(query); err != nil {
		return nil, err
	}

	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		key := strconv.Itoa(i)
		if val, ok := params[key]; ok {
			args = append(args, val)
		}
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	// The keyword check misses writing CTEs and stacked statements, so the
	// connection itself refuses writes for the duration of the query.
	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("entering query_only mode: %w", err)
	}
	defer conn.ExecContext(context.Background(), "PRAGMA query_only = OFF")

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", err)
	}

	return results, nil
}
