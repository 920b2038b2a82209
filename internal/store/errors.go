package store

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQuery = errors.New("query must not be empty")
	ErrReadOnly   = errors.New("only read-only statements are allowed")
)

// CheckReadOnly rejects statements that could modify the store. It looks at
// the leading keyword only, so it guards against mistakes rather than
// hostile input.
func CheckReadOnly(query string) error {
	fields := strings.Fields(strings.TrimSpace(query))
	if len(fields) == 0 {
		return ErrEmptyQuery
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "EXPLAIN", "VALUES":
		return nil
	}
	return ErrReadOnly
}
