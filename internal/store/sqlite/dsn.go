package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// defaultPragmas are applied by the driver to every new connection unless the
// DSN already sets the same pragma.
var defaultPragmas = []struct {
	name  string
	value string
}{
	{name: "busy_timeout", value: "30000"},
	{name: "journal_mode", value: "WAL"},
	{name: "foreign_keys", value: "1"},
}

// parseDSN turns a sqlite:// DSN into a driver file name carrying the default
// pragmas as _pragma parameters.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	path, rawQuery, _ := strings.Cut(rest, "?")
	if path == "" {
		return "", fmt.Errorf("sqlite DSN has no database path")
	}
	if path != ":memory:" {
		unescaped, err := url.PathUnescape(path)
		if err != nil {
			return "", fmt.Errorf("unescaping path: %w", err)
		}
		path = unescaped
		if !filepath.IsAbs(path) && !strings.HasPrefix(path, ".") {
			path = "./" + path
		}
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("parsing query: %w", err)
	}
	params := []string{}
	if rawQuery != "" {
		params = append(params, rawQuery)
	}
	for _, pragma := range defaultPragmas {
		if hasPragma(query["_pragma"], pragma.name) {
			continue
		}
		params = append(params, fmt.Sprintf("_pragma=%s(%s)", pragma.name, pragma.value))
	}

	return path + "?" + strings.Join(params, "&"), nil
}

func hasPragma(values []string, name string) bool {
	for _, value := range values {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), name+"(") {
			return true
		}
	}
	return false
}
