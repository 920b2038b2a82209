package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS documents (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source_file TEXT NOT NULL,
		collection  TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		format      TEXT DEFAULT '',
		resolved    TEXT DEFAULT '',
		built_at    TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_document_source UNIQUE (source_file)
	);

	CREATE TABLE IF NOT EXISTS entities (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id     INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		fields          TEXT DEFAULT '[]',
		CONSTRAINT uq_entity_document_name UNIQUE (document_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
	CREATE INDEX IF NOT EXISTS idx_entities_document ON entities (document_id);
	CREATE INDEX IF NOT EXISTS idx_entities_name_norm ON entities (name_normalized);

	CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
		source_file,
		resolved,
		content=documents,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
		INSERT INTO documents_fts(rowid, source_file, resolved)
		VALUES (new.id, new.source_file, new.resolved);
	END;

	CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
		INSERT INTO documents_fts(documents_fts, rowid, source_file, resolved)
		VALUES ('delete', old.id, old.source_file, old.resolved);
	END;

	CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
		INSERT INTO documents_fts(documents_fts, rowid, source_file, resolved)
		VALUES ('delete', old.id, old.source_file, old.resolved);
		INSERT INTO documents_fts(rowid, source_file, resolved)
		VALUES (new.id, new.source_file, new.resolved);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits ddl on statement-ending semicolons. Semicolons inside
// a trigger body only end the statement at the closing END.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inBody := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		switch {
		case strings.HasSuffix(upper, " BEGIN"):
			inBody = true
		case inBody && upper == "END;":
			inBody = false
			statements = append(statements, current.String())
			current.Reset()
		case !inBody && strings.HasSuffix(stripped, ";"):
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
