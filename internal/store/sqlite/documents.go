package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scrivener/internal/store"
)

func (c *Client) UpsertDocument(ctx context.Context, d store.DocumentInput) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO documents (source_file, collection, source_hash, format, resolved, built_at)
	VALUES (?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (source_file) DO UPDATE SET
		collection = excluded.collection,
		source_hash = excluded.source_hash,
		format = excluded.format,
		resolved = excluded.resolved,
		built_at = datetime('now')
	RETURNING id
	`

	var documentID int64
	err = tx.QueryRowContext(ctx, query,
		d.SourceFile,
		d.Collection,
		d.SourceHash,
		d.Format,
		d.Resolved,
	).Scan(&documentID)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing entities: %w", err)
	}

	for _, name := range d.Bank.Names() {
		fields := d.Bank[name]
		if fields == nil {
			fields = []string{}
		}
		fieldsJSON, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshaling fields: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO entities (document_id, name, name_normalized, fields) VALUES (?, ?, ?, ?)",
			documentID, name, store.NormalizeName(name), string(fieldsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting entity %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

func (c *Client) GetDocument(ctx context.Context, sourceFile string) (*store.Document, error) {
	query := `
	SELECT id, source_file, collection, source_hash, format, resolved, built_at
	FROM documents
	WHERE source_file = ?
	`

	var (
		d          store.Document
		documentID int64
		builtAt    string
	)
	err := c.db.QueryRowContext(ctx, query, sourceFile).Scan(
		&documentID,
		&d.SourceFile,
		&d.Collection,
		&d.SourceHash,
		&d.Format,
		&d.Resolved,
		&builtAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if t, err := time.Parse(time.DateTime, builtAt); err == nil {
		d.BuiltAt = t
	}

	rows, err := c.db.QueryContext(ctx, `
	SELECT name, fields FROM entities WHERE document_id = ? ORDER BY name
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document entities: %w", err)
	}
	defer rows.Close()

	d.Entities = []store.EntitySummary{}
	for rows.Next() {
		s := store.EntitySummary{Collection: d.Collection, SourceFile: d.SourceFile}
		var fieldsBytes []byte
		if err := rows.Scan(&s.Name, &fieldsBytes); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if s.Fields, err = decodeFields(fieldsBytes); err != nil {
			return nil, err
		}
		d.Entities = append(d.Entities, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}

	return &d, nil
}

func decodeFields(data []byte) ([]string, error) {
	fields := []string{}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}
	return fields, nil
}
