package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// All statements run in one implicit transaction.
	ddl := `
CREATE TABLE IF NOT EXISTS documents (
    id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    source_file   TEXT NOT NULL,
    collection    TEXT NOT NULL,
    source_hash   TEXT NOT NULL,
    format        TEXT DEFAULT '',
    resolved      TEXT DEFAULT '',
    built_at      TIMESTAMPTZ DEFAULT now(),
    search_vector TSVECTOR,
    CONSTRAINT uq_document_source UNIQUE (source_file)
);

CREATE TABLE IF NOT EXISTS entities (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    document_id     BIGINT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    fields          TEXT[] DEFAULT '{}',
    CONSTRAINT uq_entity_document_name UNIQUE (document_id, name)
);

CREATE INDEX IF NOT EXISTS idx_documents_search ON documents USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
CREATE INDEX IF NOT EXISTS idx_entities_document ON entities (document_id);
CREATE INDEX IF NOT EXISTS idx_entities_name_norm ON entities (name_normalized);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
