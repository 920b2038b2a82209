package store

import "context"

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertDocument(ctx context.Context, d DocumentInput) error
	RemoveStaleDocuments(ctx context.Context, collection string, currentSourceFiles []string) (int64, error)
	GetCollectionHashes(ctx context.Context, collection string) (map[string]string, error)

	GetDocument(ctx context.Context, sourceFile string) (*Document, error)
	ListEntities(ctx context.Context, collection, prefix string) ([]EntitySummary, error)
	GetEntityFields(ctx context.Context, name, collection string) ([]EntitySummary, error)
	ListSharedEntities(ctx context.Context, collection string) ([]EntitySummary, error)
	Search(ctx context.Context, query, collection string) ([]SearchResult, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
