package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"scrivener/internal/store"
)

// Querier is the part of the store the tools read from.
type Querier interface {
	GetDocument(ctx context.Context, sourceFile string) (*store.Document, error)
	ListEntities(ctx context.Context, collection, prefix string) ([]store.EntitySummary, error)
	GetEntityFields(ctx context.Context, name, collection string) ([]store.EntitySummary, error)
	Search(ctx context.Context, query, collection string) ([]store.SearchResult, error)
}

type Server struct {
	db  Querier
	mcp *sdk.Server
}

func NewServer(db Querier, version string) *Server {
	s := &Server{
		db: db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "scrivener",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
