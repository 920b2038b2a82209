package mcp

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"scrivener/internal/engine"
	"scrivener/internal/render"
	"scrivener/internal/store"
)

type ResolveTextInput struct {
	Text   string `json:"text" jsonschema:"document text with def declarations and @entity:field references"`
	Format string `json:"format,omitempty" jsonschema:"render the resolved text with this format hint, e.g. md"`
}

type ResolveTextOutput struct {
	Text string              `json:"text"`
	Bank map[string][]string `json:"bank"`
}

type RenderTextInput struct {
	Text   string `json:"text" jsonschema:"resolved text to render"`
	Format string `json:"format" jsonschema:"format hint; md converts markdown to HTML"`
}

type RenderTextOutput struct {
	Text string `json:"text"`
}

type ListEntitiesInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"collection filter"`
	Prefix     string `json:"prefix,omitempty" jsonschema:"entity name prefix"`
}

type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type GetEntityFieldsInput struct {
	Name       string `json:"name" jsonschema:"entity name"`
	Collection string `json:"collection,omitempty" jsonschema:"collection filter"`
}

type GetEntityFieldsOutput struct {
	Declarations []EntityOutput `json:"declarations"`
}

type SearchDocumentsInput struct {
	Query      string `json:"query" jsonschema:"search terms"`
	Collection string `json:"collection,omitempty" jsonschema:"collection filter"`
}

type SearchDocumentsOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type GetDocumentInput struct {
	SourceFile string `json:"source_file" jsonschema:"source file path as built"`
}

type DocumentOutput struct {
	SourceFile string         `json:"source_file"`
	Collection string         `json:"collection"`
	SourceHash string         `json:"source_hash"`
	Format     string         `json:"format"`
	Resolved   string         `json:"resolved"`
	Entities   []EntityOutput `json:"entities"`
}

type EntityOutput struct {
	Name       string   `json:"name"`
	Collection string   `json:"collection"`
	SourceFile string   `json:"source_file"`
	Fields     []string `json:"fields"`
}

type SearchResultOutput struct {
	SourceFile string  `json:"source_file"`
	Collection string  `json:"collection"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "resolve_text",
		Description: "Resolve @entity:field references in a document and return its object bank",
	}, s.handleResolveText)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "render_text",
		Description: "Render resolved text for a format hint",
	}, s.handleRenderText)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List built entities with optional filters",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity_fields",
		Description: "Return the fields each built document declares for an entity",
	}, s.handleGetEntityFields)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_documents",
		Description: "Full-text search over resolved documents",
	}, s.handleSearchDocuments)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_document",
		Description: "Retrieve a built document and its object bank",
	}, s.handleGetDocument)
}

func (s *Server) handleResolveText(ctx context.Context, req *sdk.CallToolRequest, input ResolveTextInput) (*sdk.CallToolResult, ResolveTextOutput, error) {
	result := engine.Process(input.Text)
	text, err := render.Render(result.Text, input.Format)
	if err != nil {
		return nil, ResolveTextOutput{}, err
	}
	clog.FromContext(ctx).Debugf("resolved %d bytes with %d entities", len(input.Text), len(result.Bank))
	return nil, ResolveTextOutput{Text: text, Bank: result.Bank}, nil
}

func (s *Server) handleRenderText(ctx context.Context, req *sdk.CallToolRequest, input RenderTextInput) (*sdk.CallToolResult, RenderTextOutput, error) {
	text, err := render.Render(input.Text, input.Format)
	if err != nil {
		return nil, RenderTextOutput{}, err
	}
	return nil, RenderTextOutput{Text: text}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	items, err := s.db.ListEntities(ctx, input.Collection, input.Prefix)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}
	return nil, ListEntitiesOutput{Entities: entityOutputs(items)}, nil
}

func (s *Server) handleGetEntityFields(ctx context.Context, req *sdk.CallToolRequest, input GetEntityFieldsInput) (*sdk.CallToolResult, GetEntityFieldsOutput, error) {
	if input.Name == "" {
		return nil, GetEntityFieldsOutput{}, fmt.Errorf("name is required")
	}
	items, err := s.db.GetEntityFields(ctx, input.Name, input.Collection)
	if err != nil {
		return nil, GetEntityFieldsOutput{}, err
	}
	if len(items) == 0 {
		return nil, GetEntityFieldsOutput{}, fmt.Errorf("entity not found")
	}
	return nil, GetEntityFieldsOutput{Declarations: entityOutputs(items)}, nil
}

func (s *Server) handleSearchDocuments(ctx context.Context, req *sdk.CallToolRequest, input SearchDocumentsInput) (*sdk.CallToolResult, SearchDocumentsOutput, error) {
	if input.Query == "" {
		return nil, SearchDocumentsOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.Search(ctx, input.Query, input.Collection)
	if err != nil {
		return nil, SearchDocumentsOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, result := range results {
		output = append(output, SearchResultOutput{
			SourceFile: result.SourceFile,
			Collection: result.Collection,
			Score:      result.Score,
			Snippet:    result.Snippet,
		})
	}
	return nil, SearchDocumentsOutput{Results: output}, nil
}

func (s *Server) handleGetDocument(ctx context.Context, req *sdk.CallToolRequest, input GetDocumentInput) (*sdk.CallToolResult, DocumentOutput, error) {
	if input.SourceFile == "" {
		return nil, DocumentOutput{}, fmt.Errorf("source_file is required")
	}
	doc, err := s.db.GetDocument(ctx, input.SourceFile)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	if doc == nil {
		return nil, DocumentOutput{}, fmt.Errorf("document not found")
	}
	return nil, DocumentOutput{
		SourceFile: doc.SourceFile,
		Collection: doc.Collection,
		SourceHash: doc.SourceHash,
		Format:     doc.Format,
		Resolved:   doc.Resolved,
		Entities:   entityOutputs(doc.Entities),
	}, nil
}

func entityOutputs(items []store.EntitySummary) []EntityOutput {
	output := make([]EntityOutput, 0, len(items))
	for _, item := range items {
		output = append(output, EntityOutput{
			Name:       item.Name,
			Collection: item.Collection,
			SourceFile: item.SourceFile,
			Fields:     append([]string{}, item.Fields...),
		})
	}
	return output
}
