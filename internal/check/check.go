// Package check reports what the resolve path silently degrades: data blocks
// that fail to compile, declarations without a block and references that
// would render as the unknown sentinel.
package check

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"scrivener/internal/engine"
	"scrivener/internal/parser"
	"scrivener/internal/resolve"
	"scrivener/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	CodeInvalidDataBlock     = "invalid_data_block"
	CodeUnterminatedBlock    = "unterminated_block"
	CodeUnpairedDeclaration  = "unpaired_declaration"
	CodeUnnamedBlock         = "unnamed_block"
	CodeDuplicateDeclaration = "duplicate_declaration"
	CodeUnknownEntity        = "unknown_entity"
	CodeUnknownField         = "unknown_field"
	CodeNonStringField       = "non_string_field"
	CodeSharedEntity         = "shared_entity"
)

type Issue struct {
	Severity  Severity
	Code      string
	Message   string
	Entity    string
	Reference string
	FilePath  string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarn)
}

func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) filter(severity Severity) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			issues = append(issues, issue)
		}
	}
	return issues
}

// SharedLister finds entity names declared by more than one stored document.
type SharedLister interface {
	ListSharedEntities(ctx context.Context, collection string) ([]store.EntitySummary, error)
}

// Run checks every file in paths. When shared is non-nil the persisted Object
// Bank is also consulted for entities declared in several documents.
func Run(ctx context.Context, paths []string, shared SharedLister) (*Report, error) {
	log := clog.FromContext(ctx)
	report := &Report{Issues: make([]Issue, 0)}

	for _, path := range paths {
		doc, err := parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		issues := Document(doc)
		log.Debugf("checked %s: %d issues", path, len(issues))
		report.Issues = append(report.Issues, issues...)
	}

	if shared != nil {
		summaries, err := shared.ListSharedEntities(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("list shared entities: %w", err)
		}
		for _, summary := range summaries {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarn,
				Code:     CodeSharedEntity,
				Message:  fmt.Sprintf("entity also declared in another document of collection %s", summary.Collection),
				Entity:   summary.Name,
				FilePath: summary.SourceFile,
			})
		}
	}

	return report, nil
}

// Document checks a single parsed document.
func Document(doc *parser.Document) []Issue {
	var issues []Issue
	add := func(severity Severity, code, entity, message string) {
		issues = append(issues, Issue{
			Severity: severity,
			Code:     code,
			Message:  message,
			Entity:   entity,
			FilePath: doc.SourceFile,
		})
	}

	sections := doc.Sections
	paired := min(len(sections.Names), len(sections.Blocks))
	seen := make(map[string]struct{}, paired)

	for i := 0; i < paired; i++ {
		name := sections.Names[i]
		if _, err := parser.CompileBlock(sections.Blocks[i]); err != nil {
			add(SeverityError, CodeInvalidDataBlock, name, fmt.Sprintf("data block does not compile: %v", err))
		}
		if _, dup := seen[name]; dup {
			add(SeverityWarn, CodeDuplicateDeclaration, name, "declaration overwrites an earlier one with the same name")
		}
		seen[name] = struct{}{}
	}
	for _, name := range sections.Names[paired:] {
		add(SeverityWarn, CodeUnpairedDeclaration, name, "declaration has no data block")
	}
	for i := paired; i < len(sections.Blocks); i++ {
		add(SeverityWarn, CodeUnnamedBlock, "", fmt.Sprintf("data block %d has no declaration", i+1))
	}
	if sections.Unterminated {
		add(SeverityError, CodeUnterminatedBlock, "", "document ends inside a data block")
	}

	engine.ProcessDocument(doc, func(ref resolve.Reference) {
		var code, message string
		switch ref.Outcome {
		case resolve.UnknownEntity:
			code, message = CodeUnknownEntity, fmt.Sprintf("reference @%s names an undeclared entity", ref.ID)
		case resolve.UnknownField:
			code, message = CodeUnknownField, fmt.Sprintf("entity has no field %q", ref.Field)
		case resolve.NotString:
			code, message = CodeNonStringField, fmt.Sprintf("field %q is not a string", ref.Field)
		default:
			return
		}
		issues = append(issues, Issue{
			Severity:  SeverityError,
			Code:      code,
			Message:   message,
			Entity:    ref.Entity,
			Reference: "@" + ref.ID,
			FilePath:  doc.SourceFile,
		})
	})

	return issues
}
