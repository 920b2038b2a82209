// Package build resolves every document of a project's collections, writes
// the rendered output and records each document's Object Bank in the store.
package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"scrivener/internal/config"
	"scrivener/internal/engine"
	"scrivener/internal/parser"
	"scrivener/internal/render"
	"scrivener/internal/store"
)

// Store is the part of the store a build writes to.
type Store interface {
	EnsureSchema(ctx context.Context) error
	GetCollectionHashes(ctx context.Context, collection string) (map[string]string, error)
	UpsertDocument(ctx context.Context, d store.DocumentInput) error
	RemoveStaleDocuments(ctx context.Context, collection string, currentSourceFiles []string) (int64, error)
}

type Result struct {
	DocumentsBuilt   int
	EntitiesIndexed  int
	DocumentsRemoved int
	FilesSkipped     int
	Errors           []error
}

type Options struct {
	// Full rebuilds every document, ignoring stored hashes.
	Full bool
	// Concurrency bounds how many documents resolve at once. Zero means
	// GOMAXPROCS.
	Concurrency int
}

type job struct {
	file   sourceFile
	data   []byte
	hash   string
	format string
	target string
}

type built struct {
	input store.DocumentInput
	err   error
}

func Run(ctx context.Context, cfg *config.ProjectConfig, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log := clog.FromContext(ctx)
	result := &Result{}

	for _, collection := range cfg.Collections {
		var existingHashes map[string]string
		if !options.Full {
			var err error
			existingHashes, err = db.GetCollectionHashes(ctx, collection.Name)
			if err != nil {
				return nil, fmt.Errorf("get collection hashes for %s: %w", collection.Name, err)
			}
		}

		files, err := walkDocuments(collection.Paths, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking files for collection %s: %w", collection.Name, err)
		}

		var jobs []job
		sourceFiles := make([]string, 0, len(files))
		for _, file := range files {
			sourceFiles = append(sourceFiles, file.path)

			data, err := os.ReadFile(file.path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", file.path, err))
				continue
			}
			format := documentFormat(collection, file.path)
			target, err := outputPath(cfg.Output, collection.Name, file, render.IsMarkdown(format))
			if err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			hash := computeHash(data, format, target)
			if !options.Full && existingHashes[file.path] == hash && fileExists(target) {
				result.FilesSkipped++
				continue
			}
			jobs = append(jobs, job{file: file, data: data, hash: hash, format: format, target: target})
		}

		outputs, err := buildAll(ctx, collection, jobs, options.Concurrency)
		if err != nil {
			return nil, err
		}

		for _, out := range outputs {
			if out.err != nil {
				result.Errors = append(result.Errors, out.err)
				continue
			}
			if err := db.UpsertDocument(ctx, out.input); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", out.input.SourceFile, err))
				continue
			}
			result.DocumentsBuilt++
			result.EntitiesIndexed += len(out.input.Bank)
		}

		deleted, err := db.RemoveStaleDocuments(ctx, collection.Name, sourceFiles)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("removing stale documents for %s: %w", collection.Name, err))
		} else {
			result.DocumentsRemoved += int(deleted)
		}

		log.Infof("collection %s: %d files, %d rebuilt, %d removed", collection.Name, len(files), len(jobs), deleted)
	}

	return result, nil
}

// buildAll resolves, renders and writes jobs concurrently. Per-document
// failures are reported in the returned slice; only cancellation aborts.
func buildAll(ctx context.Context, collection config.Collection, jobs []job, concurrency int) ([]built, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	outputs := make([]built, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outputs[i] = buildOne(ctx, collection, j)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building collection %s: %w", collection.Name, err)
	}
	return outputs, nil
}

func buildOne(ctx context.Context, collection config.Collection, j job) built {
	doc := parser.Parse(j.data)
	doc.SourceFile = j.file.path
	result := engine.ProcessDocument(doc, nil)

	text, err := render.Render(result.Text, j.format)
	if err != nil {
		return built{err: fmt.Errorf("rendering %s: %w", j.file.path, err)}
	}

	target := j.target
	if err := writeOutput(target, text); err != nil {
		return built{err: fmt.Errorf("writing %s: %w", target, err)}
	}
	clog.FromContext(ctx).Debugf("built %s -> %s", j.file.path, target)

	return built{input: store.DocumentInput{
		SourceFile: j.file.path,
		Collection: collection.Name,
		SourceHash: j.hash,
		Format:     j.format,
		Resolved:   result.Text,
		Bank:       result.Bank,
	}}
}

func outputPath(outputDir, collection string, file sourceFile, rendered bool) (string, error) {
	rel, err := filepath.Rel(file.root, file.path)
	if err != nil || rel == "." {
		rel = filepath.Base(file.path)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside %s", file.path, file.root)
	}
	if rendered {
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	}
	return filepath.Join(outputDir, collection, rel), nil
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func documentFormat(collection config.Collection, path string) string {
	if collection.Format != "" {
		return collection.Format
	}
	return render.HintFromPath(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// computeHash fingerprints a document's content together with the settings
// that shape its output, so changing either forces a rebuild.
func computeHash(data []byte, format, target string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write([]byte(target))
	return hex.EncodeToString(h.Sum(nil))
}
