package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"scrivener/internal/config"
)

var documentExtensions = []string{".md", ".markdown", ".txt"}

type sourceFile struct {
	path string
	root string
}

func walkDocuments(roots []string, excludes []string) ([]sourceFile, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []sourceFile
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !isDocument(d.Name()) {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, sourceFile{path: path, root: root})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range documentExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// SourceFiles lists every document a build of cfg would read, in walk order.
func SourceFiles(cfg *config.ProjectConfig) ([]string, error) {
	var paths []string
	for _, collection := range cfg.Collections {
		files, err := walkDocuments(collection.Paths, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking files for collection %s: %w", collection.Name, err)
		}
		for _, file := range files {
			paths = append(paths, file.path)
		}
	}
	return paths, nil
}
