package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDSN       = "sqlite://scrivener.db"
	DefaultOutput    = "dist"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

type ProjectConfig struct {
	Project     string         `yaml:"project"`
	Version     int            `yaml:"version"`
	Database    DatabaseConfig `yaml:"database"`
	Output      string         `yaml:"output"`
	Exclude     []string       `yaml:"exclude"`
	Log         LogConfig      `yaml:"log"`
	Collections []Collection   `yaml:"collections"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Collection is a named group of source documents built together. Format
// overrides the per-file extension hint when rendering.
type Collection struct {
	Name   string   `yaml:"name"`
	Paths  []string `yaml:"paths"`
	Format string   `yaml:"format"`
}

// Overrides are read from the environment and win over the project file.
type Overrides struct {
	DatabaseDSN string `env:"SCRIVENER_DATABASE_DSN"`
	Output      string `env:"SCRIVENER_OUTPUT"`
	LogLevel    string `env:"SCRIVENER_LOG_LEVEL"`
	LogFormat   string `env:"SCRIVENER_LOG_FORMAT"`
}

func LoadProjectConfig(ctx context.Context, path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var overrides Overrides
	if err := envconfig.Process(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	cfg.apply(overrides)
	cfg.applyDefaults()

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg.relativeTo(filepath.Dir(path))
	return &cfg, nil
}

func (c *ProjectConfig) apply(o Overrides) {
	if o.DatabaseDSN != "" {
		c.Database.DSN = o.DatabaseDSN
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
}

func (c *ProjectConfig) applyDefaults() {
	if strings.TrimSpace(c.Database.DSN) == "" {
		c.Database.DSN = DefaultDSN
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = DefaultOutput
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// relativeTo anchors relative collection, exclude and output paths at the
// directory holding the project file.
func (c *ProjectConfig) relativeTo(dir string) {
	if dir == "" || dir == "." {
		return
	}
	anchor := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Collections {
		for j, p := range c.Collections[i].Paths {
			c.Collections[i].Paths[j] = anchor(p)
		}
	}
	for i, p := range c.Exclude {
		c.Exclude[i] = anchor(p)
	}
	c.Output = anchor(c.Output)
}

// Collection returns the collection with the given name, compared
// case-insensitively.
func (c *ProjectConfig) Collection(name string) (Collection, bool) {
	for _, collection := range c.Collections {
		if strings.EqualFold(collection.Name, name) {
			return collection, true
		}
	}
	return Collection{}, false
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if !hasScheme(cfg.Database.DSN, "sqlite://", "postgres://", "postgresql://") {
		return fmt.Errorf("unsupported database dsn: %s", cfg.Database.DSN)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	if len(cfg.Collections) == 0 {
		return fmt.Errorf("at least one collection is required")
	}

	seen := make(map[string]struct{})
	for i, collection := range cfg.Collections {
		if strings.TrimSpace(collection.Name) == "" {
			return fmt.Errorf("collection %d name is required", i)
		}
		if len(collection.Paths) == 0 {
			return fmt.Errorf("collection %d paths are required", i)
		}
		key := strings.ToLower(collection.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate collection name: %s", collection.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func hasScheme(dsn string, schemes ...string) bool {
	for _, scheme := range schemes {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}
