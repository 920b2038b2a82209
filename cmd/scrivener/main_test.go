package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrivener/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := rootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "Hello def p {name:\"Ann\"} Dear @p:name^, bye.", "resolve")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out != "Hello Dear Ann, bye.\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestResolveCommand_BankOut(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(input, []byte("def a {y: \"2\", x: \"1\"} @a:x"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	bankPath := filepath.Join(dir, "bank.json")

	out, err := execute(t, "", "resolve", input, "--bank-out", bankPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out != "1\n" {
		t.Fatalf("unexpected output %q", out)
	}

	data, err := os.ReadFile(bankPath)
	if err != nil {
		t.Fatalf("read bank: %v", err)
	}
	var got map[string][]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode bank: %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"a": {"x", "y"}}, got); diff != "" {
		t.Fatalf("bank mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCommand_Render(t *testing.T) {
	out, err := execute(t, "def t {v: \"hello\"} # @t:v!", "resolve", "--render", "--format", "md")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "<h1>Hello</h1>") {
		t.Fatalf("expected rendered heading, got %q", out)
	}
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "plain *text*", "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "plain *text*" {
		t.Fatalf("expected passthrough, got %q", out)
	}

	out, err = execute(t, "plain *text*", "render", "--format", "markdown")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<em>text</em>") {
		t.Fatalf("expected html, got %q", out)
	}
}

func TestProjectLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCRIVENER_DATABASE_DSN", "sqlite://"+filepath.Join(dir, "test.db"))
	configFile := filepath.Join(dir, "scrivener.yaml")

	if _, err := execute(t, "", "init", dir, "--name", "lighthouse"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := execute(t, "", "init", dir, "--name", "lighthouse"); err == nil {
		t.Fatalf("expected second init to fail")
	}

	out, err := execute(t, "", "build", "--config", configFile)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Documents built:   1") {
		t.Fatalf("unexpected build summary:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "docs", "welcome.html")); err != nil {
		t.Fatalf("expected rendered output: %v", err)
	}

	out, err = execute(t, "", "bank", "list", "--config", configFile)
	if err != nil {
		t.Fatalf("bank list: %v", err)
	}
	if !strings.Contains(out, "narrator") || !strings.Contains(out, "name, title") {
		t.Fatalf("unexpected entity listing:\n%s", out)
	}

	out, err = execute(t, "", "bank", "sql", "--config", configFile, "SELECT name FROM entities")
	if err != nil {
		t.Fatalf("bank sql: %v", err)
	}
	if !strings.Contains(out, `"name": "narrator"`) {
		t.Fatalf("unexpected sql output:\n%s", out)
	}

	if _, err := execute(t, "", "bank", "sql", "--config", configFile, "DELETE FROM entities"); err == nil {
		t.Fatalf("expected write statement to be rejected")
	}

	out, err = execute(t, "", "check", "--config", configFile)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if out != "No issues found.\n" {
		t.Fatalf("unexpected check output %q", out)
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.md")
	if err := os.WriteFile(path, []byte("def a {name: } @a:name"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, "", "check", path)
	if err == nil {
		t.Fatalf("expected check to fail")
	}
	if !strings.Contains(out, "invalid_data_block") {
		t.Fatalf("expected invalid_data_block, got:\n%s", out)
	}
}

func TestRunInit_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	if err := runInit(dir, "atlas"); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.LoadProjectConfig(context.Background(), filepath.Join(dir, "scrivener.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project != "atlas" {
		t.Fatalf("expected project atlas, got %q", cfg.Project)
	}
	if want := filepath.Join(dir, "docs"); filepath.Clean(cfg.Collections[0].Paths[0]) != want {
		t.Fatalf("expected collection path %s, got %s", want, cfg.Collections[0].Paths[0])
	}
}

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=ann", " 2 = b=c ", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"1": "ann", "2": "b=c"}, params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseParamPairs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNewHandler(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		level   string
		enabled slog.Level
		below   slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, below: slog.LevelDebug - 1},
		{level: "INFO", enabled: slog.LevelInfo, below: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, below: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, below: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo, below: slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h := newHandler(tt.level, "text", io.Discard)
			if !h.Enabled(ctx, tt.enabled) {
				t.Fatalf("expected %v enabled", tt.enabled)
			}
			if h.Enabled(ctx, tt.below) {
				t.Fatalf("expected %v disabled", tt.below)
			}
		})
	}

	var buf bytes.Buffer
	slog.New(newHandler("info", "json", &buf)).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}

func TestDial_UnsupportedScheme(t *testing.T) {
	if _, err := dial(context.Background(), "mysql://localhost/db"); err == nil {
		t.Fatalf("expected error")
	}
}
