package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// ==========================================================================
// Loading
// ==========================================================================

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	src := `
schema = "schema.yaml"

[log]
level = "debug"

[handlers]
paths = ["/a", "/b"]
timeout_ms = 250

[metrics]
addr = "localhost:9102"
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Schema != "schema.yaml" {
		t.Errorf("Schema = %q", cfg.Schema)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if len(cfg.Handlers.Paths) != 2 || cfg.Handlers.Paths[1] != "/b" {
		t.Errorf("Handlers.Paths = %v", cfg.Handlers.Paths)
	}
	if cfg.Handlers.Timeout() != 250*time.Millisecond {
		t.Errorf("Handlers.Timeout() = %v", cfg.Handlers.Timeout())
	}
	if cfg.Metrics.Addr != "localhost:9102" {
		t.Errorf("Metrics.Addr = %q", cfg.Metrics.Addr)
	}
	// untouched sections keep their defaults
	if !cfg.Editor.WatchSchema || cfg.Editor.DebounceMS != 100 {
		t.Errorf("Editor = %+v, want defaults", cfg.Editor)
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("colour = \"red\"\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"level", "[log]\nlevel = \"loud\"\n", "Log.Level"},
		{"timeout", "[handlers]\ntimeout_ms = 0\n", "Handlers.TimeoutMS"},
		{"addr", "[metrics]\naddr = \"nope\"\n", "Metrics.Addr"},
		{"empty path", "[handlers]\npaths = [\"\"]\n", "Handlers.Paths[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROSELINE_LOG_LEVEL", "ERROR")
	t.Setenv("PROSELINE_METRICS_ADDR", ":9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want env override", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != ":9000" {
		t.Errorf("Metrics.Addr = %q", cfg.Metrics.Addr)
	}
}

// ==========================================================================
// Environment
// ==========================================================================

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	sep := string(os.PathListSeparator)
	err := cfg.ApplyEnv([]string{
		"HOME=/root",
		"PROSELINE_SCHEMA=s.toml",
		"PROSELINE_HANDLER_PATHS=/x" + sep + " " + sep + "/y",
		"PROSELINE_HANDLER_TIMEOUT_MS=40",
		"PROSELINE_WATCH_SCHEMA=false",
		"PROSELINE_UNKNOWN=1",
	})
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Schema != "s.toml" {
		t.Errorf("Schema = %q", cfg.Schema)
	}
	if len(cfg.Handlers.Paths) != 2 || cfg.Handlers.Paths[0] != "/x" || cfg.Handlers.Paths[1] != "/y" {
		t.Errorf("Handlers.Paths = %v", cfg.Handlers.Paths)
	}
	if cfg.Handlers.TimeoutMS != 40 {
		t.Errorf("TimeoutMS = %d", cfg.Handlers.TimeoutMS)
	}
	if cfg.Editor.WatchSchema {
		t.Error("WatchSchema should be false")
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	err := Default().ApplyEnv([]string{"PROSELINE_DEBOUNCE_MS=soon"})
	if !errors.Is(err, ErrInvalidEnv) {
		t.Fatalf("expected ErrInvalidEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "PROSELINE_DEBOUNCE_MS") {
		t.Errorf("error %q does not name the variable", err)
	}
}

func TestEnvVars(t *testing.T) {
	for _, name := range EnvVars() {
		if !strings.HasPrefix(name, EnvPrefix) {
			t.Errorf("%s lacks prefix %s", name, EnvPrefix)
		}
	}
}

// ==========================================================================
// Watcher
// ==========================================================================

func TestWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	got := make(chan string, 4)
	if err := w.Watch(path, func(p string) { got <- p }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// an unrelated file in the same directory is not reported
	if err := os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case p := <-got:
		if p != path {
			t.Errorf("reported %q, want %q", p, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	// the burst collapses into one callback
	select {
	case p := <-got:
		t.Errorf("unexpected second report %q", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherUnwatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var calls atomic.Int32
	if err := w.Watch(path, func(string) { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("handler called %d times after Unwatch", n)
	}
}

func TestWatcherClosed(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := w.Watch("x", func(string) {}); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}
