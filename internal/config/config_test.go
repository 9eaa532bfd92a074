package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kshitijv/rewatch/internal/session"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewatch.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Loading a written config and deriving its command line yields exactly
// the launch string.
func TestRoundTripCommandLine(t *testing.T) {
	path := writeConfig(t, `{"monitored_dirs": ["./"], "program": "echo", "args": "ok"}`)

	cfg, missing, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing keys: %v", missing)
	}

	s := session.New(cfg.Roots())
	s.Program = cfg.Program
	s.Args = cfg.Args
	if got := s.CommandLine(); got != "echo ok" {
		t.Errorf("CommandLine: want %q, got %q", "echo ok", got)
	}
	if len(cfg.Roots()) != 1 || cfg.Roots()[0] != "./" {
		t.Errorf("Roots: want [./], got %v", cfg.Roots())
	}
}

func TestMissingKeysReportedPerKey(t *testing.T) {
	path := writeConfig(t, `{"program": "echo"}`)

	cfg, missing, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Program != "echo" {
		t.Errorf("Program: want %q, got %q", "echo", cfg.Program)
	}

	want := map[string]bool{"monitored_dirs": true, "args": true}
	if len(missing) != len(want) {
		t.Fatalf("missing keys: want %v, got %v", want, missing)
	}
	for _, key := range missing {
		if !want[key] {
			t.Errorf("unexpected missing key %q", key)
		}
	}
}

func TestMissingFileReturnsDefaults(t *testing.T) {
	cfg, missing, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
	if missing != nil {
		t.Errorf("missing should be nil for an absent file, got %v", missing)
	}
	if cfg.Program != "" || cfg.Args != "" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestUnparsableFileReturnsParseError(t *testing.T) {
	path := writeConfig(t, `{not json`)

	_, _, err := Load(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Path != path {
		t.Errorf("ParseError.Path: want %q, got %q", path, parseErr.Path)
	}
}

// An empty monitored_dirs list falls back to the current working directory.
func TestEmptyMonitoredDirsFallsBackToCwd(t *testing.T) {
	path := writeConfig(t, `{"monitored_dirs": [], "program": "echo", "args": ""}`)

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	roots := cfg.Roots()
	if len(roots) != 1 || roots[0] != "." {
		t.Errorf("Roots: want [.], got %v", roots)
	}
}

// Running init twice: the first call creates the file, the second reports
// it exists and leaves it byte-identical.
func TestInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewatch.json")

	created, err := Init(path)
	if err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if !created {
		t.Fatal("first Init should report creation")
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	created, err = Init(path)
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if created {
		t.Fatal("second Init should not report creation")
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("second Init modified the file")
	}

	// The starter file must load cleanly with no missing keys.
	if _, missing, err := Load(path); err != nil || len(missing) != 0 {
		t.Errorf("starter config should load cleanly: err=%v missing=%v", err, missing)
	}
}
