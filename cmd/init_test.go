package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rewatch.json")

	out, err := executeCommand(t, rootCmd, nil, "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("expected creation report, got %q", out)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestInitTwiceLeavesFileUntouched(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rewatch.json")

	if _, err := executeCommand(t, rootCmd, nil, "init", "--config", cfgPath); err != nil {
		t.Fatalf("first init: %v", err)
	}
	before, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, rootCmd, nil, "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("expected already-exists report, got %q", out)
	}

	after, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("second init modified the config file")
	}
}
