package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultPath is the config file the default mode and `init` operate on.
const DefaultPath = "rewatch.json"

// Config holds all configurable rewatch settings.
type Config struct {
	MonitoredDirs []string `json:"monitored_dirs"`
	Program       string   `json:"program"`
	Args          string   `json:"args"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		MonitoredDirs: []string{},
	}
}

// Roots returns the directories to monitor. An empty monitored_dirs list
// falls back to the current working directory.
func (c Config) Roots() []string {
	if len(c.MonitoredDirs) == 0 {
		return []string{"."}
	}
	return c.MonitoredDirs
}

// requiredKeys are the keys the config file contract expects. A file that
// parses but omits one of these is usable; the omission is still reported.
var requiredKeys = []string{"monitored_dirs", "program", "args"}

// Load reads and parses the JSON config file at path.
//
// Missing keys are not fatal: the returned missing slice names each absent
// key so the caller can report them individually, and defaults remain in
// effect for those fields. A missing or unreadable file is returned as an
// error alongside defaults; a file that exists but fails to parse is
// returned as a *ParseError.
func Load(path string) (cfg Config, missing []string, err error) {
	cfg = Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil, err
	}

	// Parse into a raw map first so absent keys can be told apart from
	// zero values.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, nil, &ParseError{Path: path, Err: err}
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Defaults(), nil, &ParseError{Path: path, Err: err}
	}
	return cfg, missing, nil
}

// Init creates the config file at path with a starter schema. It reports
// created=false and leaves the file untouched if one already exists.
func Init(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("checking for existing config: %w", err)
	}

	starter := Config{
		MonitoredDirs: []string{"./"},
	}
	data, err := json.MarshalIndent(starter, "", "  ")
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("writing config file: %w", err)
	}
	return true, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
