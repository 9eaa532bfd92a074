package session_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/kshitijv/rewatch/internal/session"
)

// The command line is derived from its two source fields: program alone
// when args is empty, program + " " + trimmed args otherwise.
func TestCommandLineDerivation(t *testing.T) {
	program := rapid.StringMatching(`[a-zA-Z0-9_./-]{1,20}`)
	args := rapid.StringMatching(`[a-zA-Z0-9_. /-]{0,40}`)

	rapid.Check(t, func(rt *rapid.T) {
		s := &session.Session{
			Program: program.Draw(rt, "program"),
			Args:    args.Draw(rt, "args"),
		}

		got := s.CommandLine()
		trimmed := strings.TrimSpace(s.Args)
		if trimmed == "" {
			if got != s.Program {
				rt.Fatalf("empty args: want %q, got %q", s.Program, got)
			}
			return
		}
		want := s.Program + " " + trimmed
		if got != want {
			rt.Fatalf("want %q, got %q", want, got)
		}
	})
}

func TestNewSessionDefaults(t *testing.T) {
	s := session.New([]string{"./"})

	if s.Phase != session.PhaseInitialized {
		t.Errorf("Phase: want %v, got %v", session.PhaseInitialized, s.Phase)
	}
	if s.Latency != session.DefaultLatency {
		t.Errorf("Latency: want %v, got %v", session.DefaultLatency, s.Latency)
	}
	if s.HasCommand() {
		t.Error("new session should not have a command")
	}
}

func TestHasCommand(t *testing.T) {
	s := session.New(nil)
	if s.HasCommand() {
		t.Error("HasCommand with empty program")
	}
	s.Program = "echo"
	if !s.HasCommand() {
		t.Error("expected HasCommand after setting program")
	}
}
