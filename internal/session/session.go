package session

import (
	"strings"
	"time"
)

// DefaultLatency is the quiescence window: how long the filesystem must stay
// quiet after a burst of changes before a trigger fires.
const DefaultLatency = 500 * time.Millisecond

// Phase is the coordinator's lifecycle state. It controls whether the first
// execution happens before the first prompt and how output is framed
// (subsequent runs get a leading blank line, the first does not).
type Phase int

const (
	// PhaseInitialized is the state before the first prompt or execution.
	PhaseInitialized Phase = iota
	// PhasePrompting is re-entered every time control returns to the REPL.
	PhasePrompting
	// PhaseStarting is set when a trigger has been accepted and an
	// execution is about to run.
	PhaseStarting
	// PhaseExecuted is set once at least one execution has completed.
	PhaseExecuted
)

func (p Phase) String() string {
	switch p {
	case PhaseInitialized:
		return "initialized"
	case PhasePrompting:
		return "prompting"
	case PhaseStarting:
		return "starting"
	case PhaseExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// Session is the long-lived mutable context for one interactive run.
// Handle fields for the child process and pending timer live on the
// coordinator, which guards them with its own mutex; Session carries only
// the plain data model.
type Session struct {
	Program string
	Args    string
	Roots   []string
	Latency time.Duration
	Phase   Phase

	// Ran records whether at least one execution has completed, which
	// controls the leading blank line framing subsequent runs.
	Ran bool

	// LastChange is the timestamp of the most recent filesystem stimulus,
	// shown in the change notice when no command is configured.
	LastChange time.Time
}

// New returns a Session with the given monitored roots and default latency.
func New(roots []string) *Session {
	return &Session{
		Roots:   roots,
		Latency: DefaultLatency,
		Phase:   PhaseInitialized,
	}
}

// HasCommand reports whether a program has been configured.
func (s *Session) HasCommand() bool {
	return s.Program != ""
}

// CommandLine derives the launch string from the program and argument
// fields. It is recomputed on every call and never stored.
func (s *Session) CommandLine() string {
	args := strings.TrimSpace(s.Args)
	if args == "" {
		return s.Program
	}
	return s.Program + " " + args
}
