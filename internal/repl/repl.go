// Package repl implements the interactive prompt loop. It is a thin
// dispatcher: every recognized command maps onto one coordinator
// operation, and no error is allowed to end the loop; only quit/exit (or
// end of input) does.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kshitijv/rewatch/internal/coordinator"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// REPL reads operator commands from In and dispatches them to the
// coordinator. Output and notices go to Out.
type REPL struct {
	Coord *coordinator.Coordinator
	In    io.Reader
	Out   io.Writer
}

// Run loops until quit/exit or end of input. End of input tears down like
// quit so piped sessions exit cleanly.
func (r *REPL) Run() error {
	scanner := bufio.NewScanner(r.In)

	for {
		r.Coord.Prompting()
		fmt.Fprint(r.Out, promptStyle.Render(">")+" ")

		if !scanner.Scan() {
			r.Coord.TerminateProcess()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		verb, rest := splitCommand(line)
		switch verb {
		case "start":
			r.handleStart(rest)
		case "apply":
			r.handleApply(rest)
		case "kill":
			r.Coord.TerminateProcess()
			fmt.Fprintln(r.Out, noticeStyle.Render("stopped monitoring and terminated process"))
		case "restart":
			r.handleRestart()
		case "quit", "exit":
			r.Coord.TerminateProcess()
			return nil
		default:
			fmt.Fprintln(r.Out, noticeStyle.Render("invalid option: "+verb))
		}
	}
}

// Executions run off the prompt goroutine so the input-wait stays
// responsive: kill/restart/quit must be able to interrupt a hung child.

func (r *REPL) handleStart(rest string) {
	if rest == "" {
		fmt.Fprintln(r.Out, noticeStyle.Render("start requires a command"))
		return
	}
	program, args := splitCommand(rest)
	r.Coord.SetCommand(program, args)

	if err := r.Coord.StartMonitoring(); err != nil {
		fmt.Fprintln(r.Out, errorStyle.Render(err.Error()))
		return
	}
	go r.Coord.Trigger()
}

func (r *REPL) handleApply(rest string) {
	if rest == "" {
		// Validation is instant; report it before the next prompt.
		if err := r.Coord.ApplyArguments(rest); errors.Is(err, coordinator.ErrNoArguments) {
			fmt.Fprintln(r.Out, noticeStyle.Render("no new arguments"))
		}
		return
	}
	go func() {
		if err := r.Coord.ApplyArguments(rest); err != nil {
			fmt.Fprintln(r.Out, errorStyle.Render(err.Error()))
		}
	}()
}

func (r *REPL) handleRestart() {
	if !r.Coord.Session().HasCommand() {
		fmt.Fprintln(r.Out, noticeStyle.Render("no command configured; use start first"))
		return
	}
	go func() {
		if err := r.Coord.Restart(); err != nil {
			fmt.Fprintln(r.Out, errorStyle.Render(err.Error()))
		}
	}()
}

// splitCommand splits a line into its first whitespace-delimited token and
// the trimmed remainder.
func splitCommand(line string) (verb, rest string) {
	parts := strings.SplitN(line, " ", 2)
	verb = parts[0]
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}
