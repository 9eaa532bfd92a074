// Package runner owns the lifecycle of the single active child process: it
// starts a shell command line, captures its output, waits for completion,
// and can forcibly terminate the child on demand.
package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Result captures one completed (or failed-to-launch) execution. Output is
// trimmed of trailing whitespace.
type Result struct {
	Stdout string
	Stderr string
	// Err is non-nil when the command failed to launch or exited with an
	// error. It is a captured value, never propagated as a fault.
	Err error
}

// Failed reports whether the result should be displayed as an error. A
// non-empty stderr counts as an error indicator for display purposes only.
func (r Result) Failed() bool {
	return r.Err != nil || r.Stderr != ""
}

// Runner executes one shell command line at a time. The caller (the
// coordinator) guarantees only one Execute is in flight per Runner; the
// Runner itself only tracks the handle of the current child so Terminate
// can reach it from another goroutine.
//
// Execution has no timeout and no output cap: a hung or infinitely
// chatty child blocks Execute until terminated.
type Runner struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{} // closed once the current child has been reaped
}

// Execute synchronously runs commandLine via the shell to completion.
// Failures to launch are converted into an error Result rather than
// propagated.
func (r *Runner) Execute(commandLine string) Result {
	cmd := exec.Command("sh", "-c", commandLine)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{Err: fmt.Errorf("failed to launch %q: %w", commandLine, err)}
	}

	done := make(chan struct{})
	r.mu.Lock()
	r.cmd = cmd
	r.done = done
	r.mu.Unlock()

	waitErr := cmd.Wait()

	r.mu.Lock()
	r.cmd = nil
	r.done = nil
	r.mu.Unlock()
	close(done)

	res := Result{
		Stdout: strings.TrimRight(stdout.String(), " \t\r\n"),
		Stderr: strings.TrimRight(stderr.String(), " \t\r\n"),
	}
	if waitErr != nil {
		res.Err = fmt.Errorf("%q exited: %w", commandLine, waitErr)
	}
	return res
}

// Running reports whether a child process is currently in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Terminate sends a termination signal to the running child's process
// group and blocks until the child has been reaped by Execute. Signal and
// wait failures are logged, never propagated, and the handle is cleared on
// every path. A no-op when nothing is running.
func (r *Runner) Terminate() {
	r.mu.Lock()
	cmd, done := r.cmd, r.done
	r.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	if err := signalTerminate(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "warning: terminating process: %v\n", err)
	}
	<-done
}
