// Package coordinator implements the state machine at the center of
// rewatch: it receives debounced filesystem stimuli and manual REPL
// triggers, serializes them against each other, and drives the single
// child process and the single pending debounce timer.
package coordinator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kshitijv/rewatch/internal/debounce"
	"github.com/kshitijv/rewatch/internal/runner"
	"github.com/kshitijv/rewatch/internal/session"
	"github.com/kshitijv/rewatch/internal/watch"
)

// ErrNoArguments is returned by ApplyArguments when the new argument
// string is empty. Reported to the operator, never fatal.
var ErrNoArguments = errors.New("no new arguments")

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cmdStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// monitor is the slice of the change aggregator the coordinator drives.
// Tests substitute their own.
type monitor interface {
	Start() error
	Stop()
}

// Coordinator ties the session, the debounce timer, the change aggregator
// and the process runner together. Exactly one child process and one
// pending timer exist at any instant; both handles are mutated only under
// the coordinator's locks.
type Coordinator struct {
	// mu guards the session fields and the monitor handle. execMu
	// serializes executions so manual and automatic triggers never
	// interleave; it is never held while mu is taken the other way.
	mu     sync.Mutex
	execMu sync.Mutex

	sess  *session.Session
	run   *runner.Runner
	timer *debounce.Timer
	mon   monitor // nil when monitoring is stopped
	out   io.Writer
	store session.Store // optional; persistence is best-effort

	// stopped is set by TerminateProcess and cleared by StartMonitoring.
	// While set, triggers dispatched before the teardown are discarded
	// instead of launching a child after it.
	stopped bool

	// newMonitor builds a fresh watch session over the given roots.
	newMonitor func(roots []string, onChange func()) monitor
}

// New returns a Coordinator for the given session, writing execution
// output and notices to out. store may be nil to disable record
// persistence.
func New(sess *session.Session, out io.Writer, store session.Store) *Coordinator {
	return &Coordinator{
		sess:  sess,
		run:   &runner.Runner{},
		timer: &debounce.Timer{},
		out:   out,
		store: store,
		newMonitor: func(roots []string, onChange func()) monitor {
			return watch.New(roots, onChange)
		},
	}
}

// Session returns the coordinator's session for read access by the REPL.
func (c *Coordinator) Session() *session.Session {
	return c.sess
}

// SetCommand replaces the active command line. It does not by itself
// trigger an execution and never stops monitoring.
func (c *Coordinator) SetCommand(program, args string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.Program = program
	c.sess.Args = args
}

// ApplyArguments updates the argument string and triggers an immediate
// execution. An empty argument string yields ErrNoArguments with no state
// change.
func (c *Coordinator) ApplyArguments(args string) error {
	if strings.TrimSpace(args) == "" {
		return ErrNoArguments
	}
	c.mu.Lock()
	c.sess.Args = args
	c.mu.Unlock()
	c.Trigger()
	return nil
}

// StartMonitoring idempotently (re)starts directory watching. The previous
// watch session, if any, is fully stopped and joined (and any process it
// tracked terminated) before the fresh one begins, so two watch sessions
// never race on the same timer or process state.
func (c *Coordinator) StartMonitoring() error {
	c.stopMonitoring()
	c.run.Terminate()

	m := c.newMonitor(c.sess.Roots, c.OnChangeEvent)
	if err := m.Start(); err != nil {
		return fmt.Errorf("starting monitoring: %w", err)
	}

	c.mu.Lock()
	c.mon = m
	c.stopped = false
	c.mu.Unlock()
	return nil
}

// stopMonitoring detaches and joins the current watch session and cancels
// any pending debounce timer. Idempotent. The monitor is stopped outside
// the lock: its goroutines call OnChangeEvent, which takes mu.
func (c *Coordinator) stopMonitoring() {
	c.mu.Lock()
	m := c.mon
	c.mon = nil
	c.mu.Unlock()

	if m != nil {
		m.Stop()
	}
	c.timer.Cancel()
}

// TerminateProcess signals the monitoring subsystem to stop, then
// terminates and reaps the child process if one is running, clearing the
// handle. Safe to call when nothing is running and safe to call
// concurrently with an in-flight automatic trigger.
func (c *Coordinator) TerminateProcess() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.stopMonitoring()
	c.run.Terminate()
}

// Restart recovers after a kill or picks up a changed command: terminate,
// start a fresh watch session, execute.
func (c *Coordinator) Restart() error {
	c.TerminateProcess()
	if err := c.StartMonitoring(); err != nil {
		return err
	}
	c.Trigger()
	return nil
}

// OnChangeEvent is invoked once per normalized filesystem stimulus. It
// records the stimulus time, cancels the pending debounce timer and arms a
// new one. Whether the timer fires an execution or only a "file changed"
// notice is decided here, at arm time: a command configured after arming
// but before firing does not change the already-armed choice.
func (c *Coordinator) OnChangeEvent() {
	c.mu.Lock()
	c.sess.LastChange = time.Now()
	latency := c.sess.Latency
	hasCommand := c.sess.HasCommand()
	c.mu.Unlock()

	fire := c.notifyChange
	if hasCommand {
		fire = c.OnAutomaticTrigger
	}
	c.timer.Arm(latency, fire)
}

// OnAutomaticTrigger runs when the debounce timer fires uncancelled.
func (c *Coordinator) OnAutomaticTrigger() {
	c.execute(c.notifyChange)
}

// Trigger runs the execution path for a manual (REPL-issued) trigger.
func (c *Coordinator) Trigger() {
	c.execute(c.notifyNoCommand)
}

// Prompting marks control as returned to the REPL loop.
func (c *Coordinator) Prompting() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.Phase = session.PhasePrompting
}

// execute owns the single execution slot. Whoever gets here first runs;
// any child still alive from a previous run is terminated and awaited
// before the new one starts, so executions never interleave and at most
// one child exists. onMissing is the fire target when no command is
// configured; the caller picks it by trigger origin.
func (c *Coordinator) execute(onMissing func()) {
	c.execMu.Lock()
	defer c.execMu.Unlock()

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.run.Terminate()

	c.mu.Lock()
	if !c.sess.HasCommand() {
		c.mu.Unlock()
		onMissing()
		return
	}
	commandLine := c.sess.CommandLine()
	firstRun := !c.sess.Ran
	c.sess.Phase = session.PhaseStarting
	c.mu.Unlock()

	start := time.Now()
	res := c.run.Execute(commandLine)
	end := time.Now()

	c.mu.Lock()
	c.sess.Phase = session.PhaseExecuted
	c.sess.Ran = true
	c.mu.Unlock()

	c.printResult(commandLine, res, firstRun)
	c.persist(commandLine, res, start, end)
}

// notifyChange is the fire target for filesystem stimuli when no command
// is configured: report the change and its time, execute nothing.
func (c *Coordinator) notifyChange() {
	c.mu.Lock()
	at := c.sess.LastChange
	c.mu.Unlock()
	msg := fmt.Sprintf("file changed at %s (no command configured)", at.Format("15:04:05"))
	fmt.Fprintln(c.out, noticeStyle.Render(msg))
}

// notifyNoCommand is the fire target for manual triggers when no command
// is configured.
func (c *Coordinator) notifyNoCommand() {
	fmt.Fprintln(c.out, noticeStyle.Render("no command configured; use start first"))
}

// printResult frames and displays a finished execution. Subsequent runs
// are separated from earlier output by a leading blank line; the first run
// is not.
func (c *Coordinator) printResult(commandLine string, res runner.Result, firstRun bool) {
	if !firstRun {
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, cmdStyle.Render("$ "+commandLine))

	if res.Stdout != "" {
		fmt.Fprintln(c.out, res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprintln(c.out, res.Stderr)
	}
	if res.Failed() {
		reason := "non-empty stderr"
		if res.Err != nil {
			reason = res.Err.Error()
		}
		fmt.Fprintln(c.out, errorStyle.Render("terminated with error: "+reason))
	}
}

// persist best-effort saves the execution record for `rewatch last`.
func (c *Coordinator) persist(commandLine string, res runner.Result, start, end time.Time) {
	if c.store == nil {
		return
	}
	rec := &session.ExecutionRecord{
		ID:          uuid.New().String(),
		CommandLine: commandLine,
		Start:       start,
		End:         end,
		Stdout:      res.Stdout,
		Stderr:      res.Stderr,
		Failed:      res.Failed(),
	}
	if err := c.store.Save(rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
