package repl

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kshitijv/rewatch/internal/coordinator"
	"github.com/kshitijv/rewatch/internal/session"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runScript feeds input lines to a fresh REPL over a temp-dir session and
// returns its collected output.
func runScript(t *testing.T, input string) string {
	t.Helper()

	out := &syncBuffer{}
	sess := session.New([]string{t.TempDir()})
	sess.Latency = 50 * time.Millisecond
	coord := coordinator.New(sess, out, nil)

	r := &REPL{Coord: coord, In: strings.NewReader(input), Out: out}
	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("REPL did not exit")
	}
	return out.String()
}

// waitFor polls out until the substring appears.
func waitFor(t *testing.T, out *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(out.String(), substr) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q: %q", substr, out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnrecognizedInputYieldsInvalidOption(t *testing.T) {
	out := runScript(t, "bogus\nquit\n")
	if !strings.Contains(out, "invalid option: bogus") {
		t.Errorf("expected invalid option notice, got %q", out)
	}
}

func TestQuitAndExitBothLeave(t *testing.T) {
	runScript(t, "quit\n")
	runScript(t, "exit\n")
}

func TestEndOfInputTearsDown(t *testing.T) {
	runScript(t, "") // EOF without quit must still return cleanly
}

func TestBlankLinesReprompt(t *testing.T) {
	out := runScript(t, "\n\nquit\n")
	if got := strings.Count(out, ">"); got < 3 {
		t.Errorf("expected a prompt per line, got %q", out)
	}
}

func TestStartWithoutCommandIsReported(t *testing.T) {
	out := runScript(t, "start\nquit\n")
	if !strings.Contains(out, "start requires a command") {
		t.Errorf("expected start notice, got %q", out)
	}
}

func TestApplyWithoutArgumentsIsReported(t *testing.T) {
	out := runScript(t, "apply\nquit\n")
	if !strings.Contains(out, "no new arguments") {
		t.Errorf("expected no-new-arguments notice, got %q", out)
	}
}

func TestRestartWithoutCommandIsReported(t *testing.T) {
	out := runScript(t, "restart\nquit\n")
	if !strings.Contains(out, "no command configured") {
		t.Errorf("expected restart notice, got %q", out)
	}
}

// start sets the command, begins monitoring and executes once.
func TestStartExecutesCommand(t *testing.T) {
	out := &syncBuffer{}
	sess := session.New([]string{t.TempDir()})
	sess.Latency = 50 * time.Millisecond
	coord := coordinator.New(sess, out, nil)

	in, inW := newPipeReader()
	r := &REPL{Coord: coord, In: in, Out: out}

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	inW <- "start echo hi\n"
	waitFor(t, out, "$ echo hi")
	waitFor(t, out, "hi")

	if sess.Program != "echo" || sess.Args != "hi" {
		t.Errorf("session command: got %q %q", sess.Program, sess.Args)
	}

	inW <- "kill\n"
	waitFor(t, out, "stopped monitoring")

	inW <- "quit\n"
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not exit")
	}
}

// newPipeReader gives the test line-at-a-time control over REPL input.
func newPipeReader() (*pipeReader, chan string) {
	ch := make(chan string, 8)
	return &pipeReader{ch: ch}, ch
}

type pipeReader struct {
	ch  chan string
	cur string
}

func (p *pipeReader) Read(b []byte) (int, error) {
	if p.cur == "" {
		s, ok := <-p.ch
		if !ok {
			return 0, io.EOF
		}
		p.cur = s
	}
	n := copy(b, p.cur)
	p.cur = p.cur[n:]
	return n, nil
}
