// Package tui provides a Bubble Tea viewer for the previous execution
// record shown by `rewatch last`.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kshitijv/rewatch/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Model ────────────────────

// Model is the root Bubble Tea model for the record viewer.
type Model struct {
	record   *session.ExecutionRecord
	viewport viewport.Model
	width    int
	ready    bool
}

// New creates a viewer model for the given execution record.
func New(r *session.ExecutionRecord) Model {
	return Model{record: r}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true
		// One line each for the title bar and status bar.
		m.viewport = viewport.New(msg.Width, msg.Height-2)
		m.viewport.SetContent(Render(m.record))
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Render("rewatch · previous execution")
	status := statusBarStyle.Width(m.width).Render("↑/↓ scroll · q quit")
	return title + "\n" + m.viewport.View() + "\n" + status
}

// Render produces the text form of an execution record, shared by the TUI
// viewport and the plain (non-TTY) output path.
func Render(r *session.ExecutionRecord) string {
	var sb strings.Builder

	status := okStyle.Render("ok")
	if r.Failed {
		status = failStyle.Render("terminated with error")
	}

	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Command:"), r.CommandLine)
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Ran:"), r.Start.Format(time.RFC3339))
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Duration:"), r.End.Sub(r.Start).Round(time.Millisecond))
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("Status:"), status)
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("ID:"), dimStyle.Render(r.ID))

	sb.WriteString("\n" + sectionHeader.Render("stdout") + "\n")
	if r.Stdout != "" {
		sb.WriteString(r.Stdout + "\n")
	} else {
		sb.WriteString(dimStyle.Render("(empty)") + "\n")
	}

	sb.WriteString("\n" + sectionHeader.Render("stderr") + "\n")
	if r.Stderr != "" {
		sb.WriteString(r.Stderr + "\n")
	} else {
		sb.WriteString(dimStyle.Render("(empty)") + "\n")
	}

	return sb.String()
}

// Show runs the viewer until the user quits.
func Show(r *session.ExecutionRecord) error {
	p := tea.NewProgram(New(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
