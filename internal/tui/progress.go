// Package tui renders live stage progress for interactive packaging runs.
// It is purely presentational: the pipeline driver feeds it stage events
// through a Reporter bridge, and the plain ANSI printer remains the
// fallback for non-TTY runs.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage display states.
const (
	statePending   = "pending"
	stateRunning   = "running"
	stateDone      = "done"
	stateTolerated = "tolerated"
	stateFailed    = "failed"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	pendingStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	toleratedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Messages sent by the Reporter bridge.
type (
	// MsgStageStart marks a stage as running.
	MsgStageStart struct{ Name string }
	// MsgStageDone marks a stage as completed.
	MsgStageDone struct{ Name string }
	// MsgStageTolerated marks a best-effort stage failure.
	MsgStageTolerated struct {
		Name string
		Err  error
	}
	// MsgStageFailed marks a fatal stage failure.
	MsgStageFailed struct {
		Name string
		Err  error
	}
	// MsgRunDone ends the program.
	MsgRunDone struct{}
)

type stageRow struct {
	name  string
	state string
	note  string
}

// Model displays one packaging run as a list of stages.
type Model struct {
	Tag     string
	rows    []stageRow
	index   map[string]int
	spin    spinner.Model
	stopped bool
}

// NewModel creates a progress model for the named stages in run order.
func NewModel(tag string, stages []string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	rows := make([]stageRow, len(stages))
	index := make(map[string]int, len(stages))
	for i, name := range stages {
		rows[i] = stageRow{name: name, state: statePending}
		index[name] = i
	}
	return Model{Tag: tag, rows: rows, index: index, spin: s}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles stage events, spinner ticks, and interrupt keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgStageStart:
		m.set(msg.Name, stateRunning, "")
	case MsgStageDone:
		m.set(msg.Name, stateDone, "")
	case MsgStageTolerated:
		m.set(msg.Name, stateTolerated, msg.Err.Error())
	case MsgStageFailed:
		m.set(msg.Name, stateFailed, msg.Err.Error())
	case MsgRunDone:
		m.stopped = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stopped = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) set(name, state, note string) {
	i, ok := m.index[name]
	if !ok {
		return
	}
	m.rows[i].state = state
	m.rows[i].note = note
}

// View renders the stage list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("packaging "+m.Tag) + "\n\n")
	for _, r := range m.rows {
		switch r.state {
		case stateRunning:
			fmt.Fprintf(&b, "  %s %s\n", m.spin.View(), r.name)
		case stateDone:
			fmt.Fprintf(&b, "  %s\n", doneStyle.Render("✓ "+r.name))
		case stateTolerated:
			fmt.Fprintf(&b, "  %s\n", toleratedStyle.Render("⚠ "+r.name+": "+r.note))
		case stateFailed:
			fmt.Fprintf(&b, "  %s\n", failedStyle.Render("✗ "+r.name+": "+r.note))
		default:
			fmt.Fprintf(&b, "  %s\n", pendingStyle.Render("· "+r.name))
		}
	}
	return b.String()
}

// Program wraps a running bubbletea program.
type Program = tea.Program

// NewProgram creates the progress program for a run over the named stages.
func NewProgram(tag string, stages []string, opts ...tea.ProgramOption) *Program {
	return tea.NewProgram(NewModel(tag, stages), opts...)
}

// Reporter adapts a Program to the pipeline driver's Reporter interface.
type Reporter struct {
	Program *Program
}

func (r *Reporter) StageStart(name string) { r.Program.Send(MsgStageStart{Name: name}) }
func (r *Reporter) StageDone(name string)  { r.Program.Send(MsgStageDone{Name: name}) }
func (r *Reporter) StageTolerated(name string, err error) {
	r.Program.Send(MsgStageTolerated{Name: name, Err: err})
}
func (r *Reporter) StageFailed(name string, err error) {
	r.Program.Send(MsgStageFailed{Name: name, Err: err})
}

// Finish ends the program after the driver returns.
func (r *Reporter) Finish() { r.Program.Send(MsgRunDone{}) }
