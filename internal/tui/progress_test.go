package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestViewInitialStatesPending(t *testing.T) {
	m := NewModel("v1.2.0", []string{"sync deps", "freeze", "assemble"})
	view := m.View()

	if !strings.Contains(view, "v1.2.0") {
		t.Errorf("view missing tag:\n%s", view)
	}
	for _, name := range []string{"sync deps", "freeze", "assemble"} {
		if !strings.Contains(view, "· "+name) {
			t.Errorf("stage %q should start pending:\n%s", name, view)
		}
	}
}

func TestStageTransitions(t *testing.T) {
	m := NewModel("v1.2.0", []string{"sync deps", "freeze"})
	m = apply(t, m,
		MsgStageStart{Name: "sync deps"},
		MsgStageTolerated{Name: "sync deps", Err: errors.New("mirror down")},
		MsgStageStart{Name: "freeze"},
		MsgStageDone{Name: "freeze"},
	)

	view := m.View()
	if !strings.Contains(view, "⚠ sync deps: mirror down") {
		t.Errorf("tolerated stage not rendered:\n%s", view)
	}
	if !strings.Contains(view, "✓ freeze") {
		t.Errorf("done stage not rendered:\n%s", view)
	}
}

func TestFatalFailureRendered(t *testing.T) {
	m := NewModel("v1.2.0", []string{"freeze"})
	m = apply(t, m,
		MsgStageStart{Name: "freeze"},
		MsgStageFailed{Name: "freeze", Err: errors.New("bundler: exit status 1")},
	)
	if !strings.Contains(m.View(), "✗ freeze: bundler: exit status 1") {
		t.Errorf("failed stage not rendered:\n%s", m.View())
	}
}

func TestRunDoneQuits(t *testing.T) {
	m := NewModel("v1.2.0", []string{"freeze"})
	next, cmd := m.Update(MsgRunDone{})
	if cmd == nil {
		t.Fatal("MsgRunDone should produce a quit command")
	}
	if !next.(Model).stopped {
		t.Error("model should be stopped after MsgRunDone")
	}
}

func TestUnknownStageIgnored(t *testing.T) {
	m := NewModel("v1.2.0", []string{"freeze"})
	m = apply(t, m, MsgStageDone{Name: "never declared"})
	if !strings.Contains(m.View(), "· freeze") {
		t.Errorf("declared stages must be unaffected:\n%s", m.View())
	}
}
