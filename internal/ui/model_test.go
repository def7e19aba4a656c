// ABOUTME: Tests for the TUI model
// ABOUTME: Covers key forwarding, sync updates, and view rendering
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wavetag/wavetag-go/internal/app"
	"github.com/wavetag/wavetag-go/pkg/audio/output"
)

type nullOutput struct{}

func (nullOutput) Start(int, output.FillFunc, func()) error { return nil }
func (nullOutput) Stop() error                              { return nil }
func (nullOutput) Close() error                             { return nil }
func (nullOutput) SetVolume(int)                            {}
func (nullOutput) GetVolume() int                           { return 100 }
func (nullOutput) SetMuted(bool)                            {}
func (nullOutput) IsMuted() bool                            { return false }

func testModel(t *testing.T) Model {
	t.Helper()
	ctrl := app.New(nullOutput{})
	t.Cleanup(func() { _ = ctrl.Close() })
	return NewModel(ctrl)
}

func TestQuitKeys(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("expected quit command for q")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("expected quit command for ctrl+c")
	}
}

func TestWindowSize(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	if m.width != 80 || m.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", m.width, m.height)
	}
}

func TestPlayheadMsgUpdatesState(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(PlayheadMsg{PlayheadMs: 1234, CurrentWord: "hello", Active: true})
	m = updated.(Model)

	if m.playheadMs != 1234 || m.currentWord != "hello" || !m.active {
		t.Errorf("update not applied: %+v", m)
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := testModel(t)
	if got := m.View(); got != "Loading..." {
		t.Errorf("expected loading placeholder, got %q", got)
	}
}

func TestViewRendersSurface(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "wavetag") {
		t.Error("expected title line")
	}
	if !strings.Contains(view, "no file loaded") {
		t.Error("expected empty-state title")
	}
	if !strings.Contains(view, "[stopped]") {
		t.Error("expected transport state line")
	}
	if !strings.Contains(view, "space:play/stop") {
		t.Error("expected help line")
	}
}

func TestCurrentWordShownWhilePlaying(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(Model)
	updated, _ = m.Update(PlayheadMsg{PlayheadMs: 500, CurrentWord: "fox", Active: true})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "fox") {
		t.Error("expected current word in view")
	}
	if !strings.Contains(view, "[playing]") {
		t.Error("expected playing state")
	}
}

func TestColumnFor(t *testing.T) {
	m := testModel(t)

	snap := app.Snapshot{ViewStartMs: 0, ViewEndMs: 1000}
	if got := m.columnFor(snap, 0, 100); got != 0 {
		t.Errorf("expected column 0, got %d", got)
	}
	if got := m.columnFor(snap, 1000, 100); got != 99 {
		t.Errorf("expected column 99, got %d", got)
	}
	if got := m.columnFor(snap, 2000, 100); got != -1 {
		t.Errorf("expected -1 outside window, got %d", got)
	}
}
