// ABOUTME: Bubbletea model for the waveform tagging TUI
// ABOUTME: Maps key input to controller events and renders the waveform view
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wavetag/wavetag-go/internal/app"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	waveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	wordStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// waveGlyphs quantize amplitude magnitude into terminal cells
var waveGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// PlayheadMsg carries a sync loop update into the TUI
type PlayheadMsg app.Update

// Model is the TUI state over the shared controller
type Model struct {
	ctrl *app.Controller

	width  int
	height int

	playheadMs  float64
	currentWord string
	active      bool
}

// NewModel creates a TUI model bound to the controller
func NewModel(ctrl *app.Controller) Model {
	return Model{ctrl: ctrl}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PlayheadMsg:
		m.playheadMs = msg.PlayheadMs
		m.currentWord = msg.CurrentWord
		m.active = msg.Active
	}

	return m, nil
}

// handleKey forwards recognized keys as controller events
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	code := msg.String()

	switch code {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "space", "enter", "t", "g", "e", "left", "right",
		"+", "=", "-", "0", "x", "delete", "esc":
		m.ctrl.Dispatch(app.KeyEvent{Code: code})

	case "up":
		snap := m.ctrl.Snapshot()
		m.ctrl.Dispatch(app.ScrollEvent{
			Direction: app.ScrollUp,
			FocusMs:   (snap.ViewStartMs + snap.ViewEndMs) / 2,
		})

	case "down":
		snap := m.ctrl.Snapshot()
		m.ctrl.Dispatch(app.ScrollEvent{
			Direction: app.ScrollDown,
			FocusMs:   (snap.ViewStartMs + snap.ViewEndMs) / 2,
		})
	}

	return m, nil
}

// View renders the waveform, marker strip, and status lines
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	snap := m.ctrl.Snapshot()
	w := m.width - 2
	if w < 10 {
		w = 10
	}

	var b strings.Builder

	title := snap.Title
	if title == "" {
		title = "(no file loaded)"
	}
	b.WriteString(titleStyle.Render("wavetag — "+title) + "\n")
	b.WriteString(m.renderTimeline(snap, w) + "\n")
	b.WriteString(m.renderWave(snap, w) + "\n")
	b.WriteString(m.renderMarkers(snap, w) + "\n")
	b.WriteString(m.renderStatus(snap) + "\n")
	b.WriteString(helpStyle.Render(
		"space:play/stop  t:tag  g:generate  e:export  ←/→:pan  ↑/↓:zoom  0:full  x:delete  q:quit"))

	return b.String()
}

// renderTimeline shows the visible window bounds
func (m Model) renderTimeline(snap app.Snapshot, w int) string {
	left := fmt.Sprintf("%.2fs", snap.ViewStartMs/1000)
	right := fmt.Sprintf("%.2fs", snap.ViewEndMs/1000)
	pad := w - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return helpStyle.Render(left + strings.Repeat("─", pad) + right)
}

// renderWave draws one amplitude cell per column with the playhead overlaid
func (m Model) renderWave(snap app.Snapshot, w int) string {
	points := m.ctrl.Points(w)
	if len(points) == 0 {
		return waveStyle.Render(strings.Repeat("·", w))
	}

	playheadCol := m.columnFor(snap, m.playheadMs, w)

	var b strings.Builder
	for col := 0; col < w; col++ {
		if col == playheadCol {
			b.WriteString(playheadStyle.Render("│"))
			continue
		}
		p := points[col*len(points)/w]
		amp := p.Amplitude
		if amp < 0 {
			amp = -amp
		}
		level := int(amp * float32(len(waveGlyphs)-1))
		if level >= len(waveGlyphs) {
			level = len(waveGlyphs) - 1
		}
		b.WriteString(waveStyle.Render(string(waveGlyphs[level])))
	}
	return b.String()
}

// renderMarkers draws the marker strip under the waveform
func (m Model) renderMarkers(snap app.Snapshot, w int) string {
	cells := make([]string, w)
	for i := range cells {
		cells[i] = " "
	}

	for _, mk := range snap.Markers {
		col := m.columnFor(snap, mk.PositionMs, w)
		if col < 0 || col >= w {
			continue
		}
		if mk.Selected {
			cells[col] = selectedStyle.Render("▼")
		} else {
			cells[col] = markerStyle.Render("▾")
		}
	}

	return strings.Join(cells, "")
}

// renderStatus shows transport state and the current word
func (m Model) renderStatus(snap app.Snapshot) string {
	state := "stopped"
	if m.active {
		state = "playing"
	}

	word := m.currentWord
	if word == "" {
		word = "—"
	}

	line := fmt.Sprintf("[%s] %8.2fs  word: %s", state, m.playheadMs/1000, wordStyle.Render(word))
	if snap.Status != "" {
		line += "  (" + snap.Status + ")"
	}
	return line
}

// columnFor maps a time position to a column inside the visible window,
// or -1 when outside
func (m Model) columnFor(snap app.Snapshot, tMs float64, w int) int {
	span := snap.ViewEndMs - snap.ViewStartMs
	if span <= 0 {
		return -1
	}
	if tMs < snap.ViewStartMs || tMs > snap.ViewEndMs {
		return -1
	}
	col := int((tMs - snap.ViewStartMs) / span * float64(w-1))
	if col < 0 || col >= w {
		return -1
	}
	return col
}
