// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and wires sync loop updates into it
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wavetag/wavetag-go/internal/app"
)

// Run starts the TUI over the controller. Sync loop updates are
// forwarded into the program as PlayheadMsg.
func Run(ctrl *app.Controller) *tea.Program {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())

	ctrl.AddListener(func(u app.Update) {
		p.Send(PlayheadMsg(u))
	})

	return p
}
