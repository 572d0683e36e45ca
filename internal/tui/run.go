package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdschat/sdschat/internal/chat"
)

// Run starts the chat screen in alt-screen mode and blocks until the user
// quits. The store must already be initialized.
func Run(store *chat.Store, responder chat.Responder, exportDir string) error {
	model := NewModel(store, responder, exportDir)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
