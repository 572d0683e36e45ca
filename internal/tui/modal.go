package tui

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sdschat/sdschat/internal/chat"
)

// modalKind identifies which overlay, if any, is capturing input.
type modalKind int

const (
	modalNone modalKind = iota
	modalRename
	modalConfirmDelete
	modalConfirmClear
	modalAttach
)

type modal struct {
	kind     modalKind
	input    textinput.Model
	targetID string // conversation being renamed or deleted
}

// openModal switches the UI into modal input mode.
func (m *Model) openModal(kind modalKind, targetID string) {
	ti := textinput.New()
	ti.CharLimit = 512
	switch kind {
	case modalRename:
		ti.Placeholder = "New title"
	case modalAttach:
		ti.Placeholder = "Path to file"
	}
	ti.Focus()

	m.modal = modal{kind: kind, input: ti, targetID: targetID}
	m.textinput.Blur()
}

func (m *Model) closeModal() {
	m.modal = modal{}
	if !m.sidebarFocus {
		m.textinput.Focus()
	}
}

// updateModal handles keys while a modal is open.
func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.closeModal()
		return m, nil

	case "enter", "y":
		if msg.String() == "y" && !m.modal.confirm() {
			break // "y" is ordinary text in input modals
		}
		cmd := m.submitModal()
		m.closeModal()
		m.refresh()
		return m, cmd

	case "n":
		if m.modal.confirm() {
			m.closeModal()
			return m, nil
		}
	}

	if !m.modal.confirm() {
		var cmd tea.Cmd
		m.modal.input, cmd = m.modal.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// confirm reports whether the modal is a yes/no prompt rather than a text
// input.
func (d modal) confirm() bool {
	return d.kind == modalConfirmDelete || d.kind == modalConfirmClear
}

// submitModal applies the modal's action against the store.
func (m *Model) submitModal() tea.Cmd {
	switch m.modal.kind {
	case modalRename:
		m.store.RenameConversation(m.modal.targetID, m.modal.input.Value())

	case modalConfirmDelete:
		m.store.DeleteConversation(m.modal.targetID)
		m.cursor = 0

	case modalConfirmClear:
		m.store.ClearAll()
		m.cursor = 0

	case modalAttach:
		path := strings.TrimSpace(m.modal.input.Value())
		if path == "" {
			return nil
		}
		att, err := buildAttachment(path)
		if err != nil {
			return m.setNotice("Cannot attach "+path, true)
		}
		m.pendingFile = att
	}
	return nil
}

// buildAttachment stats the file and records its name, MIME type, and path.
func buildAttachment(path string) (*chat.Attachment, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &chat.Attachment{
		Name: filepath.Base(path),
		Type: mimeType,
		URI:  path,
	}, nil
}

// renderModal draws the modal centered over a blank backdrop.
func (m Model) renderModal() string {
	var title, body, hint string

	switch m.modal.kind {
	case modalRename:
		title = "Rename conversation"
		body = m.modal.input.View()
		hint = "enter save • esc cancel"

	case modalConfirmDelete:
		title = "Delete conversation?"
		body = "This cannot be undone."
		hint = "y delete • n cancel"

	case modalConfirmClear:
		title = "Clear all conversations?"
		body = "Every conversation will be removed."
		hint = "y clear • n cancel"

	case modalAttach:
		title = "Attach a file"
		body = m.modal.input.View()
		hint = "enter attach • esc cancel"
	}

	box := m.st.modalBox.Render(
		m.st.modalTitle.Render(title) + "\n\n" +
			body + "\n\n" +
			m.st.modalHint.Render(hint))

	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
