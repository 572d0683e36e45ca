package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sdschat/sdschat/internal/chat"
	"github.com/sdschat/sdschat/internal/export"
)

const (
	// Below this terminal width the sidebar collapses automatically, the way
	// the layout does on a narrow phone screen.
	mobileWidth  = 80
	sidebarWidth = 28

	headerHeight = 2
	footerHeight = 4

	welcomeTitle = "Welcome to SuperiorDataScience AI"
	welcomeText  = "Start a conversation by typing a message below."
	disclaimer   = "AI responses may contain inaccurate information."

	waitNotice  = "Please wait until the current response is completed."
	errorNotice = "Sorry, I encountered an error while generating a response."
)

// ---------- messages ----------

type responseMsg struct {
	convID string
	err    error
}

type clearNoticeMsg struct{ seq int }

// ---------- Model ----------

// Model is the bubbletea model for the chat screen: the conversation view, the
// input line, the history sidebar, and any open modal.
type Model struct {
	store     *chat.Store
	responder chat.Responder
	exportDir string

	viewport  viewport.Model
	textinput textinput.Model
	spinner   spinner.Model
	width     int
	height    int

	st   styles
	dark bool

	sidebarOpen  bool
	sidebarFocus bool
	cursor       int                  // sidebar selection index
	history      []*chat.Conversation // cached History() snapshot

	pendingFile *chat.Attachment // staged attachment for the next send

	notice    string
	noticeErr bool
	noticeSeq int

	modal modal

	cancelResponse context.CancelFunc

	quitting bool
}

// NewModel creates the initial model over an initialized store.
func NewModel(store *chat.Store, responder chat.Responder, exportDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 24)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		store:       store,
		responder:   responder,
		exportDir:   exportDir,
		viewport:    vp,
		textinput:   ti,
		spinner:     sp,
		sidebarOpen: true,
		dark:        store.Dark(),
	}
	m.st = newStyles(m.dark)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sidebarOpen = m.width >= mobileWidth
		m.resize()
		m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.store.Pending(m.store.ActiveID()) {
			m.refresh()
		}
		cmds = append(cmds, cmd)

	case responseMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			cmds = append(cmds, m.setNotice(errorNotice, true))
		}
		m.cancelResponse = nil
		m.refresh()

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}

	case tea.KeyMsg:
		if m.modal.kind != modalNone {
			nm, cmd := m.updateModal(msg)
			return nm, cmd
		}

		switch msg.String() {
		case "ctrl+c":
			if m.cancelResponse != nil {
				m.cancelResponse()
			}
			m.quitting = true
			return m, tea.Quit

		case "tab":
			m.sidebarFocus = !m.sidebarFocus && m.sidebarOpen
			if m.sidebarFocus {
				m.textinput.Blur()
			} else {
				m.textinput.Focus()
				cmds = append(cmds, textinput.Blink)
			}

		case "ctrl+n":
			m.store.CreateConversation()
			m.cursor = 0
			m.pendingFile = nil
			m.refresh()

		case "ctrl+b":
			m.sidebarOpen = !m.sidebarOpen
			if !m.sidebarOpen {
				m.sidebarFocus = false
				m.textinput.Focus()
			}
			m.resize()
			m.refresh()

		case "ctrl+t":
			m.dark = !m.dark
			m.store.SetTheme(m.dark)
			m.st = newStyles(m.dark)
			m.refresh()

		case "ctrl+e":
			cmds = append(cmds, m.exportActive())

		case "ctrl+a":
			m.openModal(modalAttach, "")

		case "ctrl+x":
			m.openModal(modalConfirmClear, "")

		case "ctrl+u":
			m.pendingFile = nil

		default:
			if m.sidebarFocus {
				cmds = append(cmds, m.updateSidebar(msg)...)
			} else {
				cmds = append(cmds, m.updateInput(msg)...)
			}
		}
	}

	// The viewport's default keymap binds letters like u/d/j/k, so keys must
	// not reach it while the text input is consuming them.
	if _, isKey := msg.(tea.KeyMsg); !isKey || !m.textinput.Focused() {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// updateSidebar handles keys while the sidebar has focus.
func (m *Model) updateSidebar(msg tea.KeyMsg) []tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.history)-1 {
			m.cursor++
		}
	case "enter":
		if c := m.selected(); c != nil {
			m.store.LoadConversation(c.ID)
			m.pendingFile = nil
			m.refresh()
		}
	case "r":
		if c := m.selected(); c != nil {
			m.openModal(modalRename, c.ID)
			m.modal.input.SetValue(c.Title)
		}
	case "d":
		if c := m.selected(); c != nil {
			m.openModal(modalConfirmDelete, c.ID)
		}
	}
	return nil
}

// updateInput handles keys while the message input has focus.
func (m *Model) updateInput(msg tea.KeyMsg) []tea.Cmd {
	if msg.String() == "enter" {
		return m.send()
	}
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return []tea.Cmd{cmd}
}

// send appends the typed message and kicks off response generation.
func (m *Model) send() []tea.Cmd {
	id := m.store.ActiveID()
	text := m.textinput.Value()

	_, err := m.store.AppendUserMessage(id, text, m.pendingFile)
	switch {
	case errors.Is(err, chat.ErrResponsePending):
		return []tea.Cmd{m.setNotice(waitNotice, false)}
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil
	case err != nil:
		return []tea.Cmd{m.setNotice(errorNotice, true)}
	}

	m.textinput.SetValue("")
	m.pendingFile = nil
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelResponse = cancel
	return []tea.Cmd{m.requestResponse(ctx, id)}
}

// requestResponse runs the responder off the UI loop and reports back.
func (m *Model) requestResponse(ctx context.Context, id string) tea.Cmd {
	store, responder := m.store, m.responder
	return func() tea.Msg {
		_, err := store.RequestResponse(ctx, responder, id)
		return responseMsg{convID: id, err: err}
	}
}

// exportActive writes the active conversation to the export directory.
func (m *Model) exportActive() tea.Cmd {
	conv := m.store.Active()
	if conv == nil {
		return nil
	}
	path, err := export.Write(conv, m.exportDir)
	if err != nil {
		return m.setNotice(fmt.Sprintf("Export failed: %v", err), true)
	}
	return m.setNotice("Exported to "+path, false)
}

// setNotice shows a transient notice line and schedules its removal.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return noticeTimeout(seq)
}

// noticeTimeout clears the notice after a few seconds unless a newer one
// replaced it.
func noticeTimeout(seq int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// selected returns the conversation under the sidebar cursor, or nil.
func (m *Model) selected() *chat.Conversation {
	if m.cursor < 0 || m.cursor >= len(m.history) {
		return nil
	}
	return m.history[m.cursor]
}

// refresh re-reads store state and rebuilds the viewport content.
func (m *Model) refresh() {
	m.history = m.store.History()
	if m.cursor >= len(m.history) {
		m.cursor = len(m.history) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// resize recomputes component dimensions from the window size.
func (m *Model) resize() {
	vpWidth := m.width
	if m.sidebarOpen {
		vpWidth -= sidebarWidth
	}
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.textinput.Width = vpWidth - 4
}

// ---------- rendering ----------

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.modal.kind != modalNone {
		return m.renderModal()
	}

	main := m.renderMain()
	if !m.sidebarOpen {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m Model) renderMain() string {
	conv := m.store.Active()
	title := chat.DefaultTitle
	if conv != nil {
		title = conv.Title
	}

	width := m.viewport.Width
	header := m.st.header.Width(width).Render(m.st.logo.Render("◆ ") + title)

	var footer strings.Builder
	if m.notice != "" {
		style := m.st.notice
		if m.noticeErr {
			style = m.st.errNotice
		}
		footer.WriteString(style.Render(m.notice) + "\n")
	} else if m.store.Pending(m.store.ActiveID()) {
		footer.WriteString(m.st.typing.Render(m.spinner.View()+"AI is typing...") + "\n")
	} else {
		footer.WriteString("\n")
	}
	if m.pendingFile != nil {
		footer.WriteString(m.st.attachment.Render("📎 "+m.pendingFile.Name+" (ctrl+u to remove)") + "\n")
	}
	footer.WriteString(m.textinput.View() + "\n")
	footer.WriteString(m.st.help.Render("tab focus • ctrl+n new • ctrl+b sidebar • ctrl+t theme • ctrl+e export • ctrl+a attach • ctrl+c quit"))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer.String())
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.st.logo.Render("SDS Chat") + "\n\n")
	b.WriteString(m.st.newChat.Render("+ New Chat (ctrl+n)") + "\n\n")
	b.WriteString(m.st.historyTitle.Render("History") + "\n")

	activeID := m.store.ActiveID()
	for i, c := range m.history {
		title := truncate(c.Title, sidebarWidth-4)
		line := "  " + title
		if c.ID == activeID {
			line = m.st.historyActive.Render("· " + title)
		} else {
			line = m.st.historyItem.Render(line)
		}
		if m.sidebarFocus && i == m.cursor {
			line = m.st.historyCursor.Render("▸ " + title)
		}
		b.WriteString(line + "\n")
	}

	if m.sidebarFocus {
		b.WriteString("\n" + m.st.help.Render("enter open\nr rename\nd delete\nctrl+x clear all"))
	}

	height := m.height
	if height < 1 {
		height = 24
	}
	return m.st.sidebar.Width(sidebarWidth - 1).Height(height).Render(b.String())
}

// renderConversation renders the message transcript for the viewport.
func (m Model) renderConversation() string {
	conv := m.store.Active()
	if conv == nil || len(conv.Messages) == 0 {
		return m.renderWelcome()
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		if msg.Role == chat.RoleUser {
			b.WriteString(m.st.userLabel.Render("You") + "\n")
			b.WriteString(msg.Content + "\n")
			if msg.File != nil {
				b.WriteString(m.st.attachment.Render("📎 "+msg.File.Name) + "\n")
			}
		} else {
			b.WriteString(m.st.aiLabel.Render("AI") + "\n")
			b.WriteString(renderMarkdown(msg.Content, width, m.dark))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(m.st.introTitle.Render(welcomeTitle) + "\n\n")
	b.WriteString(m.st.introText.Render(welcomeText) + "\n\n")
	b.WriteString(m.st.disclaimer.Render(disclaimer) + "\n")
	return b.String()
}

// renderMarkdown renders assistant markdown through glamour, falling back to
// the raw text when rendering fails.
func renderMarkdown(text string, width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return text + "\n"
	}
	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
