package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdschat/sdschat/internal/chat"
	"github.com/sdschat/sdschat/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := chat.NewStore(storage.NewMemory(), nil)
	store.Initialize(false)
	return NewModel(store, nil, t.TempDir())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(key(k))
		m = updated.(Model)
	}
	return m
}

func TestSidebarCollapsesOnNarrowWindow(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	m = updated.(Model)
	if m.sidebarOpen {
		t.Error("sidebar open at width 60, want collapsed")
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	if !m.sidebarOpen {
		t.Error("sidebar collapsed at width 120, want open")
	}
}

func TestNewChatKeySwitchesActiveConversation(t *testing.T) {
	m := newTestModel(t)
	before := m.store.ActiveID()

	m = press(t, m, "ctrl+n")

	if got := m.store.ActiveID(); got == before {
		t.Error("active conversation unchanged after ctrl+n")
	}
	if len(m.history) != 2 {
		t.Errorf("history length = %d, want 2", len(m.history))
	}
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t)
	if m.dark {
		t.Fatal("model started dark, want light")
	}

	m = press(t, m, "ctrl+t")

	if !m.dark {
		t.Error("model still light after ctrl+t")
	}
	if !m.store.Dark() {
		t.Error("store theme not updated")
	}
}

func TestTabTogglesSidebarFocus(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "tab")
	if !m.sidebarFocus {
		t.Error("sidebar not focused after tab")
	}

	m = press(t, m, "tab")
	if m.sidebarFocus {
		t.Error("sidebar still focused after second tab")
	}
}

func TestRenameModalFlow(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "tab", "r")
	if m.modal.kind != modalRename {
		t.Fatalf("modal kind = %d, want rename", m.modal.kind)
	}

	m.modal.input.SetValue("Project Notes")
	m = press(t, m, "enter")

	if m.modal.kind != modalNone {
		t.Error("modal still open after enter")
	}
	if got := m.store.Active().Title; got != "Project Notes" {
		t.Errorf("title = %q, want %q", got, "Project Notes")
	}
}

func TestRenameModalEscapeLeavesTitle(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "tab", "r")
	m.modal.input.SetValue("Discarded")
	m = press(t, m, "esc")

	if m.modal.kind != modalNone {
		t.Error("modal still open after esc")
	}
	if got := m.store.Active().Title; got != chat.DefaultTitle {
		t.Errorf("title = %q, want unchanged", got)
	}
}

func TestDeleteModalConfirm(t *testing.T) {
	m := newTestModel(t)
	before := m.store.ActiveID()

	m = press(t, m, "tab", "d")
	if m.modal.kind != modalConfirmDelete {
		t.Fatalf("modal kind = %d, want confirm delete", m.modal.kind)
	}

	m = press(t, m, "y")

	if m.modal.kind != modalNone {
		t.Error("modal still open after y")
	}
	if _, ok := m.store.Conversation(before); ok {
		t.Error("conversation survived confirmed delete")
	}
	if m.store.ActiveID() == "" {
		t.Error("no active conversation after delete")
	}
}

func TestDeleteModalDecline(t *testing.T) {
	m := newTestModel(t)
	before := m.store.ActiveID()

	m = press(t, m, "tab", "d", "n")

	if m.modal.kind != modalNone {
		t.Error("modal still open after n")
	}
	if _, ok := m.store.Conversation(before); !ok {
		t.Error("conversation deleted despite decline")
	}
}

func TestClearAllModal(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "ctrl+n", "ctrl+n")
	if len(m.history) != 3 {
		t.Fatalf("history length = %d, want 3", len(m.history))
	}

	m = press(t, m, "ctrl+x", "y")

	if len(m.history) != 1 {
		t.Errorf("history length after clear = %d, want 1", len(m.history))
	}
}

func TestAttachModalStagesFile(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "ctrl+a")
	if m.modal.kind != modalAttach {
		t.Fatalf("modal kind = %d, want attach", m.modal.kind)
	}
	m.modal.input.SetValue(path)
	m = press(t, m, "enter")

	if m.pendingFile == nil {
		t.Fatal("no staged attachment")
	}
	if m.pendingFile.Name != "notes.txt" {
		t.Errorf("attachment name = %q", m.pendingFile.Name)
	}
	if m.pendingFile.Type != "text/plain; charset=utf-8" {
		t.Errorf("attachment type = %q", m.pendingFile.Type)
	}
}

func TestNewChatClearsStagedAttachment(t *testing.T) {
	m := newTestModel(t)
	m.pendingFile = &chat.Attachment{Name: "report.pdf", Type: "application/pdf", URI: "/tmp/report.pdf"}

	m = press(t, m, "ctrl+n")

	if m.pendingFile != nil {
		t.Errorf("staged attachment survived new chat: %+v", m.pendingFile)
	}
}

func TestLoadConversationClearsStagedAttachment(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "ctrl+n")
	m.pendingFile = &chat.Attachment{Name: "report.pdf", Type: "application/pdf", URI: "/tmp/report.pdf"}

	m = press(t, m, "tab", "down", "enter")

	if m.pendingFile != nil {
		t.Errorf("staged attachment survived conversation switch: %+v", m.pendingFile)
	}
}

func TestTypingDoesNotScrollTranscript(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 10})
	m = updated.(Model)

	m.viewport.SetContent(strings.Repeat("line\n", 200))
	m.viewport.GotoBottom()
	before := m.viewport.YOffset

	// "u" is bound to half-page-up in the viewport's default keymap; with the
	// input focused it must stay ordinary text.
	m = press(t, m, "u")

	if m.viewport.YOffset != before {
		t.Errorf("viewport YOffset = %d after typing, want %d", m.viewport.YOffset, before)
	}
	if got := m.textinput.Value(); got != "u" {
		t.Errorf("input value = %q, want %q", got, "u")
	}
}

func TestBuildAttachmentMissingFile(t *testing.T) {
	if _, err := buildAttachment(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildAttachmentUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.zzz9")
	if err := os.WriteFile(path, []byte{0x1}, 0644); err != nil {
		t.Fatal(err)
	}

	att, err := buildAttachment(path)
	if err != nil {
		t.Fatalf("buildAttachment: %v", err)
	}
	if att.Type != "application/octet-stream" {
		t.Errorf("type = %q, want octet-stream fallback", att.Type)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer title here", 10, "a much lo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
