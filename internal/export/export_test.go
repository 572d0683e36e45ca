package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdschat/sdschat/internal/chat"
)

func TestRender(t *testing.T) {
	conv := &chat.Conversation{
		ID:    "chat_1",
		Title: "Binary Trees",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "Explain binary trees"},
			{ID: "m2", Role: chat.RoleAssistant, Content: "A binary tree is..."},
		},
	}

	got := Render(conv)
	want := "# Binary Trees\n\n## You:\nExplain binary trees\n\n## AI:\nA binary tree is...\n\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderEmptyConversation(t *testing.T) {
	conv := &chat.Conversation{ID: "chat_1", Title: "New Conversation"}

	got := Render(conv)
	if got != "# New Conversation\n\n" {
		t.Errorf("Render = %q", got)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Binary Trees", "Binary Trees.md"},
		{"What's up? (part 2)", "Whats up part 2.md"},
		{"???", "conversation.md"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	conv := &chat.Conversation{
		ID:    "chat_1",
		Title: "My Chat",
		Messages: []chat.Message{
			{ID: "m1", Role: chat.RoleUser, Content: "hello"},
		},
	}

	path, err := Write(conv, dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, "My Chat.md") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "## You:\nhello") {
		t.Errorf("exported content = %q", data)
	}
}
