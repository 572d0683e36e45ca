// Package export renders a conversation as a flat markdown document for
// sharing or archiving outside the app.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sdschat/sdschat/internal/chat"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Render produces the export document: the title as a top-level heading, then
// each message as a "You"/"AI" heading followed by its content, in stored
// order, separated by blank lines.
func Render(conv *chat.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	for _, m := range conv.Messages {
		role := "AI"
		if m.Role == chat.RoleUser {
			role = "You"
		}
		fmt.Fprintf(&b, "## %s:\n%s\n\n", role, m.Content)
	}
	return b.String()
}

// Filename returns the markdown filename for a title, with non-word
// characters stripped.
func Filename(title string) string {
	name := strings.TrimSpace(nonWord.ReplaceAllString(title, ""))
	if name == "" {
		name = "conversation"
	}
	return name + ".md"
}

// Write renders conv into dir and returns the path of the written file, ready
// to hand to a share/save collaborator.
func Write(conv *chat.Conversation, dir string) (string, error) {
	path := filepath.Join(dir, Filename(conv.Title))
	if err := os.WriteFile(path, []byte(Render(conv)), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
