package chat

import "testing"

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "truncated to four words with ellipsis",
			text: "Explain how binary search trees balance themselves",
			want: "Explain how binary search...",
		},
		{
			name: "short message kept whole",
			text: "hi there",
			want: "hi there",
		},
		{
			name: "exactly four words no ellipsis",
			text: "one two three four",
			want: "one two three four",
		},
		{
			name: "collapses runs of whitespace",
			text: "  hello   world  ",
			want: "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.text); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewConversationDefaults(t *testing.T) {
	c := NewConversation()

	if c.ID == "" {
		t.Error("ID is empty")
	}
	if c.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", c.Title, DefaultTitle)
	}
	if c.Timestamp == 0 {
		t.Error("Timestamp not set")
	}
	if len(c.Messages) != 0 {
		t.Errorf("Messages len = %d, want 0", len(c.Messages))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewConversation()
	c.Messages = append(c.Messages, NewMessage(RoleUser, "hello", nil))

	cp := c.Clone()
	cp.Messages = append(cp.Messages, NewMessage(RoleAssistant, "hi", nil))

	if len(c.Messages) != 1 {
		t.Errorf("original Messages len = %d after mutating clone, want 1", len(c.Messages))
	}
}
