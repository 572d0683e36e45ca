package chat

import (
	"strings"
	"time"
)

// DefaultTitle is the title of a conversation before its first user message.
const DefaultTitle = "New Conversation"

// maxTitleWords is how many leading tokens of the first user message become
// the derived title.
const maxTitleWords = 4

// Conversation is a titled, ordered sequence of messages. Timestamp is the
// history sort key and is set once at creation; appending messages does not
// update it, so old conversations stay put in the listing.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Messages  []Message `json:"messages"`
}

// NewConversation creates an empty conversation with a fresh id and the
// default title.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        newID("chat"),
		Title:     DefaultTitle,
		Timestamp: time.Now().UnixMilli(),
		Messages:  []Message{},
	}
}

// Clone returns a copy of the conversation with its own message slice, safe to
// hand to a responder while the original keeps mutating.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// DeriveTitle builds a conversation title from the first user message: the
// first four whitespace-separated tokens, with "..." appended when the message
// had more.
func DeriveTitle(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxTitleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxTitleWords], " ") + "..."
}
