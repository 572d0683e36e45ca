// Package chat holds the session store: the conversation mapping, the active
// selection, and the load/save cycle against the key-value backend. All durable
// state lives here; view state (modals, sidebar collapse) belongs to the UI.
package chat

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is an opaque reference to a user-picked file carried by a single
// outgoing message.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// Message is one entry in a conversation. Immutable once created; insertion
// order is the display order.
type Message struct {
	ID      string      `json:"id"`
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	File    *Attachment `json:"file,omitempty"`
}

// idSeq disambiguates ids generated within the same millisecond.
var idSeq atomic.Int64

// newID returns a unique, time-sortable identifier: prefix, unix millis, and a
// process-wide sequence number.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), idSeq.Add(1))
}

// NewMessage creates a message with a fresh role-prefixed id.
func NewMessage(role Role, content string, file *Attachment) Message {
	return Message{
		ID:      newID("msg_" + string(role)),
		Role:    role,
		Content: content,
		File:    file,
	}
}
