// Package provider defines the response-provider contract: given a
// conversation, produce the assistant's reply. The shipped implementation is a
// local placeholder; a real inference backend would implement the same
// interface.
package provider

import (
	"context"

	"github.com/sdschat/sdschat/internal/chat"
)

// Provider produces assistant replies.
type Provider interface {
	// GetResponse returns the reply text for the conversation. It may take a
	// user-perceptible amount of time and must honor ctx cancellation. A
	// non-nil error means the turn produced no assistant message.
	GetResponse(ctx context.Context, conv *chat.Conversation) (string, error)

	// Name returns the provider identifier, e.g. "canned".
	Name() string
}
