package provider

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sdschat/sdschat/internal/chat"
)

// DefaultDelay simulates the latency of a real inference call.
const DefaultDelay = 1500 * time.Millisecond

var cannedResponses = []string{
	"I'm an AI assistant here to help you. How can I assist you today?",
	"That's an interesting question. Let me think about that...",
	"Here's what I found about your query.",
	"I can help with that. Here's some information that might be useful.",
}

// Canned is the placeholder provider: after a fixed delay it returns one of a
// small set of fixed replies, ignoring the conversation content.
type Canned struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCanned creates a canned provider. delay <= 0 selects DefaultDelay.
func NewCanned(delay time.Duration) *Canned {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Canned{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Canned) Name() string { return "canned" }

func (c *Canned) GetResponse(ctx context.Context, _ *chat.Conversation) (string, error) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	c.mu.Lock()
	i := c.rng.Intn(len(cannedResponses))
	c.mu.Unlock()
	return cannedResponses[i], nil
}
