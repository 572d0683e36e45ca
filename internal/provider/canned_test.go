package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sdschat/sdschat/internal/chat"
)

func TestCannedReturnsKnownResponse(t *testing.T) {
	p := NewCanned(time.Millisecond)
	conv := chat.NewConversation()

	got, err := p.GetResponse(context.Background(), conv)
	if err != nil {
		t.Fatalf("GetResponse: %v", err)
	}

	found := false
	for _, r := range cannedResponses {
		if got == r {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("GetResponse = %q, not in canned set", got)
	}
}

func TestCannedHonorsCancellation(t *testing.T) {
	p := NewCanned(10 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.GetResponse(ctx, chat.NewConversation())
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("GetResponse did not return after cancellation")
	}
}

func TestCannedDefaultDelay(t *testing.T) {
	p := NewCanned(0)
	if p.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", p.delay, DefaultDelay)
	}
}
