package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sdschat/sdschat/internal/storage"
)

// Persistence keys. The full conversation mapping is serialized under
// historyKey on every mutation; no partial updates.
const (
	historyKey = "chatHistory"
	themeKey   = "theme"
)

var (
	// ErrResponsePending is returned when a message is sent while a response
	// is still being generated for the same conversation.
	ErrResponsePending = errors.New("response still pending for this conversation")

	// ErrEmptyMessage is returned when a message has neither text nor an
	// attachment.
	ErrEmptyMessage = errors.New("message has no text or attachment")

	// ErrConversationNotFound is returned when the target conversation id does
	// not exist.
	ErrConversationNotFound = errors.New("conversation not found")
)

// Responder produces an assistant reply for a conversation. Implementations
// may take a user-perceptible amount of time and must honor ctx cancellation.
type Responder interface {
	GetResponse(ctx context.Context, conv *Conversation) (string, error)
}

// Store owns the conversation mapping, the active selection, and the theme
// preference. Mutations update memory synchronously and persist the full
// serialized state in the background; write failures are logged, never rolled
// back.
type Store struct {
	mu            sync.Mutex
	kv            storage.KV
	log           *slog.Logger
	conversations map[string]*Conversation
	activeID      string
	pending       map[string]bool // conversation id -> response in flight
	dark          bool

	// Background saves may be scheduled faster than they complete; saveSeq
	// tags each snapshot so a stale one never overwrites a newer write.
	saveSeq   int64
	saveMu    sync.Mutex
	lastSaved int64
}

// NewStore creates an empty store over the given persistence backend. A nil
// logger discards all output.
func NewStore(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		kv:            kv,
		log:           logger,
		conversations: make(map[string]*Conversation),
		pending:       make(map[string]bool),
	}
}

// Initialize loads persisted state. Missing or malformed history degrades to
// an empty store plus one fresh conversation; read errors are logged, never
// surfaced. When history exists, the conversation with the greatest timestamp
// becomes active. defaultDark applies only when no theme was ever persisted.
func (s *Store) Initialize(defaultDark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dark = defaultDark
	if raw, ok, err := s.kv.Get(themeKey); err != nil {
		s.log.Error("load theme", "err", err)
	} else if ok {
		s.dark = raw == "dark"
	}

	raw, ok, err := s.kv.Get(historyKey)
	if err != nil {
		s.log.Error("load chat history", "err", err)
	}
	if err == nil && ok {
		var convs map[string]*Conversation
		if err := json.Unmarshal([]byte(raw), &convs); err != nil {
			s.log.Error("malformed chat history, starting fresh", "err", err)
		} else if len(convs) > 0 {
			s.conversations = convs
			s.activeID = mostRecent(convs)
			return
		}
	}

	s.createLocked()
}

// mostRecent returns the id with the greatest timestamp (id as tie-break).
func mostRecent(convs map[string]*Conversation) string {
	var best *Conversation
	for _, c := range convs {
		if best == nil || c.Timestamp > best.Timestamp ||
			(c.Timestamp == best.Timestamp && c.ID > best.ID) {
			best = c
		}
	}
	return best.ID
}

// CreateConversation inserts a fresh empty conversation, makes it active, and
// returns its id.
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked().ID
}

func (s *Store) createLocked() *Conversation {
	c := NewConversation()
	s.conversations[c.ID] = c
	s.activeID = c.ID
	s.persistLocked()
	return c
}

// LoadConversation makes id the active conversation. Unknown ids are ignored;
// the return value reports whether the switch happened.
func (s *Store) LoadConversation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return false
	}
	s.activeID = id
	return true
}

// AppendUserMessage appends a user message to the conversation. It fails with
// ErrResponsePending while a response is outstanding for that conversation and
// with ErrEmptyMessage when there is nothing to send. The first message of a
// conversation rewrites its title.
func (s *Store) AppendUserMessage(id, text string, file *Attachment) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return Message{}, ErrConversationNotFound
	}
	if s.pending[id] {
		return Message{}, ErrResponsePending
	}
	text = strings.TrimSpace(text)
	if text == "" && file == nil {
		return Message{}, ErrEmptyMessage
	}

	msg := NewMessage(RoleUser, text, file)
	c.Messages = append(c.Messages, msg)
	if len(c.Messages) == 1 && text != "" {
		c.Title = DeriveTitle(text)
	}
	s.persistLocked()
	return msg, nil
}

// RequestResponse invokes the responder with a snapshot of the full
// conversation and appends the reply on success. Only one outstanding request
// per conversation is permitted; the pending flag stays set for the whole
// call, rejecting sends in that window. On failure the conversation is left
// without an assistant turn and the error propagates for a generic user
// notice.
func (s *Store) RequestResponse(ctx context.Context, r Responder, id string) (Message, error) {
	s.mu.Lock()
	c, ok := s.conversations[id]
	if !ok {
		s.mu.Unlock()
		return Message{}, ErrConversationNotFound
	}
	if s.pending[id] {
		s.mu.Unlock()
		return Message{}, ErrResponsePending
	}
	s.pending[id] = true
	snapshot := c.Clone()
	s.mu.Unlock()

	text, err := r.GetResponse(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	if err != nil {
		s.log.Error("generate response", "conversation", id, "err", err)
		return Message{}, fmt.Errorf("generate response: %w", err)
	}
	c, ok = s.conversations[id]
	if !ok {
		// Conversation deleted while the response was in flight; drop it.
		return Message{}, ErrConversationNotFound
	}
	msg := NewMessage(RoleAssistant, text, nil)
	c.Messages = append(c.Messages, msg)
	s.persistLocked()
	return msg, nil
}

// Pending reports whether a response is in flight for the conversation.
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[id]
}

// RenameConversation replaces the title with the trimmed newTitle. Empty
// results and unknown ids are no-ops.
func (s *Store) RenameConversation(id, newTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return
	}
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return
	}
	c.Title = newTitle
	s.persistLocked()
}

// DeleteConversation removes the conversation. Deleting the active one
// immediately creates a fresh conversation so the store is never empty.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return
	}
	delete(s.conversations, id)
	delete(s.pending, id)
	if s.activeID == id {
		s.createLocked()
		return
	}
	s.persistLocked()
}

// ClearAll empties the mapping entirely, then creates a fresh conversation.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*Conversation)
	s.pending = make(map[string]bool)
	s.createLocked()
}

// SetTheme sets the dark-mode flag and writes it through to the backend.
func (s *Store) SetTheme(dark bool) {
	s.mu.Lock()
	s.dark = dark
	s.mu.Unlock()

	go func() {
		if err := s.kv.Set(themeKey, themeValue(dark)); err != nil {
			s.log.Error("save theme", "err", err)
		}
	}()
}

// Dark reports the current theme preference.
func (s *Store) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Active returns a snapshot of the active conversation. The store invariant
// guarantees one exists after Initialize.
func (s *Store) Active() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[s.activeID]; ok {
		return c.Clone()
	}
	return nil
}

// ActiveID returns the id of the active conversation.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Conversation returns a snapshot of the conversation with the given id.
func (s *Store) Conversation(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// History returns snapshots of all conversations sorted by timestamp
// descending (most recent first), id as tie-break.
func (s *Store) History() []*Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Flush writes the current state to the backend synchronously. Used on
// shutdown so the final mutations are not lost to an unfinished background
// save.
func (s *Store) Flush() error {
	s.mu.Lock()
	data, err := json.Marshal(s.conversations)
	dark := s.dark
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.kv.Set(historyKey, string(data)); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	if err := s.kv.Set(themeKey, themeValue(dark)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// persistLocked serializes the full conversation mapping under the held lock
// and writes it in the background. Durability is best-effort: failures are
// logged, not retried, and in-memory state is not rolled back.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.conversations)
	if err != nil {
		s.log.Error("marshal chat history", "err", err)
		return
	}
	s.saveSeq++
	seq := s.saveSeq

	go func() {
		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if seq <= s.lastSaved {
			// A newer snapshot already landed.
			return
		}
		s.lastSaved = seq
		if err := s.kv.Set(historyKey, string(data)); err != nil {
			s.log.Error("save chat history", "err", err)
		}
	}()
}

func themeValue(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
