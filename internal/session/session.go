// Package session holds the state of the operator's chat with the assistant:
// the conversation list, the active conversation, and its message list. User
// messages are rendered optimistically before the backend confirms them.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swissMack/simportal/internal/client"
	"github.com/swissMack/simportal/internal/model"
)

const (
	// maxTitleRunes caps a derived conversation title before the ellipsis.
	maxTitleRunes = 60

	// titleRefreshLimit is the message count up to which a successful send
	// still refreshes the conversation title from the first message.
	titleRefreshLimit = 3

	// ErrorReply is appended as an assistant message when a send fails.
	// The optimistic user message is kept either way.
	ErrorReply = "Sorry, something went wrong while processing your message. Please try again."
)

// Session is a single operator's chat state. All exported methods are safe
// for concurrent use; a fetch token guards against a stale message fetch
// overwriting a newer conversation selection.
type Session struct {
	store    client.ConversationStore
	onScroll func()

	mu            sync.Mutex
	conversations []model.Conversation
	activeID      string
	messages      []model.Message
	pending       bool
	fetchSeq      uint64
}

// NewSession creates a session over the given conversation store. onScroll
// is invoked whenever the view should scroll to the latest message; it may
// be nil.
func NewSession(store client.ConversationStore, onScroll func()) *Session {
	return &Session{store: store, onScroll: onScroll}
}

// LoadConversations fetches the conversation list. If no conversation is
// active yet, the first one is selected.
func (s *Session) LoadConversations(ctx context.Context) error {
	conversations, err := s.store.ListConversations(ctx)
	if err != nil {
		slog.Warn("Failed to load conversations", "error", err)
		return err
	}

	s.mu.Lock()
	s.conversations = conversations
	first := ""
	if s.activeID == "" && len(conversations) > 0 {
		first = conversations[0].ID
	}
	s.mu.Unlock()

	if first != "" {
		return s.SelectConversation(ctx, first)
	}
	return nil
}

// SelectConversation makes the conversation active and fetches its messages.
// If another selection happens while the fetch is in flight, the stale
// response is discarded instead of overwriting the newer selection.
func (s *Session) SelectConversation(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	s.activeID = conversationID
	s.messages = nil
	s.fetchSeq++
	token := s.fetchSeq
	s.mu.Unlock()

	messages, err := s.store.ListMessages(ctx, conversationID)

	s.mu.Lock()
	if token != s.fetchSeq {
		// A newer selection superseded this fetch.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.mu.Unlock()
		slog.Warn("Failed to load messages", "conversation_id", conversationID, "error", err)
		return err
	}
	s.messages = messages
	s.mu.Unlock()

	s.scroll()
	return nil
}

// SendMessage sends the user's text to the active conversation, creating a
// conversation on demand. The user message is appended optimistically and is
// never rolled back; a failed send appends a fixed-text assistant reply
// instead. The pending flag is always cleared and the view always re-scrolled
// when the send completes, success or failure.
func (s *Session) SendMessage(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		slog.Debug("Send ignored, another send is still pending")
		return nil
	}
	s.pending = true
	active := s.activeID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = false
		s.mu.Unlock()
		s.scroll()
	}()

	if active == "" {
		conversation, err := s.store.CreateConversation(ctx, DeriveTitle(content))
		if err != nil {
			slog.Warn("Failed to create conversation", "error", err)
			return err
		}
		s.mu.Lock()
		s.conversations = append([]model.Conversation{*conversation}, s.conversations...)
		s.activeID = conversation.ID
		s.messages = nil
		s.fetchSeq++ // the selection changed, drop any in-flight fetch
		s.mu.Unlock()
		active = conversation.ID
	}

	userMessage := model.Message{
		ID:             "tmp-" + uuid.NewString(),
		ConversationID: active,
		Role:           model.RoleUser,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	s.appendIfActive(active, userMessage)

	reply, err := s.store.SendMessage(ctx, active, content)
	if err != nil {
		slog.Warn("Failed to send message", "conversation_id", active, "error", err)
		s.appendIfActive(active, model.Message{
			ID:             "tmp-" + uuid.NewString(),
			ConversationID: active,
			Role:           model.RoleAssistant,
			Content:        ErrorReply,
			CreatedAt:      time.Now(),
		})
		return err
	}

	s.mu.Lock()
	if s.activeID == active {
		s.messages = append(s.messages, *reply)
		s.fetchSeq++ // a fetch started before this reply is now stale
		// While the conversation is still young, keep the title in sync
		// with the first message.
		if len(s.messages) <= titleRefreshLimit {
			s.refreshTitleLocked(active)
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteConversation removes the conversation. If it was active, the next
// available conversation is selected, or the selection is cleared when none
// remain. The view never keeps a reference to the deleted id.
func (s *Session) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		slog.Warn("Failed to delete conversation", "conversation_id", conversationID, "error", err)
		return err
	}

	s.mu.Lock()
	idx := -1
	for i, c := range s.conversations {
		if c.ID == conversationID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	}

	next := ""
	wasActive := s.activeID == conversationID
	if wasActive {
		s.activeID = ""
		s.messages = nil
		s.fetchSeq++ // drop any in-flight fetch for the deleted conversation
		if idx >= 0 && len(s.conversations) > 0 {
			if idx >= len(s.conversations) {
				idx = len(s.conversations) - 1
			}
			next = s.conversations[idx].ID
		}
	}
	s.mu.Unlock()

	if next != "" {
		return s.SelectConversation(ctx, next)
	}
	return nil
}

// --- Accessors ---

// ActiveConversationID returns the id of the active conversation, or "" when
// none is selected.
func (s *Session) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Conversations returns a copy of the conversation list.
func (s *Session) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Messages returns a copy of the active conversation's message list.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending reports whether a send is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// --- Internals ---

// appendIfActive appends the message to the view unless the operator has
// switched to a different conversation in the meantime. Appending invalidates
// any in-flight message fetch: the fetch snapshot predates this message and
// must not replace the list.
func (s *Session) appendIfActive(conversationID string, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == conversationID {
		s.messages = append(s.messages, msg)
		s.fetchSeq++
	}
}

// refreshTitleLocked re-derives the conversation's title from its first
// message. Caller must hold s.mu.
func (s *Session) refreshTitleLocked(conversationID string) {
	if len(s.messages) == 0 {
		return
	}
	title := DeriveTitle(s.messages[0].Content)
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations[i].Title = title
			s.conversations[i].UpdatedAt = time.Now()
			return
		}
	}
}

func (s *Session) scroll() {
	if s.onScroll != nil {
		s.onScroll()
	}
}

// DeriveTitle builds a conversation title from the first message: the text
// is truncated to 60 runes, with a trailing ellipsis when shortened.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= maxTitleRunes {
		return content
	}
	return string(runes[:maxTitleRunes]) + "…"
}
