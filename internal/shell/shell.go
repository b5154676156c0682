// Package shell owns the dashboard's top-level state: the current page
// (persisted between visits), the sidebar and LLM feature flags, a refresh
// key that forces child views to re-fetch, and the unread-notification
// poller.
package shell

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/swissMack/simportal/internal/localstore"
)

// Persisted state keys.
const (
	keyCurrentPage      = "portal.page"
	keySidebarCollapsed = "portal.sidebar_collapsed"
	keyLLMEnabled       = "portal.llm_enabled"
)

// DefaultPage is shown when no page was persisted yet.
const DefaultPage = "devices"

// NotificationCounter is the backend call the poller depends on.
type NotificationCounter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// Shell is the dashboard's top-level state container.
type Shell struct {
	store   *localstore.Store
	backend NotificationCounter

	mu               sync.Mutex
	currentPage      string
	sidebarCollapsed bool
	llmEnabled       bool
	refreshKey       int
	unread           int
}

// New loads the persisted shell state from the store.
func New(store *localstore.Store, backend NotificationCounter) *Shell {
	s := &Shell{store: store, backend: backend, currentPage: DefaultPage}
	if page, ok := store.Get(keyCurrentPage); ok && page != "" {
		s.currentPage = page
	}
	if v, ok := store.Get(keySidebarCollapsed); ok {
		s.sidebarCollapsed = v == "true"
	}
	if v, ok := store.Get(keyLLMEnabled); ok {
		s.llmEnabled = v == "true"
	}
	return s
}

// CurrentPage returns the active page name.
func (s *Shell) CurrentPage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// SetCurrentPage navigates to the page and persists the choice.
func (s *Shell) SetCurrentPage(page string) {
	s.mu.Lock()
	s.currentPage = page
	s.mu.Unlock()
	if err := s.store.Set(keyCurrentPage, page); err != nil {
		slog.Warn("Failed to persist current page", "error", err)
	}
}

// SidebarCollapsed returns the sidebar flag.
func (s *Shell) SidebarCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarCollapsed
}

// ToggleSidebar flips and persists the sidebar flag.
func (s *Shell) ToggleSidebar() {
	s.mu.Lock()
	s.sidebarCollapsed = !s.sidebarCollapsed
	collapsed := s.sidebarCollapsed
	s.mu.Unlock()
	if err := s.store.Set(keySidebarCollapsed, strconv.FormatBool(collapsed)); err != nil {
		slog.Warn("Failed to persist sidebar flag", "error", err)
	}
}

// LLMEnabled returns the LLM feature flag.
func (s *Shell) LLMEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.llmEnabled
}

// SetLLMEnabled sets and persists the LLM feature flag.
func (s *Shell) SetLLMEnabled(enabled bool) {
	s.mu.Lock()
	s.llmEnabled = enabled
	s.mu.Unlock()
	if err := s.store.Set(keyLLMEnabled, strconv.FormatBool(enabled)); err != nil {
		slog.Warn("Failed to persist LLM flag", "error", err)
	}
}

// RefreshKey returns the current refresh counter. Child views key their
// rendering identity on it, so bumping it forces a re-fetch.
func (s *Shell) RefreshKey() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshKey
}

// Bump increments the refresh key.
func (s *Shell) Bump() {
	s.mu.Lock()
	s.refreshKey++
	s.mu.Unlock()
}

// UnreadCount returns the last polled unread-notification count.
func (s *Shell) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// StartPolling polls the unread-notification count on the given interval
// until ctx is cancelled. Poll failures are silent no-ops: the previous
// count stays on display. An immediate first poll primes the badge.
func (s *Shell) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(ctx)
			}
		}
	}()
}

func (s *Shell) poll(ctx context.Context) {
	count, err := s.backend.UnreadCount(ctx)
	if err != nil {
		slog.Debug("Unread-notification poll failed", "error", err)
		return
	}
	s.mu.Lock()
	s.unread = count
	s.mu.Unlock()
}

// WatchFlags applies external LLM-flag changes from the state file until ctx
// is cancelled. Other portal instances sharing the store converge this way.
func (s *Shell) WatchFlags(ctx context.Context) error {
	stop := make(chan struct{})
	changes, err := s.store.Watch(stop)
	if err != nil {
		return err
	}
	go func() {
		defer close(stop)
		for {
			select {
			case <-ctx.Done():
				return
			case key, ok := <-changes:
				if !ok {
					return
				}
				if key != keyLLMEnabled {
					continue
				}
				v, _ := s.store.Get(keyLLMEnabled)
				s.mu.Lock()
				s.llmEnabled = v == "true"
				s.mu.Unlock()
				slog.Info("LLM flag updated from shared state", "enabled", v == "true")
			}
		}
	}()
	return nil
}
