package shell_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swissMack/simportal/internal/localstore"
	"github.com/swissMack/simportal/internal/shell"
)

// countingBackend is a hand-rolled NotificationCounter fake. The poller only
// needs a count or an error, so a full mock is overkill here.
type countingBackend struct {
	mu    sync.Mutex
	count int
	err   error
	calls int
}

func (b *countingBackend) UnreadCount(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.count, b.err
}

func (b *countingBackend) set(count int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count = count
	b.err = err
}

func newTestStore(t *testing.T) *localstore.Store {
	store, err := localstore.Open(filepath.Join(t.TempDir(), "portal-state.json"))
	require.NoError(t, err)
	return store
}

func TestShell_DefaultsAndPersistence(t *testing.T) {
	store := newTestStore(t)
	s := shell.New(store, &countingBackend{})

	assert.Equal(t, shell.DefaultPage, s.CurrentPage())
	assert.False(t, s.SidebarCollapsed())
	assert.False(t, s.LLMEnabled())

	s.SetCurrentPage("geozones")
	s.ToggleSidebar()
	s.SetLLMEnabled(true)

	// A new shell over the same store sees the persisted state.
	reloaded := shell.New(store, &countingBackend{})
	assert.Equal(t, "geozones", reloaded.CurrentPage())
	assert.True(t, reloaded.SidebarCollapsed())
	assert.True(t, reloaded.LLMEnabled())
}

func TestShell_ToggleSidebarFlips(t *testing.T) {
	s := shell.New(newTestStore(t), &countingBackend{})

	s.ToggleSidebar()
	assert.True(t, s.SidebarCollapsed())
	s.ToggleSidebar()
	assert.False(t, s.SidebarCollapsed())
}

func TestShell_BumpAdvancesRefreshKey(t *testing.T) {
	s := shell.New(newTestStore(t), &countingBackend{})

	before := s.RefreshKey()
	s.Bump()
	assert.Equal(t, before+1, s.RefreshKey())
}

func TestShell_PollingPrimesAndUpdates(t *testing.T) {
	backend := &countingBackend{count: 3}
	s := shell.New(newTestStore(t), backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartPolling(ctx, 10*time.Millisecond)

	// The first poll fires immediately, before the first tick.
	assert.Eventually(t, func() bool {
		return s.UnreadCount() == 3
	}, time.Second, 5*time.Millisecond)

	backend.set(5, nil)
	assert.Eventually(t, func() bool {
		return s.UnreadCount() == 5
	}, time.Second, 5*time.Millisecond)
}

func TestShell_PollFailureKeepsLastCount(t *testing.T) {
	backend := &countingBackend{count: 4}
	s := shell.New(newTestStore(t), backend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartPolling(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return s.UnreadCount() == 4
	}, time.Second, 5*time.Millisecond)

	// Backend starts failing; the badge keeps showing the last good count.
	backend.set(0, errors.New("backend down"))
	callsAtFailure := func() int {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.calls
	}()
	assert.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.calls > callsAtFailure+1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, s.UnreadCount())
}

func TestShell_WatchFlagsAppliesExternalChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal-state.json")
	store, err := localstore.Open(path)
	require.NoError(t, err)
	s := shell.New(store, &countingBackend{})
	require.False(t, s.LLMEnabled())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.WatchFlags(ctx))

	// Another portal instance has its own store over the same file; its write
	// must propagate through the watcher.
	otherStore, err := localstore.Open(path)
	require.NoError(t, err)
	other := shell.New(otherStore, &countingBackend{})
	other.SetLLMEnabled(true)

	assert.Eventually(t, func() bool {
		return s.LLMEnabled()
	}, 5*time.Second, 10*time.Millisecond)
}
