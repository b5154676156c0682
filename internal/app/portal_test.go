package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swissMack/simportal/internal/config"
	"github.com/swissMack/simportal/internal/shell"
)

func TestNewPortal(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/notifications/unread-count":
			_ = json.NewEncoder(w).Encode(map[string]int{"count": 2})
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer backend.Close()

	cfg := &config.Config{
		BackendURL:     backend.URL,
		LocalStorePath: filepath.Join(t.TempDir(), "portal-state.json"),
		LogLevel:       "DEBUG",
	}

	portal, err := NewPortal(cfg)
	require.NoError(t, err)
	require.NotNil(t, portal)

	assert.NotNil(t, portal.Store)
	assert.NotNil(t, portal.Shell)
	assert.NotNil(t, portal.Session)
	assert.Equal(t, shell.DefaultPage, portal.Shell.CurrentPage())

	// The session reaches the backend through the wired client.
	require.NoError(t, portal.Session.LoadConversations(context.Background()))
	assert.Empty(t, portal.Session.Conversations())
}

func TestNewPortal_BadStorePath(t *testing.T) {
	// A path inside a file (not a directory) cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	cfg := &config.Config{
		BackendURL:     "http://backend:9000",
		LocalStorePath: filepath.Join(blocker, "state.json"),
		LogLevel:       "INFO",
	}

	_, err := NewPortal(cfg)
	assert.Error(t, err)
}
