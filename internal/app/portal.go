package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/swissMack/simportal/internal/client"
	"github.com/swissMack/simportal/internal/config"
	"github.com/swissMack/simportal/internal/localstore"
	"github.com/swissMack/simportal/internal/session"
	"github.com/swissMack/simportal/internal/shell"
)

// Portal bundles the dashboard runtime: the shell state, the chat session and
// the file-backed state store they share.
type Portal struct {
	Store   *localstore.Store
	Shell   *shell.Shell
	Session *session.Session
}

// NewPortal wires the dashboard runtime from its configuration.
func NewPortal(cfg *config.Config) (*Portal, error) {
	store, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	backend := client.New(cfg.BackendURL)
	sh := shell.New(store, backend)
	sess := session.NewSession(backend, nil)

	return &Portal{Store: store, Shell: sh, Session: sess}, nil
}

// RunPortal starts the dashboard runtime and blocks until the process is
// signalled to stop. It returns a process exit code.
func RunPortal() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	portal, err := NewPortal(cfg)
	if err != nil {
		slog.Error("Failed to initialize portal", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal.Shell.StartPolling(ctx, cfg.NotifyPollInterval)
	if err := portal.Shell.WatchFlags(ctx); err != nil {
		slog.Warn("State watcher unavailable, flag changes from other instances will not apply", "error", err)
	}

	// The backend may not be up yet; the conversation list reloads on demand.
	if err := portal.Session.LoadConversations(ctx); err != nil {
		slog.Warn("Could not load conversations on startup", "error", err)
	}

	slog.Info("Portal started", "backend", cfg.BackendURL, "page", portal.Shell.CurrentPage())
	<-ctx.Done()
	slog.Info("Portal shutting down")
	return 0
}
