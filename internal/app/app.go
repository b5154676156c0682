package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/swissMack/simportal/internal/api"
	"github.com/swissMack/simportal/internal/config"
	"github.com/swissMack/simportal/internal/database"
	"github.com/swissMack/simportal/internal/repository"
	"github.com/swissMack/simportal/internal/service"
)

// usageCacheTTL bounds how long a cached usage window may serve queries.
const usageCacheTTL = 5 * time.Minute

// App bundles the provisioning API's long-lived resources.
type App struct {
	DB     *sql.DB
	Server *http.Server
}

// NewApp wires the provisioning API from its configuration.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	repo := repository.NewSQLiteRepository(db)

	var usageCache repository.UsageCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		usageCache = repository.NewRedisUsageCache(rdb, usageCacheTTL)
		slog.Info("Usage rollup cache enabled", "addr", cfg.RedisAddr)
	}

	simService := service.NewSimService(repo)
	usageService := service.NewUsageService(repo, usageCache)
	webhookService := service.NewWebhookService(repo)

	simHandler := api.NewSimHandler(simService)
	usageHandler := api.NewUsageHandler(usageService)
	webhookHandler := api.NewWebhookHandler(webhookService)
	router := api.NewRouter(simHandler, usageHandler, webhookHandler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server}, nil
}

// Run starts the provisioning API and blocks until the server stops.
// It returns a process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
