package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "github.com/swissMack/simportal/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the
// provisioning API's routes.
func NewRouter(simHandler *SimHandler, usageHandler *UsageHandler, webhookHandler *WebhookHandler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// The browser portal is served from a different origin than this API.
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint, used by container orchestration for
	// liveness and readiness probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// --- SIMs ---
		r.Get("/sims", simHandler.HandleListSims)
		r.Post("/sims", simHandler.HandleCreateSim)
		r.Get("/sims/{simID}", simHandler.HandleGetSim)
		r.Put("/sims/{simID}", simHandler.HandleUpdateSim)
		r.Delete("/sims/{simID}", simHandler.HandleDeleteSim)
		r.Post("/sims/bulk/status", simHandler.HandleBulkStatus)

		// --- Usage ---
		r.Post("/usage", usageHandler.HandleRecordUsage)
		r.Get("/sims/{simID}/usage", usageHandler.HandleGetUsage)

		// --- Webhooks & Alerts ---
		r.Post("/webhooks/mqtt", webhookHandler.HandleMQTTEvent)
		r.Post("/webhooks/alerts", webhookHandler.HandleAlertEvent)
		r.Get("/webhooks/log", webhookHandler.HandleWebhookLog)
		r.Delete("/webhooks/log", webhookHandler.HandleClearWebhookLog)
		r.Get("/alerts", webhookHandler.HandleListAlerts)
	})

	return r
}
