package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/interfaces"
	"github.com/swissMack/simportal/internal/service"
)

// UsageHandler handles HTTP requests for consumption tracking.
type UsageHandler struct {
	service interfaces.UsageService
}

func NewUsageHandler(svc interfaces.UsageService) *UsageHandler {
	return &UsageHandler{service: svc}
}

// RecordUsageRequest is the DTO for pushing a usage sample.
type RecordUsageRequest struct {
	SimID      string    `json:"sim_id" validate:"required,uuid4"`
	BytesUp    int64     `json:"bytes_up" validate:"gte=0"`
	BytesDown  int64     `json:"bytes_down" validate:"gte=0"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HandleRecordUsage godoc
// @Summary      Record a usage sample
// @Tags         Usage
// @Accept       json
// @Produce      json
// @Param        sample  body  RecordUsageRequest  true  "Usage sample"
// @Success      201  {object}  model.UsageSample
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/usage [post]
func (h *UsageHandler) HandleRecordUsage(w http.ResponseWriter, r *http.Request) {
	var req RecordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	sample, err := h.service.Record(r.Context(), &service.RecordUsageRequest{
		SimID:      req.SimID,
		BytesUp:    req.BytesUp,
		BytesDown:  req.BytesDown,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sample)
}

// HandleGetUsage godoc
// @Summary      Get usage totals for a SIM
// @Description  Aggregates usage over the [from, to) window. Defaults to the
// @Description  last 30 days when the query parameters are omitted.
// @Tags         Usage
// @Produce      json
// @Param        simID  path   string  true   "SIM id"
// @Param        from   query  string  false  "Window start (RFC 3339)"
// @Param        to     query  string  false  "Window end (RFC 3339)"
// @Success      200  {object}  model.UsageTotals
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/sims/{simID}/usage [get]
func (h *UsageHandler) HandleGetUsage(w http.ResponseWriter, r *http.Request) {
	simID := chi.URLParam(r, "simID")

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			respondWithError(w, fmt.Errorf("%w: 'from' is not a valid RFC 3339 timestamp", app_errors.ErrValidation))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			respondWithError(w, fmt.Errorf("%w: 'to' is not a valid RFC 3339 timestamp", app_errors.ErrValidation))
			return
		}
	}

	totals, err := h.service.Totals(r.Context(), simID, from, to)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}
