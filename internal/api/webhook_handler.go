package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/interfaces"
	"github.com/swissMack/simportal/internal/model"
)

// WebhookHandler receives events pushed by the MQTT broker's rules engine.
type WebhookHandler struct {
	service interfaces.WebhookService
}

func NewWebhookHandler(svc interfaces.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: svc}
}

// maxWebhookBody caps webhook payload size; the rules engine sends small
// JSON documents, anything larger is a misconfigured sender.
const maxWebhookBody = 1 << 20

// MQTTEventRequest is the DTO for broker events.
type MQTTEventRequest struct {
	Topic   string          `json:"topic" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// HandleMQTTEvent godoc
// @Summary      Ingest an MQTT broker event
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        event  body  MQTTEventRequest  true  "Broker event"
// @Success      202  {object}  model.WebhookEvent
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/webhooks/mqtt [post]
func (h *WebhookHandler) HandleMQTTEvent(w http.ResponseWriter, r *http.Request) {
	var req MQTTEventRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxWebhookBody)).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	event, err := h.service.IngestMQTT(r.Context(), req.Topic, req.Payload)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, event)
}

// HandleAlertEvent godoc
// @Summary      Ingest an alert event
// @Description  Stores the raw event; a recognized severity also raises an alert.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      202  {object}  model.WebhookEvent
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/webhooks/alerts [post]
func (h *WebhookHandler) HandleAlertEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil || len(body) == 0 || !json.Valid(body) {
		respondWithError(w, fmt.Errorf("%w: body must be a JSON document", app_errors.ErrValidation))
		return
	}
	event, err := h.service.IngestAlert(r.Context(), body)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusAccepted, event)
}

// HandleWebhookLog godoc
// @Summary      List received webhook events
// @Tags         Webhooks
// @Produce      json
// @Param        source  query  string  false  "Filter by source (mqtt or alert)"
// @Success      200  {array}  model.WebhookEvent
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/webhooks/log [get]
func (h *WebhookHandler) HandleWebhookLog(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Log(r.Context(), r.URL.Query().Get("source"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	if events == nil {
		events = []*model.WebhookEvent{}
	}
	respondWithJSON(w, http.StatusOK, events)
}

// HandleClearWebhookLog godoc
// @Summary      Clear the webhook event log
// @Tags         Webhooks
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/webhooks/log [delete]
func (h *WebhookHandler) HandleClearWebhookLog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearLog(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleListAlerts godoc
// @Summary      List raised alerts
// @Tags         Alerts
// @Produce      json
// @Success      200  {array}  model.Alert
// @Router       /v1/alerts [get]
func (h *WebhookHandler) HandleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if alerts == nil {
		alerts = []*model.Alert{}
	}
	respondWithJSON(w, http.StatusOK, alerts)
}
