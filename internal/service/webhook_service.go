package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/repository"
)

// WebhookService ingests events pushed by the MQTT broker's rules engine.
// Every event is appended to a log; alert events with a recognized severity
// additionally raise a stored alert for the portal's alerts page.
type WebhookService struct {
	repo repository.Repository
}

// alertPayload is the subset of an alert webhook body the service interprets.
type alertPayload struct {
	SimID    string `json:"sim_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

var alertSeverities = []string{"critical", "warning"}

func NewWebhookService(repo repository.Repository) *WebhookService {
	return &WebhookService{repo: repo}
}

// IngestMQTT appends a broker event to the webhook log.
func (s *WebhookService) IngestMQTT(ctx context.Context, topic string, payload json.RawMessage) (*model.WebhookEvent, error) {
	event := &model.WebhookEvent{
		ID:         uuid.NewString(),
		Source:     model.WebhookSourceMQTT,
		Topic:      topic,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.repo.AddWebhookEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("could not store mqtt event: %w", err)
	}
	return event, nil
}

// IngestAlert appends an alert event to the webhook log and, when the payload
// carries a recognized severity, raises an alert. A malformed payload is still
// logged; only the alert is skipped.
func (s *WebhookService) IngestAlert(ctx context.Context, payload json.RawMessage) (*model.WebhookEvent, error) {
	event := &model.WebhookEvent{
		ID:         uuid.NewString(),
		Source:     model.WebhookSourceAlert,
		Payload:    payload,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.repo.AddWebhookEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("could not store alert event: %w", err)
	}

	var body alertPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		slog.Warn("Alert webhook payload is not valid JSON, skipping alert", "event_id", event.ID, "error", err)
		return event, nil
	}
	if !slices.Contains(alertSeverities, body.Severity) {
		slog.Debug("Alert webhook severity not recognized, skipping alert", "event_id", event.ID, "severity", body.Severity)
		return event, nil
	}

	alert := &model.Alert{
		ID:        uuid.NewString(),
		SimID:     body.SimID,
		Severity:  body.Severity,
		Message:   body.Message,
		CreatedAt: event.ReceivedAt,
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		// The event log entry exists; losing the derived alert is logged but
		// does not fail the webhook delivery.
		slog.Error("Failed to raise alert from webhook", "event_id", event.ID, "error", err)
	}
	return event, nil
}

// Log lists received webhook events, optionally filtered by source.
func (s *WebhookService) Log(ctx context.Context, source string) ([]*model.WebhookEvent, error) {
	if source != "" && source != model.WebhookSourceMQTT && source != model.WebhookSourceAlert {
		return nil, fmt.Errorf("%w: unknown source '%s'", app_errors.ErrValidation, source)
	}
	return s.repo.ListWebhookEvents(ctx, source)
}

// ClearLog drops every received webhook event.
func (s *WebhookService) ClearLog(ctx context.Context) error {
	return s.repo.ClearWebhookEvents(ctx)
}

// Alerts lists raised alerts, newest first.
func (s *WebhookService) Alerts(ctx context.Context) ([]*model.Alert, error) {
	return s.repo.ListAlerts(ctx)
}
