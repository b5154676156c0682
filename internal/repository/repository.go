package repository

import (
	"context"
	"time"

	"github.com/swissMack/simportal/internal/model"
)

// Repository defines the interface for provisioning data storage.
// This interface makes it easy to switch database implementations.
type Repository interface {
	CreateSim(ctx context.Context, sim *model.SimCard) error
	GetSim(ctx context.Context, simID string) (*model.SimCard, error)
	ListSims(ctx context.Context) ([]*model.SimCard, error)
	UpdateSim(ctx context.Context, sim *model.SimCard) error
	DeleteSim(ctx context.Context, simID string) error
	SetSimStatus(ctx context.Context, simIDs []string, status string) (int64, error)

	AddUsageSample(ctx context.Context, sample *model.UsageSample) error
	GetUsageTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error)

	AddWebhookEvent(ctx context.Context, event *model.WebhookEvent) error
	ListWebhookEvents(ctx context.Context, source string) ([]*model.WebhookEvent, error)
	ClearWebhookEvents(ctx context.Context) error

	CreateAlert(ctx context.Context, alert *model.Alert) error
	ListAlerts(ctx context.Context) ([]*model.Alert, error)
}
