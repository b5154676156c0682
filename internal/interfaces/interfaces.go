package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/service"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows
// for decoupling (e.g., API layer from Service layer) and easier testing via
// mocking.

// SimService defines the contract for SIM provisioning logic.
type SimService interface {
	Create(ctx context.Context, req *service.CreateSimRequest) (*model.SimCard, error)
	Get(ctx context.Context, simID string) (*model.SimCard, error)
	List(ctx context.Context) ([]*model.SimCard, error)
	Update(ctx context.Context, simID string, req *service.UpdateSimRequest) (*model.SimCard, error)
	Delete(ctx context.Context, simID string) error
	BulkSetStatus(ctx context.Context, simIDs []string, status string) (int64, error)
}

// UsageService defines the contract for consumption tracking logic.
type UsageService interface {
	Record(ctx context.Context, req *service.RecordUsageRequest) (*model.UsageSample, error)
	Totals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error)
}

// WebhookService defines the contract for broker webhook ingestion.
type WebhookService interface {
	IngestMQTT(ctx context.Context, topic string, payload json.RawMessage) (*model.WebhookEvent, error)
	IngestAlert(ctx context.Context, payload json.RawMessage) (*model.WebhookEvent, error)
	Log(ctx context.Context, source string) ([]*model.WebhookEvent, error)
	ClearLog(ctx context.Context) error
	Alerts(ctx context.Context) ([]*model.Alert, error)
}
