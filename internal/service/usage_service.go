package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/repository"
)

// UsageService records data-usage samples and answers consumption queries.
// A cache, when configured, short-circuits repeated window aggregations; cache
// failures are logged and the query falls through to the database.
type UsageService struct {
	repo  repository.Repository
	cache repository.UsageCache
}

// RecordUsageRequest is a single usage reading pushed by the collector.
type RecordUsageRequest struct {
	SimID      string    `json:"sim_id"`
	BytesUp    int64     `json:"bytes_up"`
	BytesDown  int64     `json:"bytes_down"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewUsageService creates a UsageService. cache may be nil, which disables
// the rollup cache entirely.
func NewUsageService(repo repository.Repository, cache repository.UsageCache) *UsageService {
	return &UsageService{repo: repo, cache: cache}
}

// Record stores a usage sample for a known SIM and invalidates any cached
// windows for it.
func (s *UsageService) Record(ctx context.Context, req *RecordUsageRequest) (*model.UsageSample, error) {
	if _, err := s.repo.GetSim(ctx, req.SimID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown SIM %s", app_errors.ErrNotFound, req.SimID)
		}
		return nil, fmt.Errorf("could not verify SIM: %w", err)
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	sample := &model.UsageSample{
		ID:         uuid.NewString(),
		SimID:      req.SimID,
		BytesUp:    req.BytesUp,
		BytesDown:  req.BytesDown,
		RecordedAt: recordedAt,
	}
	if err := s.repo.AddUsageSample(ctx, sample); err != nil {
		return nil, fmt.Errorf("could not record usage sample: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSim(ctx, req.SimID); err != nil {
			slog.Warn("Failed to invalidate usage cache", "sim_id", req.SimID, "error", err)
		}
	}
	return sample, nil
}

// Totals aggregates usage for a SIM over [from, to).
func (s *UsageService) Totals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", app_errors.ErrValidation)
	}

	if s.cache != nil {
		totals, err := s.cache.GetTotals(ctx, simID, from, to)
		if err == nil {
			return totals, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			slog.Warn("Usage cache lookup failed", "sim_id", simID, "error", err)
		}
	}

	totals, err := s.repo.GetUsageTotals(ctx, simID, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not aggregate usage: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetTotals(ctx, totals); err != nil {
			slog.Warn("Failed to populate usage cache", "sim_id", simID, "error", err)
		}
	}
	return totals, nil
}
