package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/repository"
)

// SimService handles the business logic for SIM card provisioning.
type SimService struct {
	repo repository.Repository
}

// CreateSimRequest carries the fields needed to provision a new SIM.
type CreateSimRequest struct {
	ICCID  string `json:"iccid"`
	IMSI   string `json:"imsi"`
	MSISDN string `json:"msisdn"`
	Plan   string `json:"plan"`
}

// UpdateSimRequest carries the mutable fields of an existing SIM.
type UpdateSimRequest struct {
	IMSI   string `json:"imsi"`
	MSISDN string `json:"msisdn"`
	Status string `json:"status"`
	Plan   string `json:"plan"`
}

var validStatuses = []string{model.SimStatusActive, model.SimStatusInactive, model.SimStatusSuspended}

func NewSimService(repo repository.Repository) *SimService {
	return &SimService{repo: repo}
}

// Create provisions a new SIM in the inactive state.
func (s *SimService) Create(ctx context.Context, req *CreateSimRequest) (*model.SimCard, error) {
	now := time.Now().UTC()
	sim := &model.SimCard{
		ID:        uuid.NewString(),
		ICCID:     req.ICCID,
		IMSI:      req.IMSI,
		MSISDN:    req.MSISDN,
		Status:    model.SimStatusInactive,
		Plan:      req.Plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSim(ctx, sim); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a SIM with ICCID %s already exists", app_errors.ErrConflict, req.ICCID)
		}
		return nil, fmt.Errorf("could not create SIM: %w", err)
	}
	slog.Info("Provisioned new SIM", "sim_id", sim.ID, "iccid", sim.ICCID)
	return sim, nil
}

func (s *SimService) Get(ctx context.Context, simID string) (*model.SimCard, error) {
	sim, err := s.repo.GetSim(ctx, simID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, app_errors.ErrNotFound
		}
		return nil, fmt.Errorf("could not get SIM: %w", err)
	}
	return sim, nil
}

func (s *SimService) List(ctx context.Context) ([]*model.SimCard, error) {
	return s.repo.ListSims(ctx)
}

// Update replaces the mutable fields of a SIM.
func (s *SimService) Update(ctx context.Context, simID string, req *UpdateSimRequest) (*model.SimCard, error) {
	if !slices.Contains(validStatuses, req.Status) {
		return nil, fmt.Errorf("%w: unknown status '%s'", app_errors.ErrValidation, req.Status)
	}
	sim, err := s.Get(ctx, simID)
	if err != nil {
		return nil, err
	}
	sim.IMSI = req.IMSI
	sim.MSISDN = req.MSISDN
	sim.Status = req.Status
	sim.Plan = req.Plan
	sim.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateSim(ctx, sim); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, app_errors.ErrNotFound
		}
		return nil, fmt.Errorf("could not update SIM: %w", err)
	}
	return sim, nil
}

func (s *SimService) Delete(ctx context.Context, simID string) error {
	err := s.repo.DeleteSim(ctx, simID)
	if errors.Is(err, repository.ErrNotFound) {
		return app_errors.ErrNotFound
	}
	return err
}

// BulkSetStatus transitions a batch of SIMs to the given status. This backs
// the portal's bulk operations page, so partial matches are not an error: the
// count of updated rows is returned and the caller reports it to the operator.
func (s *SimService) BulkSetStatus(ctx context.Context, simIDs []string, status string) (int64, error) {
	if !slices.Contains(validStatuses, status) {
		return 0, fmt.Errorf("%w: unknown status '%s'", app_errors.ErrValidation, status)
	}
	if len(simIDs) == 0 {
		return 0, fmt.Errorf("%w: no SIM ids given", app_errors.ErrValidation)
	}
	updated, err := s.repo.SetSimStatus(ctx, simIDs, status)
	if err != nil {
		return 0, fmt.Errorf("could not update SIM statuses: %w", err)
	}
	slog.Info("Bulk status transition", "status", status, "requested", len(simIDs), "updated", updated)
	return updated, nil
}
