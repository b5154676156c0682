package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/repository"
	mock_repo "github.com/swissMack/simportal/internal/repository/mocks"
	"github.com/swissMack/simportal/internal/service"
)

func TestSimService_Create(t *testing.T) {
	ctx := context.Background()
	req := &service.CreateSimRequest{ICCID: "89410112345678901234", IMSI: "228011234567890", Plan: "iot-10mb"}

	t.Run("Success - new SIM starts inactive", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)

		repo.On("CreateSim", ctx, mock.MatchedBy(func(sim *model.SimCard) bool {
			return sim.ICCID == req.ICCID && sim.Status == model.SimStatusInactive && sim.ID != ""
		})).Return(nil).Once()

		sim, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, model.SimStatusInactive, sim.Status)
		assert.Equal(t, req.IMSI, sim.IMSI)
	})

	t.Run("Failure - duplicate ICCID maps to conflict", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)

		repo.On("CreateSim", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, app_errors.ErrConflict)
	})
}

func TestSimService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)
		expected := &model.SimCard{ID: "sim1"}
		repo.On("GetSim", ctx, "sim1").Return(expected, nil).Once()

		sim, err := svc.Get(ctx, "sim1")
		require.NoError(t, err)
		assert.Equal(t, expected, sim)
	})

	t.Run("Failure - repository not found maps to domain error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)
		repo.On("GetSim", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestSimService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)
		existing := &model.SimCard{ID: "sim1", ICCID: "894101", Status: model.SimStatusInactive}
		repo.On("GetSim", ctx, "sim1").Return(existing, nil).Once()
		repo.On("UpdateSim", ctx, mock.MatchedBy(func(sim *model.SimCard) bool {
			return sim.Status == model.SimStatusActive && sim.IMSI == "228019999999999"
		})).Return(nil).Once()

		sim, err := svc.Update(ctx, "sim1", &service.UpdateSimRequest{IMSI: "228019999999999", Status: model.SimStatusActive})
		require.NoError(t, err)
		assert.Equal(t, model.SimStatusActive, sim.Status)
	})

	t.Run("Failure - unknown status is a validation error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)

		_, err := svc.Update(ctx, "sim1", &service.UpdateSimRequest{Status: "roaming"})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestSimService_BulkSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - reports updated count", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)
		ids := []string{"sim1", "sim2", "missing"}
		repo.On("SetSimStatus", ctx, ids, model.SimStatusSuspended).Return(int64(2), nil).Once()

		updated, err := svc.BulkSetStatus(ctx, ids, model.SimStatusSuspended)
		require.NoError(t, err)
		assert.EqualValues(t, 2, updated)
	})

	t.Run("Failure - unknown status", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)

		_, err := svc.BulkSetStatus(ctx, []string{"sim1"}, "nope")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - empty id list", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)

		_, err := svc.BulkSetStatus(ctx, nil, model.SimStatusActive)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - repository error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewSimService(repo)
		repo.On("SetSimStatus", ctx, []string{"sim1"}, model.SimStatusActive).Return(int64(0), errors.New("db error")).Once()

		_, err := svc.BulkSetStatus(ctx, []string{"sim1"}, model.SimStatusActive)
		assert.Error(t, err)
	})
}

func TestSimService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := mock_repo.NewMockRepository(t)
	svc := service.NewSimService(repo)
	repo.On("DeleteSim", ctx, "missing").Return(repository.ErrNotFound).Once()

	err := svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}
