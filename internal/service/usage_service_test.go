package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/repository"
	mock_repo "github.com/swissMack/simportal/internal/repository/mocks"
	"github.com/swissMack/simportal/internal/service"
)

func TestUsageService_Record(t *testing.T) {
	ctx := context.Background()
	req := &service.RecordUsageRequest{SimID: "sim1", BytesUp: 100, BytesDown: 2000}

	t.Run("Success - invalidates cached windows", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		cache := mock_repo.NewMockUsageCache(t)
		svc := service.NewUsageService(repo, cache)

		repo.On("GetSim", ctx, "sim1").Return(&model.SimCard{ID: "sim1"}, nil).Once()
		repo.On("AddUsageSample", ctx, mock.MatchedBy(func(s *model.UsageSample) bool {
			return s.SimID == "sim1" && s.BytesUp == 100 && !s.RecordedAt.IsZero()
		})).Return(nil).Once()
		cache.On("InvalidateSim", ctx, "sim1").Return(nil).Once()

		sample, err := svc.Record(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "sim1", sample.SimID)
	})

	t.Run("Success - cache invalidation failure is non-fatal", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		cache := mock_repo.NewMockUsageCache(t)
		svc := service.NewUsageService(repo, cache)

		repo.On("GetSim", ctx, "sim1").Return(&model.SimCard{ID: "sim1"}, nil).Once()
		repo.On("AddUsageSample", ctx, mock.Anything).Return(nil).Once()
		cache.On("InvalidateSim", ctx, "sim1").Return(errors.New("redis down")).Once()

		_, err := svc.Record(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("Failure - unknown SIM", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewUsageService(repo, nil)

		repo.On("GetSim", ctx, "sim1").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Record(ctx, req)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestUsageService_Totals(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	totals := &model.UsageTotals{SimID: "sim1", BytesUp: 512, BytesDown: 4096, Samples: 8, From: from, To: to}

	t.Run("Success - cache hit skips the database", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		cache := mock_repo.NewMockUsageCache(t)
		svc := service.NewUsageService(repo, cache)

		cache.On("GetTotals", ctx, "sim1", from, to).Return(totals, nil).Once()

		got, err := svc.Totals(ctx, "sim1", from, to)
		require.NoError(t, err)
		assert.Equal(t, totals, got)
	})

	t.Run("Success - cache miss aggregates and populates the cache", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		cache := mock_repo.NewMockUsageCache(t)
		svc := service.NewUsageService(repo, cache)

		cache.On("GetTotals", ctx, "sim1", from, to).Return(nil, repository.ErrCacheMiss).Once()
		repo.On("GetUsageTotals", ctx, "sim1", from, to).Return(totals, nil).Once()
		cache.On("SetTotals", ctx, totals).Return(nil).Once()

		got, err := svc.Totals(ctx, "sim1", from, to)
		require.NoError(t, err)
		assert.Equal(t, totals, got)
	})

	t.Run("Success - no cache configured", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewUsageService(repo, nil)

		repo.On("GetUsageTotals", ctx, "sim1", from, to).Return(totals, nil).Once()

		got, err := svc.Totals(ctx, "sim1", from, to)
		require.NoError(t, err)
		assert.Equal(t, totals, got)
	})

	t.Run("Failure - inverted window is a validation error", func(t *testing.T) {
		repo := mock_repo.NewMockRepository(t)
		svc := service.NewUsageService(repo, nil)

		_, err := svc.Totals(ctx, "sim1", to, from)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}
