// Package mocks provides testify-based mocks for the repository interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/swissMack/simportal/internal/model"
)

// MockRepository is a mock implementation of repository.Repository.
type MockRepository struct {
	mock.Mock
}

func NewMockRepository(t *testing.T) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateSim(ctx context.Context, sim *model.SimCard) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *MockRepository) GetSim(ctx context.Context, simID string) (*model.SimCard, error) {
	args := m.Called(ctx, simID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SimCard), args.Error(1)
}

func (m *MockRepository) ListSims(ctx context.Context) ([]*model.SimCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SimCard), args.Error(1)
}

func (m *MockRepository) UpdateSim(ctx context.Context, sim *model.SimCard) error {
	return m.Called(ctx, sim).Error(0)
}

func (m *MockRepository) DeleteSim(ctx context.Context, simID string) error {
	return m.Called(ctx, simID).Error(0)
}

func (m *MockRepository) SetSimStatus(ctx context.Context, simIDs []string, status string) (int64, error) {
	args := m.Called(ctx, simIDs, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) AddUsageSample(ctx context.Context, sample *model.UsageSample) error {
	return m.Called(ctx, sample).Error(0)
}

func (m *MockRepository) GetUsageTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	args := m.Called(ctx, simID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageTotals), args.Error(1)
}

func (m *MockRepository) AddWebhookEvent(ctx context.Context, event *model.WebhookEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockRepository) ListWebhookEvents(ctx context.Context, source string) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func (m *MockRepository) ClearWebhookEvents(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRepository) CreateAlert(ctx context.Context, alert *model.Alert) error {
	return m.Called(ctx, alert).Error(0)
}

func (m *MockRepository) ListAlerts(ctx context.Context) ([]*model.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Alert), args.Error(1)
}

// MockUsageCache is a mock implementation of repository.UsageCache.
type MockUsageCache struct {
	mock.Mock
}

func NewMockUsageCache(t *testing.T) *MockUsageCache {
	m := &MockUsageCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUsageCache) GetTotals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	args := m.Called(ctx, simID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageTotals), args.Error(1)
}

func (m *MockUsageCache) SetTotals(ctx context.Context, totals *model.UsageTotals) error {
	return m.Called(ctx, totals).Error(0)
}

func (m *MockUsageCache) InvalidateSim(ctx context.Context, simID string) error {
	return m.Called(ctx, simID).Error(0)
}
