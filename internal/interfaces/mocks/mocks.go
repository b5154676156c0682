// Package mocks provides testify-based mocks for the service interfaces.
package mocks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/service"
)

// MockSimService is a mock implementation of interfaces.SimService.
type MockSimService struct {
	mock.Mock
}

func NewMockSimService(t *testing.T) *MockSimService {
	m := &MockSimService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSimService) Create(ctx context.Context, req *service.CreateSimRequest) (*model.SimCard, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SimCard), args.Error(1)
}

func (m *MockSimService) Get(ctx context.Context, simID string) (*model.SimCard, error) {
	args := m.Called(ctx, simID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SimCard), args.Error(1)
}

func (m *MockSimService) List(ctx context.Context) ([]*model.SimCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SimCard), args.Error(1)
}

func (m *MockSimService) Update(ctx context.Context, simID string, req *service.UpdateSimRequest) (*model.SimCard, error) {
	args := m.Called(ctx, simID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SimCard), args.Error(1)
}

func (m *MockSimService) Delete(ctx context.Context, simID string) error {
	return m.Called(ctx, simID).Error(0)
}

func (m *MockSimService) BulkSetStatus(ctx context.Context, simIDs []string, status string) (int64, error) {
	args := m.Called(ctx, simIDs, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsageService is a mock implementation of interfaces.UsageService.
type MockUsageService struct {
	mock.Mock
}

func NewMockUsageService(t *testing.T) *MockUsageService {
	m := &MockUsageService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUsageService) Record(ctx context.Context, req *service.RecordUsageRequest) (*model.UsageSample, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageSample), args.Error(1)
}

func (m *MockUsageService) Totals(ctx context.Context, simID string, from, to time.Time) (*model.UsageTotals, error) {
	args := m.Called(ctx, simID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageTotals), args.Error(1)
}

// MockWebhookService is a mock implementation of interfaces.WebhookService.
type MockWebhookService struct {
	mock.Mock
}

func NewMockWebhookService(t *testing.T) *MockWebhookService {
	m := &MockWebhookService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWebhookService) IngestMQTT(ctx context.Context, topic string, payload json.RawMessage) (*model.WebhookEvent, error) {
	args := m.Called(ctx, topic, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookService) IngestAlert(ctx context.Context, payload json.RawMessage) (*model.WebhookEvent, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookService) Log(ctx context.Context, source string) ([]*model.WebhookEvent, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookEvent), args.Error(1)
}

func (m *MockWebhookService) ClearLog(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWebhookService) Alerts(ctx context.Context) ([]*model.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Alert), args.Error(1)
}
