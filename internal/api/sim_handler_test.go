// The `_test` suffix creates a "black box" test package: the tests exercise
// only the handlers' exported surface, the same way the router does.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/swissMack/simportal/internal/api"
	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/interfaces/mocks"
	"github.com/swissMack/simportal/internal/model"
	"github.com/swissMack/simportal/internal/service"
)

func setupSimHandler(t *testing.T) (*api.SimHandler, *mocks.MockSimService) {
	mockSvc := mocks.NewMockSimService(t)
	return api.NewSimHandler(mockSvc), mockSvc
}

// addChiURLParams simulates how the chi router injects URL parameters
// (e.g. `{simID}`) into the request's context, so handlers that call
// chi.URLParam can be tested without a router.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func TestSimHandler_HandleCreateSim(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		created := &model.SimCard{ID: "sim1", ICCID: "894101123456789012", Status: model.SimStatusInactive}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(req *service.CreateSimRequest) bool {
			return req.ICCID == "894101123456789012"
		})).Return(created, nil).Once()

		body := `{"iccid":"894101123456789012","imsi":"228011234567890","plan":"iot-10mb"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sims", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleCreateSim(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var returned model.SimCard
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, created.ID, returned.ID)
	})

	t.Run("Failure - malformed JSON body", func(t *testing.T) {
		handler, _ := setupSimHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/sims", strings.NewReader(`{not json`))
		rr := httptest.NewRecorder()
		handler.HandleCreateSim(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - ICCID not numeric", func(t *testing.T) {
		handler, _ := setupSimHandler(t)

		body := `{"iccid":"not-an-iccid-at-all","imsi":"228011234567890"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sims", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleCreateSim(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ICCID")
	})

	t.Run("Failure - duplicate ICCID maps to 409", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, app_errors.ErrConflict).Once()

		body := `{"iccid":"894101123456789012","imsi":"228011234567890"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sims", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleCreateSim(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestSimHandler_HandleListSims(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		expected := []*model.SimCard{{ID: "sim1"}, {ID: "sim2"}}
		mockSvc.On("List", mock.Anything).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/sims", nil)
		rr := httptest.NewRecorder()
		handler.HandleListSims(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var returned []*model.SimCard
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Len(t, returned, 2)
	})

	t.Run("Failure - Service returns error", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("List", mock.Anything).Return(nil, app_errors.ErrInternal).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/sims", nil)
		rr := httptest.NewRecorder()
		handler.HandleListSims(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSimHandler_HandleGetSim(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("Get", mock.Anything, "sim1").Return(&model.SimCard{ID: "sim1"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/sims/sim1", nil)
		req = addChiURLParams(req, map[string]string{"simID": "sim1"})
		rr := httptest.NewRecorder()
		handler.HandleGetSim(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - unknown SIM maps to 404", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("Get", mock.Anything, "ghost").Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/sims/ghost", nil)
		req = addChiURLParams(req, map[string]string{"simID": "ghost"})
		rr := httptest.NewRecorder()
		handler.HandleGetSim(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSimHandler_HandleUpdateSim(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		updated := &model.SimCard{ID: "sim1", Status: model.SimStatusActive}
		mockSvc.On("Update", mock.Anything, "sim1", mock.MatchedBy(func(req *service.UpdateSimRequest) bool {
			return req.Status == model.SimStatusActive
		})).Return(updated, nil).Once()

		body := `{"imsi":"228011234567890","status":"active"}`
		req := httptest.NewRequest(http.MethodPut, "/v1/sims/sim1", strings.NewReader(body))
		req = addChiURLParams(req, map[string]string{"simID": "sim1"})
		rr := httptest.NewRecorder()
		handler.HandleUpdateSim(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - status outside the lifecycle set", func(t *testing.T) {
		handler, _ := setupSimHandler(t)

		body := `{"imsi":"228011234567890","status":"melted"}`
		req := httptest.NewRequest(http.MethodPut, "/v1/sims/sim1", strings.NewReader(body))
		req = addChiURLParams(req, map[string]string{"simID": "sim1"})
		rr := httptest.NewRecorder()
		handler.HandleUpdateSim(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSimHandler_HandleDeleteSim(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("Delete", mock.Anything, "sim1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/sims/sim1", nil)
		req = addChiURLParams(req, map[string]string{"simID": "sim1"})
		rr := httptest.NewRecorder()
		handler.HandleDeleteSim(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ok")
	})

	t.Run("Failure - unknown SIM maps to 404", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("Delete", mock.Anything, "ghost").Return(app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/v1/sims/ghost", nil)
		req = addChiURLParams(req, map[string]string{"simID": "ghost"})
		rr := httptest.NewRecorder()
		handler.HandleDeleteSim(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSimHandler_HandleBulkStatus(t *testing.T) {
	t.Run("Success - reports requested and updated counts", func(t *testing.T) {
		handler, mockSvc := setupSimHandler(t)
		mockSvc.On("BulkSetStatus", mock.Anything, []string{"sim1", "sim2", "ghost"}, "suspended").
			Return(int64(2), nil).Once()

		body := `{"sim_ids":["sim1","sim2","ghost"],"status":"suspended"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sims/bulk/status", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleBulkStatus(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var result api.BulkResultResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, 3, result.Requested)
		assert.Equal(t, int64(2), result.Updated)
	})

	t.Run("Failure - empty id list", func(t *testing.T) {
		handler, _ := setupSimHandler(t)

		body := `{"sim_ids":[],"status":"active"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sims/bulk/status", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.HandleBulkStatus(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
