package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "github.com/swissMack/simportal/internal/errors"
	"github.com/swissMack/simportal/internal/interfaces"
	"github.com/swissMack/simportal/internal/service"
)

// SimHandler handles HTTP requests for SIM provisioning.
type SimHandler struct {
	service interfaces.SimService
}

func NewSimHandler(svc interfaces.SimService) *SimHandler {
	return &SimHandler{service: svc}
}

// CreateSimRequest is the DTO for provisioning a new SIM.
type CreateSimRequest struct {
	ICCID  string `json:"iccid" validate:"required,numeric,min=18,max=22" example:"89410112345678901234"`
	IMSI   string `json:"imsi" validate:"required,numeric,min=14,max=15" example:"228011234567890"`
	MSISDN string `json:"msisdn" validate:"omitempty,e164" example:"+41791234567"`
	Plan   string `json:"plan" validate:"omitempty,max=64" example:"iot-10mb"`
}

// UpdateSimRequest is the DTO for replacing a SIM's mutable fields.
type UpdateSimRequest struct {
	IMSI   string `json:"imsi" validate:"required,numeric,min=14,max=15"`
	MSISDN string `json:"msisdn" validate:"omitempty,e164"`
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
	Plan   string `json:"plan" validate:"omitempty,max=64"`
}

// BulkStatusRequest is the DTO for the bulk status transition endpoint.
type BulkStatusRequest struct {
	SimIDs []string `json:"sim_ids" validate:"required,min=1,dive,required"`
	Status string   `json:"status" validate:"required,oneof=active inactive suspended"`
}

// HandleCreateSim godoc
// @Summary      Provision a SIM
// @Description  Registers a new SIM card in the inactive state.
// @Tags         SIMs
// @Accept       json
// @Produce      json
// @Param        sim  body  CreateSimRequest  true  "SIM to provision"
// @Success      201  {object}  model.SimCard
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/sims [post]
func (h *SimHandler) HandleCreateSim(w http.ResponseWriter, r *http.Request) {
	var req CreateSimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	sim, err := h.service.Create(r.Context(), &service.CreateSimRequest{
		ICCID:  req.ICCID,
		IMSI:   req.IMSI,
		MSISDN: req.MSISDN,
		Plan:   req.Plan,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sim)
}

// HandleListSims godoc
// @Summary      List SIMs
// @Tags         SIMs
// @Produce      json
// @Success      200  {array}  model.SimCard
// @Router       /v1/sims [get]
func (h *SimHandler) HandleListSims(w http.ResponseWriter, r *http.Request) {
	sims, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sims)
}

// HandleGetSim godoc
// @Summary      Get a SIM
// @Tags         SIMs
// @Produce      json
// @Param        simID  path  string  true  "SIM id"
// @Success      200  {object}  model.SimCard
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sims/{simID} [get]
func (h *SimHandler) HandleGetSim(w http.ResponseWriter, r *http.Request) {
	sim, err := h.service.Get(r.Context(), chi.URLParam(r, "simID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sim)
}

// HandleUpdateSim godoc
// @Summary      Update a SIM
// @Tags         SIMs
// @Accept       json
// @Produce      json
// @Param        simID  path  string            true  "SIM id"
// @Param        sim    body  UpdateSimRequest  true  "New SIM fields"
// @Success      200  {object}  model.SimCard
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sims/{simID} [put]
func (h *SimHandler) HandleUpdateSim(w http.ResponseWriter, r *http.Request) {
	var req UpdateSimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	sim, err := h.service.Update(r.Context(), chi.URLParam(r, "simID"), &service.UpdateSimRequest{
		IMSI:   req.IMSI,
		MSISDN: req.MSISDN,
		Status: req.Status,
		Plan:   req.Plan,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sim)
}

// HandleDeleteSim godoc
// @Summary      Delete a SIM
// @Tags         SIMs
// @Produce      json
// @Param        simID  path  string  true  "SIM id"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sims/{simID} [delete]
func (h *SimHandler) HandleDeleteSim(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "simID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleBulkStatus godoc
// @Summary      Bulk status transition
// @Description  Moves a batch of SIMs to the given lifecycle status.
// @Tags         SIMs
// @Accept       json
// @Produce      json
// @Param        request  body  BulkStatusRequest  true  "SIM ids and target status"
// @Success      200  {object}  BulkResultResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/sims/bulk/status [post]
func (h *SimHandler) HandleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	updated, err := h.service.BulkSetStatus(r.Context(), req.SimIDs, req.Status)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BulkResultResponse{Requested: len(req.SimIDs), Updated: updated})
}
