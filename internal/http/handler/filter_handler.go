package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type FilterHandler struct {
	filters *service.FilterService
	logger  *zap.Logger
}

func NewFilterHandler(filters *service.FilterService, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{
		filters: filters,
		logger:  logger,
	}
}

// saveFilterRequest is the payload for saving a preset.
type saveFilterRequest struct {
	Name   string       `json:"name"`
	Params query.Params `json:"params"`
}

func (h *FilterHandler) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.filters.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, "list filter presets", err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (h *FilterHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid filter preset ID format")
		return
	}

	preset, err := h.filters.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get filter preset", err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (h *FilterHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	preset, err := h.filters.Save(r.Context(), req.Name, req.Params)
	if err != nil {
		handleServiceError(w, h.logger, "save filter preset", err)
		return
	}

	w.Header().Set("Location", "/api/v1/filters/"+strconv.Itoa(preset.ID))
	respondJSON(w, http.StatusCreated, preset)
}

// Load decodes the stored preset and returns its full parameter set.
// Clients replace their current parameters with the response wholesale.
func (h *FilterHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid filter preset ID format")
		return
	}

	params, err := h.filters.Load(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "load filter preset", err)
		return
	}

	respondJSON(w, http.StatusOK, params)
}

func (h *FilterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid filter preset ID format")
		return
	}

	if _, err := h.filters.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete filter preset", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
