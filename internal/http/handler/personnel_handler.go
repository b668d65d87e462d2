package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type PersonnelHandler struct {
	personnel *service.PersonnelService
	logger    *zap.Logger
}

func NewPersonnelHandler(personnel *service.PersonnelService, logger *zap.Logger) *PersonnelHandler {
	return &PersonnelHandler{
		personnel: personnel,
		logger:    logger,
	}
}

// List returns personnel records, optionally filtered and sorted via
// query parameters: searchTerm, type, workplace, year, month, sortBy, order.
func (h *PersonnelHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r, "type", "workplace")

	records, err := h.personnel.Query(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, "list personnel", err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// ListByPeriod returns the personnel records for one (year, month) period.
func (h *PersonnelHandler) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondBadRequest(w, "Invalid year format")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		respondBadRequest(w, "Invalid month format")
		return
	}

	records, err := h.personnel.ListByPeriod(r.Context(), year, month)
	if err != nil {
		handleServiceError(w, h.logger, "list personnel by period", err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// Periods returns every (year, month) period that has records, oldest first.
func (h *PersonnelHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.personnel.Periods(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, "list personnel periods", err)
		return
	}

	respondJSON(w, http.StatusOK, periods)
}

func (h *PersonnelHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid personnel ID format")
		return
	}

	record, err := h.personnel.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get personnel", err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *PersonnelHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	record, err := h.personnel.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, h.logger, "create personnel", err)
		return
	}

	w.Header().Set("Location", "/api/v1/personnel/"+strconv.Itoa(record.ID))
	respondJSON(w, http.StatusCreated, record)
}

func (h *PersonnelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid personnel ID format")
		return
	}

	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	record, err := h.personnel.Update(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, h.logger, "update personnel", err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *PersonnelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid personnel ID format")
		return
	}

	if _, err := h.personnel.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete personnel", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
