package handler

import (
	"net/http"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type ContractHandler struct {
	contracts *service.ContractService
	logger    *zap.Logger
}

func NewContractHandler(contracts *service.ContractService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		contracts: contracts,
		logger:    logger,
	}
}

// List returns contracts, optionally filtered and sorted via query
// parameters: searchTerm, category, type, profitCenter, sortBy, order.
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r, "category", "type", "profitCenter")

	contracts, err := h.contracts.Query(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, "list contracts", err)
		return
	}

	respondJSON(w, http.StatusOK, contracts)
}

func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid contract ID format")
		return
	}

	contract, err := h.contracts.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get contract", err)
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	contract, err := h.contracts.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, h.logger, "create contract", err)
		return
	}

	w.Header().Set("Location", "/api/v1/contracts/"+strconv.Itoa(contract.ID))
	respondJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid contract ID format")
		return
	}

	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	contract, err := h.contracts.Update(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, h.logger, "update contract", err)
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid contract ID format")
		return
	}

	if _, err := h.contracts.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete contract", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
