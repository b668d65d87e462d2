package handler

import (
	"net/http"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customers *service.CustomerService
	logger    *zap.Logger
}

func NewCustomerHandler(customers *service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		logger:    logger,
	}
}

// List returns customers, optionally filtered and sorted via query
// parameters: searchTerm, group, sortBy, order.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r, "group")

	customers, err := h.customers.Query(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, "list customers", err)
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

// Grouped returns customers partitioned by parent company. Customers
// without one appear under the Independent group.
func (h *CustomerHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.customers.GroupedByParent(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, "group customers", err)
		return
	}

	respondJSON(w, http.StatusOK, groups)
}

func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid customer ID format")
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get customer", err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	customer, err := h.customers.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, h.logger, "create customer", err)
		return
	}

	w.Header().Set("Location", "/api/v1/customers/"+strconv.Itoa(customer.ID))
	respondJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid customer ID format")
		return
	}

	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	customer, err := h.customers.Update(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, h.logger, "update customer", err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid customer ID format")
		return
	}

	if _, err := h.customers.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete customer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
