package handler

import (
	"net/http"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type ProjectTaskHandler struct {
	tasks  *service.ProjectTaskService
	logger *zap.Logger
}

func NewProjectTaskHandler(tasks *service.ProjectTaskService, logger *zap.Logger) *ProjectTaskHandler {
	return &ProjectTaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// List returns project tasks, optionally filtered and sorted via query
// parameters: searchTerm, priority, status, currency, approved, sortBy, order.
func (h *ProjectTaskHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r, "priority", "status", "currency", "approved")

	tasks, err := h.tasks.Query(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, "list project tasks", err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *ProjectTaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid task ID format")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get project task", err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *ProjectTaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	task, err := h.tasks.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, h.logger, "create project task", err)
		return
	}

	w.Header().Set("Location", "/api/v1/project-tasks/"+strconv.Itoa(task.ID))
	respondJSON(w, http.StatusCreated, task)
}

func (h *ProjectTaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid task ID format")
		return
	}

	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	task, err := h.tasks.Update(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, h.logger, "update project task", err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *ProjectTaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid task ID format")
		return
	}

	if _, err := h.tasks.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete project task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
