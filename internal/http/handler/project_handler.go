package handler

import (
	"net/http"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		logger:   logger,
	}
}

// List returns projects, optionally filtered and sorted via query
// parameters: searchTerm, type, workplace, profitCenter, active, sortBy, order.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r, "type", "workplace", "profitCenter", "active")

	projects, err := h.projects.Query(r.Context(), params)
	if err != nil {
		handleServiceError(w, h.logger, "list projects", err)
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid project ID format")
		return
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, "get project", err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), body)
	if err != nil {
		handleServiceError(w, h.logger, "create project", err)
		return
	}

	w.Header().Set("Location", "/api/v1/projects/"+strconv.Itoa(project.ID))
	respondJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid project ID format")
		return
	}

	body, ok := readBody(r)
	if !ok {
		respondBadRequest(w, "Invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, body)
	if err != nil {
		handleServiceError(w, h.logger, "update project", err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondBadRequest(w, "Invalid project ID format")
		return
	}

	if _, err := h.projects.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, "delete project", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
