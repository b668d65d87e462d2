package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/query"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps domain errors onto RFC 7807 problem responses.
// Unrecognized errors are treated as internal and logged by the caller.
func respondError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Validation Error",
			Status: http.StatusBadRequest,
			Detail: "One or more fields failed validation",
			Errors: ve.Fields,
		})
		return
	}

	var re *domain.ReferenceError
	if errors.As(err, &re) {
		respondJSON(w, http.StatusBadRequest, domain.APIError{
			Type:   domain.ErrorTypeReference,
			Title:  "Reference Error",
			Status: http.StatusBadRequest,
			Detail: re.Error(),
			Errors: map[string]string{re.Field: re.Error()},
		})
		return
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		respondJSON(w, http.StatusNotFound, domain.APIError{
			Type:   domain.ErrorTypeNotFound,
			Title:  "Not Found",
			Status: http.StatusNotFound,
			Detail: nf.Error(),
		})
		return
	}

	var cp *domain.CorruptPresetError
	if errors.As(err, &cp) {
		respondJSON(w, http.StatusUnprocessableEntity, domain.APIError{
			Type:   domain.ErrorTypeCorruptPreset,
			Title:  "Corrupt Filter Preset",
			Status: http.StatusUnprocessableEntity,
			Detail: cp.Error(),
		})
		return
	}

	respondJSON(w, http.StatusInternalServerError, domain.APIError{
		Type:   domain.ErrorTypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	})
}

// handleServiceError logs internal failures before responding. Domain
// errors are expected outcomes and are not logged.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if !domain.IsValidation(err) && !domain.IsReference(err) && !domain.IsNotFound(err) {
		var cp *domain.CorruptPresetError
		if !errors.As(err, &cp) {
			logger.Error("request failed", zap.String("op", op), zap.Error(err))
		}
	}
	respondError(w, err)
}

// respondBadRequest sends a plain bad request problem response
func respondBadRequest(w http.ResponseWriter, detail string) {
	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
	})
}

// parseID reads the integer id path parameter
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseListParams builds query parameters from the URL query string.
// Facet selections arrive as comma-separated values under the facet name,
// e.g. ?type=Product,Order&workplace=Ankara.
func parseListParams(r *http.Request, facetNames ...string) query.Params {
	q := r.URL.Query()
	params := query.Params{
		Search:    q.Get("searchTerm"),
		SortField: q.Get("sortBy"),
		SortDesc:  q.Get("order") == "desc",
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil {
		params.Year = year
	}
	if month, err := strconv.Atoi(q.Get("month")); err == nil {
		params.Month = month
	}
	for _, name := range facetNames {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		values := make([]string, 0, 4)
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			params = params.WithFacet(name, values)
		}
	}
	return params
}

// readBody reads the request body for create/update handlers
func readBody(r *http.Request) (json.RawMessage, bool) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, false
	}
	return body, true
}
