package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/service"
)

// CompanyHandlers serves the /api/companies CRUD surface.
type CompanyHandlers struct {
	Companies *service.CompanyService
}

// List handles GET /api/companies.
func (h *CompanyHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.CompaniesListOptions{}
	opts.Limit, opts.Offset = pageParams(r)

	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := model.ParseCompanyStatus(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_status", Err: err})
			return
		}
		opts.Status = &status
	}

	companies, err := h.Companies.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// Get handles GET /api/companies/{id}.
func (h *CompanyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	company, err := h.Companies.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"company": company})
}

// Create handles POST /api/companies.
func (h *CompanyHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCompanyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if claims, ok := GetClaimsFromContext(r.Context()); ok {
		req.CreatedBy = &claims.UserID
	}

	company, err := h.Companies.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"company": company})
}

// Update handles PUT /api/companies/{id}.
func (h *CompanyHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req model.UpdateCompanyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	company, err := h.Companies.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"company": company})
}

// Delete handles DELETE /api/companies/{id}.
func (h *CompanyHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Companies.Delete(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("company not found")})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path value, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_id", Err: errors.New("id must be a positive integer")})
		return 0, false
	}
	return id, true
}

// pageParams parses limit/offset query parameters with defaults.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = min(v, maxPageLimit)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
