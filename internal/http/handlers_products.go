package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/service"
)

// ProductHandlers serves the /api/products CRUD surface.
type ProductHandlers struct {
	Products *service.ProductService
}

// List handles GET /api/products.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ProductsListOptions{}
	opts.Limit, opts.Offset = pageParams(r)

	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := model.ParseProductStatus(raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_status", Err: err})
			return
		}
		opts.Status = &status
	}
	if raw := r.URL.Query().Get("company_id"); raw != "" {
		companyID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || companyID <= 0 {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_company_id", Err: errors.New("company_id must be a positive integer")})
			return
		}
		opts.CompanyID = &companyID
	}

	products, err := h.Products.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.Products.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Create handles POST /api/products.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if claims, ok := GetClaimsFromContext(r.Context()); ok {
		req.CreatedBy = &claims.UserID
	}

	product, err := h.Products.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"product": product})
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req model.UpdateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Products.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Products.Delete(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("product not found")})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
