package httpx

import (
	"net/http"
	"strconv"

	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/service"
)

// ProductHandlers provides HTTP handlers for catalog product endpoints.
type ProductHandlers struct {
	Svc *service.ProductService
}

// List handles GET /api/products with paging and filter query params.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ProductsListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		opts.CategoryID = &categoryID
	}
	if published := r.URL.Query().Get("published"); published != "" {
		v, err := strconv.ParseBool(published)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
			return
		}
		opts.Published = &v
	}

	products, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
		"total":    total,
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

// Create handles POST /api/products.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "product": product})
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// queryInt parses an integer query parameter, returning 0 when absent or invalid.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
