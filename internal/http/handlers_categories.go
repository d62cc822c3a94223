package httpx

import (
	"net/http"

	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/service"
)

// CategoryHandlers provides HTTP handlers for category endpoints.
type CategoryHandlers struct {
	Svc *service.CategoryService
}

// List handles GET /api/categories.
func (h *CategoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Svc.List(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "categories": categories})
}

// Create handles POST /api/categories.
func (h *CategoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCategoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	category, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "category": category})
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
