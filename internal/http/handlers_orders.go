package httpx

import (
	"errors"
	"net/http"

	"github.com/shopmill/admin-api/internal/domain/model"
	"github.com/shopmill/admin-api/internal/service"
)

// OrderHandlers provides HTTP handlers for the admin order endpoints.
type OrderHandlers struct {
	Svc *service.OrderService
}

// List handles GET /api/orders with optional status filter.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.OrdersListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseOrderStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("unknown order status"),
			})
			return
		}
		opts.Status = &status
	}

	orders, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
		"total":   total,
	})
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("unknown order status"),
		})
		return
	}

	order, err := h.Svc.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}
