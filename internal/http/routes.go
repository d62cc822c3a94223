package httpx

import (
	"log/slog"
	"net/http"

	"github.com/shopmill/admin-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Products   *service.ProductService
	Categories *service.CategoryService
	Orders     *service.OrderService

	// CSRFCookieName is the CSRF cookie paired with the session (issued by
	// the session manager at login).
	CSRFCookieName string
	Logger         *slog.Logger
}

// NewRouter creates and configures the HTTP router. Auth endpoints are open
// (login must be reachable without a session); everything else under /api
// sits behind the admin guard and CSRF protection.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Auth, Logger: services.Logger}
	productHandlers := &ProductHandlers{Svc: services.Products}
	categoryHandlers := &CategoryHandlers{Svc: services.Categories}
	orderHandlers := &OrderHandlers{Svc: services.Orders}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, authHandlers)

	guard := adminGuard(services)
	registerProductRoutes(mux, productHandlers, guard)
	registerCategoryRoutes(mux, categoryHandlers, guard)
	registerOrderRoutes(mux, orderHandlers, guard)

	return mux
}

// adminGuard composes the per-route protection for admin resources:
// CSRF first (cheap, no DB), then the full session check.
func adminGuard(services RouterServices) func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieName: services.CSRFCookieName})
	requireAdmin := RequireAdmin(services.Auth)
	return func(next http.Handler) http.Handler {
		return csrf(requireAdmin(next))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /api/auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(h.GetSession))
	mux.Handle("POST /api/auth/session", http.HandlerFunc(h.PostSession))
}

func registerProductRoutes(mux *http.ServeMux, h *ProductHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/products", guard(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/products", guard(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/products/{id}", guard(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/products/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/products/{id}", guard(http.HandlerFunc(h.Delete)))
}

func registerCategoryRoutes(mux *http.ServeMux, h *CategoryHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/categories", guard(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/categories", guard(http.HandlerFunc(h.Create)))
	mux.Handle("DELETE /api/categories/{id}", guard(http.HandlerFunc(h.Delete)))
}

func registerOrderRoutes(mux *http.ServeMux, h *OrderHandlers, guard func(http.Handler) http.Handler) {
	mux.Handle("GET /api/orders", guard(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/orders/{id}", guard(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/orders/{id}/status", guard(http.HandlerFunc(h.UpdateStatus)))
}
