package httpx

import (
	"log/slog"
	"net/http"

	"github.com/busbook/busbook/internal/ports"
	"github.com/busbook/busbook/internal/resources"
	"github.com/busbook/busbook/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Sessions *session.Manager
	Verifier ports.TokenVerifier
	// AdminEndpoint is the remote API's superadmin login path.
	AdminEndpoint string
	Cookies       CookieOptions
	Resources     *resources.Client
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router. Auth endpoints and the
// health check bypass the gate; every page and resource route goes through
// it.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := NewAuthHandler(AuthHandlerOptions{
		Sessions:      services.Sessions,
		AdminEndpoint: services.AdminEndpoint,
		Cookies:       services.Cookies,
		Logger:        logger,
	})
	registerAuthRoutes(mux, authHandlers)

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	gate := Gate(GateConfig{Verifier: services.Verifier, Logger: logger})
	pages := &PageHandlers{Logger: logger}
	registerPageRoutes(mux, pages, gate)

	if services.Resources != nil {
		resourceHandlers := &ResourceHandlers{Svc: services.Resources, Logger: logger}
		registerResourceRoutes(mux, resourceHandlers, gate)
	}

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandler) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/admin/login", h.AdminLogin)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers, gate func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", gate(http.HandlerFunc(h.Home)))
	mux.Handle("GET /login", gate(http.HandlerFunc(h.Login)))
	mux.Handle("GET /register", gate(http.HandlerFunc(h.Register)))
	mux.Handle("GET /admin/login", gate(http.HandlerFunc(h.AdminLogin)))
	mux.Handle("GET /admin/dashboard", gate(http.HandlerFunc(h.AdminDashboard)))
	mux.Handle("GET /owner/dashboard", gate(http.HandlerFunc(h.OwnerDashboard)))
	mux.Handle("GET /employee/dashboard", gate(http.HandlerFunc(h.EmployeeDashboard)))
}
