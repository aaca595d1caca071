package httpx

import (
	"log/slog"
	"net/http"
)

// PageHandlers serves the page shell endpoints. Each returns a small JSON
// descriptor the frontend shell renders from; access control happens in the
// gate before these run.
type PageHandlers struct {
	Logger *slog.Logger
}

type pageResponse struct {
	Page string `json:"page"`
	User any    `json:"user,omitempty"`
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, page string) {
	resp := pageResponse{Page: page}
	if profile, ok := GetProfileFromContext(r.Context()); ok {
		resp.User = profile
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home")
}

func (h *PageHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login")
}

func (h *PageHandlers) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register")
}

func (h *PageHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_login")
}

func (h *PageHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin_dashboard")
}

func (h *PageHandlers) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "owner_dashboard")
}

func (h *PageHandlers) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "employee_dashboard")
}
