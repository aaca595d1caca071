package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
	"github.com/busbook/busbook/internal/session"
)

// CookieOptions controls how token cookies are written.
type CookieOptions struct {
	// Domain scopes cookies; empty means host-only.
	Domain string
	// TTL is the cookie lifetime, mirroring the refresh token's validity.
	TTL time.Duration
	// ForceSecure marks cookies Secure even when TLS is not detected on the
	// request, for deployments behind a terminating proxy that strips
	// X-Forwarded-Proto.
	ForceSecure bool
}

// AuthHandler serves the auth endpoints. It drives the session manager and
// mirrors its credential state into browser cookies so the gate middleware
// can authenticate subsequent page loads.
type AuthHandler struct {
	sessions *session.Manager
	// adminEndpoint is the remote API's superadmin login path.
	adminEndpoint string
	cookies       CookieOptions
	logger        *slog.Logger
}

// AuthHandlerOptions groups dependencies for NewAuthHandler.
type AuthHandlerOptions struct {
	Sessions      *session.Manager
	AdminEndpoint string
	Cookies       CookieOptions
	Logger        *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(opts AuthHandlerOptions) *AuthHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		sessions:      opts.Sessions,
		adminEndpoint: opts.AdminEndpoint,
		cookies:       opts.Cookies,
		logger:        logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// statusResponse is the serialized session snapshot returned to clients.
type statusResponse struct {
	User            *domainauth.Profile `json:"user"`
	IsAuthenticated bool                `json:"is_authenticated"`
	IsSuperAdmin    bool                `json:"is_super_admin"`
	Role            string              `json:"role"`
	Error           any                 `json:"error,omitempty"`
}

func statusFrom(snap session.Snapshot) statusResponse {
	return statusResponse{
		User:            snap.User,
		IsAuthenticated: snap.IsAuthenticated,
		IsSuperAdmin:    snap.IsSuperAdmin,
		Role:            string(snap.Role()),
		Error:           snap.Err,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, "")
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.adminEndpoint)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, endpoint string) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     apperrors.Validation("username and password are required"),
		})
		return
	}

	if err := h.sessions.Login(r.Context(), req.Username, req.Password, endpoint); err != nil {
		WriteJSON(w, loginFailureStatus(err), statusFrom(h.sessions.Snapshot()))
		return
	}

	snap := h.sessions.Snapshot()
	scope := domainauth.ScopeStandard
	if snap.IsSuperAdmin {
		scope = domainauth.ScopeSuperAdmin
	}
	h.setTokenCookies(w, r, scope, domainauth.Credentials{
		AccessToken:  snap.AccessToken,
		RefreshToken: snap.RefreshToken,
	})
	WriteJSON(w, http.StatusOK, statusFrom(snap))
}

// Refresh handles POST /auth/refresh. The scope comes from which cookie
// pair the browser holds; on success only the access cookie is rewritten.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromCookies(r)
	access, err := h.sessions.Refresh(r.Context(), scope)
	if err != nil {
		h.clearTokenCookies(w, r)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "refresh_failed",
			Err:     err,
		})
		return
	}

	h.setCookie(w, r, scope.AccessKey(), access, h.cookies.TTL)
	WriteJSON(w, http.StatusOK, map[string]string{"access": access})
}

// Logout handles POST /auth/logout. Cookies are cleared unconditionally;
// a failed remote logout still ends the local session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromCookies(r)
	if err := h.sessions.Logout(r.Context(), scope); err != nil {
		h.logger.WarnContext(r.Context(), "logout: clear credentials failed", "error", err)
	}
	h.clearTokenCookies(w, r)
	WriteJSON(w, http.StatusOK, statusFrom(h.sessions.Snapshot()))
}

// Status handles GET /auth/status.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, statusFrom(h.sessions.Snapshot()))
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, r *http.Request, scope domainauth.Scope, creds domainauth.Credentials) {
	h.setCookie(w, r, scope.AccessKey(), creds.AccessToken, h.cookies.TTL)
	h.setCookie(w, r, scope.RefreshKey(), creds.RefreshToken, h.cookies.TTL)
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{
		domainauth.KeyAccessToken,
		domainauth.KeyRefreshToken,
		domainauth.KeySuperAdminAccessToken,
		domainauth.KeySuperAdminRefreshToken,
	} {
		h.setCookie(w, r, name, "", -time.Second)
	}
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, r *http.Request, name, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r) || h.cookies.ForceSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

// scopeFromCookies picks the superadmin scope when the browser holds a
// superadmin refresh token, matching the gate's precedence.
func scopeFromCookies(r *http.Request) domainauth.Scope {
	if c, err := r.Cookie(domainauth.KeySuperAdminRefreshToken); err == nil && c.Value != "" {
		return domainauth.ScopeSuperAdmin
	}
	return domainauth.ScopeStandard
}

// loginFailureStatus maps a login error to the HTTP status surfaced to the
// browser. Rejected credentials are 401; transport trouble is 502.
func loginFailureStatus(err error) int {
	if apperrors.IsNetwork(err) {
		return http.StatusBadGateway
	}
	return http.StatusUnauthorized
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
