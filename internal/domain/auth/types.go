package auth

// Package auth contains domain-level types for credentials, role scopes,
// and the cached user profile. It is pure and free of framework/adapter
// concerns.

// Scope selects which namespaced credential pair is active.
// Keep string form for easy persistence and cookie key derivation.
type Scope string

const (
	// ScopeStandard covers bus-company owners and employees.
	ScopeStandard Scope = "standard"
	// ScopeSuperAdmin covers the platform superadmin.
	ScopeSuperAdmin Scope = "superadmin"
)

// Persisted key layout shared by every credential backend. The superadmin
// scope prefixes its keys so the two scopes never overwrite each other.
const (
	KeyAccessToken            = "access_token"
	KeyRefreshToken           = "refresh_token"
	KeySuperAdminAccessToken  = "superadmin_access_token"
	KeySuperAdminRefreshToken = "superadmin_refresh_token"
	KeyUserProfile            = "user"
)

// AccessKey returns the storage key for the scope's access token.
func (s Scope) AccessKey() string {
	if s == ScopeSuperAdmin {
		return KeySuperAdminAccessToken
	}
	return KeyAccessToken
}

// RefreshKey returns the storage key for the scope's refresh token.
func (s Scope) RefreshKey() string {
	if s == ScopeSuperAdmin {
		return KeySuperAdminRefreshToken
	}
	return KeyRefreshToken
}

// Credentials is an access/refresh token pair issued on login or refresh.
// The access token is replaced on every successful refresh; both are
// destroyed on logout or irrecoverable refresh failure.
type Credentials struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// IsZero reports whether no tokens are present.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Profile is the server-provided user descriptor cached alongside
// credentials. At most one of IsOwner/IsEmployee is expected to be true for
// a standard user; this is assumed, not enforced.
type Profile struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	IsOwner     bool   `json:"is_owner"`
	IsEmployee  bool   `json:"is_employee"`
}

// Role is the single application role derived from a profile.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleOwner      Role = "owner"
	RoleEmployee   Role = "employee"
	RoleNone       Role = ""
)

// ResolveScope picks the active credential scope for a profile. A nil or
// non-superuser profile maps to the standard scope.
func ResolveScope(p *Profile) Scope {
	if p != nil && p.IsSuperuser {
		return ScopeSuperAdmin
	}
	return ScopeStandard
}

// ResolveRole derives the application role from a profile. Superadmin wins
// over owner, owner over employee; the order matters when a profile carries
// more than one flag.
func ResolveRole(p *Profile) Role {
	switch {
	case p == nil:
		return RoleNone
	case p.IsSuperuser:
		return RoleSuperAdmin
	case p.IsOwner:
		return RoleOwner
	case p.IsEmployee:
		return RoleEmployee
	default:
		return RoleNone
	}
}

// HomePath returns the dashboard path a role lands on after login.
func (r Role) HomePath() string {
	switch r {
	case RoleSuperAdmin:
		return "/admin/dashboard"
	case RoleOwner:
		return "/owner/dashboard"
	case RoleEmployee:
		return "/employee/dashboard"
	default:
		return "/"
	}
}
