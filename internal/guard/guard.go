package guard

// Package guard decides, for every navigation, whether a path may render for
// the current session. The decision function is pure: the same (path, state)
// pair always yields the same decision, and no redirect is ever issued while
// the session is still loading.

import (
	"strings"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	"github.com/busbook/busbook/internal/session"
)

// Standard paths known to the guard.
const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
	RegisterPath   = "/register"
	HomePath       = "/"
)

// Action classifies a guard decision.
type Action int

const (
	// ActionAllow renders the requested path.
	ActionAllow Action = iota
	// ActionRedirect navigates to Decision.Target instead.
	ActionRedirect
	// ActionWait renders a neutral loading state; the session is hydrating.
	ActionWait
)

// Decision is the outcome of one guard evaluation.
type Decision struct {
	Action Action
	Target string
}

func allow() Decision             { return Decision{Action: ActionAllow} }
func redirect(to string) Decision { return Decision{Action: ActionRedirect, Target: to} }
func wait() Decision              { return Decision{Action: ActionWait} }

// publicPaths render for everyone, authenticated or not.
var publicPaths = map[string]struct{}{
	HomePath:       {},
	LoginPath:      {},
	RegisterPath:   {},
	AdminLoginPath: {},
}

// loginPaths are the entry screens authenticated users are steered away from.
var loginPaths = map[string]struct{}{
	LoginPath:      {},
	RegisterPath:   {},
	AdminLoginPath: {},
}

// rolePrefixes maps a restricted top-level segment to the role allowed under
// it and the login page a mismatch redirects to.
var rolePrefixes = map[string]struct {
	role  domainauth.Role
	login string
}{
	"admin":    {role: domainauth.RoleSuperAdmin, login: AdminLoginPath},
	"owner":    {role: domainauth.RoleOwner, login: LoginPath},
	"employee": {role: domainauth.RoleEmployee, login: LoginPath},
}

// Evaluate applies the guard rules in order:
//
//  1. public allow-list → allow
//  2. unauthenticated → redirect to login
//  3. authenticated on a login page → redirect to the role's home
//  4. role-restricted prefix not matching the session role → redirect to
//     that prefix's login
//  5. allow
//
// While the session is loading no rule runs and no redirect is issued.
func Evaluate(path string, s session.Snapshot) Decision {
	if s.IsLoading {
		return wait()
	}

	path = normalize(path)

	if _, ok := publicPaths[path]; ok {
		if s.IsAuthenticated {
			if _, isLogin := loginPaths[path]; isLogin {
				return redirect(s.Role().HomePath())
			}
		}
		return allow()
	}

	if !s.IsAuthenticated {
		return redirect(LoginPath)
	}

	if entry, ok := rolePrefixes[topSegment(path)]; ok && s.Role() != entry.role {
		return redirect(entry.login)
	}

	return allow()
}

// normalize strips a trailing slash so "/login/" and "/login" decide alike.
func normalize(path string) string {
	if path == "" {
		return HomePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// topSegment returns the first path segment, e.g. "owner" for
// "/owner/buses/7".
func topSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
