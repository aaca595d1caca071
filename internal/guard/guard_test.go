package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	"github.com/busbook/busbook/internal/session"
)

func anonymous() session.Snapshot {
	return session.Snapshot{}
}

func loading() session.Snapshot {
	return session.Snapshot{IsLoading: true}
}

func ownerSession() session.Snapshot {
	return session.Snapshot{
		User:            &domainauth.Profile{Name: "Karim", IsOwner: true},
		AccessToken:     "acc",
		IsAuthenticated: true,
	}
}

func employeeSession() session.Snapshot {
	return session.Snapshot{
		User:            &domainauth.Profile{Name: "Fatema", IsEmployee: true},
		AccessToken:     "acc",
		IsAuthenticated: true,
	}
}

func superAdminSession() session.Snapshot {
	return session.Snapshot{
		User:            &domainauth.Profile{Name: "Root", IsSuperuser: true},
		AccessToken:     "acc",
		IsAuthenticated: true,
		IsSuperAdmin:    true,
	}
}

func TestEvaluate_LoadingNeverRedirects(t *testing.T) {
	paths := []string{"/", "/login", "/owner/dashboard", "/admin/dashboard", "/unknown"}
	for _, path := range paths {
		d := Evaluate(path, loading())
		assert.Equal(t, ActionWait, d.Action, "path %s", path)
		assert.Empty(t, d.Target)
	}
}

func TestEvaluate_PublicPathsAllowAnonymous(t *testing.T) {
	for _, path := range []string{"/", "/login", "/register", "/admin/login"} {
		d := Evaluate(path, anonymous())
		assert.Equal(t, ActionAllow, d.Action, "path %s", path)
	}
}

func TestEvaluate_AnonymousRedirectsToLogin(t *testing.T) {
	for _, path := range []string{"/owner/dashboard", "/employee/dashboard", "/admin/dashboard", "/anything"} {
		d := Evaluate(path, anonymous())
		assert.Equal(t, ActionRedirect, d.Action, "path %s", path)
		assert.Equal(t, LoginPath, d.Target, "path %s", path)
	}
}

// A fresh login lands on the role's home page when the user is still sitting
// on a login screen.
func TestEvaluate_AuthenticatedSteeredOffLoginPages(t *testing.T) {
	tests := []struct {
		name     string
		state    session.Snapshot
		path     string
		expected string
	}{
		{name: "owner on login", state: ownerSession(), path: "/login", expected: "/owner/dashboard"},
		{name: "owner on register", state: ownerSession(), path: "/register", expected: "/owner/dashboard"},
		{name: "employee on login", state: employeeSession(), path: "/login", expected: "/employee/dashboard"},
		{name: "superadmin on admin login", state: superAdminSession(), path: "/admin/login", expected: "/admin/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.path, tt.state)
			assert.Equal(t, ActionRedirect, d.Action)
			assert.Equal(t, tt.expected, d.Target)
		})
	}
}

func TestEvaluate_AuthenticatedAllowedOnHome(t *testing.T) {
	d := Evaluate("/", ownerSession())
	assert.Equal(t, ActionAllow, d.Action)
}

func TestEvaluate_RoleSectionsEnforced(t *testing.T) {
	tests := []struct {
		name     string
		state    session.Snapshot
		path     string
		action   Action
		expected string
	}{
		{name: "owner in owner section", state: ownerSession(), path: "/owner/dashboard", action: ActionAllow},
		{name: "owner deep in owner section", state: ownerSession(), path: "/owner/buses/7", action: ActionAllow},
		{name: "owner in admin section", state: ownerSession(), path: "/admin/dashboard", action: ActionRedirect, expected: AdminLoginPath},
		{name: "owner in employee section", state: ownerSession(), path: "/employee/dashboard", action: ActionRedirect, expected: LoginPath},
		{name: "employee in employee section", state: employeeSession(), path: "/employee/dashboard", action: ActionAllow},
		{name: "employee in owner section", state: employeeSession(), path: "/owner/dashboard", action: ActionRedirect, expected: LoginPath},
		{name: "superadmin in admin section", state: superAdminSession(), path: "/admin/dashboard", action: ActionAllow},
		{name: "superadmin in owner section", state: superAdminSession(), path: "/owner/dashboard", action: ActionRedirect, expected: LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.path, tt.state)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.expected, d.Target)
		})
	}
}

func TestEvaluate_UnrestrictedPathAllowsAnyAuthenticated(t *testing.T) {
	for _, state := range []session.Snapshot{ownerSession(), employeeSession(), superAdminSession()} {
		d := Evaluate("/settings", state)
		assert.Equal(t, ActionAllow, d.Action)
	}
}

func TestEvaluate_TrailingSlashDecidesAlike(t *testing.T) {
	a := Evaluate("/owner/dashboard", ownerSession())
	b := Evaluate("/owner/dashboard/", ownerSession())
	assert.Equal(t, a, b)

	c := Evaluate("/login", anonymous())
	d := Evaluate("/login/", anonymous())
	assert.Equal(t, c, d)
}

// The decision function is pure: re-evaluating the same inputs yields the
// same decision, so repeated navigation cannot oscillate.
func TestEvaluate_Deterministic(t *testing.T) {
	states := []session.Snapshot{anonymous(), loading(), ownerSession(), employeeSession(), superAdminSession()}
	paths := []string{"/", "/login", "/register", "/admin/login", "/owner/dashboard", "/admin/dashboard", "/x/y"}

	for _, s := range states {
		for _, p := range paths {
			first := Evaluate(p, s)
			for range 3 {
				assert.Equal(t, first, Evaluate(p, s), "path %s", p)
			}
		}
	}
}

func TestEvaluate_EmptyPathTreatedAsHome(t *testing.T) {
	assert.Equal(t, Evaluate("/", anonymous()), Evaluate("", anonymous()))
}
