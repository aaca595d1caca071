package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAPIEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.busbook.example")
	t.Setenv("API_LOGIN_PATH", "/accounts/login/")
	t.Setenv("API_ADMIN_LOGIN_PATH", "/superadmin/login/")
	t.Setenv("API_REFRESH_PATH", "/accounts/token/refresh/")
	t.Setenv("API_LOGOUT_PATH", "/accounts/logout/")
	t.Setenv("API_TIMEOUT", "10s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := APIConfig{
		BaseURL:        "https://api.busbook.example",
		LoginPath:      "/accounts/login/",
		AdminLoginPath: "/superadmin/login/",
		AdminMarker:    "superadmin",
		RefreshPath:    "/accounts/token/refresh/",
		LogoutPath:     "/accounts/logout/",
		Timeout:        10 * time.Second,
	}

	if !reflect.DeepEqual(cfg.API, expected) {
		t.Fatalf("unexpected API configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.API)
	}
}

func TestAPIConfig_Sanitize(t *testing.T) {
	cfg := APIConfig{BaseURL: " https://api.busbook.example/ ", Timeout: -time.Second}
	cfg.Sanitize()

	if cfg.BaseURL != "https://api.busbook.example" {
		t.Fatalf("expected trimmed base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
}

func TestAPIConfig_ExemptPaths(t *testing.T) {
	cfg := APIConfig{
		LoginPath:      "/login/",
		AdminLoginPath: "/superadmin/login/",
		RefreshPath:    "/token/refresh/",
		LogoutPath:     "/logout/",
	}

	expected := []string{"/login/", "/superadmin/login/", "/token/refresh/", "/logout/"}
	if !reflect.DeepEqual(cfg.ExemptPaths(), expected) {
		t.Fatalf("unexpected exempt paths: %#v", cfg.ExemptPaths())
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		isDev          bool
		expectedSecret string
	}{
		{
			name:           "dev mode falls back to dev secret",
			secret:         "",
			isDev:          true,
			expectedSecret: DevSigningSecret,
		},
		{
			name:           "prod mode leaves secret empty",
			secret:         "",
			isDev:          false,
			expectedSecret: "",
		},
		{
			name:           "explicit secret is kept",
			secret:         "real-secret",
			isDev:          true,
			expectedSecret: "real-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{SigningSecret: tt.secret}
			cfg.Sanitize(tt.isDev)

			if cfg.SigningSecret != tt.expectedSecret {
				t.Errorf("expected secret %q, got %q", tt.expectedSecret, cfg.SigningSecret)
			}
			if cfg.CookieTTL != 168*time.Hour {
				t.Errorf("expected cookie TTL default, got %v", cfg.CookieTTL)
			}
		})
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		dev      bool
		nodeEnv  string
		expected bool
	}{
		{name: "DEV flag wins", dev: true, nodeEnv: "", expected: true},
		{name: "NODE_ENV development", dev: false, nodeEnv: "development", expected: true},
		{name: "NODE_ENV dev", dev: false, nodeEnv: "dev", expected: true},
		{name: "NODE_ENV production", dev: false, nodeEnv: "production", expected: false},
		{name: "nothing set", dev: false, nodeEnv: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NODE_ENV", tt.nodeEnv)
			cfg := AppConfig{IsDev: tt.dev}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}
