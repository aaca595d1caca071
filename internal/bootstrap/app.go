package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/busbook/busbook/config"
	"github.com/busbook/busbook/internal/adapters/cookiejar"
	"github.com/busbook/busbook/internal/adapters/jwtauth"
	"github.com/busbook/busbook/internal/adapters/memory"
	redisadapter "github.com/busbook/busbook/internal/adapters/redis"
	"github.com/busbook/busbook/internal/apiclient"
	"github.com/busbook/busbook/internal/credstore"
	"github.com/busbook/busbook/internal/ports"
	"github.com/busbook/busbook/internal/resources"
	"github.com/busbook/busbook/internal/session"
)

// App holds the wired application graph.
type App struct {
	Config    *config.AppConfig
	Logger    *slog.Logger
	Redis     redis.UniversalClient
	Store     *credstore.Store
	Client    *apiclient.Client
	Sessions  *session.Manager
	Verifier  *jwtauth.Verifier
	Resources *resources.Client
}

// BuildAppConfig contains dependencies for BuildApp.
type BuildAppConfig struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// RedisClient overrides the Redis connection; when nil one is dialed
	// from Config.Redis.
	RedisClient redis.UniversalClient
}

// BuildApp wires the credential store, API client, session manager, and
// token verifier. The client and the session manager reference each other,
// so the refresher is attached after both exist.
func BuildApp(cfg BuildAppConfig) (*App, error) {
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	redisClient := cfg.RedisClient
	if redisClient == nil {
		var err error
		redisClient, err = ConnectRedis(appCfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	apiOrigin, err := url.Parse(appCfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	cookieStore, err := cookiejar.New(cookiejar.Options{
		BaseURL: apiOrigin,
		TTL:     appCfg.Auth.CookieTTL,
		Secure:  appCfg.Auth.SecureCookies,
	})
	if err != nil {
		return nil, fmt.Errorf("build cookie store: %w", err)
	}
	redisStore := redisadapter.NewCredentialStore(redisClient)

	// Dual write: cookie-equivalent first, persistent second. Reads fall
	// through in the same order.
	store := credstore.New(cookieStore, redisStore)

	client, err := apiclient.New(apiclient.Options{
		BaseURL: appCfg.API.BaseURL,
		Store:   store,
		HTTPClient: &http.Client{
			Jar:     cookieStore.Jar(),
			Timeout: appCfg.API.Timeout,
		},
		ExemptPaths: appCfg.API.ExemptPaths(),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	sessions := session.NewManager(session.ManagerOptions{
		Client: client,
		Store:  store,
		Endpoints: session.Endpoints{
			Login:       appCfg.API.LoginPath,
			AdminMarker: appCfg.API.AdminMarker,
			Refresh:     appCfg.API.RefreshPath,
			Logout:      appCfg.API.LogoutPath,
		},
		Logger: logger,
	})
	client.SetRefresher(sessions)

	verifier, err := jwtauth.NewVerifier(appCfg.Auth.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("build token verifier: %w", err)
	}

	return &App{
		Config:    appCfg,
		Logger:    logger,
		Redis:     redisClient,
		Store:     store,
		Client:    client,
		Sessions:  sessions,
		Verifier:  verifier,
		Resources: resources.NewClient(client),
	}, nil
}

// BuildMemoryStore assembles a dual-written store over in-memory backends;
// used by tests and dev tooling that run without Redis.
func BuildMemoryStore() *credstore.Store {
	var primary, secondary ports.CredentialBackend = memory.NewCredentialStore(), memory.NewCredentialStore()
	return credstore.New(primary, secondary)
}
