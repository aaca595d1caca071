package apiclient

// Package apiclient is the single choke point for outbound BusBook API
// calls. It attaches the bearer token for the active role scope, intercepts
// a single 401 per logical request, and drives the refresh protocol through
// the coordinator. It never navigates or redirects; recovery from a fatal
// refresh is the route guard's concern.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/busbook/busbook/internal/credstore"
	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
	"github.com/busbook/busbook/internal/ports"
)

const defaultTimeout = 30 * time.Second

// Options groups dependencies for the client.
type Options struct {
	// BaseURL is the API origin, e.g. "https://api.busbook.example".
	BaseURL string
	// Store resolves the active profile and the scope's credentials.
	Store *credstore.Store
	// HTTPClient overrides the transport; pass one sharing the cookie
	// backend's jar so the cookie-equivalent store rides along.
	HTTPClient *http.Client
	// ExemptPaths are endpoints whose 401s must never trigger a refresh
	// (login, refresh, logout). Matched on the request path.
	ExemptPaths []string
	Logger      *slog.Logger
}

// Client performs authenticated requests against the BusBook API.
type Client struct {
	httpc  *http.Client
	base   *url.URL
	store  *credstore.Store
	logger *slog.Logger
	exempt map[string]struct{}
	coord  *coordinator

	mu        sync.RWMutex
	refresher ports.Refresher
}

// New constructs a Client. The refresher is attached later via SetRefresher
// because the session manager itself sends its traffic through the client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exempt := make(map[string]struct{}, len(opts.ExemptPaths))
	for _, p := range opts.ExemptPaths {
		exempt[p] = struct{}{}
	}

	return &Client{
		httpc:  httpc,
		base:   base,
		store:  opts.Store,
		logger: logger,
		exempt: exempt,
		coord:  newCoordinator(),
	}, nil
}

// SetRefresher wires the token refresher. Until one is set, 401 responses
// pass through to the caller unrecovered.
func (c *Client) SetRefresher(r ports.Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

func (c *Client) getRefresher() ports.Refresher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresher
}

// Request describes one logical API call. The body is marshaled once and
// replayed verbatim if the request is resubmitted after a refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response carries the status and raw body of a completed call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Do executes the request. On 401 for a non-exempt endpoint it consults the
// refresh coordinator exactly once and resubmits with the rotated token;
// a second 401 is surfaced to the caller. Non-2xx responses are returned as
// *APIError with the server's body attached.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	scope := c.activeScope(ctx)
	token := ""
	if !c.isExempt(req.Path) {
		token = c.accessToken(ctx, scope)
	}

	resp, err := c.send(ctx, req, body, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !c.isExempt(req.Path) {
		refresher := c.getRefresher()
		if refresher == nil {
			return nil, newAPIError(resp)
		}

		newToken, refreshErr := c.coord.await(ctx, scope, func() (string, error) {
			return refresher.Refresh(ctx, scope)
		})
		if refreshErr != nil {
			// Credentials are already cleared by the refresher; the next
			// guard evaluation will route the caller to login.
			return nil, apperrors.RefreshFailed(refreshErr, "token refresh failed")
		}

		c.logger.DebugContext(ctx, "resubmitting request after refresh",
			slog.String("method", req.Method), slog.String("path", req.Path))
		resp, err = c.send(ctx, req, body, newToken)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp)
	}
	return resp, nil
}

// send performs one HTTP exchange. Transport failures map to the network
// error class.
func (c *Client) send(ctx context.Context, req Request, body []byte, token string) (*Response, error) {
	u := c.resolve(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, apperrors.Network(err, fmt.Sprintf("%s %s", req.Method, req.Path))
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.Network(err, "read response body")
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// activeScope inspects the cached profile to pick which namespaced token to
// attach. Missing or unreadable profiles fall back to the standard scope.
func (c *Client) activeScope(ctx context.Context) domainauth.Scope {
	profile, err := c.store.LoadUser(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "load cached profile failed", "error", err)
		return domainauth.ScopeStandard
	}
	return domainauth.ResolveScope(profile)
}

// accessToken returns the scope's access token, or empty when none is
// stored; the request then goes out without an Authorization header.
func (c *Client) accessToken(ctx context.Context, scope domainauth.Scope) string {
	creds, err := c.store.Load(ctx, scope)
	if err != nil {
		c.logger.WarnContext(ctx, "load credentials failed", "scope", string(scope), "error", err)
		return ""
	}
	return creds.AccessToken
}

func (c *Client) isExempt(path string) bool {
	_, ok := c.exempt[path]
	return ok
}

func (c *Client) resolve(path string) *url.URL {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	basePath := c.base.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	resolved := *c.base
	resolved.Path = basePath + ref.Path
	return &resolved
}

// GetJSON performs a GET and decodes the 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// PostJSON performs a POST with a JSON body and decodes the 2xx body into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// PutJSON performs a PUT with a JSON body and decodes the 2xx body into out.
func (c *Client) PutJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// Delete performs a DELETE, ignoring any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
	return err
}
