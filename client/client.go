// Package client provides an HTTP client for the Menu Maker API that
// manages the session token pair: it attaches the access token to outgoing
// requests, refreshes it once when a request comes back unauthorized, and
// persists the session through a SessionStore.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gastoncarriquiry/menu-maker/auth"
)

const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
	refreshPath  = "/api/auth/refresh"
	logoutPath   = "/api/auth/logout"
	profilePath  = "/api/auth/profile"
)

// Config configures the session client.
type Config struct {
	// BaseURL is the API server root, e.g. "http://localhost:3000".
	BaseURL string

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport. Optional.
	HTTPClient *http.Client
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("client: base URL is required")
	}
	return nil
}

// APIError is the normalized failure shape for API calls: the HTTP status
// and the human-readable message the server returned.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Response is the outcome of a raw Do call.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client talks to the Menu Maker API on behalf of one user. It is safe
// for concurrent use; the session is guarded by a mutex and at most one
// refresh runs at a time.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      SessionStore

	mu      sync.Mutex
	session *Session
}

// New creates a session client. Any session previously persisted in the
// store is loaded so the caller resumes where it left off.
func New(cfg Config, store SessionStore) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = NewMemorySessionStore()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		store:      store,
	}

	session, err := store.Load()
	if err != nil {
		return nil, err
	}
	c.session = session

	return c, nil
}

// authResponse is the server's register/login/refresh payload.
type authResponse struct {
	Message string          `json:"message"`
	User    *auth.AuthUser  `json:"user"`
	Tokens  *auth.TokenPair `json:"tokens"`
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, email, username, password string) (*auth.AuthUser, error) {
	body := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}
	return c.startSession(ctx, registerPath, body)
}

// Login authenticates with an email or username and starts a session.
func (c *Client) Login(ctx context.Context, identifier, password string) (*auth.AuthUser, error) {
	body := map[string]string{
		"emailOrUsername": identifier,
		"password":        password,
	}
	return c.startSession(ctx, loginPath, body)
}

func (c *Client) startSession(ctx context.Context, path string, body any) (*auth.AuthUser, error) {
	resp, err := c.send(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, apiError(resp)
	}

	var payload authResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("client: decode auth response: %w", err)
	}
	if payload.Tokens == nil || payload.User == nil {
		return nil, fmt.Errorf("client: auth response missing tokens or user")
	}

	session := &Session{
		AccessToken:  payload.Tokens.AccessToken,
		RefreshToken: payload.Tokens.RefreshToken,
		User:         payload.User,
	}
	if err := c.setSession(session); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Logout tells the server the session is over and drops the local session.
// The local session is cleared even when the server call fails, since the
// server keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	token := c.accessToken()
	var callErr error
	if token != "" {
		resp, err := c.send(ctx, http.MethodPost, logoutPath, nil, token)
		switch {
		case err != nil:
			callErr = err
		case !resp.IsSuccess():
			callErr = apiError(resp)
		}
	}
	if err := c.clearSession(); err != nil {
		return err
	}
	return callErr
}

// Refresh exchanges the stored refresh token for a new token pair. Any
// failure, whether the server rejected the token or the call never got
// an answer, clears the session; the user must log in again.
func (c *Client) Refresh(ctx context.Context) error {
	refreshToken := c.refreshToken()
	if refreshToken == "" {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "no session to refresh"}
	}

	body := map[string]string{"refreshToken": refreshToken}
	resp, err := c.send(ctx, http.MethodPost, refreshPath, body, "")
	if err != nil {
		_ = c.clearSession()
		return err
	}
	if !resp.IsSuccess() {
		_ = c.clearSession()
		return apiError(resp)
	}

	var payload authResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		_ = c.clearSession()
		return fmt.Errorf("client: decode refresh response: %w", err)
	}
	if payload.Tokens == nil {
		_ = c.clearSession()
		return fmt.Errorf("client: refresh response missing tokens")
	}

	c.mu.Lock()
	session := &Session{
		AccessToken:  payload.Tokens.AccessToken,
		RefreshToken: payload.Tokens.RefreshToken,
	}
	if payload.User != nil {
		session.User = payload.User
	} else if c.session != nil {
		session.User = c.session.User
	}
	c.session = session
	c.mu.Unlock()

	return c.store.Save(session)
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*auth.AuthUser, error) {
	resp, err := c.Do(ctx, http.MethodGet, profilePath, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		User *auth.AuthUser `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("client: decode profile response: %w", err)
	}
	if payload.User == nil {
		return nil, fmt.Errorf("client: profile response missing user")
	}
	return payload.User, nil
}

// Do sends an authenticated request. When the server answers 401 on a
// non-auth path, the client refreshes the token pair and retries the
// request exactly once; if the refresh fails, the session is cleared and
// the original unauthorized error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	resp, err := c.send(ctx, method, path, body, c.accessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isAuthPath(path) {
		if !resp.IsSuccess() {
			return resp, apiError(resp)
		}
		return resp, nil
	}

	original := apiError(resp)
	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return resp, original
	}

	retry, err := c.send(ctx, method, path, body, c.accessToken())
	if err != nil {
		return nil, err
	}
	if !retry.IsSuccess() {
		return retry, apiError(retry)
	}
	return retry, nil
}

// HasValidSession reports whether the client holds an access token that
// has not yet expired. It does not verify the signature; only the server
// can do that.
func (c *Client) HasValidSession() bool {
	token := c.accessToken()
	if token == "" {
		return false
	}
	expiry, err := auth.ExtractExpiry(token)
	if err != nil {
		return false
	}
	return time.Now().Before(expiry)
}

// CurrentUser returns the cached user from the active session, or nil.
func (c *Client) CurrentUser() *auth.AuthUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.User
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

func (c *Client) refreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.RefreshToken
}

func (c *Client) setSession(session *Session) error {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return c.store.Save(session)
}

func (c *Client) clearSession() error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// send executes a single HTTP request and reads the full response.
func (c *Client) send(ctx context.Context, method, path string, body any, token string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// isAuthPath reports whether the path belongs to the login, register, or
// refresh endpoints. Unauthorized responses from these carry credential
// failures that a token refresh cannot fix.
func isAuthPath(path string) bool {
	return strings.Contains(path, loginPath) ||
		strings.Contains(path, registerPath) ||
		strings.Contains(path, refreshPath)
}

// apiError converts an error response body into an APIError, falling back
// to the HTTP status text when the body is not the expected shape.
func apiError(resp *Response) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(resp.Body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
