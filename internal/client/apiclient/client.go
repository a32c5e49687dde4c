// Package apiclient talks to the identity and profile services over
// HTTP. It implements the capability interfaces the session facade
// consumes, so the facade never sees HTTP details.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/session"
)

// Config configures the API client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8000".
	BaseURL string
	// Token is a bearer token restored from a previous run. Start
	// validates it against the server before any session is reported.
	Token      string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is an HTTP implementation of session.IdentityProvider and
// session.ProfileStore against the /v1 surface.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu        sync.Mutex
	token     string
	identity  *domain.Identity
	started   bool
	listeners map[int]func(*domain.Identity)
	nextID    int
}

var (
	_ session.IdentityProvider = (*Client)(nil)
	_ session.ProfileStore     = (*Client)(nil)
)

// New creates a client. Call Start to resolve any restored token.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      hc,
		logger:    cfg.Logger,
		token:     cfg.Token,
		listeners: make(map[int]func(*domain.Identity)),
	}
}

// Start resolves the restored token, if any, and fires the first
// session-change notification. Listeners registered before Start are
// held back until it completes, so consumers can treat the time before
// Start as "session unknown".
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	var identity *domain.Identity
	if token != "" {
		var dto userDTO
		err := c.do(ctx, http.MethodGet, "/v1/session", token, nil, &dto, http.StatusOK)
		switch {
		case err == nil:
			identity = dto.toIdentity()
		case isAuthError(err):
			// Stale token from a previous run. Drop it.
			c.logger.Debug().Msg("restored token rejected")
			c.mu.Lock()
			c.token = ""
			c.mu.Unlock()
		default:
			return err
		}
	}

	c.mu.Lock()
	c.started = true
	c.identity = identity
	c.mu.Unlock()
	c.notify(identity)
	return nil
}

// Token returns the current bearer token so callers can persist it.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnSessionChange registers a session listener. If Start has already
// resolved the session the listener fires immediately; otherwise the
// first call happens when Start completes.
func (c *Client) OnSessionChange(fn func(identity *domain.Identity)) session.Unsubscribe {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	started := c.started
	identity := c.identity
	c.mu.Unlock()

	if started {
		fn(identity)
	}
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// CreateAccount registers a new credential and starts a session for it.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", "",
		credentialRequest{Email: email, Password: password}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	identity := out.User.toIdentity()
	c.setSession(out.Token, identity)
	return identity, nil
}

// VerifyCredential exchanges an email/password pair for a session.
func (c *Client) VerifyCredential(ctx context.Context, email, password string) (*domain.Identity, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "",
		credentialRequest{Email: email, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	identity := out.User.toIdentity()
	c.setSession(out.Token, identity)
	return identity, nil
}

// EndSession invalidates the current session on the server and clears
// the local token.
func (c *Client) EndSession(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil, nil, http.StatusNoContent); err != nil {
		return err
	}
	c.setSession("", nil)
	return nil
}

// SendPasswordReset asks the server to mail a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/reset", "",
		resetRequest{Email: email}, nil, http.StatusAccepted)
}

// SetDisplayName updates the display name on the current account. The
// refreshed identity is pushed to session listeners.
func (c *Client) SetDisplayName(ctx context.Context, id, name string) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	err := c.do(ctx, http.MethodPut, "/v1/account/display-name", token,
		displayNameRequest{DisplayName: name}, nil, http.StatusNoContent)
	if err != nil {
		return err
	}

	c.mu.Lock()
	var identity *domain.Identity
	if c.identity != nil && c.identity.ID == id {
		updated := *c.identity
		updated.DisplayName = name
		c.identity = &updated
		identity = &updated
	}
	c.mu.Unlock()
	if identity != nil {
		c.notify(identity)
	}
	return nil
}

// WriteProfile stores the profile record for its account.
func (c *Client) WriteProfile(ctx context.Context, record *domain.ProfileRecord) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	return c.do(ctx, http.MethodPut, "/v1/profiles/"+record.ID, token,
		toProfileDTO(record), nil, http.StatusNoContent)
}

// ReadProfile loads the profile record for an account. Absence is
// reported as domain.ErrNotFound.
func (c *Client) ReadProfile(ctx context.Context, id string) (*domain.ProfileRecord, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	var dto profileDTO
	if err := c.do(ctx, http.MethodGet, "/v1/profiles/"+id, token, nil, &dto, http.StatusOK); err != nil {
		return nil, err
	}
	record := fromProfileDTO(dto)
	return &record, nil
}

func (c *Client) setSession(token string, identity *domain.Identity) {
	c.mu.Lock()
	c.token = token
	c.identity = identity
	c.mu.Unlock()
	c.notify(identity)
}

func (c *Client) notify(identity *domain.Identity) {
	c.mu.Lock()
	fns := make([]func(*domain.Identity), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(identity)
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any, want int) error {
	var body io.Reader
	if in != nil && method != http.MethodGet {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorEnvelope is the server's error body shape.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errorCodes = map[string]error{
	"invalid_email":      domain.ErrInvalidEmail,
	"weak_password":      domain.ErrWeakPassword,
	"email_in_use":       domain.ErrEmailInUse,
	"unknown_account":    domain.ErrUnknownAccount,
	"invalid_credential": domain.ErrInvalidCredential,
	"unauthorized":       domain.ErrUnauthorized,
	"not_found":          domain.ErrNotFound,
}

func decodeError(resp *http.Response) error {
	var env errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&env); err == nil {
		if mapped, ok := errorCodes[env.Error]; ok {
			return mapped
		}
		if env.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, env.Message)
		}
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}

func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrNotFound)
}
