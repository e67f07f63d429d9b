package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader = "X-Request-ID"
	refreshPath     = "/auth/refresh"
)

// ErrSessionExpired is returned when a 401 could not be recovered by a
// token refresh. The session has been cleared by then.
var ErrSessionExpired = errors.New("session expired")

// Doer sends HTTP requests
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one backend call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Public calls carry no bearer token and never trigger a refresh
	Public bool
}

// Client wraps the backend REST API: it attaches the session's bearer
// token and retries once after a transparent refresh on 401
type Client struct {
	baseURL   string
	http      Doer
	session   *session.Session
	onExpired func()

	refreshMu sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithDoer replaces the underlying HTTP client
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithExpiredHook registers a callback run after the session is cleared
// because of an unrecoverable 401
func WithExpiredHook(fn func()) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// New creates a new backend client
func New(baseURL string, timeout time.Duration, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with
func (c *Client) Session() *session.Session {
	return c.session
}

// Get issues an authenticated GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues an authenticated POST
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues an authenticated PUT
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch issues an authenticated PATCH
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete issues an authenticated DELETE
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query}, nil)
}

// Do sends req, recovering from one 401 by refreshing the access token
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	token := ""
	if !req.Public {
		token = c.session.AccessToken()
		if token == "" {
			return fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrSessionExpired)
		}
	}

	status, body, err := c.send(ctx, req, payload, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.Public {
		if err := c.refresh(ctx, token); err != nil {
			return err
		}
		status, body, err = c.send(ctx, req, payload, c.session.AccessToken())
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return newAPIError(status, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, token string) (int, []byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set(requestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Msg("Backend request failed")
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read %s %s response: %w", req.Method, req.Path, err)
	}

	log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("Backend call")

	return resp.StatusCode, body, nil
}

// refresh exchanges the refresh token for a new access token. failedToken is
// the token the caller was rejected with; if another call already replaced
// it, the caller just retries, and if another call already expired the
// session, the caller fails without expiring it again.
func (c *Client) refresh(ctx context.Context, failedToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	switch current := c.session.AccessToken(); {
	case current == "":
		return ErrSessionExpired
	case current != failedToken:
		return nil
	}

	refreshToken, err := c.session.BeginRefresh()
	if err != nil {
		return c.expire(err)
	}

	var pair models.TokenPair
	err = c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Query:  url.Values{"refresh_token": {refreshToken}},
		Body:   map[string]string{"refresh_token": refreshToken},
		Public: true,
	}, &pair)
	if err == nil && pair.AccessToken == "" {
		err = errors.New("refresh response carried no access token")
	}
	if err != nil {
		return c.expire(err)
	}

	if err := c.session.SetTokens(pair); err != nil {
		return fmt.Errorf("failed to store refreshed tokens: %w", err)
	}
	log.Info().Msg("Access token refreshed")
	return nil
}

func (c *Client) expire(cause error) error {
	log.Warn().Err(cause).Msg("Token refresh failed, clearing session")
	if err := c.session.Clear(); err != nil {
		log.Error().Err(err).Msg("Failed to clear session")
	}
	if c.onExpired != nil {
		c.onExpired()
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}
