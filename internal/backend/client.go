package backend

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

	"github.com/Rrens/campus-console/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Credentials is the session handle the client authenticates with. Expire
// is called with the token that drew a 401.
type Credentials interface {
	Token() string
	Expire(ctx context.Context, token string)
}

// Client talks to the campus-management backend
type Client struct {
	baseURL   string
	http      *http.Client
	stream    *http.Client
	userAgent string

	mu    sync.RWMutex
	creds Credentials
}

// New constructs a Client with optional functional arguments
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 30 * time.Second},
		stream:    &http.Client{},
		userAgent: "campus-console",
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewFromConfig builds a client from the backend config section
func NewFromConfig(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	base := []Option{WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	return New(cfg.BaseURL, append(base, opts...)...)
}

// Bind sets the credentials handle used by every later request
func (c *Client) Bind(creds Credentials) {
	c.mu.Lock()
	c.creds = creds
	c.mu.Unlock()
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) credentials() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

func (c *Client) currentToken() string {
	if creds := c.credentials(); creds != nil {
		return creds.Token()
	}
	return ""
}

// request describes one unary call. route is the path template used as the
// metrics label.
type request struct {
	method    string
	route     string
	path      string
	body      any
	anonymous bool
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do performs r and decodes a 2xx body into out when out is non-nil
func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	var token string
	if !r.anonymous {
		token = c.currentToken()
	}

	req, err := c.newRequest(ctx, r.method, r.path, body, token)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(r.route).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(r.route, statusLabel(0)).Inc()
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(r.route, statusLabel(resp.StatusCode)).Inc()

	log.Debug().
		Str("method", r.method).
		Str("route", r.route).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.failure(ctx, resp, token)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// failure builds the *APIError for a non-2xx response and runs the 401
// policy when the request carried a token.
//
// Login and signup are sent without a token, so a rejected password never
// clears the session. This deliberately narrows "any 401 signs out": a
// failed login must leave the previous session untouched, and a bad
// password is a credential error for the form, not an expired session.
func (c *Client) failure(ctx context.Context, resp *http.Response, token string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(data)}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		apiErr.sessionRejected = true
		if creds := c.credentials(); creds != nil {
			creds.Expire(context.WithoutCancel(ctx), token)
		}
	}
	return apiErr
}
