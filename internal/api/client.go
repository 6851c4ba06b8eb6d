package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"bookreview/internal/session"
)

const defaultTimeout = 10 * time.Second

// SessionAccess is the narrow view of the session manager the gateway
// needs: read the current credential, and clear the session once the
// remote API rejects it.
type SessionAccess interface {
	Token() string
	Logout() error
}

// AuthExpiredFunc is invoked after the gateway invalidates a rejected
// credential. The hosting application registers it to navigate to the
// login entry point; the gateway itself performs no navigation.
type AuthExpiredFunc func()

// Config configures the gateway client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Session supplies and clears the bearer credential.
	Session SessionAccess
	// Fallback is read directly when Session is absent or failing, and
	// cleared directly when Session.Logout fails. The store and the
	// durable copy must never diverge, but the gateway keeps working
	// even if the session object was never composed.
	Fallback session.CredentialStore

	OnAuthExpired AuthExpiredFunc
}

// Client is the single choke point for calls to the remote API: it
// attaches the bearer credential to every outgoing request and
// invalidates the session when the API reports an authorization
// failure. All other error classes pass through to the caller. It never
// retries, since the remote mutations are not known to be idempotent.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       SessionAccess
	fallback      session.CredentialStore
	onAuthExpired AuthExpiredFunc

	group singleflight.Group

	mu          sync.Mutex
	invalidated string
}

// New constructs the gateway client. The transport timeout is always
// finite so a hung request can never wedge a caller's state machine.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		session:       cfg.Session,
		fallback:      cfg.Fallback,
		onAuthExpired: cfg.OnAuthExpired,
	}
}

// Get issues a GET and decodes the response into out. Identical
// concurrent GETs are coalesced into one round trip; the client only
// ever needs the latest snapshot of a view.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	v, err, _ := c.group.Do(path, func() (any, error) {
		return c.doRaw(ctx, http.MethodGet, path, nil)
	})
	if err != nil {
		return err
	}
	return decodeBody(v.([]byte), out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	data, err := c.doRaw(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	data, err := c.doRaw(ctx, http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

// Delete issues a DELETE, discarding any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.doRaw(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	tok := c.currentToken()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network-level failure: no response to interpret, propagate as-is.
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.invalidate(tok)
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// currentToken reads the credential from the session manager, falling
// back to the durable copy when no manager is wired.
func (c *Client) currentToken() string {
	if c.session != nil {
		return c.session.Token()
	}
	if c.fallback != nil {
		tok, err := c.fallback.Token()
		if err == nil {
			return tok
		}
	}
	return ""
}

// invalidate clears the session exactly once per rejected token and
// fires the auth-expired hook at most once, even when several in-flight
// calls fail concurrently.
func (c *Client) invalidate(tok string) {
	c.mu.Lock()
	if tok == "" || tok == c.invalidated {
		c.mu.Unlock()
		return
	}
	c.invalidated = tok
	cb := c.onAuthExpired
	c.mu.Unlock()

	cleared := false
	if c.session != nil {
		if err := c.session.Logout(); err != nil {
			slog.Warn("session clear failed, clearing durable storage directly", "err", err)
		} else {
			cleared = true
		}
	}
	if !cleared && c.fallback != nil {
		if err := c.fallback.Clear(); err != nil {
			slog.Error("durable session clear failed", "err", err)
		}
	}
	if cb != nil {
		cb()
	}
}

func parseError(status int, body []byte) error {
	var errResp struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(body, &errResp)
	msg := errResp.Detail
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = errResp.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg, Code: strings.TrimSpace(errResp.Code)}
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
