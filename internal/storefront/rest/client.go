package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"velostore/internal/storefront/session"
)

const defaultTimeout = 15 * time.Second

// Client is the single gateway for storefront API calls. It injects the
// bearer token from the session store, decodes the uniform response envelope
// and maps failures onto the shared error taxonomy. A 401 from any endpoint
// clears the stored session so every consumer sees the logout at once.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	logger  *log.Logger
}

func New(baseURL string, sessions *session.Store, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		session: sessions,
		logger:  logger,
	}
}

// Session exposes the store so callers can check auth state before a request.
func (c *Client) Session() *session.Store {
	return c.session
}

// RequireAuth fails fast with ErrUnauthenticated when no token is stored.
func (c *Client) RequireAuth() error {
	if c.session.Token() == "" {
		return ErrUnauthenticated
	}
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Do issues a request against the API and decodes the envelope's data field
// into out when out is non-nil. body, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Printf("request failed method=%s path=%s err=%v", method, path, err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear()
		return ErrSessionExpired
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode}
		}
		return &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPayload struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Login authenticates and persists the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var payload sessionPayload
	if err := c.Do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &payload); err != nil {
		return session.Session{}, err
	}
	if err := c.session.Set(payload.Token, payload.Role, payload.Email); err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: payload.Token, Role: payload.Role, Email: payload.Email}, nil
}

// Signup registers a new account. The caller logs in separately.
func (c *Client) Signup(ctx context.Context, email, password, firstName, lastName string) error {
	body := struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}{email, password, firstName, lastName}
	return c.Do(ctx, http.MethodPost, "/api/auth/signup", body, nil)
}

// Logout revokes the server-side token and clears the local session. The
// local session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil {
		return clearErr
	}
	if err != nil && !errors.Is(err, ErrSessionExpired) {
		return err
	}
	return nil
}
