// Package client talks to the configuration API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/version"
)

// ErrUnauthorized is returned when the server rejects the admin secret.
var ErrUnauthorized = derrors.AuthError("Unauthorized").Build()

const maxResponseBytes = 4 << 20

// Client is a thin wrapper over the /api endpoints. Requests are never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient gets a
// client with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type updateRequest struct {
	Password string          `json:"password"`
	Config   json.RawMessage `json:"config"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Fetch returns the current document exactly as served.
func (c *Client) Fetch(ctx context.Context) (json.RawMessage, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/config", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(status, body)
	}
	if !json.Valid(body) {
		return nil, derrors.ValidationError("server returned invalid JSON").Build()
	}
	return json.RawMessage(body), nil
}

// Verify checks password against the server. A rejected secret is reported
// as false with a nil error.
func (c *Client) Verify(ctx context.Context, password string) (bool, error) {
	payload, err := json.Marshal(verifyRequest{Password: password})
	if err != nil {
		return false, err
	}
	status, body, err := c.do(ctx, http.MethodPost, "/api/verify-password", payload)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		var resp verifyResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return false, derrors.ValidationError("malformed verify response").WithCause(err).Build()
		}
		return resp.Valid, nil
	case http.StatusUnauthorized:
		return false, nil
	default:
		return false, statusError(status, body)
	}
}

// Update replaces the stored document with doc.
func (c *Client) Update(ctx context.Context, password string, doc json.RawMessage) error {
	payload, err := json.Marshal(updateRequest{Password: password, Config: doc})
	if err != nil {
		return derrors.ValidationError("document is not valid JSON").WithCause(err).Build()
	}
	status, body, err := c.do(ctx, http.MethodPost, "/api/config", payload)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return statusError(status, body)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, derrors.NetworkError("build request").WithCause(err).Build()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aboutme-client/"+version.Version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, derrors.NetworkError("request failed").
			WithCause(err).
			WithContext("url", c.baseURL+path).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, derrors.NetworkError("read response").WithCause(err).Build()
	}
	return resp.StatusCode, body, nil
}

func statusError(status int, body []byte) error {
	msg := http.StatusText(status)
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		msg = eb.Error
	}
	cat := derrors.CategoryNetwork
	if status >= 500 {
		cat = derrors.CategoryStorage
	}
	return derrors.NewError(cat, fmt.Sprintf("server returned %d: %s", status, msg)).
		WithContext("status", status).
		Build()
}
