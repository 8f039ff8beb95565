package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TransportError marks any failure between the widget and the assistant
// endpoint: network errors, non-success statuses, and undecodable bodies.
// The conversation controller converts it into a user-visible fallback turn
// instead of letting it escape.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("assistant %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the remote assistant service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config controls the transport client.
type Config struct {
	// BaseURL is the assistant service root, e.g. "http://localhost:8000".
	BaseURL string
	// APIKey is sent as X-API-Key when non-empty.
	APIKey string
	// Timeout bounds each round-trip. Zero means no timeout.
	Timeout time.Duration
}

// NewClient builds a transport client for the assistant endpoint.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// chatRequest is the wire shape of a user message.
type chatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id"`
	UserID    *string `json:"user_id"`
}

// Send posts a user message and decodes the assistant's reply. userID may be
// empty when no external identity has been supplied; it is sent as null.
func (c *Client) Send(ctx context.Context, text, sessionID, userID string) (*Response, error) {
	payload := chatRequest{
		Message:   text,
		SessionID: sessionID,
	}
	if userID != "" {
		payload.UserID = &userID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			Op:  "send",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}

	decoded, err := DecodeResponse(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}
	return decoded, nil
}

// Probe checks whether the assistant service is reachable. It tries the
// gateway's health endpoint first and falls back to a bodyless HEAD on the
// chat URL for deployments that do not expose one.
func (c *Client) Probe(ctx context.Context) error {
	if err := c.probeOnce(ctx, http.MethodGet, "/health"); err == nil {
		return nil
	}
	return c.probeOnce(ctx, http.MethodHead, "/chat")
}

func (c *Client) probeOnce(ctx context.Context, method, path string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: "probe", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "probe", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: "probe", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
