package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/learnhub/learnhub-client/internal/core/domain"
)

const maxBodyBytes = 4 << 20

// Client is a JSON client for the backend API. Pair it with a Transport so
// every call carries the session token.
type Client struct {
	baseURL string
	http    *http.Client
	exempt  ExemptSet
}

// NewHTTPClient wraps rt in an http.Client with the given overall timeout.
func NewHTTPClient(rt http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{Transport: rt, Timeout: timeout}
}

// NewClient returns a Client rooted at baseURL (e.g.
// http://localhost:3000/api/v1). exempt should be the set the transport
// uses; nil means DefaultExempt.
func NewClient(baseURL string, hc *http.Client, exempt ExemptSet) *Client {
	if exempt == nil {
		exempt = DefaultExempt
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, exempt: exempt}
}

// Do sends body as JSON and decodes a 2xx answer into out. Use
// *json.RawMessage for opaque payloads. A non-2xx answer becomes a
// *domain.APIError and a missing answer a *domain.TransportError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(data),
			Method:  method,
			Path:    path,
			Exempt:  c.exempt.Match(path),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrMalformedResponse, err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body. The
// backend answers {"message": "..."} or {"message": ["...", "..."]}; some
// proxies answer {"error": "..."}.
func errorMessage(data []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	var single string
	if err := json.Unmarshal(body.Message, &single); err == nil && single != "" {
		return single
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	return body.Error
}
