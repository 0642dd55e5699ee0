// Package client is a thin wrapper around the license issuance API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vdpcore/licensed/internal/models"
)

// A stalled server must not hang the console, so requests carry a timeout.
const defaultTimeout = 10 * time.Second

// Client calls the issuance service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAPIKey sets the key sent in the x-api-key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a new Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPError carries a non-2xx response with the server's message.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("licensed: %s %s -> HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("licensed: %s %s -> HTTP %d", e.Method, e.Path, e.StatusCode)
}

type generateRequest struct {
	MacAddress   string `json:"macAddress,omitempty"`
	DurationDays int    `json:"durationDays"`
}

// Generate requests a new license, optionally bound to a hardware identifier.
func (c *Client) Generate(ctx context.Context, macAddress string, durationDays int) (models.LicenseRecord, error) {
	req := generateRequest{
		MacAddress:   macAddress,
		DurationDays: durationDays,
	}

	var record models.LicenseRecord
	if err := c.do(ctx, http.MethodPost, "/admin/generate-license", req, &record); err != nil {
		return models.LicenseRecord{}, err
	}
	return record, nil
}

type listResponse struct {
	Success  bool                   `json:"success"`
	Count    int                    `json:"count"`
	Licenses []models.LicenseRecord `json:"licenses"`
}

// Licenses returns all records the server has issued.
func (c *Client) Licenses(ctx context.Context) ([]models.LicenseRecord, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/admin/licenses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Licenses, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health checks that the service is reachable and running.
func (c *Client) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "running" {
		return fmt.Errorf("licensed: unexpected health status %q", resp.Status)
	}
	return nil
}

// --- HTTP plumbing ---

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(in); err != nil {
			return fmt.Errorf("licensed: encode request: %w", err)
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("licensed: new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("licensed: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
		}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			httpErr.Message = envelope.Message
		}
		return httpErr
	}

	if out == nil {
		// Drain for keep-alives anyway
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("licensed: decode response: %w", err)
	}
	return nil
}
