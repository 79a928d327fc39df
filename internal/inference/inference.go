// Package inference wraps the model inference server that backs the
// sentiment classification and abstractive summarization capabilities.
//
// The models are consumed as opaque black boxes: the server is expected to
// expose Hugging Face style task endpoints at /models/{model-id}. Both
// wrappers are safe for concurrent use and are constructed once at process
// startup; a failed Ping at startup aborts process bring-up.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Common errors returned by the inference client.
var (
	ErrUnavailable = errors.New("inference: server unavailable")
	ErrModel       = errors.New("inference: model error")
	ErrBadResponse = errors.New("inference: malformed response")
)

// Client is the shared HTTP transport for all model calls.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// ClientOption configures the inference client.
type ClientOption func(*Client)

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.client = client }
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client.Timeout = d }
}

// NewClient creates an inference client against the given server base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the given model is loaded and servable. Startup code
// treats a Ping failure as fatal.
func (c *Client) Ping(ctx context.Context, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(model), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model %s: HTTP %d", ErrModel, model, resp.StatusCode)
	}
	return nil
}

// infer posts inputs and task parameters to a model endpoint and decodes
// the JSON response into out.
func (c *Client) infer(ctx context.Context, model string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("inference: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelURL(model), bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: model %s: HTTP %d: %s", ErrModel, model, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func (c *Client) modelURL(model string) string {
	return c.baseURL + "/models/" + model
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
