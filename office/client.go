package office

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/taskmesh/logging"
)

// DefaultBaseURL is the local office automation server address.
const DefaultBaseURL = "http://127.0.0.1:8765"

// ClientOptions configures the office automation client.
type ClientOptions struct {
	// BaseURL overrides the server address. Defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Client talks to the local office automation server. Every endpoint answers
// a JSON envelope with a success flag and an optional error message; Client
// unwraps the envelope so callers only see payload or error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates an office automation client.
func NewClient(optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}
}

// Health checks server availability via GET /health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Get(ctx, "/health")
	return err
}

// Get performs a GET request and returns the parsed envelope payload.
func (c *Client) Get(ctx context.Context, path string) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body and returns the parsed
// envelope payload.
func (c *Client) Post(ctx context.Context, path string, payload map[string]any) (gjson.Result, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload map[string]any) (gjson.Result, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("office: marshal request %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("office: build request %s: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("office: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("office: read response %s: %w", path, err)
	}

	c.logger.Debug("office.request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	result := gjson.ParseBytes(data)

	if !result.Get("success").Bool() {
		msg := result.Get("error").String()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return result, fmt.Errorf("office: %s %s failed: %s", method, path, msg)
	}

	return result, nil
}
