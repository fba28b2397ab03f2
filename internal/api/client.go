package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/autodev/autodev/pkg/config"
)

type client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*client)(nil)

// NewClient creates a client for the engine configured in cfg.
func NewClient(cfg *config.Config) (Client, error) {
	return NewClientWithBaseURL(cfg.GetAPIURL(), &http.Client{})
}

// NewClientWithBaseURL creates a client for an explicit engine address.
// A nil httpClient gets one without a timeout; calls end when ctx does.
func NewClientWithBaseURL(baseURL string, httpClient *http.Client) (Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: missing host", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// request performs a single HTTP call. Failed calls are not retried: the
// dashboard's next poll is the retry.
func (c *client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL + "/" + path

	slog.Debug("API request", "method", method, "path", path, "url", reqURL)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Source", "cli")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		slog.Warn("HTTP request failed", "error", err, "method", method, "path", path, "duration", duration)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Deferred close, error not actionable

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("API response",
		"statusCode", resp.StatusCode,
		"responseSize", len(respBody),
		"duration", duration,
		"method", method,
		"path", path,
	)

	if resp.StatusCode < http.StatusBadRequest {
		return respBody, nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Text() != "" {
		statusErr.Message = errResp.Text()
	} else {
		statusErr.Message = strings.TrimSpace(string(respBody))
	}

	slog.Error("API error", "statusCode", resp.StatusCode, "message", statusErr.Message, "method", method, "path", path)
	return nil, statusErr
}

// Deploy submits a deployment. The response body is not inspected.
func (c *client) Deploy(ctx context.Context, req DeployRequest) error {
	_, err := c.request(ctx, http.MethodPost, "deploy", req)
	return err
}

// GetStatus fetches the current job status and logs.
func (c *client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	body, err := c.request(ctx, http.MethodGet, "status", nil)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &status, nil
}

// Stop asks the engine to stop the running job. The call carries no body.
func (c *client) Stop(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPost, "stop", nil)
	return err
}
