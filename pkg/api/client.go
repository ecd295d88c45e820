package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"entrance-client/pkg/jwtutil"
	"entrance-client/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is a JSON REST client for the entrance backend. The credential
// cookie set by the backend on login rides the cookie jar; the client never
// reads or writes it directly.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger

	// legacyToken is the superseded bearer-token credential path. It is
	// only attached when explicitly set and not yet expired.
	legacyToken string
}

// NewClient creates a new API client instance
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New never fails with a nil options struct
		panic("failed to create cookie jar: " + err.Error())
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		Logger: logger,
	}
}

// SetLegacyToken enables the superseded bearer-token header path
func (c *Client) SetLegacyToken(token string) {
	if token == "" {
		c.legacyToken = ""
		return
	}
	if expiry, err := jwtutil.InspectExpiry(token); err == nil && !expiry.IsZero() && time.Now().After(expiry) {
		c.Logger.Warn("Ignoring expired legacy bearer token", zap.Time("expiry", expiry))
		return
	}
	c.legacyToken = token
}

// Get performs a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post performs a POST request with an optional JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

// Put performs a PUT request with an optional JSON body
func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

// Patch performs a PATCH request with an optional JSON body
func (c *Client) Patch(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, endpoint, body, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	start := time.Now()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.legacyToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.legacyToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		prometheus.ObserveAPIRequest(endpoint, method, 0, start)
		c.Logger.Warn("API request failed before reaching the backend",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		prometheus.ObserveAPIRequest(endpoint, method, 0, start)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	prometheus.ObserveAPIRequest(endpoint, method, resp.StatusCode, start)

	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")

	// Redirects the transport follows never reach this point, so any 3xx
	// left over (304, stripped Location) is a failure like the 4xx/5xx ones
	if resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, contentType, respBody)
		c.Logger.Debug("API request rejected",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	c.Logger.Debug("API request completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	// 204 and non-JSON bodies resolve empty
	if resp.StatusCode == http.StatusNoContent || !isJSON || out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}
