package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClientOption allows for customization of the client
type ClientOption func(*TwitterClient)

// WithHTTPClient replaces the authenticated HTTP client. Requests sent through
// it are not signed, so it is meant for tests and proxies that sign upstream.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *TwitterClient) {
		c.auth.client = hc
	}
}

// WithRateLimiter overrides the limiter derived from the config.
func WithRateLimiter(l *rate.Limiter) ClientOption {
	return func(c *TwitterClient) {
		c.limiter = l
	}
}

type TwitterClient struct {
	config  *TwitterConfig
	auth    *Authenticator
	logger  *logrus.Logger
	limiter *rate.Limiter
}

// NewTwitterClient creates a new Twitter API client
func NewTwitterClient(config *TwitterConfig, opts ...ClientOption) (*TwitterClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	auth, err := NewAuthenticator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	// RateLimit requests per RateWindow minutes, with the whole window available as burst.
	every := time.Duration(config.RateWindow) * time.Minute / time.Duration(config.RateLimit)

	client := &TwitterClient{
		config:  config,
		auth:    auth,
		logger:  config.Logger,
		limiter: rate.NewLimiter(rate.Every(every), config.RateLimit),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// handleResponse checks for API errors in the response
func (c *TwitterClient) handleResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp struct {
		Title  string         `json:"title"`
		Detail string         `json:"detail"`
		Errors []TwitterError `json:"errors"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	switch {
	case len(errResp.Errors) > 0:
		apiErr.Code = errResp.Errors[0].Code
		apiErr.Message = errResp.Errors[0].Message
	case errResp.Detail != "":
		apiErr.Message = errResp.Detail
	default:
		apiErr.Message = errResp.Title
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"error_code":  apiErr.Code,
		"message":     apiErr.Message,
	}).Error("Twitter API error")

	return apiErr
}

// makeRequest waits for the rate limiter, sends the request and returns the
// response once its status has been checked. Callers own resp.Body, so ctx
// must stay live until it is read; the request timeout is the http.Client's.
func (c *TwitterClient) makeRequest(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		c.logger.WithField("request_body", string(jsonBody)).Debug("Request payload")
	}

	fullURL := c.config.GetEndpoint(endpoint)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := c.auth.SetAuthHeader(req); err != nil {
		return nil, fmt.Errorf("failed to set auth header: %w", err)
	}

	resp, err := c.auth.GetClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	if err := c.handleResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// decodeResponse reads a JSON response body into out and closes it.
func (c *TwitterClient) decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"response":    string(bodyBytes),
	}).Trace("received twitter API response")

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
