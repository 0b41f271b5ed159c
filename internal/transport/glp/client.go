// Package glp implements the authenticated HTTP dispatcher for the
// GreenLake Platform and Compute Ops Management REST APIs: OAuth2
// client-credentials auth, retry with exponential backoff, offset
// pagination, and structured error decoding.
package glp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/kailas-cloud/greenlake/internal/domain"
	"github.com/kailas-cloud/greenlake/internal/metrics"
)

const (
	defaultRetryAttempts    = 3
	defaultRetryMaxInterval = 10 * time.Second
	defaultRequestTimeout   = 30 * time.Second
)

// Config holds the dispatcher settings.
type Config struct {
	Endpoint     string // platform API base URL
	TokenURL     string
	ClientID     string
	ClientSecret string
	Regions      map[string]string // region name -> COM base URL

	RetryAttempts    int
	RetryMaxInterval time.Duration

	Logger *zap.Logger

	// HTTPClient overrides the authenticated client. Used by tests to
	// bypass the token exchange.
	HTTPClient *http.Client
}

// Client is the authenticated request dispatcher shared by all
// resource repositories.
type Client struct {
	base          *url.URL
	regions       map[string]string
	httpClient    *http.Client
	logger        *zap.Logger
	retryAttempts uint64
	maxInterval   time.Duration
}

// NewClient validates credentials and creates a dispatcher. Missing
// credentials fail fast before any request is built.
func NewClient(cfg *Config) (*Client, error) {
	base, err := url.Parse(cfg.Endpoint)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("glp: invalid endpoint %q", cfg.Endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("glp: client credentials required: %w", domain.ErrNoSession)
		}
		if cfg.TokenURL == "" {
			return nil, fmt.Errorf("glp: token URL required: %w", domain.ErrNoSession)
		}
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = defaultRequestTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	attempts := uint64(defaultRetryAttempts)
	if cfg.RetryAttempts > 0 {
		attempts = uint64(cfg.RetryAttempts)
	}
	maxInterval := cfg.RetryMaxInterval
	if maxInterval <= 0 {
		maxInterval = defaultRetryMaxInterval
	}

	return &Client{
		base:          base,
		regions:       cfg.Regions,
		httpClient:    httpClient,
		logger:        logger,
		retryAttempts: attempts,
		maxInterval:   maxInterval,
	}, nil
}

// Resolve returns the regional COM base URL for a region name.
func (c *Client) Resolve(region string) (string, error) {
	base, ok := c.regions[region]
	if !ok {
		return "", fmt.Errorf("glp: unknown region %q: %w", region, domain.ErrInvalidRegion)
	}
	return base, nil
}

// Regions returns the known region names.
func (c *Client) Regions() []string {
	names := make([]string, 0, len(c.regions))
	for name := range c.regions {
		names = append(names, name)
	}
	return names
}

// Do issues one JSON request and returns the raw response body.
// path is joined to the platform base URL unless it is already
// absolute (regional COM resources pass absolute URLs).
// Retries 429 and 5xx with exponential backoff; 4xx are permanent.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	target, err := c.target(path, query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("glp: marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	start := time.Now()

	operation := func() ([]byte, error) {
		return c.doOnce(ctx, method, target, payload, requestID)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = c.maxInterval
	if bo.InitialInterval > c.maxInterval {
		bo.InitialInterval = c.maxInterval
	}
	out, err := backoff.RetryNotifyWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, c.retryAttempts), ctx),
		func(err error, next time.Duration) {
			metrics.APIRetriesTotal.Inc()
			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("url", target),
				zap.String("request_id", requestID),
				zap.Duration("next_attempt_in", next),
				zap.Error(err),
			)
		},
	)

	duration := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(duration.Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.APIRequestsTotal.WithLabelValues(method, "success").Inc()
	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
		zap.Duration("duration", duration),
	)
	return out, nil
}

func (c *Client) doOnce(ctx context.Context, method, target string, payload []byte, requestID string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("glp: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failures (connect reset, timeout) are retryable.
		return nil, fmt.Errorf("glp: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("glp: read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := decodeAPIError(resp.StatusCode, data)
	metrics.APIErrorsTotal.WithLabelValues(apiErr.ErrorCode).Inc()
	if retryable(resp.StatusCode) {
		return nil, apiErr
	}
	return nil, backoff.Permanent(error(apiErr))
}

// retryable reports whether a status code warrants another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// envelope is the pagination wrapper used by list endpoints.
type envelope struct {
	Items  []json.RawMessage `json:"items"`
	Count  int               `json:"count"`
	Offset int               `json:"offset"`
	Total  int               `json:"total"`
}

// List issues GET requests following the offset pagination envelope
// until every page is consumed. Endpoints that return a bare JSON
// array are handled transparently.
func (c *Client) List(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	q := url.Values{}
	for k, vs := range query {
		q[k] = vs
	}

	var all []json.RawMessage
	offset := 0
	for {
		if offset > 0 {
			q.Set("offset", fmt.Sprintf("%d", offset))
		}
		data, err := c.Do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, fmt.Errorf("glp: unmarshal list: %w", err)
			}
			return append(all, items...), nil
		}

		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("glp: unmarshal page: %w", err)
		}
		all = append(all, env.Items...)

		offset = env.Offset + len(env.Items)
		if len(env.Items) == 0 || offset >= env.Total {
			return all, nil
		}
	}
}

func (c *Client) target(path string, query url.Values) (string, error) {
	var u *url.URL
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		parsed, err := url.Parse(path)
		if err != nil {
			return "", fmt.Errorf("glp: invalid URL %q: %w", path, err)
		}
		u = parsed
	} else {
		u = c.base.JoinPath(path)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}
