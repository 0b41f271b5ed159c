package greenlake

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	endpoint     string
	tokenURL     string
	clientID     string
	clientSecret string

	region  string
	regions map[string]string

	retryAttempts    int
	retryMaxInterval time.Duration
	pollInterval     time.Duration
	maxBatchKeys     int

	httpClient *http.Client

	logger          *slog.Logger
	transportLogger *zap.Logger
	metricsReg      prometheus.Registerer
}

// WithCredentials sets the OAuth2 client-credentials pair used against
// the platform token endpoint. Required unless WithHTTPClient is used.
func WithCredentials(clientID, clientSecret string) Option {
	return optionFunc(func(c *clientConfig) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	})
}

// WithEndpoint overrides the platform API base URL.
func WithEndpoint(endpoint string) Option {
	return optionFunc(func(c *clientConfig) {
		c.endpoint = endpoint
	})
}

// WithTokenURL overrides the OAuth2 token endpoint.
func WithTokenURL(tokenURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.tokenURL = tokenURL
	})
}

// WithRegion sets the default region for Compute Ops Management resources.
func WithRegion(region string) Option {
	return optionFunc(func(c *clientConfig) {
		c.region = region
	})
}

// WithRegions replaces the built-in region registry.
func WithRegions(regions map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.regions = regions
	})
}

// WithRetryAttempts sets the maximum transport retry count for 429/5xx
// responses. Default: 3.
func WithRetryAttempts(attempts int) Option {
	return optionFunc(func(c *clientConfig) {
		c.retryAttempts = attempts
	})
}

// WithRetryMaxInterval caps the exponential backoff delay between
// transport retries. Default: 10 seconds.
func WithRetryMaxInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.retryMaxInterval = d
	})
}

// WithPollInterval overrides the fixed delay between deploy/test
// status polls. Default: 1 second.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.pollInterval = d
	})
}

// WithMaxBatchKeys overrides the cap on keys per batched subscription
// create. Default: 5, the platform API limit.
func WithMaxBatchKeys(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchKeys = n
	})
}

// WithHTTPClient replaces the authenticated HTTP client, bypassing the
// token exchange. Intended for tests against stub servers.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithTransportLogger enables wire-level logging (requests, retries,
// dry-run call descriptions) on the given zap logger.
func WithTransportLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.transportLogger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// CallOption configures a single operation.
type CallOption interface {
	applyCall(*callConfig)
}

type callOptionFunc func(*callConfig)

func (f callOptionFunc) applyCall(c *callConfig) { f(c) }

type callConfig struct {
	dryRun bool
}

// DryRun substitutes a descriptive no-op for the real call: the
// intended request is described on the transport logger and the
// operation returns no status records.
func DryRun() CallOption {
	return callOptionFunc(func(c *callConfig) {
		c.dryRun = true
	})
}

func evalCallOptions(opts []CallOption) callConfig {
	var cfg callConfig
	for _, o := range opts {
		o.applyCall(&cfg)
	}
	return cfg
}
