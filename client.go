package greenlake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/greenlake/internal/domain"
	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
	devicerepo "github.com/kailas-cloud/greenlake/internal/repository/device"
	integrationrepo "github.com/kailas-cloud/greenlake/internal/repository/integration"
	subscriptionrepo "github.com/kailas-cloud/greenlake/internal/repository/subscription"
	"github.com/kailas-cloud/greenlake/internal/transport/glp"
	deviceuc "github.com/kailas-cloud/greenlake/internal/usecase/device"
	integrationuc "github.com/kailas-cloud/greenlake/internal/usecase/integration"
	subscriptionuc "github.com/kailas-cloud/greenlake/internal/usecase/subscription"
)

// Platform defaults. Override with WithEndpoint / WithTokenURL / WithRegions.
const (
	DefaultEndpoint = "https://global.api.greenlake.hpe.com"
	DefaultTokenURL = "https://sso.common.cloud.hpe.com/as/token.oauth2"
)

func defaultRegions() map[string]string {
	return map[string]string{
		"us-west":      "https://us-west2-api.compute.cloud.hpe.com",
		"eu-central":   "https://eu-central1-api.compute.cloud.hpe.com",
		"ap-northeast": "https://ap-northeast1-api.compute.cloud.hpe.com",
	}
}

// Внутренние интерфейсы для подмены в тестах.
type subscriptionUseCase interface {
	List(ctx context.Context, f subscriptionuc.Filter) ([]domsub.Subscription, error)
	Add(ctx context.Context, keys []string, dryRun bool) ([]status.Item, error)
	Remove(ctx context.Context, keys []string, dryRun bool) ([]status.Item, error)
	SetAutoSubscription(ctx context.Context, devTypes []domdev.Type, enabled, dryRun bool) ([]status.Item, error)
	SetAutoRenew(ctx context.Context, keys []string, enabled, dryRun bool) ([]status.Item, error)
}

type deviceUseCase interface {
	List(ctx context.Context, f devicerepo.Filter) ([]domdev.Device, error)
	Attach(ctx context.Context, key string, serials []string, dryRun bool) ([]status.Item, error)
	Detach(ctx context.Context, serials []string, dryRun bool) ([]status.Item, error)
}

type integrationUseCase interface {
	List(ctx context.Context, f integrationuc.Filter) ([]domint.Integration, error)
	Deploy(ctx context.Context, spec domint.Spec, dryRun bool) ([]status.Item, error)
	Update(ctx context.Context, name string, spec domint.Spec, dryRun bool) ([]status.Item, error)
	Remove(ctx context.Context, names []string, dryRun bool) ([]status.Item, error)
	Test(ctx context.Context, name string, dryRun bool) ([]status.Item, error)
}

// Client is the greenlake SDK entry point.
type Client struct {
	subSvc         subscriptionUseCase
	devSvc         deviceUseCase
	integrationFor func(region string) (integrationUseCase, error)
	defaultRegion  string
	wire           *zap.Logger
	obs            *observer
}

// New creates a greenlake Client. Credentials are validated before any
// request is built; the token itself is fetched lazily on first use.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		endpoint: DefaultEndpoint,
		tokenURL: DefaultTokenURL,
		regions:  defaultRegions(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.region != "" {
		if _, ok := cfg.regions[cfg.region]; !ok {
			return nil, fmt.Errorf("greenlake: region %q: %w", cfg.region, domain.ErrInvalidRegion)
		}
	}

	wire := cfg.transportLogger
	if wire == nil {
		wire = zap.NewNop()
	}

	transport, err := glp.NewClient(&glp.Config{
		Endpoint:         cfg.endpoint,
		TokenURL:         cfg.tokenURL,
		ClientID:         cfg.clientID,
		ClientSecret:     cfg.clientSecret,
		Regions:          cfg.regions,
		RetryAttempts:    cfg.retryAttempts,
		RetryMaxInterval: cfg.retryMaxInterval,
		Logger:           wire,
		HTTPClient:       cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("greenlake: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(transport, cfg, wire, obs), nil
}

func wireClient(transport *glp.Client, cfg *clientConfig, wire *zap.Logger, obs *observer) *Client {
	subRepo := subscriptionrepo.New(transport)
	devRepo := devicerepo.New(transport)

	subSvc := subscriptionuc.New(subRepo)
	if cfg.maxBatchKeys > 0 {
		subSvc = subSvc.WithMaxBatchKeys(cfg.maxBatchKeys)
	}
	devSvc := deviceuc.New(devRepo, subRepo)

	pollInterval := cfg.pollInterval
	integrationFor := func(region string) (integrationUseCase, error) {
		base, err := transport.Resolve(region)
		if err != nil {
			return nil, err
		}
		svc := integrationuc.New(integrationrepo.New(transport, base))
		if pollInterval > 0 {
			svc = svc.WithPollInterval(pollInterval)
		}
		return svc, nil
	}

	return &Client{
		subSvc:         subSvc,
		devSvc:         devSvc,
		integrationFor: integrationFor,
		defaultRegion:  cfg.region,
		wire:           wire,
		obs:            obs,
	}
}

// Subscriptions returns the subscription management service.
func (c *Client) Subscriptions() *SubscriptionService {
	return &SubscriptionService{svc: c.subSvc, wire: c.wire, obs: c.obs}
}

// Devices returns the device licensing service.
func (c *Client) Devices() *DeviceService {
	return &DeviceService{svc: c.devSvc, wire: c.wire, obs: c.obs}
}

// Integrations returns the external-service integration service for a
// region. An empty region selects the client default (WithRegion).
func (c *Client) Integrations(region string) (*IntegrationService, error) {
	if region == "" {
		region = c.defaultRegion
	}
	if region == "" {
		return nil, fmt.Errorf("greenlake: region required (use WithRegion or pass one): %w", domain.ErrInvalidRegion)
	}
	svc, err := c.integrationFor(region)
	if err != nil {
		return nil, fmt.Errorf("greenlake: %w", err)
	}
	return &IntegrationService{svc: svc, region: region, wire: c.wire, obs: c.obs}, nil
}
