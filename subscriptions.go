package greenlake

import (
	"context"
	"time"

	"go.uber.org/zap"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
	"github.com/kailas-cloud/greenlake/internal/logger"
	subscriptionuc "github.com/kailas-cloud/greenlake/internal/usecase/subscription"
)

// SubscriptionService manages workspace subscriptions and the automatic
// device subscription policy.
type SubscriptionService struct {
	svc  subscriptionUseCase
	wire *zap.Logger
	obs  *observer
}

// List returns workspace subscriptions matching the filter, sorted by key.
func (s *SubscriptionService) List(ctx context.Context, f SubscriptionFilter) (_ []Subscription, err error) {
	defer func(start time.Time) { s.obs.observe("subscriptions.list", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	subs, err := s.svc.List(ctx, subscriptionuc.Filter{
		Type:                  subTypeOf(f.Type),
		Valid:                 f.Valid,
		Expired:               f.Expired,
		WithAvailableQuantity: f.WithAvailableQuantity,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Subscription, len(subs))
	for i := range subs {
		out[i] = fromDomainSubscription(subs[i])
	}
	return out, nil
}

// Add registers subscription keys with the workspace. One record per
// non-empty key is returned, in input order. Keys already present are
// reported as Warning without being re-sent.
func (s *SubscriptionService) Add(ctx context.Context, keys []string, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("subscriptions.add", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Add(ctx, keys, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// Remove deletes subscriptions from the workspace by key. Partially
// consumed subscriptions are kept and reported as Warning with a
// remediation hint.
func (s *SubscriptionService) Remove(ctx context.Context, keys []string, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("subscriptions.remove", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Remove(ctx, keys, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// SetAutoSubscription enables or disables automatic subscription
// assignment for the given device types.
func (s *SubscriptionService) SetAutoSubscription(
	ctx context.Context, devTypes []DeviceType, enabled bool, opts ...CallOption,
) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("subscriptions.autosubscribe", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	types := make([]domdev.Type, len(devTypes))
	for i := range devTypes {
		types[i] = domdev.Type(devTypes[i])
	}

	items, err := s.svc.SetAutoSubscription(ctx, types, enabled, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// SetAutoRenew toggles automatic renewal per subscription key.
func (s *SubscriptionService) SetAutoRenew(
	ctx context.Context, keys []string, enabled bool, opts ...CallOption,
) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("subscriptions.autorenew", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.SetAutoRenew(ctx, keys, enabled, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

func subTypeOf(t SubscriptionType) domsub.Type {
	return domsub.Type(t)
}
