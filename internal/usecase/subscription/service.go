package subscription

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/greenlake/internal/domain"
	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
	"github.com/kailas-cloud/greenlake/internal/logger"
)

// MaxBatchKeys is the maximum number of subscription keys accepted per
// batched create. The platform API caps creation batches at 5.
const MaxBatchKeys = 5

// Service handles subscription operations with per-item status reporting.
type Service struct {
	repo         Repository
	now          func() time.Time
	maxBatchKeys int
}

// New creates a subscription service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, maxBatchKeys: MaxBatchKeys}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithMaxBatchKeys overrides the batched-create cap.
func (s *Service) WithMaxBatchKeys(n int) *Service {
	if n > 0 {
		s.maxBatchKeys = n
	}
	return s
}

// Filter narrows a subscription listing. Predicates intersect.
type Filter struct {
	Type                  domsub.Type
	Valid                 bool // endTime after now
	Expired               bool // endTime before now
	WithAvailableQuantity bool // availableQuantity >= 1
}

// List returns workspace subscriptions matching the filter, sorted by key.
func (s *Service) List(ctx context.Context, f Filter) ([]domsub.Subscription, error) {
	subs, err := s.repo.List(ctx, f.Type)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	now := s.now()
	out := subs[:0]
	for _, sub := range subs {
		if f.Valid && !sub.IsValidAt(now) {
			continue
		}
		if f.Expired && sub.IsValidAt(now) {
			continue
		}
		if f.WithAvailableQuantity && !sub.HasAvailable() {
			continue
		}
		out = append(out, sub)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// Add registers subscription keys in the workspace. Keys already
// present are skipped with a Warning; malformed keys fail locally; the
// survivors go out in one batched POST. In dry-run mode no call is
// made, the intended call is described on the context logger, and no
// status records are returned.
func (s *Service) Add(ctx context.Context, keys []string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, key := range keys {
		if !tr.Accept(key) {
			log.Warn("skipping empty subscription key")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping subscription creation",
			zap.String("call", "POST /subscriptions"),
			zap.Strings("keys", tr.Pending()),
		)
		return nil, nil
	}

	for _, key := range tr.Pending() {
		if err := domsub.ValidateKey(key); err != nil {
			tr.Fail(key, err.Error(), domain.ErrInvalidKey)
		}
	}

	// Cap check before any network call, including the state fetch.
	if tr.Len() > s.maxBatchKeys {
		tr.FailPending(
			fmt.Sprintf("batch exceeds %d subscription keys", s.maxBatchKeys),
			domain.ErrBatchTooLarge,
		)
		return tr.Results(), nil
	}

	existing, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch existing subscriptions: %w", err)
	}
	byKey := indexByKey(existing)

	for _, key := range tr.Pending() {
		if _, ok := byKey[key]; ok {
			tr.Warn(key, "subscription already exists in the workspace")
		}
	}

	survivors := tr.Pending()
	if len(survivors) > 0 {
		if err := s.repo.Create(ctx, survivors); err != nil {
			tr.FailPending("subscription creation failed", err)
		} else {
			tr.CompletePending("subscription added to the workspace")
		}
	}

	return tr.Results(), nil
}

// Remove deletes subscriptions by key. A partially consumed key yields
// a Warning with remediation and the delete endpoint is not called.
func (s *Service) Remove(ctx context.Context, keys []string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, key := range keys {
		if !tr.Accept(key) {
			log.Warn("skipping empty subscription key")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping subscription removal",
			zap.String("call", "DELETE /subscriptions/{id}"),
			zap.Strings("keys", tr.Pending()),
		)
		return nil, nil
	}

	existing, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch existing subscriptions: %w", err)
	}
	byKey := indexByKey(existing)

	for _, key := range tr.Pending() {
		sub, ok := byKey[key]
		if !ok {
			tr.Fail(key, "subscription not found in the workspace", domain.ErrNotFound)
			continue
		}
		if !sub.FullyAvailable() {
			tr.Warn(key,
				"subscription is partially consumed; detach devices using this subscription before removing it")
			continue
		}
		if err := s.repo.Delete(ctx, sub.ID()); err != nil {
			tr.Fail(key, "subscription removal failed", err)
			continue
		}
		tr.Complete(key, "subscription removed from the workspace")
	}

	return tr.Results(), nil
}

// SetAutoSubscription enables or disables the automatic license
// assignment policy per device type. Types already in the desired
// state are skipped with a Warning; the survivors go out in one
// batched PATCH.
func (s *Service) SetAutoSubscription(
	ctx context.Context, devTypes []domdev.Type, enabled, dryRun bool,
) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, devType := range devTypes {
		if !tr.Accept(string(devType)) {
			log.Warn("skipping empty device type")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping auto-subscription change",
			zap.String("call", "PATCH /auto-subscription-settings"),
			zap.Bool("enabled", enabled),
			zap.Strings("device_types", tr.Pending()),
		)
		return nil, nil
	}

	for _, name := range tr.Pending() {
		if !domdev.Type(name).IsValid() {
			tr.Fail(name, fmt.Sprintf("unsupported device type %q", name), domain.ErrNotFound)
		}
	}

	settings, err := s.repo.AutoSubscriptionSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch auto-subscription settings: %w", err)
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	for _, name := range tr.Pending() {
		if settings[domdev.Type(name)] == enabled {
			tr.Warn(name, fmt.Sprintf("auto-subscription already %s for this device type", verb))
		}
	}

	survivors := tr.Pending()
	if len(survivors) > 0 {
		desired := make(map[domdev.Type]bool, len(survivors))
		for _, name := range survivors {
			desired[domdev.Type(name)] = enabled
		}
		if err := s.repo.SetAutoSubscription(ctx, desired); err != nil {
			tr.FailPending("auto-subscription change failed", err)
		} else {
			tr.CompletePending(fmt.Sprintf("auto-subscription %s", verb))
		}
	}

	return tr.Results(), nil
}

// SetAutoRenew toggles automatic renewal per subscription key.
func (s *Service) SetAutoRenew(
	ctx context.Context, keys []string, enabled, dryRun bool,
) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, key := range keys {
		if !tr.Accept(key) {
			log.Warn("skipping empty subscription key")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping auto-renew change",
			zap.String("call", "PATCH /subscriptions/{id}"),
			zap.Bool("enabled", enabled),
			zap.Strings("keys", tr.Pending()),
		)
		return nil, nil
	}

	existing, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch existing subscriptions: %w", err)
	}
	byKey := indexByKey(existing)

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	for _, key := range tr.Pending() {
		sub, ok := byKey[key]
		if !ok {
			tr.Fail(key, "subscription not found in the workspace", domain.ErrNotFound)
			continue
		}
		if sub.AutoRenew() == enabled {
			tr.Warn(key, fmt.Sprintf("auto-renew already %s on this subscription", verb))
			continue
		}
		if err := s.repo.SetAutoRenew(ctx, sub.ID(), enabled); err != nil {
			tr.Fail(key, "auto-renew change failed", err)
			continue
		}
		tr.Complete(key, fmt.Sprintf("auto-renew %s", verb))
	}

	return tr.Results(), nil
}

func indexByKey(subs []domsub.Subscription) map[string]domsub.Subscription {
	byKey := make(map[string]domsub.Subscription, len(subs))
	for _, sub := range subs {
		byKey[sub.Key()] = sub
	}
	return byKey
}
