package device

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/greenlake/internal/domain"
	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
	"github.com/kailas-cloud/greenlake/internal/logger"
	devicerepo "github.com/kailas-cloud/greenlake/internal/repository/device"
)

// Service handles device subscription attachment with per-item status
// reporting.
type Service struct {
	devices Repository
	subs    SubscriptionReader
}

// New creates a device service.
func New(devices Repository, subs SubscriptionReader) *Service {
	return &Service{devices: devices, subs: subs}
}

// List returns workspace devices matching the filter.
func (s *Service) List(ctx context.Context, f devicerepo.Filter) ([]domdev.Device, error) {
	devices, err := s.devices.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devices, nil
}

// Attach attaches one subscription key to devices by serial number.
// Serials that are unknown or not assigned to a service fail locally;
// serials already carrying the key are skipped with a Warning. The
// survivors go out in one PATCH with a comma-joined id list.
func (s *Service) Attach(ctx context.Context, key string, serials []string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	if err := domsub.ValidateKey(key); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidKey)
	}

	tr := status.NewTracker()
	for _, serial := range serials {
		if !tr.Accept(serial) {
			log.Warn("skipping empty device serial")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping subscription attach",
			zap.String("call", "PATCH /devices?id=<id,...>"),
			zap.String("key", key),
			zap.Strings("serials", tr.Pending()),
		)
		return nil, nil
	}

	devices, err := s.devices.List(ctx, devicerepo.Filter{})
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	bySerial := indexBySerial(devices)

	for _, serial := range tr.Pending() {
		dev, ok := bySerial[serial]
		if !ok {
			tr.Fail(serial, "device not found in the workspace", domain.ErrNotFound)
			continue
		}
		if !dev.IsAssigned() {
			tr.Fail(serial,
				"assign the device to a service before attaching a subscription", domain.ErrNotAssigned)
			continue
		}
		if dev.SubscriptionKey() == key {
			tr.Warn(serial, "subscription already attached to this device")
		}
	}

	survivors := tr.Pending()
	if len(survivors) == 0 {
		return tr.Results(), nil
	}

	sub, err := s.findSubscription(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		tr.FailPending("subscription key not found in the workspace", err)
		return tr.Results(), nil
	}
	if sub.AvailableQuantity() < len(survivors) {
		tr.FailPending(
			fmt.Sprintf("subscription has %d available licenses for %d devices",
				sub.AvailableQuantity(), len(survivors)),
			domain.NewQuantityError(key, sub.AvailableQuantity(), len(survivors)),
		)
		return tr.Results(), nil
	}

	ids := make([]string, len(survivors))
	for i, serial := range survivors {
		dev := bySerial[serial]
		ids[i] = dev.ID()
	}
	if err := s.devices.AttachSubscription(ctx, ids, key); err != nil {
		tr.FailPending("subscription attach failed", err)
	} else {
		tr.CompletePending("subscription attached")
	}

	return tr.Results(), nil
}

// Detach clears the subscription on devices by serial number. Devices
// without a subscription are skipped with a Warning.
func (s *Service) Detach(ctx context.Context, serials []string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, serial := range serials {
		if !tr.Accept(serial) {
			log.Warn("skipping empty device serial")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping subscription detach",
			zap.String("call", "PATCH /devices?id=<id,...>"),
			zap.Strings("serials", tr.Pending()),
		)
		return nil, nil
	}

	devices, err := s.devices.List(ctx, devicerepo.Filter{})
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}
	bySerial := indexBySerial(devices)

	for _, serial := range tr.Pending() {
		dev, ok := bySerial[serial]
		if !ok {
			tr.Fail(serial, "device not found in the workspace", domain.ErrNotFound)
			continue
		}
		if !dev.HasSubscription() {
			tr.Warn(serial, "no subscription attached to this device")
		}
	}

	survivors := tr.Pending()
	if len(survivors) == 0 {
		return tr.Results(), nil
	}

	ids := make([]string, len(survivors))
	for i, serial := range survivors {
		dev := bySerial[serial]
		ids[i] = dev.ID()
	}
	if err := s.devices.DetachSubscription(ctx, ids); err != nil {
		tr.FailPending("subscription detach failed", err)
	} else {
		tr.CompletePending("subscription detached")
	}

	return tr.Results(), nil
}

func (s *Service) findSubscription(ctx context.Context, key string) (domsub.Subscription, error) {
	subs, err := s.subs.List(ctx, domsub.TypeDevice)
	if err != nil {
		return domsub.Subscription{}, fmt.Errorf("fetch subscriptions: %w", err)
	}
	for _, sub := range subs {
		if sub.Key() == key {
			return sub, nil
		}
	}
	return domsub.Subscription{}, fmt.Errorf("subscription %s: %w", key, domain.ErrNotFound)
}

func indexBySerial(devices []domdev.Device) map[string]domdev.Device {
	bySerial := make(map[string]domdev.Device, len(devices))
	for _, dev := range devices {
		bySerial[dev.Serial()] = dev
	}
	return bySerial
}
