package greenlake

import (
	"context"
	"time"

	"go.uber.org/zap"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	"github.com/kailas-cloud/greenlake/internal/logger"
	devicerepo "github.com/kailas-cloud/greenlake/internal/repository/device"
)

// DeviceService manages subscription assignment on workspace devices.
type DeviceService struct {
	svc  deviceUseCase
	wire *zap.Logger
	obs  *observer
}

// List returns workspace devices matching the filter.
func (s *DeviceService) List(ctx context.Context, f DeviceFilter) (_ []Device, err error) {
	defer func(start time.Time) { s.obs.observe("devices.list", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	devices, err := s.svc.List(ctx, devicerepo.Filter{
		Serial:  f.Serial,
		DevType: domdev.Type(f.Type),
	})
	if err != nil {
		return nil, err
	}

	out := make([]Device, len(devices))
	for i := range devices {
		out[i] = fromDomainDevice(devices[i])
	}
	return out, nil
}

// AttachSubscription applies one subscription key to the devices with
// the given serial numbers. Devices not yet assigned to a service
// application are reported as Failed; devices already carrying the key
// as Warning. The whole batch fails when the subscription lacks
// capacity for every eligible device.
func (s *DeviceService) AttachSubscription(
	ctx context.Context, key string, serials []string, opts ...CallOption,
) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("devices.attach", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Attach(ctx, key, serials, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// DetachSubscription removes subscription assignment from the devices
// with the given serial numbers.
func (s *DeviceService) DetachSubscription(
	ctx context.Context, serials []string, opts ...CallOption,
) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("devices.detach", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Detach(ctx, serials, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}
