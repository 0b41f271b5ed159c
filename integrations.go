package greenlake

import (
	"context"
	"time"

	"go.uber.org/zap"

	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
	"github.com/kailas-cloud/greenlake/internal/logger"
	integrationuc "github.com/kailas-cloud/greenlake/internal/usecase/integration"
)

// IntegrationService manages external-service integrations in one
// Compute Ops Management region.
type IntegrationService struct {
	svc    integrationUseCase
	region string
	wire   *zap.Logger
	obs    *observer
}

// Region returns the region this service operates in.
func (s *IntegrationService) Region() string { return s.region }

// List returns deployed external services matching the filter.
func (s *IntegrationService) List(ctx context.Context, f IntegrationFilter) (_ []Integration, err error) {
	defer func(start time.Time) { s.obs.observe("integrations.list", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.List(ctx, integrationuc.Filter{
		Name:    f.Name,
		IntType: domint.Type(f.Type),
	})
	if err != nil {
		return nil, err
	}

	out := make([]Integration, len(items))
	for i := range items {
		out[i] = fromDomainIntegration(items[i])
	}
	return out, nil
}

// Deploy creates an integration and waits for it to reach a terminal
// state. The wait polls once a second and is bounded only by ctx. A
// name already deployed is reported as Warning.
func (s *IntegrationService) Deploy(ctx context.Context, spec IntegrationSpec, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("integrations.deploy", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	domSpec, err := toDomainSpec(spec)
	if err != nil {
		return nil, err
	}

	items, err := s.svc.Deploy(ctx, domSpec, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// Update replaces the configuration of the named integration. An
// unknown name is reported as Failed.
func (s *IntegrationService) Update(ctx context.Context, name string, spec IntegrationSpec, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("integrations.update", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	domSpec, err := toDomainSpec(spec)
	if err != nil {
		return nil, err
	}

	items, err := s.svc.Update(ctx, name, domSpec, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// Remove deletes integrations by name. Names with no deployed
// integration are reported as Warning.
func (s *IntegrationService) Remove(ctx context.Context, names []string, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("integrations.remove", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Remove(ctx, names, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}

// Test asks the platform to exercise the named integration and waits
// for the resulting activity record, reported as the item detail. The
// wait polls once a second and is bounded only by ctx.
func (s *IntegrationService) Test(ctx context.Context, name string, opts ...CallOption) (_ []BulkResult, err error) {
	defer func(start time.Time) { s.obs.observe("integrations.test", start, err) }(time.Now())
	ctx = logger.WithContext(ctx, s.wire)

	items, err := s.svc.Test(ctx, name, evalCallOptions(opts).dryRun)
	if err != nil {
		return nil, err
	}
	return fromStatusItems(items), nil
}
