package integration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/greenlake/internal/domain"
	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	"github.com/kailas-cloud/greenlake/internal/logger"
)

// DefaultPollInterval is the fixed delay between status polls. The COM
// API gives no synchronous confirmation for deploy and test, so the
// client polls until the server-side state flips.
const DefaultPollInterval = time.Second

// Service handles external-service integration operations for one region.
type Service struct {
	repo     Repository
	interval time.Duration
	now      func() time.Time
}

// New creates an integration service.
func New(repo Repository) *Service {
	return &Service{repo: repo, interval: DefaultPollInterval, now: time.Now}
}

// WithPollInterval overrides the fixed poll delay.
func (s *Service) WithPollInterval(d time.Duration) *Service {
	if d > 0 {
		s.interval = d
	}
	return s
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Filter narrows an integration listing.
type Filter struct {
	Name    string
	IntType domint.Type
}

// List returns deployed external services matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]domint.Integration, error) {
	integrations, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}

	out := integrations[:0]
	for _, ig := range integrations {
		if f.Name != "" && ig.Name() != f.Name {
			continue
		}
		if f.IntType != "" && ig.IntType() != f.IntType {
			continue
		}
		out = append(out, ig)
	}
	return out, nil
}

// Deploy provisions a new external service and polls the read endpoint
// at the fixed interval until the state is terminal. The poll has no
// attempt cap; cancel the context to stop waiting. A name already
// deployed is skipped with a Warning.
func (s *Service) Deploy(ctx context.Context, spec domint.Spec, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	if dryRun {
		log.Info("dry-run: skipping integration deploy",
			zap.String("call", "POST /compute-ops-mgmt/v1/external-services"),
			zap.String("name", spec.Name()),
			zap.String("type", string(spec.IntType())),
		)
		return nil, nil
	}

	name := spec.Name()
	tr := status.NewTracker()
	tr.Accept(name)

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch integrations: %w", err)
	}
	for _, ig := range existing {
		if ig.Name() == name {
			tr.Warn(name, "external service is already deployed")
			return tr.Results(), nil
		}
	}

	created, err := s.repo.Create(ctx, spec)
	if err != nil {
		tr.Fail(name, "external service deployment failed", err)
		return tr.Results(), nil
	}

	ig, err := s.waitTerminal(ctx, created.ID())
	if err != nil {
		return nil, err
	}
	if ig.State() == domint.StateError {
		tr.Fail(name, "external service entered ERROR state",
			fmt.Errorf("external service %s entered ERROR state", name))
		return tr.Results(), nil
	}
	tr.Complete(name, fmt.Sprintf("external service deployed, state %s", ig.State()))
	return tr.Results(), nil
}

// Update modifies endpoint or credentials of a deployed service. An
// unknown name fails the item without touching the API.
func (s *Service) Update(ctx context.Context, name string, spec domint.Spec, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	if dryRun {
		log.Info("dry-run: skipping integration update",
			zap.String("call", "PATCH /compute-ops-mgmt/v1/external-services/{id}"),
			zap.String("name", name),
		)
		return nil, nil
	}

	tr := status.NewTracker()
	tr.Accept(name)

	ig, ok, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		tr.Fail(name, "external service is not deployed", domain.ErrNotFound)
		return tr.Results(), nil
	}
	if _, err := s.repo.Update(ctx, ig.ID(), spec); err != nil {
		tr.Fail(name, "external service update failed", err)
		return tr.Results(), nil
	}
	tr.Complete(name, "external service updated")
	return tr.Results(), nil
}

// Remove deletes external services by name with per-item status
// reporting. Names not deployed are skipped with a Warning.
func (s *Service) Remove(ctx context.Context, names []string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	tr := status.NewTracker()
	for _, name := range names {
		if !tr.Accept(name) {
			log.Warn("skipping empty integration name")
		}
	}

	if dryRun {
		log.Info("dry-run: skipping integration removal",
			zap.String("call", "DELETE /compute-ops-mgmt/v1/external-services/{id}"),
			zap.Strings("names", tr.Pending()),
		)
		return nil, nil
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch integrations: %w", err)
	}
	byName := make(map[string]domint.Integration, len(existing))
	for _, ig := range existing {
		byName[ig.Name()] = ig
	}

	for _, name := range tr.Pending() {
		ig, ok := byName[name]
		if !ok {
			tr.Warn(name, "external service is not deployed")
			continue
		}
		if err := s.repo.Delete(ctx, ig.ID()); err != nil {
			tr.Fail(name, "external service removal failed", err)
			continue
		}
		tr.Complete(name, "external service removed")
	}

	return tr.Results(), nil
}

// Test triggers a connectivity test and polls the activity log at the
// fixed interval until a record newer than the pre-test timestamp
// appears for this service. Unbounded; cancel the context to stop. An
// unknown name fails the item without touching the API.
func (s *Service) Test(ctx context.Context, name string, dryRun bool) ([]status.Item, error) {
	log := logger.FromContext(ctx)

	if dryRun {
		log.Info("dry-run: skipping integration test",
			zap.String("call", "POST /compute-ops-mgmt/v1/external-services/{id}/test"),
			zap.String("name", name),
		)
		return nil, nil
	}

	tr := status.NewTracker()
	tr.Accept(name)

	ig, ok, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		tr.Fail(name, "external service is not deployed", domain.ErrNotFound)
		return tr.Results(), nil
	}

	since := s.now()
	if err := s.repo.Test(ctx, ig.ID()); err != nil {
		tr.Fail(name, "connectivity test failed", err)
		return tr.Results(), nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		activities, err := s.repo.Activities(ctx, ig.ID())
		if err != nil {
			return nil, fmt.Errorf("poll activities for %s: %w", name, err)
		}
		for i := range activities {
			if activities[i].NewerThan(since) {
				tr.Complete(name, fmt.Sprintf("%s: %s", activities[i].Result(), activities[i].Message()))
				return tr.Results(), nil
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) waitTerminal(ctx context.Context, id string) (domint.Integration, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		ig, err := s.repo.Get(ctx, id)
		if err != nil {
			return domint.Integration{}, fmt.Errorf("poll integration %s: %w", id, err)
		}
		if ig.State().Terminal() {
			return ig, nil
		}
		select {
		case <-ctx.Done():
			return domint.Integration{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) findByName(ctx context.Context, name string) (domint.Integration, bool, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return domint.Integration{}, false, fmt.Errorf("fetch integrations: %w", err)
	}
	for _, ig := range existing {
		if ig.Name() == name {
			return ig, true, nil
		}
	}
	return domint.Integration{}, false, nil
}
