// Package integration implements the Compute Ops Management
// external-services resource client. Unlike subscriptions and devices,
// external services live on regional COM endpoints, so the repository
// is constructed with a resolved regional base URL and passes absolute
// URLs to the dispatcher.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
)

const (
	servicesPath   = "compute-ops-mgmt/v1/external-services"
	activitiesPath = "compute-ops-mgmt/v1/activities"
)

// API is the dispatcher contract consumed by the repository.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
	List(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error)
}

// Repo issues external-service requests against a regional COM endpoint.
type Repo struct {
	api  API
	base string
}

// New creates an integration repository for a resolved regional base URL.
func New(api API, regionalBase string) *Repo {
	return &Repo{api: api, base: strings.TrimSuffix(regionalBase, "/")}
}

func (r *Repo) url(parts ...string) string {
	return r.base + "/" + strings.Join(parts, "/")
}

// List fetches all deployed external services in the region.
func (r *Repo) List(ctx context.Context) ([]domint.Integration, error) {
	rows, err := r.api.List(ctx, r.url(servicesPath), nil)
	if err != nil {
		return nil, fmt.Errorf("list external services: %w", err)
	}

	integrations := make([]domint.Integration, 0, len(rows))
	for _, raw := range rows {
		var row integrationRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal external service: %w", err)
		}
		ig, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, ig)
	}
	return integrations, nil
}

// Get fetches one external service by id.
func (r *Repo) Get(ctx context.Context, id string) (domint.Integration, error) {
	data, err := r.api.Do(ctx, http.MethodGet, r.url(servicesPath, url.PathEscape(id)), nil, nil)
	if err != nil {
		return domint.Integration{}, fmt.Errorf("get external service %s: %w", id, err)
	}
	var row integrationRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domint.Integration{}, fmt.Errorf("unmarshal external service: %w", err)
	}
	return row.toDomain()
}

// Create deploys a new external service. The create call returns
// before provisioning finishes; callers poll Get until the state is
// terminal.
func (r *Repo) Create(ctx context.Context, spec domint.Spec) (domint.Integration, error) {
	data, err := r.api.Do(ctx, http.MethodPost, r.url(servicesPath), nil, specToBody(spec))
	if err != nil {
		return domint.Integration{}, fmt.Errorf("deploy external service %s: %w", spec.Name(), err)
	}
	var row integrationRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domint.Integration{}, fmt.Errorf("unmarshal external service: %w", err)
	}
	return row.toDomain()
}

// Update modifies endpoint or credentials of an existing service.
func (r *Repo) Update(ctx context.Context, id string, spec domint.Spec) (domint.Integration, error) {
	data, err := r.api.Do(ctx, http.MethodPatch, r.url(servicesPath, url.PathEscape(id)), nil, specToBody(spec))
	if err != nil {
		return domint.Integration{}, fmt.Errorf("update external service %s: %w", id, err)
	}
	var row integrationRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domint.Integration{}, fmt.Errorf("unmarshal external service: %w", err)
	}
	return row.toDomain()
}

// Delete removes an external service.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.api.Do(ctx, http.MethodDelete, r.url(servicesPath, url.PathEscape(id)), nil, nil); err != nil {
		return fmt.Errorf("delete external service %s: %w", id, err)
	}
	return nil
}

// Test triggers a connectivity test. The result surfaces later as an
// activity-log record; callers poll Activities.
func (r *Repo) Test(ctx context.Context, id string) error {
	if _, err := r.api.Do(ctx, http.MethodPost, r.url(servicesPath, url.PathEscape(id), "test"), nil, nil); err != nil {
		return fmt.Errorf("test external service %s: %w", id, err)
	}
	return nil
}

// Activities fetches activity-log records produced by one external service.
func (r *Repo) Activities(ctx context.Context, source string) ([]domint.Activity, error) {
	query := url.Values{"source": []string{source}}
	rows, err := r.api.List(ctx, r.url(activitiesPath), query)
	if err != nil {
		return nil, fmt.Errorf("list activities for %s: %w", source, err)
	}

	activities := make([]domint.Activity, 0, len(rows))
	for _, raw := range rows {
		var row activityRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal activity: %w", err)
		}
		a, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}
