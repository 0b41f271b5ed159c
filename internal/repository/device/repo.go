// Package device implements the GreenLake Platform device resource client.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
)

const devicesPath = "devices"

// API is the dispatcher contract consumed by the repository.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
	List(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error)
}

// Repo issues device requests against the platform API.
type Repo struct {
	api API
}

// New creates a device repository.
func New(api API) *Repo {
	return &Repo{api: api}
}

// Filter narrows device listing on the server side.
type Filter struct {
	Serial  string
	DevType domdev.Type
}

// List fetches workspace devices matching the filter.
func (r *Repo) List(ctx context.Context, f Filter) ([]domdev.Device, error) {
	query := url.Values{}
	if f.Serial != "" {
		query.Set("serialNumber", f.Serial)
	}
	if f.DevType != "" {
		query.Set("deviceType", string(f.DevType))
	}
	rows, err := r.api.List(ctx, devicesPath, query)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	devices := make([]domdev.Device, 0, len(rows))
	for _, raw := range rows {
		var row deviceRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal device: %w", err)
		}
		devices = append(devices, row.toDomain())
	}
	return devices, nil
}

// AttachSubscription attaches a subscription key to devices in one
// PATCH. Device ids are passed comma-joined in the query string; the
// upstream API states no batch cap for this endpoint.
func (r *Repo) AttachSubscription(ctx context.Context, ids []string, key string) error {
	query := url.Values{"id": []string{strings.Join(ids, ",")}}
	body := subscriptionPatch{Subscription: []keyRef{{Key: key}}}
	if _, err := r.api.Do(ctx, http.MethodPatch, devicesPath, query, body); err != nil {
		return fmt.Errorf("attach subscription %s: %w", key, err)
	}
	return nil
}

// DetachSubscription clears the subscription on devices in one PATCH.
func (r *Repo) DetachSubscription(ctx context.Context, ids []string) error {
	query := url.Values{"id": []string{strings.Join(ids, ",")}}
	body := subscriptionPatch{Subscription: []keyRef{}}
	if _, err := r.api.Do(ctx, http.MethodPatch, devicesPath, query, body); err != nil {
		return fmt.Errorf("detach subscription: %w", err)
	}
	return nil
}
