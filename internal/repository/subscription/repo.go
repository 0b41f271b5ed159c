// Package subscription implements the GreenLake Platform subscription
// resource client.
package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
)

const (
	subscriptionsPath    = "subscriptions"
	autoSubscribePath    = "auto-subscription-settings"
	autoSubscribeEnabled = "ENABLED"
)

// API is the dispatcher contract consumed by the repository.
type API interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error)
	List(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error)
}

// Repo issues subscription requests against the platform API.
type Repo struct {
	api API
}

// New creates a subscription repository.
func New(api API) *Repo {
	return &Repo{api: api}
}

// List fetches all workspace subscriptions, optionally filtered by
// type on the server side.
func (r *Repo) List(ctx context.Context, subType domsub.Type) ([]domsub.Subscription, error) {
	query := url.Values{}
	if subType != "" {
		query.Set("subscriptionType", string(subType))
	}
	rows, err := r.api.List(ctx, subscriptionsPath, query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	subs := make([]domsub.Subscription, 0, len(rows))
	for _, raw := range rows {
		var row subscriptionRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal subscription: %w", err)
		}
		sub, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Create submits subscription keys in one batched POST.
func (r *Repo) Create(ctx context.Context, keys []string) error {
	rows := make([]keyRow, len(keys))
	for i, key := range keys {
		rows[i] = keyRow{Key: key}
	}
	body := createRequest{Subscriptions: rows}
	if _, err := r.api.Do(ctx, http.MethodPost, subscriptionsPath, nil, body); err != nil {
		return fmt.Errorf("create subscriptions: %w", err)
	}
	return nil
}

// Delete removes a subscription by its server-assigned id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	path := subscriptionsPath + "/" + url.PathEscape(id)
	if _, err := r.api.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete subscription %s: %w", id, err)
	}
	return nil
}

// SetAutoRenew toggles automatic renewal on a subscription.
func (r *Repo) SetAutoRenew(ctx context.Context, id string, enabled bool) error {
	path := subscriptionsPath + "/" + url.PathEscape(id)
	body := map[string]bool{"autoRenew": enabled}
	if _, err := r.api.Do(ctx, http.MethodPatch, path, nil, body); err != nil {
		return fmt.Errorf("set auto-renew on %s: %w", id, err)
	}
	return nil
}

// AutoSubscriptionSettings fetches the per-device-type auto-subscription
// policy currently active in the workspace.
func (r *Repo) AutoSubscriptionSettings(ctx context.Context) (map[domdev.Type]bool, error) {
	rows, err := r.api.List(ctx, autoSubscribePath, nil)
	if err != nil {
		return nil, fmt.Errorf("get auto-subscription settings: %w", err)
	}

	settings := make(map[domdev.Type]bool, len(rows))
	for _, raw := range rows {
		var row autoSubscribeRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("unmarshal auto-subscription setting: %w", err)
		}
		settings[domdev.Type(row.DeviceType)] = row.Status == autoSubscribeEnabled
	}
	return settings, nil
}

// SetAutoSubscription submits the desired policy for the given device
// types in one batched PATCH.
func (r *Repo) SetAutoSubscription(ctx context.Context, desired map[domdev.Type]bool) error {
	rows := make([]autoSubscribeRow, 0, len(desired))
	for devType, enabled := range desired {
		st := "DISABLED"
		if enabled {
			st = autoSubscribeEnabled
		}
		rows = append(rows, autoSubscribeRow{DeviceType: string(devType), Status: st})
	}
	body := autoSubscribeRequest{Settings: rows}
	if _, err := r.api.Do(ctx, http.MethodPatch, autoSubscribePath, nil, body); err != nil {
		return fmt.Errorf("set auto-subscription settings: %w", err)
	}
	return nil
}
