package subscription

import (
	"fmt"
	"time"

	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
)

// subscriptionRow is the JSON shape of one subscription record.
type subscriptionRow struct {
	ID                string `json:"id"`
	Key               string `json:"key"`
	SubscriptionType  string `json:"subscriptionType"`
	Tier              string `json:"tier"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity int    `json:"availableQuantity"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	AutoRenew         bool   `json:"autoRenew"`
}

// toDomain hydrates a domain Subscription from an API row.
func (r subscriptionRow) toDomain() (domsub.Subscription, error) {
	start, err := parseTime(r.StartTime)
	if err != nil {
		return domsub.Subscription{}, fmt.Errorf("subscription %s: invalid startTime: %w", r.Key, err)
	}
	end, err := parseTime(r.EndTime)
	if err != nil {
		return domsub.Subscription{}, fmt.Errorf("subscription %s: invalid endTime: %w", r.Key, err)
	}
	return domsub.Reconstruct(
		r.ID, r.Key, domsub.Type(r.SubscriptionType), r.Tier,
		r.Quantity, r.AvailableQuantity, start, end, r.AutoRenew,
	), nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// keyRow is one key entry in a batched create request.
type keyRow struct {
	Key string `json:"key"`
}

// createRequest is the batched subscription create payload.
type createRequest struct {
	Subscriptions []keyRow `json:"subscriptions"`
}

// autoSubscribeRow is one per-device-type policy entry.
type autoSubscribeRow struct {
	DeviceType string `json:"deviceType"`
	Status     string `json:"status"`
}

// autoSubscribeRequest is the policy PATCH payload.
type autoSubscribeRequest struct {
	Settings []autoSubscribeRow `json:"settings"`
}
