package subscription

import (
	"context"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
)

// Repository defines the platform API contract for subscriptions.
type Repository interface {
	List(ctx context.Context, subType domsub.Type) ([]domsub.Subscription, error)
	Create(ctx context.Context, keys []string) error
	Delete(ctx context.Context, id string) error
	SetAutoRenew(ctx context.Context, id string, enabled bool) error
	AutoSubscriptionSettings(ctx context.Context) (map[domdev.Type]bool, error)
	SetAutoSubscription(ctx context.Context, desired map[domdev.Type]bool) error
}
