package device

import (
	"context"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
	devicerepo "github.com/kailas-cloud/greenlake/internal/repository/device"
)

// Repository defines the platform API contract for devices.
type Repository interface {
	List(ctx context.Context, f devicerepo.Filter) ([]domdev.Device, error)
	AttachSubscription(ctx context.Context, ids []string, key string) error
	DetachSubscription(ctx context.Context, ids []string) error
}

// SubscriptionReader fetches subscription state for precondition checks.
type SubscriptionReader interface {
	List(ctx context.Context, subType domsub.Type) ([]domsub.Subscription, error)
}
