package integration

import (
	"context"

	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
)

// Repository defines the regional COM API contract for external services.
type Repository interface {
	List(ctx context.Context) ([]domint.Integration, error)
	Get(ctx context.Context, id string) (domint.Integration, error)
	Create(ctx context.Context, spec domint.Spec) (domint.Integration, error)
	Update(ctx context.Context, id string, spec domint.Spec) (domint.Integration, error)
	Delete(ctx context.Context, id string) error
	Test(ctx context.Context, id string) error
	Activities(ctx context.Context, source string) ([]domint.Activity, error)
}
