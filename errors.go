package greenlake

import "github.com/kailas-cloud/greenlake/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrAlreadyExists = domain.ErrAlreadyExists
	ErrInvalidKey    = domain.ErrInvalidKey
	ErrBatchTooLarge = domain.ErrBatchTooLarge
	ErrNoSession     = domain.ErrNoSession
	ErrInvalidRegion = domain.ErrInvalidRegion
	ErrUnauthorized  = domain.ErrUnauthorized
	ErrRateLimited   = domain.ErrRateLimited
	ErrNotAssigned   = domain.ErrNotAssigned
	ErrNoQuantity    = domain.ErrNoQuantity
)
