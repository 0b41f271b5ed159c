package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidKey signals a malformed subscription key.
	ErrInvalidKey = errors.New("invalid subscription key")
	// ErrBatchTooLarge signals too many items in one batched request.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrNoSession signals missing platform credentials.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidRegion signals an unknown deployment region.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrUnauthorized signals a rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotAssigned signals a device not attached to any service instance.
	ErrNotAssigned = errors.New("device not assigned to a service")
	// ErrNoQuantity signals an exhausted subscription quantity.
	ErrNoQuantity = errors.New("no available subscription quantity")
)

// QuantityError wraps ErrNoQuantity with the remaining quantity on the key.
type QuantityError struct {
	Key       string
	Available int
	Requested int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s: key %s has %d available, %d requested",
		ErrNoQuantity.Error(), e.Key, e.Available, e.Requested)
}

func (e *QuantityError) Unwrap() error { return ErrNoQuantity }

// NewQuantityError creates a quantity exhaustion error.
func NewQuantityError(key string, available, requested int) error {
	return &QuantityError{Key: key, Available: available, Requested: requested}
}
