package subscription

import (
	"fmt"
	"regexp"
	"time"
)

var keyRegex = regexp.MustCompile(`^[A-Z0-9]{8,32}$`)

// Type distinguishes subscription kinds (device licenses vs service plans).
type Type string

const (
	// TypeDevice is a device license subscription.
	TypeDevice Type = "DEVICE"
	// TypeService is a service plan subscription.
	TypeService Type = "SERVICE"
)

// IsValid checks if the subscription type is supported.
func (t Type) IsValid() bool {
	return t == TypeDevice || t == TypeService
}

// ValidateKey checks the subscription key format.
// Keys are uppercase alphanumeric tokens, 8-32 chars.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("subscription key is required")
	}
	if !keyRegex.MatchString(key) {
		return fmt.Errorf("subscription key %q must be 8-32 uppercase alphanumeric characters", key)
	}
	return nil
}

// Subscription is a workspace subscription record (immutable value object).
type Subscription struct {
	id                string
	key               string
	subType           Type
	tier              string
	quantity          int
	availableQuantity int
	startTime         time.Time
	endTime           time.Time
	autoRenew         bool
}

// Reconstruct creates a Subscription from API response data (no validation).
func Reconstruct(
	id, key string, subType Type, tier string,
	quantity, availableQuantity int,
	startTime, endTime time.Time, autoRenew bool,
) Subscription {
	return Subscription{
		id: id, key: key, subType: subType, tier: tier,
		quantity: quantity, availableQuantity: availableQuantity,
		startTime: startTime, endTime: endTime, autoRenew: autoRenew,
	}
}

// ID returns the server-assigned subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Key returns the subscription key.
func (s *Subscription) Key() string { return s.key }

// SubType returns the subscription type.
func (s *Subscription) SubType() Type { return s.subType }

// Tier returns the subscription tier name.
func (s *Subscription) Tier() string { return s.tier }

// Quantity returns the total license quantity.
func (s *Subscription) Quantity() int { return s.quantity }

// AvailableQuantity returns the unconsumed license quantity.
func (s *Subscription) AvailableQuantity() int { return s.availableQuantity }

// StartTime returns the validity window start.
func (s *Subscription) StartTime() time.Time { return s.startTime }

// EndTime returns the validity window end.
func (s *Subscription) EndTime() time.Time { return s.endTime }

// AutoRenew reports whether the subscription renews automatically.
func (s *Subscription) AutoRenew() bool { return s.autoRenew }

// IsValidAt reports whether the subscription has not expired at the given time.
func (s *Subscription) IsValidAt(now time.Time) bool {
	return s.endTime.After(now)
}

// HasAvailable reports whether at least one license is unconsumed.
func (s *Subscription) HasAvailable() bool {
	return s.availableQuantity >= 1
}

// FullyAvailable reports whether no license on the key is consumed.
// Removal is only allowed for fully available subscriptions.
func (s *Subscription) FullyAvailable() bool {
	return s.quantity == s.availableQuantity
}
