package subscription

import (
	"testing"
	"time"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid short", "ABCD1234", false},
		{"valid long", "E9F2AABBCCDDEEFF0011223344556677", false},
		{"empty", "", true},
		{"too short", "ABC123", true},
		{"too long", "A234567890123456789012345678901234", true},
		{"lowercase", "abcd1234", true},
		{"punctuation", "ABCD-1234", true},
		{"whitespace inside", "ABCD 1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestTypeIsValid(t *testing.T) {
	if !TypeDevice.IsValid() || !TypeService.IsValid() {
		t.Error("expected declared types to be valid")
	}
	if Type("LICENSE").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestIsValidAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	active := Reconstruct("id1", "AAAA1111", TypeDevice, "standard", 10, 10,
		now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0), false)
	expired := Reconstruct("id2", "BBBB2222", TypeDevice, "standard", 10, 10,
		now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0), false)

	if !active.IsValidAt(now) {
		t.Error("expected active subscription to be valid")
	}
	if expired.IsValidAt(now) {
		t.Error("expected expired subscription to be invalid")
	}
}

func TestAvailability(t *testing.T) {
	untouched := Reconstruct("id", "AAAA1111", TypeDevice, "", 5, 5, time.Time{}, time.Time{}, false)
	partial := Reconstruct("id", "BBBB2222", TypeDevice, "", 5, 2, time.Time{}, time.Time{}, false)
	drained := Reconstruct("id", "CCCC3333", TypeDevice, "", 5, 0, time.Time{}, time.Time{}, false)

	if !untouched.FullyAvailable() || !untouched.HasAvailable() {
		t.Error("untouched subscription should be fully available")
	}
	if partial.FullyAvailable() {
		t.Error("partially consumed subscription must not be fully available")
	}
	if !partial.HasAvailable() {
		t.Error("partially consumed subscription still has capacity")
	}
	if drained.HasAvailable() {
		t.Error("drained subscription has no capacity")
	}
}
