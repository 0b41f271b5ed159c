package integration

import (
	"testing"
	"time"
)

func TestNewSpec(t *testing.T) {
	tests := []struct {
		name     string
		specName string
		intType  Type
		endpoint string
		id       string
		secret   string
		wantErr  bool
	}{
		{"valid servicenow", "snow-prod", TypeServiceNow, "https://corp.service-now.com", "cid", "sec", false},
		{"valid dscc", "dscc-1", TypeDSCC, "https://console.example.com", "cid", "sec", false},
		{"missing name", "", TypeServiceNow, "https://corp.service-now.com", "cid", "sec", true},
		{"unknown type", "x", Type("PAGERDUTY"), "https://x.example.com", "cid", "sec", true},
		{"http endpoint", "x", TypeServiceNow, "http://corp.service-now.com", "cid", "sec", true},
		{"garbage endpoint", "x", TypeServiceNow, "not a url", "cid", "sec", true},
		{"missing credentials", "x", TypeServiceNow, "https://corp.service-now.com", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpec(tt.specName, tt.intType, tt.endpoint, tt.id, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSpec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStateTerminal(t *testing.T) {
	if StateDeploying.Terminal() || StateDisabled.Terminal() {
		t.Error("deploying/disabled must not be terminal")
	}
	if !StateEnabled.Terminal() || !StateError.Terminal() {
		t.Error("enabled/error must be terminal")
	}
}

func TestActivityNewerThan(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := ReconstructActivity("a1", "src", "old", "OK", ts.Add(-time.Minute))
	exact := ReconstructActivity("a2", "src", "same", "OK", ts)
	newer := ReconstructActivity("a3", "src", "new", "OK", ts.Add(time.Second))

	if older.NewerThan(ts) {
		t.Error("older record must not match")
	}
	if exact.NewerThan(ts) {
		t.Error("record at the captured instant must not match")
	}
	if !newer.NewerThan(ts) {
		t.Error("newer record must match")
	}
}
