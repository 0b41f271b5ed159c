package config

import "testing"

func validConfig() Config {
	cfg := Config{
		Platform: PlatformConfig{
			Endpoint: "https://global.api.greenlake.hpe.com",
			TokenURL: "https://sso.common.cloud.hpe.com/as/token.oauth2",
		},
		Regions: map[string]string{
			"us-west": "https://us-west2-api.compute.cloud.hpe.com",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Platform.Endpoint = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing platform endpoint")
	}
}

func TestValidate_BadRegionURL(t *testing.T) {
	cfg := validConfig()
	cfg.Regions["us-west"] = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed region URL")
	}
}

func TestValidate_UnknownDefaultRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Platform.Region = "mars"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for region missing from the registry")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid logging level")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Retry.Attempts != 3 || cfg.Retry.MaxIntervalSec != 10 {
		t.Errorf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.Polling.IntervalSec != 1 {
		t.Errorf("unexpected polling default %d", cfg.Polling.IntervalSec)
	}
	if cfg.Limits.MaxBatchKeys != 5 {
		t.Errorf("unexpected batch limit default %d", cfg.Limits.MaxBatchKeys)
	}
}

func TestApplyDefaults_CredentialsFromEnv(t *testing.T) {
	t.Setenv("GLP_CLIENT_ID", "env-id")
	t.Setenv("GLP_CLIENT_SECRET", "env-secret")

	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Platform.ClientID != "env-id" || cfg.Platform.ClientSecret != "env-secret" {
		t.Errorf("expected credentials from environment, got %q/%q",
			cfg.Platform.ClientID, cfg.Platform.ClientSecret)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GLP_TEST_VAR", "value-from-env")

	got := string(expandEnvVars([]byte("a: ${GLP_TEST_VAR}\nb: ${GLP_UNSET_VAR:-fallback}\n")))
	want := "a: value-from-env\nb: fallback\n"
	if got != want {
		t.Errorf("expansion mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}
