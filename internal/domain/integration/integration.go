package integration

import (
	"fmt"
	"net/url"
	"time"
)

// Type distinguishes supported external-service integrations.
type Type string

const (
	// TypeServiceNow is a ServiceNow incident integration.
	TypeServiceNow Type = "SERVICE_NOW"
	// TypeDSCC is a Data Services Cloud Console integration.
	TypeDSCC Type = "DSCC"
)

// IsValid checks if the integration type is supported.
func (t Type) IsValid() bool {
	return t == TypeServiceNow || t == TypeDSCC
}

// State is the server-side lifecycle state of an integration.
type State string

const (
	// StateDeploying means the integration is being provisioned.
	StateDeploying State = "DEPLOYING"
	// StateEnabled is the terminal healthy state.
	StateEnabled State = "ENABLED"
	// StateDisabled means the integration was paused.
	StateDisabled State = "DISABLED"
	// StateError means provisioning or operation failed.
	StateError State = "ERROR"
)

// Terminal reports whether the state ends the deployment poll loop.
func (s State) Terminal() bool {
	return s == StateEnabled || s == StateError
}

// Spec describes an integration to deploy.
type Spec struct {
	name         string
	intType      Type
	endpoint     string
	clientID     string
	clientSecret string
}

// NewSpec validates and creates an integration deployment spec.
func NewSpec(name string, intType Type, endpoint, clientID, clientSecret string) (Spec, error) {
	if name == "" {
		return Spec{}, fmt.Errorf("integration name is required")
	}
	if !intType.IsValid() {
		return Spec{}, fmt.Errorf("unsupported integration type %q", intType)
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return Spec{}, fmt.Errorf("integration endpoint must be an https URL, got %q", endpoint)
	}
	if clientID == "" || clientSecret == "" {
		return Spec{}, fmt.Errorf("integration credentials are required")
	}
	return Spec{
		name: name, intType: intType, endpoint: endpoint,
		clientID: clientID, clientSecret: clientSecret,
	}, nil
}

// Name returns the integration display name.
func (s *Spec) Name() string { return s.name }

// IntType returns the integration type.
func (s *Spec) IntType() Type { return s.intType }

// Endpoint returns the external service URL.
func (s *Spec) Endpoint() string { return s.endpoint }

// ClientID returns the external service credential id.
func (s *Spec) ClientID() string { return s.clientID }

// ClientSecret returns the external service credential secret.
func (s *Spec) ClientSecret() string { return s.clientSecret }

// Integration is a deployed external-service integration (immutable value object).
type Integration struct {
	id        string
	name      string
	intType   Type
	state     State
	endpoint  string
	createdAt time.Time
	updatedAt time.Time
}

// Reconstruct creates an Integration from API response data (no validation).
func Reconstruct(
	id, name string, intType Type, state State, endpoint string,
	createdAt, updatedAt time.Time,
) Integration {
	return Integration{
		id: id, name: name, intType: intType, state: state,
		endpoint: endpoint, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the server-assigned integration identifier.
func (i *Integration) ID() string { return i.id }

// Name returns the integration display name.
func (i *Integration) Name() string { return i.name }

// IntType returns the integration type.
func (i *Integration) IntType() Type { return i.intType }

// State returns the lifecycle state.
func (i *Integration) State() State { return i.state }

// Endpoint returns the external service URL.
func (i *Integration) Endpoint() string { return i.endpoint }

// CreatedAt returns the creation timestamp.
func (i *Integration) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last modification timestamp.
func (i *Integration) UpdatedAt() time.Time { return i.updatedAt }

// Activity is one activity-log record emitted by an integration.
type Activity struct {
	id        string
	source    string
	message   string
	result    string
	createdAt time.Time
}

// ReconstructActivity creates an Activity from API response data.
func ReconstructActivity(id, source, message, result string, createdAt time.Time) Activity {
	return Activity{id: id, source: source, message: message, result: result, createdAt: createdAt}
}

// ID returns the activity record identifier.
func (a *Activity) ID() string { return a.id }

// Source returns the integration id that produced the record.
func (a *Activity) Source() string { return a.source }

// Message returns the activity message text.
func (a *Activity) Message() string { return a.message }

// Result returns the reported outcome (OK, FAILURE, ...).
func (a *Activity) Result() string { return a.result }

// CreatedAt returns the record timestamp.
func (a *Activity) CreatedAt() time.Time { return a.createdAt }

// NewerThan reports whether the record was created strictly after the
// given timestamp. Used to match test-run records against a captured
// pre-test timestamp.
func (a *Activity) NewerThan(ts time.Time) bool {
	return a.createdAt.After(ts)
}
