package integration

import (
	"fmt"
	"time"

	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
)

// integrationRow is the JSON shape of one external-service record.
type integrationRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	State     string `json:"state"`
	Endpoint  string `json:"endpoint"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// toDomain hydrates a domain Integration from an API row.
func (r integrationRow) toDomain() (domint.Integration, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return domint.Integration{}, fmt.Errorf("external service %s: invalid createdAt: %w", r.ID, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return domint.Integration{}, fmt.Errorf("external service %s: invalid updatedAt: %w", r.ID, err)
	}
	return domint.Reconstruct(
		r.ID, r.Name, domint.Type(r.Type), domint.State(r.State),
		r.Endpoint, created, updated,
	), nil
}

// activityRow is the JSON shape of one activity-log record.
type activityRow struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Message   string `json:"message"`
	Result    string `json:"result"`
	CreatedAt string `json:"createdAt"`
}

// toDomain hydrates a domain Activity from an API row.
func (r activityRow) toDomain() (domint.Activity, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return domint.Activity{}, fmt.Errorf("activity %s: invalid createdAt: %w", r.ID, err)
	}
	return domint.ReconstructActivity(r.ID, r.Source, r.Message, r.Result, created), nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// credentialsBody carries external-service credentials in deploy/update payloads.
type credentialsBody struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// specBody is the deploy/update payload.
type specBody struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Endpoint    string          `json:"endpoint"`
	Credentials credentialsBody `json:"credentials"`
}

func specToBody(spec domint.Spec) specBody {
	return specBody{
		Name:     spec.Name(),
		Type:     string(spec.IntType()),
		Endpoint: spec.Endpoint(),
		Credentials: credentialsBody{
			ClientID:     spec.ClientID(),
			ClientSecret: spec.ClientSecret(),
		},
	}
}
