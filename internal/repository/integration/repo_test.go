package integration

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
)

// --- Mocks ---

type mockAPI struct {
	doMethod string
	doPath   string
	doBody   any
	doResp   []byte
	doErr    error

	listPath  string
	listQuery url.Values
	listRows  []json.RawMessage
	listErr   error
}

func (m *mockAPI) Do(_ context.Context, method, path string, _ url.Values, body any) ([]byte, error) {
	m.doMethod = method
	m.doPath = path
	m.doBody = body
	return m.doResp, m.doErr
}

func (m *mockAPI) List(_ context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	m.listPath = path
	m.listQuery = query
	return m.listRows, m.listErr
}

const regionalBase = "https://us-west2-api.compute.cloud.hpe.com"

func makeSpec(t *testing.T) domint.Spec {
	t.Helper()
	spec, err := domint.NewSpec("snow-prod", domint.TypeServiceNow,
		"https://corp.service-now.com", "cid", "sec")
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}
	return spec
}

func TestList_UsesRegionalBase(t *testing.T) {
	api := &mockAPI{listRows: []json.RawMessage{
		[]byte(`{
			"id": "ig1",
			"name": "snow-prod",
			"type": "SERVICE_NOW",
			"state": "ENABLED",
			"endpoint": "https://corp.service-now.com",
			"createdAt": "2026-01-01T00:00:00Z",
			"updatedAt": "2026-02-01T00:00:00Z"
		}`),
	}}
	repo := New(api, regionalBase+"/")

	igs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if api.listPath != regionalBase+"/compute-ops-mgmt/v1/external-services" {
		t.Errorf("unexpected URL %q", api.listPath)
	}
	if igs[0].Name() != "snow-prod" || igs[0].State() != domint.StateEnabled {
		t.Errorf("unexpected integration %q %q", igs[0].Name(), igs[0].State())
	}
}

func TestCreate_Payload(t *testing.T) {
	api := &mockAPI{doResp: []byte(`{"id": "ig1", "name": "snow-prod", "state": "DEPLOYING"}`)}
	repo := New(api, regionalBase)

	ig, err := repo.Create(context.Background(), makeSpec(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if api.doMethod != "POST" || api.doPath != regionalBase+"/compute-ops-mgmt/v1/external-services" {
		t.Errorf("unexpected call %s %s", api.doMethod, api.doPath)
	}
	if ig.State() != domint.StateDeploying {
		t.Errorf("unexpected state %q", ig.State())
	}

	data, err := json.Marshal(api.doBody)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"snow-prod","type":"SERVICE_NOW","endpoint":"https://corp.service-now.com",` +
		`"credentials":{"clientId":"cid","clientSecret":"sec"}}`
	if string(data) != want {
		t.Errorf("unexpected payload %s", data)
	}
}

func TestTest_PostsToTestPath(t *testing.T) {
	api := &mockAPI{doResp: []byte(`{}`)}
	repo := New(api, regionalBase)

	if err := repo.Test(context.Background(), "ig1"); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if api.doPath != regionalBase+"/compute-ops-mgmt/v1/external-services/ig1/test" {
		t.Errorf("unexpected URL %q", api.doPath)
	}
	if api.doMethod != "POST" {
		t.Errorf("unexpected method %s", api.doMethod)
	}
}

func TestActivities_FiltersBySource(t *testing.T) {
	api := &mockAPI{listRows: []json.RawMessage{
		[]byte(`{"id": "a1", "source": "ig1", "message": "test passed", "result": "OK",
			"createdAt": "2026-03-01T12:00:00Z"}`),
	}}
	repo := New(api, regionalBase)

	activities, err := repo.Activities(context.Background(), "ig1")
	if err != nil {
		t.Fatalf("Activities: %v", err)
	}
	if api.listQuery.Get("source") != "ig1" {
		t.Errorf("unexpected query %v", api.listQuery)
	}
	if activities[0].Message() != "test passed" || activities[0].Result() != "OK" {
		t.Errorf("unexpected activity %+v", activities[0])
	}
}
