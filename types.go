package greenlake

import (
	"time"

	domdev "github.com/kailas-cloud/greenlake/internal/domain/device"
	domint "github.com/kailas-cloud/greenlake/internal/domain/integration"
	"github.com/kailas-cloud/greenlake/internal/domain/status"
	domsub "github.com/kailas-cloud/greenlake/internal/domain/subscription"
)

// Outcome is the per-item result of a bulk mutation.
type Outcome string

// Bulk item outcomes.
const (
	OutcomeWarning  Outcome = Outcome(status.Warning)
	OutcomeComplete Outcome = Outcome(status.Complete)
	OutcomeFailed   Outcome = Outcome(status.Failed)
)

// BulkResult is the outcome record for one caller-supplied input.
// Bulk mutators return one record per non-empty input, in input order.
type BulkResult struct {
	Identifier string
	Outcome    Outcome
	Detail     string
	Cause      error
}

func fromStatusItems(items []status.Item) []BulkResult {
	if items == nil {
		return nil
	}
	out := make([]BulkResult, len(items))
	for i := range items {
		out[i] = BulkResult{
			Identifier: items[i].Identifier(),
			Outcome:    Outcome(items[i].Outcome()),
			Detail:     items[i].Detail(),
			Cause:      items[i].Cause(),
		}
	}
	return out
}

// SubscriptionType distinguishes device licenses from service plans.
type SubscriptionType string

// Subscription types.
const (
	SubscriptionDevice      SubscriptionType = SubscriptionType(domsub.TypeDevice)
	SubscriptionTypeService SubscriptionType = SubscriptionType(domsub.TypeService)
)

// Subscription is a workspace subscription record.
type Subscription struct {
	ID                string
	Key               string
	Type              SubscriptionType
	Tier              string
	Quantity          int
	AvailableQuantity int
	StartTime         time.Time
	EndTime           time.Time
	AutoRenew         bool
}

func fromDomainSubscription(s domsub.Subscription) Subscription {
	return Subscription{
		ID:                s.ID(),
		Key:               s.Key(),
		Type:              SubscriptionType(s.SubType()),
		Tier:              s.Tier(),
		Quantity:          s.Quantity(),
		AvailableQuantity: s.AvailableQuantity(),
		StartTime:         s.StartTime(),
		EndTime:           s.EndTime(),
		AutoRenew:         s.AutoRenew(),
	}
}

// SubscriptionFilter narrows a subscription listing. Predicates intersect.
type SubscriptionFilter struct {
	Type                  SubscriptionType
	Valid                 bool
	Expired               bool
	WithAvailableQuantity bool
}

// DeviceType distinguishes device categories.
type DeviceType string

// Device types.
const (
	DeviceCompute DeviceType = DeviceType(domdev.TypeCompute)
	DeviceStorage DeviceType = DeviceType(domdev.TypeStorage)
	DeviceGateway DeviceType = DeviceType(domdev.TypeGateway)
)

// Device is a workspace device record.
type Device struct {
	ID              string
	Serial          string
	PartNumber      string
	Type            DeviceType
	Application     string
	Region          string
	SubscriptionKey string
}

func fromDomainDevice(d domdev.Device) Device {
	return Device{
		ID:              d.ID(),
		Serial:          d.Serial(),
		PartNumber:      d.PartNumber(),
		Type:            DeviceType(d.DevType()),
		Application:     d.Application(),
		Region:          d.Region(),
		SubscriptionKey: d.SubscriptionKey(),
	}
}

// DeviceFilter narrows a device listing.
type DeviceFilter struct {
	Serial string
	Type   DeviceType
}

// IntegrationType distinguishes supported external services.
type IntegrationType string

// Integration types.
const (
	IntegrationServiceNow IntegrationType = IntegrationType(domint.TypeServiceNow)
	IntegrationDSCC       IntegrationType = IntegrationType(domint.TypeDSCC)
)

// IntegrationState is the server-side lifecycle state.
type IntegrationState string

// Integration states.
const (
	IntegrationDeploying IntegrationState = IntegrationState(domint.StateDeploying)
	IntegrationEnabled   IntegrationState = IntegrationState(domint.StateEnabled)
	IntegrationDisabled  IntegrationState = IntegrationState(domint.StateDisabled)
	IntegrationError     IntegrationState = IntegrationState(domint.StateError)
)

// Integration is a deployed external-service integration.
type Integration struct {
	ID        string
	Name      string
	Type      IntegrationType
	State     IntegrationState
	Endpoint  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func fromDomainIntegration(i domint.Integration) Integration {
	return Integration{
		ID:        i.ID(),
		Name:      i.Name(),
		Type:      IntegrationType(i.IntType()),
		State:     IntegrationState(i.State()),
		Endpoint:  i.Endpoint(),
		CreatedAt: i.CreatedAt(),
		UpdatedAt: i.UpdatedAt(),
	}
}

// IntegrationSpec describes an integration to deploy or update.
type IntegrationSpec struct {
	Name         string
	Type         IntegrationType
	Endpoint     string
	ClientID     string
	ClientSecret string
}

func toDomainSpec(s IntegrationSpec) (domint.Spec, error) {
	return domint.NewSpec(s.Name, domint.Type(s.Type), s.Endpoint, s.ClientID, s.ClientSecret)
}

// IntegrationFilter narrows an integration listing.
type IntegrationFilter struct {
	Name string
	Type IntegrationType
}
