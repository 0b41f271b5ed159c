package device

// Type distinguishes device categories eligible for auto-subscription.
type Type string

const (
	// TypeCompute is a compute server device.
	TypeCompute Type = "COMPUTE"
	// TypeStorage is a storage array device.
	TypeStorage Type = "STORAGE"
	// TypeGateway is a gateway appliance.
	TypeGateway Type = "GATEWAY"
)

// IsValid checks if the device type is supported.
func (t Type) IsValid() bool {
	return t == TypeCompute || t == TypeStorage || t == TypeGateway
}

// Device is a workspace device record (immutable value object).
type Device struct {
	id              string
	serial          string
	partNumber      string
	devType         Type
	application     string
	region          string
	subscriptionKey string
}

// Reconstruct creates a Device from API response data (no validation).
func Reconstruct(
	id, serial, partNumber string, devType Type,
	application, region, subscriptionKey string,
) Device {
	return Device{
		id: id, serial: serial, partNumber: partNumber, devType: devType,
		application: application, region: region, subscriptionKey: subscriptionKey,
	}
}

// ID returns the server-assigned device identifier.
func (d *Device) ID() string { return d.id }

// Serial returns the device serial number.
func (d *Device) Serial() string { return d.serial }

// PartNumber returns the device part number.
func (d *Device) PartNumber() string { return d.partNumber }

// DevType returns the device category.
func (d *Device) DevType() Type { return d.devType }

// Application returns the service instance the device is assigned to.
func (d *Device) Application() string { return d.application }

// Region returns the deployment region of the assigned service.
func (d *Device) Region() string { return d.region }

// SubscriptionKey returns the attached subscription key, if any.
func (d *Device) SubscriptionKey() string { return d.subscriptionKey }

// IsAssigned reports whether the device is assigned to a service
// instance. A subscription can only be attached to assigned devices.
func (d *Device) IsAssigned() bool { return d.application != "" }

// HasSubscription reports whether any subscription key is attached.
func (d *Device) HasSubscription() bool { return d.subscriptionKey != "" }
