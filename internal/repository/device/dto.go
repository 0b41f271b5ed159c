package device

import domdev "github.com/kailas-cloud/greenlake/internal/domain/device"

// deviceRow is the JSON shape of one device record.
type deviceRow struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serialNumber"`
	PartNumber   string `json:"partNumber"`
	DeviceType   string `json:"deviceType"`
	Application  struct {
		Name string `json:"name"`
	} `json:"application"`
	Region       string `json:"region"`
	Subscription []struct {
		Key string `json:"key"`
	} `json:"subscription"`
}

// toDomain hydrates a domain Device from an API row.
func (r deviceRow) toDomain() domdev.Device {
	key := ""
	if len(r.Subscription) > 0 {
		key = r.Subscription[0].Key
	}
	return domdev.Reconstruct(
		r.ID, r.SerialNumber, r.PartNumber, domdev.Type(r.DeviceType),
		r.Application.Name, r.Region, key,
	)
}

// keyRef references a subscription key in a device PATCH.
type keyRef struct {
	Key string `json:"key"`
}

// subscriptionPatch is the attach/detach payload. An empty slice
// clears the attachment.
type subscriptionPatch struct {
	Subscription []keyRef `json:"subscription"`
}
