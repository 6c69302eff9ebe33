package sigfox

import (
	"context"
	"net/url"
)

// DevicesService manages Sigfox devices and their uplink messages.
type DevicesService struct {
	c *Client
}

// DeviceTypeRef is the nested device-type reference on a device record.
type DeviceTypeRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Device is a Sigfox device record. IDs are hexadecimal and treated as
// opaque tokens. Timestamps are milliseconds since the Unix epoch.
type Device struct {
	ID               string         `json:"id"`
	Name             string         `json:"name,omitempty"`
	DeviceType       *DeviceTypeRef `json:"deviceType,omitempty"`
	State            int            `json:"state,omitempty"`
	ComState         int            `json:"comState,omitempty"`
	PAC              string         `json:"pac,omitempty"`
	SequenceNumber   int            `json:"sequenceNumber,omitempty"`
	LastCom          int64          `json:"lastCom,omitempty"`
	CreationTime     int64          `json:"creationTime,omitempty"`
	ActivationTime   int64          `json:"activationTime,omitempty"`
	LQI              int            `json:"lqi,omitempty"`
	Lat              float64        `json:"lat,omitempty"`
	Lng              float64        `json:"lng,omitempty"`
	Repeater         bool           `json:"repeater,omitempty"`
	Prototype        bool           `json:"prototype,omitempty"`
	AutomaticRenewal bool           `json:"automaticRenewal,omitempty"`
	Activable        bool           `json:"activable,omitempty"`
}

// DeviceCreate is the payload for registering a new device.
// ID, Name, DeviceTypeID and PAC are required.
type DeviceCreate struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	DeviceTypeID       string   `json:"deviceTypeId"`
	PAC                string   `json:"pac"`
	Lat                *float64 `json:"lat,omitempty"`
	Lng                *float64 `json:"lng,omitempty"`
	ProductCertificate string   `json:"productCertificate,omitempty"`
	Prototype          *bool    `json:"prototype,omitempty"`
	AutomaticRenewal   *bool    `json:"automaticRenewal,omitempty"`
	Activable          *bool    `json:"activable,omitempty"`
}

// DeviceUpdate is a partial-update payload: only non-nil fields are sent,
// leaving omitted fields untouched server-side.
type DeviceUpdate struct {
	Name               *string  `json:"name,omitempty"`
	Lat                *float64 `json:"lat,omitempty"`
	Lng                *float64 `json:"lng,omitempty"`
	ProductCertificate *string  `json:"productCertificate,omitempty"`
	Prototype          *bool    `json:"prototype,omitempty"`
	AutomaticRenewal   *bool    `json:"automaticRenewal,omitempty"`
	Activable          *bool    `json:"activable,omitempty"`
}

// Message is an uplink message received from a device. Data is the raw
// payload as a hexadecimal string.
type Message struct {
	Time      int64          `json:"time,omitempty"`
	Device    *DeviceTypeRef `json:"device,omitempty"`
	Data      string         `json:"data,omitempty"`
	SeqNumber int            `json:"seqNumber,omitempty"`
	LQI       int            `json:"lqi,omitempty"`
	NbFrames  int            `json:"nbFrames,omitempty"`
	Operator  string         `json:"operator,omitempty"`
	Country   string         `json:"country,omitempty"`
}

// List returns one page of devices. Supported filter keys: FilterDeviceTypeID,
// FilterGroupIDs (comma-separated).
func (s *DevicesService) List(ctx context.Context, q ListQuery) ([]Device, error) {
	return listResources[Device](ctx, s.c, "/devices", q)
}

// Get fetches a single device by its hexadecimal ID.
func (s *DevicesService) Get(ctx context.Context, deviceID string) (*Device, error) {
	if deviceID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "device id is required"}
	}
	return getResource[Device](ctx, s.c, "/devices/"+url.PathEscape(deviceID), nil)
}

// Create registers a new device and returns the created record.
func (s *DevicesService) Create(ctx context.Context, payload DeviceCreate) (*Device, error) {
	if err := requireFields([]requiredField{
		{"id", payload.ID},
		{"name", payload.Name},
		{"deviceTypeId", payload.DeviceTypeID},
		{"pac", payload.PAC},
	}); err != nil {
		return nil, err
	}
	return createResource[Device](ctx, s.c, "/devices", payload)
}

// Update applies a partial update to a device.
func (s *DevicesService) Update(ctx context.Context, deviceID string, payload DeviceUpdate) error {
	if deviceID == "" {
		return &APIError{Kind: KindValidation, Message: "device id is required"}
	}
	return updateResource(ctx, s.c, "/devices/"+url.PathEscape(deviceID), payload)
}

// Delete removes a device. Deleting an already-deleted device surfaces a
// NotFound error; whether that counts as success is the caller's policy.
func (s *DevicesService) Delete(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return &APIError{Kind: KindValidation, Message: "device id is required"}
	}
	return deleteResource(ctx, s.c, "/devices/"+url.PathEscape(deviceID))
}

// Messages returns one page of the device's uplink messages. Time-window
// filters FilterSince and FilterBefore take millisecond Unix timestamps.
func (s *DevicesService) Messages(ctx context.Context, deviceID string, q ListQuery) ([]Message, error) {
	if deviceID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "device id is required"}
	}
	return listResources[Message](ctx, s.c, "/devices/"+url.PathEscape(deviceID)+"/messages", q)
}
