package sigfox

import (
	"context"
	"net/url"
)

// DeviceTypesService manages device types: the payload/downlink contract
// shared by a fleet of devices.
type DeviceTypesService struct {
	c *Client
}

// GroupRef is a minimal nested group reference.
type GroupRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ContractRef is a minimal nested contract reference.
type ContractRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// DeviceType is a Sigfox device type record.
type DeviceType struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name,omitempty"`
	Description        string       `json:"description,omitempty"`
	Group              *GroupRef    `json:"group,omitempty"`
	Contract           *ContractRef `json:"contract,omitempty"`
	KeepAlive          int          `json:"keepAlive,omitempty"`
	AlertEmail         string       `json:"alertEmail,omitempty"`
	PayloadType        int          `json:"payloadType,omitempty"`
	PayloadConfig      string       `json:"payloadConfig,omitempty"`
	DownlinkMode       int          `json:"downlinkMode,omitempty"`
	DownlinkDataString string       `json:"downlinkDataString,omitempty"`
	AutomaticRenewal   bool         `json:"automaticRenewal,omitempty"`
	CreationTime       int64        `json:"creationTime,omitempty"`
	LastEditedTime     int64        `json:"lastEditedTime,omitempty"`
}

// DeviceTypeCreate is the payload for creating a device type.
// Name and GroupID are required.
type DeviceTypeCreate struct {
	Name               string `json:"name"`
	GroupID            string `json:"groupId"`
	Description        string `json:"description,omitempty"`
	KeepAlive          *int   `json:"keepAlive,omitempty"`
	AlertEmail         string `json:"alertEmail,omitempty"`
	PayloadType        *int   `json:"payloadType,omitempty"`
	PayloadConfig      string `json:"payloadConfig,omitempty"`
	DownlinkMode       *int   `json:"downlinkMode,omitempty"`
	DownlinkDataString string `json:"downlinkDataString,omitempty"`
	AutomaticRenewal   *bool  `json:"automaticRenewal,omitempty"`
}

// DeviceTypeUpdate is a partial-update payload; nil fields are omitted.
type DeviceTypeUpdate struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	KeepAlive          *int    `json:"keepAlive,omitempty"`
	AlertEmail         *string `json:"alertEmail,omitempty"`
	PayloadType        *int    `json:"payloadType,omitempty"`
	PayloadConfig      *string `json:"payloadConfig,omitempty"`
	DownlinkMode       *int    `json:"downlinkMode,omitempty"`
	DownlinkDataString *string `json:"downlinkDataString,omitempty"`
	AutomaticRenewal   *bool   `json:"automaticRenewal,omitempty"`
}

// List returns one page of device types. Supported filter keys: FilterName
// (contains match), FilterGroupIDs.
func (s *DeviceTypesService) List(ctx context.Context, q ListQuery) ([]DeviceType, error) {
	return listResources[DeviceType](ctx, s.c, "/device-types", q)
}

// Get fetches a single device type by ID.
func (s *DeviceTypesService) Get(ctx context.Context, deviceTypeID string) (*DeviceType, error) {
	if deviceTypeID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "device type id is required"}
	}
	return getResource[DeviceType](ctx, s.c, "/device-types/"+url.PathEscape(deviceTypeID), nil)
}

// Create creates a device type and returns the created record.
func (s *DeviceTypesService) Create(ctx context.Context, payload DeviceTypeCreate) (*DeviceType, error) {
	if err := requireFields([]requiredField{
		{"name", payload.Name},
		{"groupId", payload.GroupID},
	}); err != nil {
		return nil, err
	}
	return createResource[DeviceType](ctx, s.c, "/device-types", payload)
}

// Update applies a partial update to a device type.
func (s *DeviceTypesService) Update(ctx context.Context, deviceTypeID string, payload DeviceTypeUpdate) error {
	if deviceTypeID == "" {
		return &APIError{Kind: KindValidation, Message: "device type id is required"}
	}
	return updateResource(ctx, s.c, "/device-types/"+url.PathEscape(deviceTypeID), payload)
}

// Delete removes a device type.
func (s *DeviceTypesService) Delete(ctx context.Context, deviceTypeID string) error {
	if deviceTypeID == "" {
		return &APIError{Kind: KindValidation, Message: "device type id is required"}
	}
	return deleteResource(ctx, s.c, "/device-types/"+url.PathEscape(deviceTypeID))
}
