package sigfox

import (
	"context"
	"net/url"
)

// GroupsService manages the group hierarchy devices and users belong to.
type GroupsService struct {
	c *Client
}

// PathGroup is a minimal group reference inside a path array.
type PathGroup struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Type  int    `json:"type,omitempty"`
	Level int    `json:"level,omitempty"`
}

// Group is a Sigfox group record. Type encodes the group kind
// (0=SO, 2=Basic, 5=SVNO, 6=Partners, 7=NIP, 8=DIST, 9=Channel,
// 10=Starter, 11=Partner).
type Group struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name,omitempty"`
	Description           string      `json:"description,omitempty"`
	Type                  int         `json:"type,omitempty"`
	Timezone              string      `json:"timezone,omitempty"`
	NameCI                string      `json:"nameCI,omitempty"`
	Path                  []PathGroup `json:"path,omitempty"`
	CreatedBy             string      `json:"createdBy,omitempty"`
	CreationTime          int64       `json:"creationTime,omitempty"`
	Leaf                  bool        `json:"leaf,omitempty"`
	Actions               []string    `json:"actions,omitempty"`
	Billable              bool        `json:"billable,omitempty"`
	TechnicalEmail        string      `json:"technicalEmail,omitempty"`
	MaxPrototypeAllowed   int         `json:"maxPrototypeAllowed,omitempty"`
	CurrentPrototypeCount int         `json:"currentPrototypeCount,omitempty"`
	CountryISOAlpha3      string      `json:"countryISOAlpha3,omitempty"`
	NetworkOperatorID     string      `json:"networkOperatorId,omitempty"`
}

// GroupCreate is the payload for creating a group. Name, Description,
// Timezone and ParentID are required; Type defaults to 2 (Basic) when the
// caller leaves it zero, matching the service's most common case.
type GroupCreate struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	Type                int    `json:"type"`
	Timezone            string `json:"timezone"`
	ParentID            string `json:"parentId"`
	TechnicalEmail      string `json:"technicalEmail,omitempty"`
	AccountID           string `json:"accountId,omitempty"`
	NetworkOperatorID   string `json:"networkOperatorId,omitempty"`
	CountryISOAlpha3    string `json:"countryISOAlpha3,omitempty"`
	Billable            *bool  `json:"billable,omitempty"`
	MaxPrototypeAllowed *int   `json:"maxPrototypeAllowed,omitempty"`
}

// GroupUpdate is a partial-update payload; nil fields are omitted.
type GroupUpdate struct {
	Name                *string `json:"name,omitempty"`
	Description         *string `json:"description,omitempty"`
	Type                *int    `json:"type,omitempty"`
	Timezone            *string `json:"timezone,omitempty"`
	Billable            *bool   `json:"billable,omitempty"`
	TechnicalEmail      *string `json:"technicalEmail,omitempty"`
	MaxPrototypeAllowed *int    `json:"maxPrototypeAllowed,omitempty"`
}

// CallbackError is an undelivered callback message recorded for a group.
type CallbackError struct {
	Device     string         `json:"device,omitempty"`
	DeviceURL  string         `json:"deviceUrl,omitempty"`
	DeviceType string         `json:"deviceType,omitempty"`
	Time       int64          `json:"time,omitempty"`
	Data       string         `json:"data,omitempty"`
	SNR        string         `json:"snr,omitempty"`
	Status     string         `json:"status,omitempty"`
	Message    string         `json:"message,omitempty"`
	Callback   map[string]any `json:"callback,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// GeolocPayload is a geolocation payload configuration visible to a group.
type GeolocPayload struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// List returns one page of groups. Supported filter keys: FilterParentIDs,
// FilterName, FilterTypes, FilterFields, FilterPageID. Deep retrieves all
// sub-groups recursively.
func (s *GroupsService) List(ctx context.Context, q ListQuery) ([]Group, error) {
	return listResources[Group](ctx, s.c, "/groups", q)
}

// Get fetches a single group. fields optionally names extra fields to
// return (e.g. "path(name,type,level)").
func (s *GroupsService) Get(ctx context.Context, groupID, fields string) (*Group, error) {
	if groupID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "group id is required"}
	}
	var query url.Values
	if fields != "" {
		query = url.Values{"fields": {fields}}
	}
	return getResource[Group](ctx, s.c, "/groups/"+url.PathEscape(groupID), query)
}

// Create creates a group and returns the created record.
func (s *GroupsService) Create(ctx context.Context, payload GroupCreate) (*Group, error) {
	if err := requireFields([]requiredField{
		{"name", payload.Name},
		{"description", payload.Description},
		{"timezone", payload.Timezone},
		{"parentId", payload.ParentID},
	}); err != nil {
		return nil, err
	}
	if payload.Type == 0 {
		payload.Type = 2
	}
	return createResource[Group](ctx, s.c, "/groups", payload)
}

// Update applies a partial update to a group.
func (s *GroupsService) Update(ctx context.Context, groupID string, payload GroupUpdate) error {
	if groupID == "" {
		return &APIError{Kind: KindValidation, Message: "group id is required"}
	}
	return updateResource(ctx, s.c, "/groups/"+url.PathEscape(groupID), payload)
}

// Delete removes a group.
func (s *GroupsService) Delete(ctx context.Context, groupID string) error {
	if groupID == "" {
		return &APIError{Kind: KindValidation, Message: "group id is required"}
	}
	return deleteResource(ctx, s.c, "/groups/"+url.PathEscape(groupID))
}

// CallbacksNotDelivered returns one page of the group's undelivered
// callback errors. FilterSince / FilterBefore bound the time window.
func (s *GroupsService) CallbacksNotDelivered(ctx context.Context, groupID string, q ListQuery) ([]CallbackError, error) {
	if groupID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "group id is required"}
	}
	return listResources[CallbackError](ctx, s.c, "/groups/"+url.PathEscape(groupID)+"/callbacks-not-delivered", q)
}

// GeolocPayloads returns one page of geolocation payloads visible to the group.
func (s *GroupsService) GeolocPayloads(ctx context.Context, groupID string, q ListQuery) ([]GeolocPayload, error) {
	if groupID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "group id is required"}
	}
	return listResources[GeolocPayload](ctx, s.c, "/groups/"+url.PathEscape(groupID)+"/geoloc-payloads", q)
}
