package sigfox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// APIUsersService manages API users: machine credentials scoped to a group
// through profiles.
type APIUsersService struct {
	c *Client
}

// ProfileRef is a minimal profile reference nested in API user records.
type ProfileRef struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name,omitempty"`
	Actions []string `json:"actions,omitempty"`
}

// APIUser is a Sigfox API user record. AccessToken is only populated on
// creation and credential renewal.
type APIUser struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Timezone     string       `json:"timezone,omitempty"`
	Group        *PathGroup   `json:"group,omitempty"`
	CreationTime int64        `json:"creationTime,omitempty"`
	AccessToken  string       `json:"accessToken,omitempty"`
	Profiles     []ProfileRef `json:"profiles,omitempty"`
}

// APIUserCreate is the payload for creating an API user. All fields are
// required; ProfileIDs must name at least one profile.
type APIUserCreate struct {
	GroupID    string   `json:"groupId"`
	Name       string   `json:"name"`
	Timezone   string   `json:"timezone"`
	ProfileIDs []string `json:"profileIds"`
}

// APIUserUpdate is a partial-update payload; nil fields are omitted.
type APIUserUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Timezone   *string  `json:"timezone,omitempty"`
	ProfileIDs []string `json:"profileIds,omitempty"`
}

// RenewedCredential carries the replacement password issued by RenewCredential.
type RenewedCredential struct {
	AccessToken string `json:"accessToken"`
}

// List returns one page of API users. Supported filter keys:
// FilterProfileID, FilterGroupIDs, FilterFields.
func (s *APIUsersService) List(ctx context.Context, q ListQuery) ([]APIUser, error) {
	return listResources[APIUser](ctx, s.c, "/api-users", q)
}

// Get fetches a single API user by ID.
func (s *APIUsersService) Get(ctx context.Context, apiUserID string) (*APIUser, error) {
	if apiUserID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "api user id is required"}
	}
	return getResource[APIUser](ctx, s.c, "/api-users/"+url.PathEscape(apiUserID), nil)
}

// Create creates an API user and returns the created record, including its
// one-time access token.
func (s *APIUsersService) Create(ctx context.Context, payload APIUserCreate) (*APIUser, error) {
	if err := requireFields([]requiredField{
		{"groupId", payload.GroupID},
		{"name", payload.Name},
		{"timezone", payload.Timezone},
	}); err != nil {
		return nil, err
	}
	if len(payload.ProfileIDs) == 0 {
		return nil, &APIError{Kind: KindValidation, Message: "profileIds is required"}
	}
	return createResource[APIUser](ctx, s.c, "/api-users", payload)
}

// Update applies a partial update to an API user.
func (s *APIUsersService) Update(ctx context.Context, apiUserID string, payload APIUserUpdate) error {
	if apiUserID == "" {
		return &APIError{Kind: KindValidation, Message: "api user id is required"}
	}
	return updateResource(ctx, s.c, "/api-users/"+url.PathEscape(apiUserID), payload)
}

// Delete removes an API user.
func (s *APIUsersService) Delete(ctx context.Context, apiUserID string) error {
	if apiUserID == "" {
		return &APIError{Kind: KindValidation, Message: "api user id is required"}
	}
	return deleteResource(ctx, s.c, "/api-users/"+url.PathEscape(apiUserID))
}

// AddProfiles associates extra profiles with an API user.
func (s *APIUsersService) AddProfiles(ctx context.Context, apiUserID string, profileIDs []string) error {
	if apiUserID == "" {
		return &APIError{Kind: KindValidation, Message: "api user id is required"}
	}
	if len(profileIDs) == 0 {
		return &APIError{Kind: KindValidation, Message: "profileIds is required"}
	}
	body := map[string][]string{"profileIds": profileIDs}
	return updateResource(ctx, s.c, "/api-users/"+url.PathEscape(apiUserID)+"/profiles", body)
}

// RemoveProfile removes a single profile association from an API user.
func (s *APIUsersService) RemoveProfile(ctx context.Context, apiUserID, profileID string) error {
	if err := requireFields([]requiredField{
		{"api user id", apiUserID},
		{"profile id", profileID},
	}); err != nil {
		return err
	}
	return deleteResource(ctx, s.c, "/api-users/"+url.PathEscape(apiUserID)+"/profiles/"+url.PathEscape(profileID))
}

// RenewCredential invalidates the API user's password and returns the
// replacement. The old credential stops working immediately.
func (s *APIUsersService) RenewCredential(ctx context.Context, apiUserID string) (*RenewedCredential, error) {
	if apiUserID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "api user id is required"}
	}
	body, err := s.c.do(ctx, http.MethodPut, "/api-users/"+url.PathEscape(apiUserID)+"/renew-credential", nil, nil)
	if err != nil {
		return nil, err
	}
	var out RenewedCredential
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, decodeError("/api-users/renew-credential", err)
		}
	}
	return &out, nil
}
