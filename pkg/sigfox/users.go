package sigfox

import (
	"context"
	"net/url"
)

// UsersService manages portal users, distinct from API users.
type UsersService struct {
	c *Client
}

// RoleRef is a minimal user-role reference.
type RoleRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// User is a Sigfox portal user record.
type User struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Email         string     `json:"email,omitempty"`
	Timezone      string     `json:"timezone,omitempty"`
	CreationTime  int64      `json:"creationTime,omitempty"`
	LastLoginTime int64      `json:"lastLoginTime,omitempty"`
	Group         *PathGroup `json:"group,omitempty"`
	UserRoles     []RoleRef  `json:"userRoles,omitempty"`
}

// UserCreate is the payload for creating a portal user. All fields are
// required; RoleIDs must name at least one role.
type UserCreate struct {
	GroupID   string   `json:"groupId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Timezone  string   `json:"timezone"`
	RoleIDs   []string `json:"roleIds"`
}

// UserUpdate is a partial-update payload; nil fields are omitted.
type UserUpdate struct {
	FirstName *string  `json:"firstName,omitempty"`
	LastName  *string  `json:"lastName,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Timezone  *string  `json:"timezone,omitempty"`
	RoleIDs   []string `json:"roleIds,omitempty"`
}

// List returns one page of portal users. Supported filter keys:
// FilterGroupIDs, FilterFields.
func (s *UsersService) List(ctx context.Context, q ListQuery) ([]User, error) {
	return listResources[User](ctx, s.c, "/users", q)
}

// Get fetches a single portal user by ID.
func (s *UsersService) Get(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "user id is required"}
	}
	return getResource[User](ctx, s.c, "/users/"+url.PathEscape(userID), nil)
}

// Create creates a portal user and returns the created record.
func (s *UsersService) Create(ctx context.Context, payload UserCreate) (*User, error) {
	if err := requireFields([]requiredField{
		{"groupId", payload.GroupID},
		{"firstName", payload.FirstName},
		{"lastName", payload.LastName},
		{"email", payload.Email},
		{"timezone", payload.Timezone},
	}); err != nil {
		return nil, err
	}
	if len(payload.RoleIDs) == 0 {
		return nil, &APIError{Kind: KindValidation, Message: "roleIds is required"}
	}
	return createResource[User](ctx, s.c, "/users", payload)
}

// Update applies a partial update to a portal user.
func (s *UsersService) Update(ctx context.Context, userID string, payload UserUpdate) error {
	if userID == "" {
		return &APIError{Kind: KindValidation, Message: "user id is required"}
	}
	return updateResource(ctx, s.c, "/users/"+url.PathEscape(userID), payload)
}

// Delete removes a portal user.
func (s *UsersService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return &APIError{Kind: KindValidation, Message: "user id is required"}
	}
	return deleteResource(ctx, s.c, "/users/"+url.PathEscape(userID))
}

// AddRoles assigns extra roles to a portal user.
func (s *UsersService) AddRoles(ctx context.Context, userID string, roleIDs []string) error {
	if userID == "" {
		return &APIError{Kind: KindValidation, Message: "user id is required"}
	}
	if len(roleIDs) == 0 {
		return &APIError{Kind: KindValidation, Message: "roleIds is required"}
	}
	body := map[string][]string{"roleIds": roleIDs}
	return updateResource(ctx, s.c, "/users/"+url.PathEscape(userID)+"/roles", body)
}

// RemoveRole removes a single role assignment from a portal user.
func (s *UsersService) RemoveRole(ctx context.Context, userID, roleID string) error {
	if err := requireFields([]requiredField{
		{"user id", userID},
		{"role id", roleID},
	}); err != nil {
		return err
	}
	return deleteResource(ctx, s.c, "/users/"+url.PathEscape(userID)+"/roles/"+url.PathEscape(roleID))
}
