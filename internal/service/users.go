package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Users wraps the /users endpoints
type Users struct {
	client *api.Client
}

// NewUsers creates the users service
func NewUsers(client *api.Client) *Users {
	return &Users{client: client}
}

// UpdateProfileRequest is the partial profile update payload
type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ChangePasswordRequest rotates the user's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// List returns every user, optionally filtered by role (manager only)
func (s *Users) List(ctx context.Context, role model.Role) ([]model.User, error) {
	endpoint := "/users"
	if role != "" {
		endpoint += "?role=" + string(role)
	}
	var users []model.User
	if err := s.client.Get(ctx, endpoint, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one user (manager only)
func (s *Users) Get(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyProfile returns the current user's profile
func (s *Users) MyProfile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := s.client.Get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile edits the current user's profile
func (s *Users) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	var user model.User
	if err := s.client.Put(ctx, "/users/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the current user's password
func (s *Users) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errors.New("current and new password are required")
	}
	return s.client.Post(ctx, "/users/change-password", req, nil)
}

// Delete removes a user (manager only)
func (s *Users) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/users/%d", id))
}

// ChangeRole reassigns a user's role (manager only)
func (s *Users) ChangeRole(ctx context.Context, id int, role model.Role) (*model.User, error) {
	var user model.User
	body := struct {
		Role model.Role `json:"role"`
	}{Role: role}
	if err := s.client.Patch(ctx, fmt.Sprintf("/users/%d/role", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
