// Package service holds the per-resource wrappers over the API client. Each
// wrapper maps one REST endpoint to a typed request/response pair and
// propagates errors untouched; offline behavior is the demo backend's job,
// never a silent per-call fallback.
package service

import (
	"context"
	"errors"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Buildings wraps the /buildings endpoints
type Buildings struct {
	client *api.Client
}

// NewBuildings creates the buildings service
func NewBuildings(client *api.Client) *Buildings {
	return &Buildings{client: client}
}

// BuildingRegistration is the payload for registering a managed building
type BuildingRegistration struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	TotalUnits int    `json:"totalUnits"`
}

// Register creates the manager's building; the response carries the generated
// access code residents use to join.
func (s *Buildings) Register(ctx context.Context, name, address string, totalUnits int) (*model.Building, error) {
	if name == "" {
		return nil, errors.New("building name is required")
	}
	if address == "" {
		return nil, errors.New("building address is required")
	}
	if totalUnits <= 0 {
		return nil, errors.New("total units must be positive")
	}

	req := BuildingRegistration{Name: name, Address: address, TotalUnits: totalUnits}
	var building model.Building
	if err := s.client.Post(ctx, "/buildings/register", req, &building); err != nil {
		return nil, err
	}
	return &building, nil
}

// FindByCode resolves a building from its access code during resident
// registration
func (s *Buildings) FindByCode(ctx context.Context, code string) (*model.Building, error) {
	var building model.Building
	if err := s.client.Get(ctx, fmt.Sprintf("/buildings/by-code/%s", code), &building); err != nil {
		return nil, err
	}
	return &building, nil
}

// MyBuilding returns the current manager's building
func (s *Buildings) MyBuilding(ctx context.Context) (*model.Building, error) {
	var building model.Building
	if err := s.client.Get(ctx, "/buildings/my-building", &building); err != nil {
		return nil, err
	}
	return &building, nil
}

// HasBuilding reports whether the current manager already registered a
// building
func (s *Buildings) HasBuilding(ctx context.Context) (bool, error) {
	var status struct {
		HasBuilding bool `json:"hasBuilding"`
	}
	if err := s.client.Get(ctx, "/buildings/my-building/status", &status); err != nil {
		return false, err
	}
	return status.HasBuilding, nil
}
