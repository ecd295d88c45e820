package service

import (
	"context"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Units wraps the /units endpoints
type Units struct {
	client *api.Client
}

// NewUnits creates the units service
func NewUnits(client *api.Client) *Units {
	return &Units{client: client}
}

// CreateUnitRequest is the payload for creating an apartment (manager only)
type CreateUnitRequest struct {
	BuildingID int     `json:"buildingId"`
	UnitNumber string  `json:"unitNumber"`
	Area       float64 `json:"area"`
	Residents  int     `json:"residents"`
	Floor      *int    `json:"floor,omitempty"`
}

// UpdateUnitRequest is the partial-update payload for an apartment
type UpdateUnitRequest struct {
	UnitNumber *string  `json:"unitNumber,omitempty"`
	Area       *float64 `json:"area,omitempty"`
	Residents  *int     `json:"residents,omitempty"`
	Floor      *int     `json:"floor,omitempty"`
}

// List returns every unit visible to the current user
func (s *Units) List(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	if err := s.client.Get(ctx, "/units", &units); err != nil {
		return nil, err
	}
	return units, nil
}

// Get returns a unit by id
func (s *Units) Get(ctx context.Context, id int) (*model.Unit, error) {
	var unit model.Unit
	if err := s.client.Get(ctx, fmt.Sprintf("/units/%d", id), &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// MyUnit returns the current resident's unit
func (s *Units) MyUnit(ctx context.Context) (*model.Unit, error) {
	var unit model.Unit
	if err := s.client.Get(ctx, "/units/my", &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Create adds a unit to the manager's building
func (s *Units) Create(ctx context.Context, req CreateUnitRequest) (*model.Unit, error) {
	var unit model.Unit
	if err := s.client.Post(ctx, "/units", req, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Update applies a partial update to a unit
func (s *Units) Update(ctx context.Context, id int, req UpdateUnitRequest) (*model.Unit, error) {
	var unit model.Unit
	if err := s.client.Put(ctx, fmt.Sprintf("/units/%d", id), req, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Delete removes a unit
func (s *Units) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/units/%d", id))
}

// Balance returns the backend-computed balance of a unit
func (s *Units) Balance(ctx context.Context, id int) (*model.UnitBalance, error) {
	var balance model.UnitBalance
	if err := s.client.Get(ctx, fmt.Sprintf("/units/%d/balance", id), &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
