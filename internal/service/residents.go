package service

import (
	"context"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Residents wraps the /residents endpoints (manager views)
type Residents struct {
	client *api.Client
}

// NewResidents creates the residents service
func NewResidents(client *api.Client) *Residents {
	return &Residents{client: client}
}

// Resident is a user joined with their unit for the management table
type Resident struct {
	model.User
	Unit       *model.Unit `json:"unit,omitempty"`
	UnitNumber string      `json:"unitNumber,omitempty"`
}

// CreateResidentRequest adds a resident to the manager's building
type CreateResidentRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	UnitNumber string `json:"unitNumber"`
}

// List returns every resident of the manager's building
func (s *Residents) List(ctx context.Context) ([]Resident, error) {
	var residents []Resident
	if err := s.client.Get(ctx, "/residents", &residents); err != nil {
		return nil, err
	}
	return residents, nil
}

// Get returns one resident
func (s *Residents) Get(ctx context.Context, id int) (*Resident, error) {
	var resident Resident
	if err := s.client.Get(ctx, fmt.Sprintf("/residents/%d", id), &resident); err != nil {
		return nil, err
	}
	return &resident, nil
}

// Create adds a resident
func (s *Residents) Create(ctx context.Context, req CreateResidentRequest) (*Resident, error) {
	var resident Resident
	if err := s.client.Post(ctx, "/residents", req, &resident); err != nil {
		return nil, err
	}
	return &resident, nil
}

// Update edits a resident's record
func (s *Residents) Update(ctx context.Context, id int, req CreateResidentRequest) (*Resident, error) {
	var resident Resident
	if err := s.client.Put(ctx, fmt.Sprintf("/residents/%d", id), req, &resident); err != nil {
		return nil, err
	}
	return &resident, nil
}

// Delete removes a resident
func (s *Residents) Delete(ctx context.Context, id int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/residents/%d", id))
}
