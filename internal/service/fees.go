package service

import (
	"context"
	"fmt"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Fees wraps the /unit-fees endpoints
type Fees struct {
	client *api.Client
}

// NewFees creates the unit-fees service
func NewFees(client *api.Client) *Fees {
	return &Fees{client: client}
}

// CreateFeeRequest is the payload for charging a single unit. Month and the
// due window are ISO dates (YYYY-MM-DD).
type CreateFeeRequest struct {
	UnitID  int     `json:"unitId"`
	Month   string  `json:"month"`
	Amount  float64 `json:"amount"`
	DueFrom string  `json:"dueFrom"`
	DueTo   string  `json:"dueTo"`
}

// CreateBulkFeesRequest charges every unit in the building at once
type CreateBulkFeesRequest struct {
	Month   string  `json:"month"`
	Amount  float64 `json:"amount"`
	DueFrom string  `json:"dueFrom"`
	DueTo   string  `json:"dueTo"`
}

// List returns every fee in the building (manager only)
func (s *Fees) List(ctx context.Context) ([]model.UnitFee, error) {
	var fees []model.UnitFee
	if err := s.client.Get(ctx, "/unit-fees", &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// ForUnit returns the fees of one unit
func (s *Fees) ForUnit(ctx context.Context, unitID int) ([]model.UnitFee, error) {
	var fees []model.UnitFee
	if err := s.client.Get(ctx, fmt.Sprintf("/units/%d/fees", unitID), &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// Mine returns the current resident's fees
func (s *Fees) Mine(ctx context.Context) ([]model.UnitFee, error) {
	var fees []model.UnitFee
	if err := s.client.Get(ctx, "/unit-fees/my", &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// Unpaid returns outstanding fees across the building (manager only)
func (s *Fees) Unpaid(ctx context.Context) ([]model.UnitFee, error) {
	var fees []model.UnitFee
	if err := s.client.Get(ctx, "/unit-fees/unpaid", &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// Create charges a single unit
func (s *Fees) Create(ctx context.Context, req CreateFeeRequest) (*model.UnitFee, error) {
	var fee model.UnitFee
	if err := s.client.Post(ctx, "/unit-fees", req, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// CreateForAll charges every unit in the building
func (s *Fees) CreateForAll(ctx context.Context, req CreateBulkFeesRequest) ([]model.UnitFee, error) {
	var fees []model.UnitFee
	if err := s.client.Post(ctx, "/unit-fees/bulk", req, &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// MarkPaid flags a fee as settled
func (s *Fees) MarkPaid(ctx context.Context, feeID int) (*model.UnitFee, error) {
	var fee model.UnitFee
	if err := s.client.Patch(ctx, fmt.Sprintf("/unit-fees/%d/mark-paid", feeID), struct{}{}, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// Delete removes a fee
func (s *Fees) Delete(ctx context.Context, feeID int) error {
	return s.client.Delete(ctx, fmt.Sprintf("/unit-fees/%d", feeID))
}
