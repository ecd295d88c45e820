package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"entrance-client/internal/model"
	"entrance-client/pkg/api"
)

// Payments wraps the payment and transaction endpoints
type Payments struct {
	client *api.Client
}

// NewPayments creates the payments service
func NewPayments(client *api.Client) *Payments {
	return &Payments{client: client}
}

// CardPaymentRequest starts a card payment through the backend's gateway
// integration
type CardPaymentRequest struct {
	Amount float64        `json:"amount"`
	Fund   model.FundType `json:"fund,omitempty"`
}

// CardPaymentResponse carries the gateway client secret the UI hands to the
// payment form; the transaction is finalized server-side by the gateway
// callback.
type CardPaymentResponse struct {
	ClientSecret  string `json:"clientSecret"`
	TransactionID int    `json:"transactionId,omitempty"`
}

// OfflinePaymentRequest registers a cash or bank payment. These stay pending
// until a manager approves them.
type OfflinePaymentRequest struct {
	Amount float64        `json:"amount"`
	Note   string         `json:"note"`
	Fund   model.FundType `json:"fund,omitempty"`
}

// CreateCardPayment starts a card payment for a unit
func (s *Payments) CreateCardPayment(ctx context.Context, unitID int, req CardPaymentRequest) (*CardPaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	var resp CardPaymentResponse
	if err := s.client.Post(ctx, fmt.Sprintf("/units/%d/payments/card", unitID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCashPayment registers a cash payment. The reference note is required
// before any network call: without it the manager cannot match the payment.
func (s *Payments) CreateCashPayment(ctx context.Context, unitID int, req OfflinePaymentRequest) error {
	if err := validateOfflinePayment(req); err != nil {
		return err
	}
	return s.client.Post(ctx, fmt.Sprintf("/units/%d/payments/cash", unitID), req, nil)
}

// CreateBankPayment registers a bank-transfer payment
func (s *Payments) CreateBankPayment(ctx context.Context, unitID int, req OfflinePaymentRequest) error {
	if err := validateOfflinePayment(req); err != nil {
		return err
	}
	return s.client.Post(ctx, fmt.Sprintf("/units/%d/payments/bank", unitID), req, nil)
}

// Transactions returns a unit's ledger, optionally filtered by type
func (s *Payments) Transactions(ctx context.Context, unitID int, txType model.TransactionType) ([]model.Transaction, error) {
	endpoint := fmt.Sprintf("/units/%d/transactions", unitID)
	if txType != "" {
		endpoint += "?type=" + string(txType)
	}
	var transactions []model.Transaction
	if err := s.client.Get(ctx, endpoint, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// UnitPayments returns only the payment entries of a unit's ledger
func (s *Payments) UnitPayments(ctx context.Context, unitID int) ([]model.Transaction, error) {
	return s.Transactions(ctx, unitID, model.TypePayment)
}

// ReceiptDetails returns the printable receipt for a confirmed transaction
func (s *Payments) ReceiptDetails(ctx context.Context, transactionID int) (*model.ReceiptDetails, error) {
	var receipt model.ReceiptDetails
	if err := s.client.Get(ctx, fmt.Sprintf("/transactions/%d/receipt-details", transactionID), &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Approve confirms a pending cash or bank transaction (manager only)
func (s *Payments) Approve(ctx context.Context, transactionID int) error {
	return s.client.Post(ctx, fmt.Sprintf("/transactions/%d/approve", transactionID), nil, nil)
}

// Reject declines a pending transaction (manager only)
func (s *Payments) Reject(ctx context.Context, transactionID int) error {
	return s.client.Post(ctx, fmt.Sprintf("/transactions/%d/reject", transactionID), nil, nil)
}

func validateOfflinePayment(req OfflinePaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if strings.TrimSpace(req.Note) == "" {
		return errors.New("a reference note is required")
	}
	return nil
}
