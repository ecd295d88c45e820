package model

// PaymentMethod is how a transaction was paid
type PaymentMethod string

const (
	MethodCard PaymentMethod = "CARD"
	MethodCash PaymentMethod = "CASH"
	MethodBank PaymentMethod = "BANK"
)

// TransactionStatus is the backend-owned lifecycle state of a transaction.
// Cash and bank payments stay pending until a manager approves them; card
// payments are confirmed by the payment gateway callback.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusConfirmed TransactionStatus = "CONFIRMED"
	StatusRejected  TransactionStatus = "REJECTED"
)

// FundType tags which budget a transaction feeds
type FundType string

const (
	FundGeneral FundType = "GENERAL"
	FundRepair  FundType = "REPAIR"
)

// TransactionType distinguishes payments from fee charges on a unit ledger
type TransactionType string

const (
	TypePayment TransactionType = "PAYMENT"
	TypeFee     TransactionType = "FEE"
)

// Transaction is a ledger entry on a unit
type Transaction struct {
	ID        int               `json:"id"`
	UnitID    int               `json:"unitId"`
	UserID    *int              `json:"userId,omitempty"`
	Amount    float64           `json:"amount"`
	Method    PaymentMethod     `json:"method,omitempty"`
	Type      TransactionType   `json:"type"`
	Status    TransactionStatus `json:"status"`
	Fund      FundType          `json:"fund,omitempty"`
	Note      string            `json:"note,omitempty"`
	CreatedAt string            `json:"createdAt,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// ReceiptDetails describes a confirmed payment for display and printing
type ReceiptDetails struct {
	TransactionID int     `json:"transactionId"`
	ReceiptNumber string  `json:"receiptNumber"`
	Amount        float64 `json:"amount"`
	UnitNumber    string  `json:"unitNumber"`
	PaidBy        string  `json:"paidBy"`
	GeneratedAt   string  `json:"generatedAt"`
}
