package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidKind       = errors.New("unknown transaction kind")
	ErrInvalidMethod     = errors.New("unknown payment method")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("storage unavailable")
)

// Kind represents the direction of a wallet transaction.
type Kind string

const (
	KindDeposit Kind = "deposit"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindExpense
}

// Method represents how a deposit or expense was settled.
type Method string

const (
	MethodOnline Method = "online"
	MethodCash   Method = "cash"
	MethodCredit Method = "credit"
)

func (m Method) Valid() bool {
	return m == MethodOnline || m == MethodCash || m == MethodCredit
}

// Transaction is an append-only deposit or expense record. It is never
// updated or deleted once written.
type Transaction struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Amount    int64 // paise, always positive
	Kind      Kind
	Method    Method
	Note      string
	CreatedAt time.Time

	// Joined for listings.
	StudentName        string
	StudentAdmissionNo string
}

// Purchase is an append-only stock sale. UnitPrice and CostPrice are
// snapshots taken at commit time; later catalog edits never change them.
type Purchase struct {
	ID         uuid.UUID
	StudentID  uuid.UUID
	ItemID     uuid.UUID
	Quantity   int64
	UnitPrice  int64
	CostPrice  int64
	TotalPrice int64
	Profit     int64
	CreatedAt  time.Time

	// Joined for listings.
	StudentName        string
	StudentAdmissionNo string
	ItemName           string
}
