package ledger

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/stock"
	"github.com/campuspay/campuspay/internal/student"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ListPurchases(ctx context.Context, filter ListFilter) ([]*Purchase, error)
}

// Tx is one atomic ledger operation in flight. All reads see row-locked
// state; nothing becomes visible to other callers until Commit.
type Tx interface {
	StudentForUpdate(ctx context.Context, id uuid.UUID) (*student.Student, error)
	ItemForUpdate(ctx context.Context, id uuid.UUID) (*stock.Item, error)

	// ApplyStudentDelta adjusts balance and the running totals as one write.
	// It fails with student.ErrNotFound when the row does not exist.
	ApplyStudentDelta(ctx context.Context, id uuid.UUID, delta StudentDelta) error

	// DecrementItem is the conditional check-and-decrement: it only succeeds
	// when the on-hand quantity covers qty, and fails with
	// ErrInsufficientStock otherwise, leaving the row untouched.
	DecrementItem(ctx context.Context, id uuid.UUID, qty int64) error

	InsertTransaction(ctx context.Context, tx *Transaction) error
	InsertPurchase(ctx context.Context, p *Purchase) error

	Commit() error
	Rollback() error
}

// StudentDelta is the single unit of mutation for a student's ledger fields.
type StudentDelta struct {
	Balance     int64
	Paid        int64
	Spent       int64
	MarkPayment bool
}

type ListFilter struct {
	StudentID *uuid.UUID
	Limit     int
}

type Service struct {
	repo Repository

	// requireFunds turns on the balance-sufficiency precondition for
	// purchases. Overdraft stays permitted for plain expenses regardless.
	requireFunds bool
}

func NewService(repo Repository, requireFunds bool) *Service {
	return &Service{repo: repo, requireFunds: requireFunds}
}

type TransactionParams struct {
	StudentID uuid.UUID
	Kind      Kind
	Amount    int64
	Method    Method
	Note      string
}

// ApplyTransaction records a deposit or expense and moves the student's
// balance and running totals in the same storage transaction. Expenses may
// drive the balance negative.
func (s *Service) ApplyTransaction(ctx context.Context, params TransactionParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !params.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	if !params.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	delta := StudentDelta{}
	if params.Kind == KindDeposit {
		delta.Balance = params.Amount
		delta.Paid = params.Amount
		delta.MarkPayment = true
	} else {
		delta.Balance = -params.Amount
		delta.Spent = params.Amount
	}

	if err := tx.ApplyStudentDelta(ctx, params.StudentID, delta); err != nil {
		return nil, err
	}

	record := &Transaction{
		StudentID: params.StudentID,
		Amount:    params.Amount,
		Kind:      params.Kind,
		Method:    params.Method,
		Note:      params.Note,
	}
	if err := tx.InsertTransaction(ctx, record); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return record, nil
}

type PurchaseParams struct {
	StudentID uuid.UUID
	ItemID    uuid.UUID
	Quantity  int64
}

// ApplyPurchase sells stock to a student: it decrements the item quantity,
// debits the student and appends the purchase record as one atomic unit.
// Prices are snapshotted from the locked item row, so two purchases racing
// over the last units resolve to exactly one success.
func (s *Service) ApplyPurchase(ctx context.Context, params PurchaseParams) (*Purchase, error) {
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	item, err := tx.ItemForUpdate(ctx, params.ItemID)
	if err != nil {
		return nil, err
	}

	// Quantity is caller-controlled, so the price multiplications below must
	// not wrap.
	if mulOverflows(item.SellingPrice, params.Quantity) || mulOverflows(item.CostPrice, params.Quantity) {
		return nil, ErrInvalidQuantity
	}

	totalPrice := item.SellingPrice * params.Quantity
	profit := (item.SellingPrice - item.CostPrice) * params.Quantity

	if s.requireFunds {
		st, err := tx.StudentForUpdate(ctx, params.StudentID)
		if err != nil {
			return nil, err
		}

		if st.Balance < totalPrice {
			return nil, ErrInsufficientFunds
		}
	}

	if err := tx.DecrementItem(ctx, params.ItemID, params.Quantity); err != nil {
		return nil, err
	}

	delta := StudentDelta{
		Balance: -totalPrice,
		Spent:   totalPrice,
	}
	if err := tx.ApplyStudentDelta(ctx, params.StudentID, delta); err != nil {
		return nil, err
	}

	record := &Purchase{
		StudentID:  params.StudentID,
		ItemID:     params.ItemID,
		Quantity:   params.Quantity,
		UnitPrice:  item.SellingPrice,
		CostPrice:  item.CostPrice,
		TotalPrice: totalPrice,
		Profit:     profit,
	}
	if err := tx.InsertPurchase(ctx, record); err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit purchase: %w", err)
	}

	return record, nil
}

// mulOverflows reports whether price * qty exceeds int64. Both operands are
// non-negative by the time this runs.
func mulOverflows(price, qty int64) bool {
	return price > 0 && qty > math.MaxInt64/price
}

func (s *Service) ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) ListPurchases(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx, filter)
}
