package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/ledger"
	"github.com/campuspay/campuspay/internal/stock"
	"github.com/campuspay/campuspay/internal/student"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// wrapErr surfaces storage timeouts and dead connections as ErrUnavailable.
// Anything an operation attempted before such a failure is rolled back, so
// callers may retry.
func wrapErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w", op, ledger.ErrUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("beginning ledger tx", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return wrapErr("committing ledger tx", err)
	}

	return nil
}

func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) StudentForUpdate(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	query := `
		SELECT id, admission_no, class_code, name, balance, total_paid, total_spent, last_payment_at, created_at
		FROM students
		WHERE id = $1
		FOR UPDATE
	`

	var st student.Student

	var lastPayment sql.NullTime

	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&st.ID, &st.AdmissionNo, &st.ClassCode, &st.Name,
		&st.Balance, &st.TotalPaid, &st.TotalSpent,
		&lastPayment, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, student.ErrNotFound
		}

		return nil, wrapErr("locking student", err)
	}

	if lastPayment.Valid {
		st.LastPaymentAt = &lastPayment.Time
	}

	return &st, nil
}

func (t *ledgerTx) ItemForUpdate(ctx context.Context, id uuid.UUID) (*stock.Item, error) {
	query := `
		SELECT id, item_name, quantity, cost_price, selling_price, updated_at
		FROM stock_items
		WHERE id = $1
		FOR UPDATE
	`

	var item stock.Item

	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Quantity,
		&item.CostPrice, &item.SellingPrice, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stock.ErrNotFound
		}

		return nil, wrapErr("locking stock item", err)
	}

	return &item, nil
}

func (t *ledgerTx) ApplyStudentDelta(ctx context.Context, id uuid.UUID, delta ledger.StudentDelta) error {
	query := `
		UPDATE students
		SET balance = balance + $1,
			total_paid = total_paid + $2,
			total_spent = total_spent + $3
		WHERE id = $4
	`
	if delta.MarkPayment {
		query = `
			UPDATE students
			SET balance = balance + $1,
				total_paid = total_paid + $2,
				total_spent = total_spent + $3,
				last_payment_at = NOW()
			WHERE id = $4
		`
	}

	res, err := t.tx.ExecContext(ctx, query, delta.Balance, delta.Paid, delta.Spent, id)
	if err != nil {
		return wrapErr("applying student delta", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("applying student delta", err)
	}

	if affected == 0 {
		return student.ErrNotFound
	}

	return nil
}

// DecrementItem only decrements when the on-hand quantity covers qty, in a
// single statement, so concurrent purchases can never drive quantity below
// zero. The caller holds the row lock from ItemForUpdate, so zero rows
// affected here means the stock ran out, not a missing row.
func (t *ledgerTx) DecrementItem(ctx context.Context, id uuid.UUID, qty int64) error {
	query := `
		UPDATE stock_items
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
	`

	res, err := t.tx.ExecContext(ctx, query, qty, id)
	if err != nil {
		return wrapErr("decrementing stock", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("decrementing stock", err)
	}

	if affected == 0 {
		return ledger.ErrInsufficientStock
	}

	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, rec *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (student_id, amount, kind, method, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		rec.StudentID,
		rec.Amount,
		rec.Kind,
		rec.Method,
		rec.Note,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return wrapErr("inserting transaction", err)
	}

	return nil
}

func (t *ledgerTx) InsertPurchase(ctx context.Context, rec *ledger.Purchase) error {
	query := `
		INSERT INTO purchases (student_id, item_id, quantity, unit_price, cost_price, total_price, profit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		rec.StudentID,
		rec.ItemID,
		rec.Quantity,
		rec.UnitPrice,
		rec.CostPrice,
		rec.TotalPrice,
		rec.Profit,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return wrapErr("inserting purchase", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `
		SELECT t.id, t.student_id, t.amount, t.kind, t.method, t.note, t.created_at,
			s.name, s.admission_no
		FROM transactions t
		JOIN students s ON t.student_id = s.id
	`

	var args []any

	if filter.StudentID != nil {
		query += ` WHERE t.student_id = $1`

		args = append(args, *filter.StudentID)
	}

	query += ` ORDER BY t.created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("listing transactions", err)
	}
	defer rows.Close()

	var recs []*ledger.Transaction

	for rows.Next() {
		var rec ledger.Transaction

		var note sql.NullString

		if err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.Amount, &rec.Kind, &rec.Method, &note, &rec.CreatedAt,
			&rec.StudentName, &rec.StudentAdmissionNo,
		); err != nil {
			return nil, wrapErr("scanning transaction", err)
		}

		rec.Note = note.String

		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating transaction rows", err)
	}

	return recs, nil
}

func (s *Store) ListPurchases(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Purchase, error) {
	query := `
		SELECT p.id, p.student_id, p.item_id, p.quantity, p.unit_price, p.cost_price,
			p.total_price, p.profit, p.created_at,
			s.name, s.admission_no, i.item_name
		FROM purchases p
		JOIN students s ON p.student_id = s.id
		JOIN stock_items i ON p.item_id = i.id
	`

	var args []any

	if filter.StudentID != nil {
		query += ` WHERE p.student_id = $1`

		args = append(args, *filter.StudentID)
	}

	query += ` ORDER BY p.created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("listing purchases", err)
	}
	defer rows.Close()

	var recs []*ledger.Purchase

	for rows.Next() {
		var rec ledger.Purchase

		if err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.ItemID, &rec.Quantity, &rec.UnitPrice, &rec.CostPrice,
			&rec.TotalPrice, &rec.Profit, &rec.CreatedAt,
			&rec.StudentName, &rec.StudentAdmissionNo, &rec.ItemName,
		); err != nil {
			return nil, wrapErr("scanning purchase", err)
		}

		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating purchase rows", err)
	}

	return recs, nil
}
