package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campuspay/campuspay/internal/student"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// wrapErr surfaces storage timeouts and dead connections as ErrUnavailable
// so callers can retry.
func wrapErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w", op, student.ErrUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads a student row from the scanner.
// Expected column order: id, admission_no, class_code, name, balance, total_paid, total_spent, last_payment_at, created_at
func scanStudent(s scanner) (*student.Student, error) {
	var st student.Student

	var lastPayment sql.NullTime

	if err := s.Scan(
		&st.ID, &st.AdmissionNo, &st.ClassCode, &st.Name,
		&st.Balance, &st.TotalPaid, &st.TotalSpent,
		&lastPayment, &st.CreatedAt,
	); err != nil {
		return nil, err
	}

	if lastPayment.Valid {
		st.LastPaymentAt = &lastPayment.Time
	}

	return &st, nil
}

const selectStudentColumns = `
	id, admission_no, class_code, name, balance, total_paid, total_spent, last_payment_at, created_at
`

func (s *Store) CreateStudent(ctx context.Context, st *student.Student) error {
	query := `
		INSERT INTO students (admission_no, class_code, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		st.AdmissionNo,
		st.ClassCode,
		st.Name,
	).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return student.ErrDuplicateAdmission
		}

		return wrapErr("creating student", err)
	}

	return nil
}

func (s *Store) GetStudent(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	query := `SELECT ` + selectStudentColumns + ` FROM students WHERE id = $1`

	st, err := scanStudent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, student.ErrNotFound
		}

		return nil, wrapErr("getting student", err)
	}

	return st, nil
}

func (s *Store) GetStudentByAdmissionNo(ctx context.Context, admissionNo string) (*student.Student, error) {
	query := `SELECT ` + selectStudentColumns + ` FROM students WHERE admission_no = $1`

	st, err := scanStudent(s.db.QueryRowContext(ctx, query, admissionNo))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, student.ErrNotFound
		}

		return nil, wrapErr("getting student by admission no", err)
	}

	return st, nil
}

func (s *Store) ListStudentsByClass(ctx context.Context, classCode string) ([]*student.Student, error) {
	query := `SELECT ` + selectStudentColumns + `
		FROM students
		WHERE class_code = $1
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, classCode)
	if err != nil {
		return nil, wrapErr("listing students", err)
	}
	defer rows.Close()

	var students []*student.Student

	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, wrapErr("scanning student", err)
		}

		students = append(students, st)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating student rows", err)
	}

	return students, nil
}

// UpdateStudent writes identity fields only. Balance and the running totals
// belong to the ledger store.
func (s *Store) UpdateStudent(ctx context.Context, st *student.Student) error {
	query := `
		UPDATE students
		SET name = $1, class_code = $2
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, st.Name, st.ClassCode, st.ID)
	if err != nil {
		return wrapErr("updating student", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("updating student", err)
	}

	if affected == 0 {
		return student.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting student", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("deleting student", err)
	}

	if affected == 0 {
		return student.ErrNotFound
	}

	return nil
}
