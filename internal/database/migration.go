package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the full DDL for a fresh database. Every statement is idempotent
// so Migrate can run on every boot.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	admission_no TEXT NOT NULL UNIQUE,
	class_code TEXT NOT NULL,
	name TEXT NOT NULL,
	balance BIGINT NOT NULL DEFAULT 0,
	total_paid BIGINT NOT NULL DEFAULT 0,
	total_spent BIGINT NOT NULL DEFAULT 0,
	last_payment_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT students_balance_consistent CHECK (balance = total_paid - total_spent)
);

CREATE INDEX IF NOT EXISTS students_class_code_idx ON students (class_code);

CREATE TABLE IF NOT EXISTS stock_items (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	item_name TEXT NOT NULL,
	quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	cost_price BIGINT NOT NULL CHECK (cost_price >= 0),
	selling_price BIGINT NOT NULL CHECK (selling_price >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	student_id UUID NOT NULL REFERENCES students (id) ON DELETE CASCADE,
	amount BIGINT NOT NULL CHECK (amount > 0),
	kind TEXT NOT NULL,
	method TEXT NOT NULL,
	note TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS transactions_student_id_idx ON transactions (student_id);

CREATE TABLE IF NOT EXISTS purchases (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	student_id UUID NOT NULL REFERENCES students (id) ON DELETE CASCADE,
	item_id UUID NOT NULL REFERENCES stock_items (id) ON DELETE CASCADE,
	quantity BIGINT NOT NULL CHECK (quantity > 0),
	unit_price BIGINT NOT NULL,
	cost_price BIGINT NOT NULL,
	total_price BIGINT NOT NULL,
	profit BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS purchases_student_id_idx ON purchases (student_id);
`

// Migrate brings the database schema up to date.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	return nil
}
