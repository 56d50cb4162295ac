package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campuspay/campuspay/internal/stock"
)

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
		return fmt.Errorf("%s: %w", op, stock.ErrUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, item_name, quantity, cost_price, selling_price, updated_at
func scanItem(s scanner) (*stock.Item, error) {
	var item stock.Item

	if err := s.Scan(
		&item.ID, &item.Name, &item.Quantity,
		&item.CostPrice, &item.SellingPrice, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &item, nil
}

const selectItemColumns = `
	id, item_name, quantity, cost_price, selling_price, updated_at
`

func (s *Store) CreateItem(ctx context.Context, item *stock.Item) error {
	query := `
		INSERT INTO stock_items (item_name, quantity, cost_price, selling_price, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		item.Name,
		item.Quantity,
		item.CostPrice,
		item.SellingPrice,
	).Scan(&item.ID, &item.UpdatedAt)
	if err != nil {
		return wrapErr("creating stock item", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*stock.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM stock_items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stock.ErrNotFound
		}

		return nil, wrapErr("getting stock item", err)
	}

	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*stock.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM stock_items ORDER BY item_name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("listing stock items", err)
	}
	defer rows.Close()

	var items []*stock.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scanning stock item", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating stock rows", err)
	}

	return items, nil
}

// UpdateItem writes only the provided fields in one statement and returns the
// row as stored. Quantity is left alone unless the caller set it, so a
// concurrent purchase decrement is never overwritten by a price edit.
func (s *Store) UpdateItem(ctx context.Context, id uuid.UUID, params stock.UpdateParams) (*stock.Item, error) {
	sets := []string{"updated_at = NOW()"}

	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		set("item_name", *params.Name)
	}

	if params.Quantity != nil {
		set("quantity", *params.Quantity)
	}

	if params.CostPrice != nil {
		set("cost_price", *params.CostPrice)
	}

	if params.SellingPrice != nil {
		set("selling_price", *params.SellingPrice)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE stock_items SET %s WHERE id = $%d RETURNING `+selectItemColumns,
		strings.Join(sets, ", "), len(args),
	)

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stock.ErrNotFound
		}

		return nil, wrapErr("updating stock item", err)
	}

	return item, nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return wrapErr("deleting stock item", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("deleting stock item", err)
	}

	if affected == 0 {
		return stock.ErrNotFound
	}

	return nil
}
