package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuspay/campuspay/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DashboardStats(ctx context.Context) (*report.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = 'deposit'),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = 'expense'),
			(SELECT COALESCE(SUM(profit), 0) FROM purchases),
			(SELECT COALESCE(SUM(quantity * cost_price), 0) FROM stock_items)
	`

	var stats report.Stats

	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalStudents,
		&stats.TotalDeposits,
		&stats.TotalExpenses,
		&stats.NetProfit,
		&stats.TotalStockValue,
	)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard stats: %w", err)
	}

	return &stats, nil
}
