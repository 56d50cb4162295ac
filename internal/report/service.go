package report

import (
	"context"
)

type Repository interface {
	DashboardStats(ctx context.Context) (*Stats, error)
}

// Stats are the admin dashboard headline figures. NetProfit sums the profit
// recorded on purchases at commit time, so catalog price edits after the fact
// do not move it. TotalStockValue is quantity * cost_price over the catalog.
type Stats struct {
	TotalStudents   int64
	TotalDeposits   int64
	TotalExpenses   int64
	NetProfit       int64
	TotalStockValue int64
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (*Stats, error) {
	return s.repo.DashboardStats(ctx)
}
