package stock

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=stock
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, params UpdateParams) (*Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name         string
	Quantity     int64
	CostPrice    int64
	SellingPrice int64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if params.Quantity < 0 {
		return nil, ErrInvalidStock
	}

	if params.CostPrice < 0 || params.SellingPrice < 0 {
		return nil, ErrInvalidPrice
	}

	item := &Item{
		Name:         name,
		Quantity:     params.Quantity,
		CostPrice:    params.CostPrice,
		SellingPrice: params.SellingPrice,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

type UpdateParams struct {
	Name         *string
	Quantity     *int64
	CostPrice    *int64
	SellingPrice *int64
}

// Update edits catalog fields. Only the provided fields reach storage, so a
// price edit cannot write back a quantity read before a concurrent purchase
// committed. Price edits never touch already-recorded purchases, which carry
// their own snapshots.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Item, error) {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}

		params.Name = &name
	}

	if params.Quantity != nil && *params.Quantity < 0 {
		return nil, ErrInvalidStock
	}

	if params.CostPrice != nil && *params.CostPrice < 0 {
		return nil, ErrInvalidPrice
	}

	if params.SellingPrice != nil && *params.SellingPrice < 0 {
		return nil, ErrInvalidPrice
	}

	return s.repo.UpdateItem(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, id)
}
