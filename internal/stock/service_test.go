package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/campuspay/campuspay/internal/stock"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    stock.CreateParams
		setupMock func(m *stock.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: stock.CreateParams{
				Name:         "Notebook",
				Quantity:     20,
				CostPrice:    5000,
				SellingPrice: 8000,
			},
			setupMock: func(m *stock.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *stock.Item) error {
						item.ID = uuid.New()
						item.UpdatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:    "EmptyName",
			params:  stock.CreateParams{Name: " ", Quantity: 1, CostPrice: 1, SellingPrice: 1},
			wantErr: stock.ErrInvalidName,
		},
		{
			name:    "NegativeQuantity",
			params:  stock.CreateParams{Name: "Pen", Quantity: -1, CostPrice: 1, SellingPrice: 1},
			wantErr: stock.ErrInvalidStock,
		},
		{
			name:    "NegativePrice",
			params:  stock.CreateParams{Name: "Pen", Quantity: 1, CostPrice: -1, SellingPrice: 1},
			wantErr: stock.ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := stock.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := stock.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	t.Run("PriceEdit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		price := int64(9000)
		params := stock.UpdateParams{SellingPrice: &price}

		repo := stock.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateItem(gomock.Any(), id, params).
			Return(&stock.Item{
				ID:           id,
				Name:         "Notebook",
				Quantity:     10,
				CostPrice:    5000,
				SellingPrice: 9000,
			}, nil)

		svc := stock.NewService(repo)
		got, err := svc.Update(context.Background(), id, params)

		require.NoError(t, err)
		assert.Equal(t, int64(9000), got.SellingPrice)
		assert.Equal(t, int64(5000), got.CostPrice)
	})

	// A price edit must not carry a quantity write: a purchase committing
	// between read and write would otherwise be undone with stale stock.
	t.Run("PriceEditLeavesQuantityAlone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		price := int64(9500)

		repo := stock.NewMockRepository(ctrl)
		repo.EXPECT().
			UpdateItem(gomock.Any(), id, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, params stock.UpdateParams) (*stock.Item, error) {
				require.Nil(t, params.Quantity)
				require.Nil(t, params.Name)
				require.Nil(t, params.CostPrice)
				require.NotNil(t, params.SellingPrice)

				// The row as stored, after a concurrent purchase took stock
				// down to 2: the edit must not resurrect the old quantity.
				return &stock.Item{
					ID:           id,
					Name:         "Notebook",
					Quantity:     2,
					CostPrice:    5000,
					SellingPrice: *params.SellingPrice,
				}, nil
			})

		svc := stock.NewService(repo)
		got, err := svc.Update(context.Background(), id, stock.UpdateParams{SellingPrice: &price})

		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Quantity)
		assert.Equal(t, int64(9500), got.SellingPrice)
	})

	t.Run("NegativeQuantityRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := stock.NewMockRepository(ctrl)

		svc := stock.NewService(repo)
		qty := int64(-3)
		_, err := svc.Update(context.Background(), id, stock.UpdateParams{Quantity: &qty})

		assert.ErrorIs(t, err, stock.ErrInvalidStock)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := stock.NewMockRepository(ctrl)
		repo.EXPECT().UpdateItem(gomock.Any(), id, stock.UpdateParams{}).Return(nil, stock.ErrNotFound)

		svc := stock.NewService(repo)
		_, err := svc.Update(context.Background(), id, stock.UpdateParams{})

		assert.ErrorIs(t, err, stock.ErrNotFound)
	})
}
