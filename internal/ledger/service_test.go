package ledger_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/campuspay/campuspay/internal/ledger"
	"github.com/campuspay/campuspay/internal/stock"
	"github.com/campuspay/campuspay/internal/student"
)

func TestService_ApplyTransaction(t *testing.T) {
	studentID := uuid.New()

	type testCase struct {
		name      string
		params    ledger.TransactionParams
		setupMock func(repo *ledger.MockRepository, tx *ledger.MockTx)
		wantErr   error
		wantFail  bool
	}

	tests := []testCase{
		{
			name: "DepositMovesBalanceAndTotalPaid",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindDeposit,
				Amount:    5000,
				Method:    ledger.MethodOnline,
			},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, ledger.StudentDelta{
						Balance:     5000,
						Paid:        5000,
						MarkPayment: true,
					}).
					Return(nil)
				tx.EXPECT().
					InsertTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *ledger.Transaction) error {
						rec.ID = uuid.New()
						rec.CreatedAt = time.Now()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
		},
		{
			name: "ExpenseMayOverdraw",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindExpense,
				Amount:    3000,
				Method:    ledger.MethodCash,
				Note:      "canteen",
			},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, ledger.StudentDelta{
						Balance: -3000,
						Spent:   3000,
					}).
					Return(nil)
				tx.EXPECT().
					InsertTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *ledger.Transaction) error {
						rec.ID = uuid.New()
						rec.CreatedAt = time.Now()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
		},
		{
			name: "ZeroAmountRejected",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindDeposit,
				Amount:    0,
				Method:    ledger.MethodOnline,
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name: "NegativeAmountRejected",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindExpense,
				Amount:    -100,
				Method:    ledger.MethodCash,
			},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name: "UnknownKindRejected",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.Kind("refund"),
				Amount:    100,
				Method:    ledger.MethodCash,
			},
			wantErr: ledger.ErrInvalidKind,
		},
		{
			name: "UnknownMethodRejected",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindDeposit,
				Amount:    100,
				Method:    ledger.Method("cheque"),
			},
			wantErr: ledger.ErrInvalidMethod,
		},
		{
			name: "UnknownStudentRollsBack",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindDeposit,
				Amount:    100,
				Method:    ledger.MethodOnline,
			},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, gomock.Any()).
					Return(student.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: student.ErrNotFound,
		},
		{
			name: "CommitFailureSurfaces",
			params: ledger.TransactionParams{
				StudentID: studentID,
				Kind:      ledger.KindDeposit,
				Amount:    100,
				Method:    ledger.MethodOnline,
			},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ApplyStudentDelta(gomock.Any(), studentID, gomock.Any()).Return(nil)
				tx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(errors.New("broken pipe"))
				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tx := ledger.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := ledger.NewService(repo, false)
			got, err := svc.ApplyTransaction(context.Background(), tt.params)

			if tt.wantErr != nil || tt.wantFail {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.params.Kind, got.Kind)
			assert.Equal(t, tt.params.Amount, got.Amount)
			assert.Equal(t, tt.params.Method, got.Method)
		})
	}
}

func TestService_ApplyPurchase(t *testing.T) {
	studentID := uuid.New()
	itemID := uuid.New()

	item := func() *stock.Item {
		return &stock.Item{
			ID:           itemID,
			Name:         "Notebook",
			Quantity:     10,
			CostPrice:    5000,
			SellingPrice: 8000,
		}
	}

	type testCase struct {
		name         string
		params       ledger.PurchaseParams
		requireFunds bool
		setupMock    func(repo *ledger.MockRepository, tx *ledger.MockTx)
		wantErr      error
		check        func(t *testing.T, got *ledger.Purchase)
	}

	tests := []testCase{
		{
			name:   "SnapshotsPricesAndDebitsStudent",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 3},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(item(), nil)
				tx.EXPECT().DecrementItem(gomock.Any(), itemID, int64(3)).Return(nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, ledger.StudentDelta{
						Balance: -24000,
						Spent:   24000,
					}).
					Return(nil)
				tx.EXPECT().
					InsertPurchase(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *ledger.Purchase) error {
						rec.ID = uuid.New()
						rec.CreatedAt = time.Now()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			check: func(t *testing.T, got *ledger.Purchase) {
				assert.Equal(t, int64(8000), got.UnitPrice)
				assert.Equal(t, int64(5000), got.CostPrice)
				assert.Equal(t, int64(24000), got.TotalPrice)
				assert.Equal(t, int64(9000), got.Profit)
			},
		},
		{
			name:    "ZeroQuantityRejected",
			params:  ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 0},
			wantErr: ledger.ErrInvalidQuantity,
		},
		{
			name:   "UnknownItem",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(nil, stock.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: stock.ErrNotFound,
		},
		{
			name:   "InsufficientStockLeavesEverythingUntouched",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 12},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(item(), nil)
				tx.EXPECT().DecrementItem(gomock.Any(), itemID, int64(12)).Return(ledger.ErrInsufficientStock)
				// No student delta and no insert may follow a failed decrement.
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: ledger.ErrInsufficientStock,
		},
		{
			name:   "UnknownStudentRollsBack",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 2},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(item(), nil)
				tx.EXPECT().DecrementItem(gomock.Any(), itemID, int64(2)).Return(nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, gomock.Any()).
					Return(student.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: student.ErrNotFound,
		},
		{
			name:         "FundsCheckRejectsOverdraft",
			params:       ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 3},
			requireFunds: true,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(item(), nil)
				tx.EXPECT().
					StudentForUpdate(gomock.Any(), studentID).
					Return(&student.Student{ID: studentID, Balance: 20000, TotalPaid: 20000}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: ledger.ErrInsufficientFunds,
		},
		{
			name:         "FundsCheckPassesWithEnoughBalance",
			params:       ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 3},
			requireFunds: true,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ItemForUpdate(gomock.Any(), itemID).Return(item(), nil)
				tx.EXPECT().
					StudentForUpdate(gomock.Any(), studentID).
					Return(&student.Student{ID: studentID, Balance: 50000, TotalPaid: 50000}, nil)
				tx.EXPECT().DecrementItem(gomock.Any(), itemID, int64(3)).Return(nil)
				tx.EXPECT().
					ApplyStudentDelta(gomock.Any(), studentID, ledger.StudentDelta{
						Balance: -24000,
						Spent:   24000,
					}).
					Return(nil)
				tx.EXPECT().
					InsertPurchase(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *ledger.Purchase) error {
						rec.ID = uuid.New()
						rec.CreatedAt = time.Now()
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
		},
		{
			name:   "OverflowingTotalRejected",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 3},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().
					ItemForUpdate(gomock.Any(), itemID).
					Return(&stock.Item{
						ID:           itemID,
						Name:         "Gold bar",
						Quantity:     10,
						CostPrice:    math.MaxInt64 / 2,
						SellingPrice: math.MaxInt64 / 2,
					}, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: ledger.ErrInvalidQuantity,
		},
		{
			name:   "StorageUnavailableOnBegin",
			params: ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(nil, ledger.ErrUnavailable)
			},
			wantErr: ledger.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tx := ledger.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := ledger.NewService(repo, tt.requireFunds)
			got, err := svc.ApplyPurchase(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

// Two purchases racing over the last units resolve to exactly one success:
// the guarded decrement only fires when the on-hand quantity covers the
// request, so stock never goes negative no matter how stale the snapshot
// read was. The fake storage here enforces the same quantity guard the SQL
// statement does.
func TestService_ApplyPurchase_NeverOversells(t *testing.T) {
	studentID := uuid.New()
	itemID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remaining := int64(5)

	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)
	tx.EXPECT().
		ItemForUpdate(gomock.Any(), itemID).
		DoAndReturn(func(_ context.Context, _ uuid.UUID) (*stock.Item, error) {
			return &stock.Item{
				ID:           itemID,
				Name:         "Notebook",
				Quantity:     remaining,
				CostPrice:    5000,
				SellingPrice: 8000,
			}, nil
		}).
		Times(2)
	tx.EXPECT().
		DecrementItem(gomock.Any(), itemID, int64(3)).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, qty int64) error {
			if qty > remaining {
				return ledger.ErrInsufficientStock
			}

			remaining -= qty

			return nil
		}).
		Times(2)
	tx.EXPECT().
		ApplyStudentDelta(gomock.Any(), studentID, ledger.StudentDelta{Balance: -24000, Spent: 24000}).
		Return(nil)
	tx.EXPECT().
		InsertPurchase(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *ledger.Purchase) error {
			rec.ID = uuid.New()
			rec.CreatedAt = time.Now()
			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil).AnyTimes()

	svc := ledger.NewService(repo, false)
	params := ledger.PurchaseParams{StudentID: studentID, ItemID: itemID, Quantity: 3}

	first, err := svc.ApplyPurchase(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.ApplyPurchase(context.Background(), params)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)
	assert.Nil(t, second)

	// Exactly one sale of three units happened against the five on hand.
	assert.Equal(t, int64(2), remaining)
}

// Every delta the service emits must keep balance == total_paid - total_spent.
func TestService_DeltasPreserveBalanceInvariant(t *testing.T) {
	studentID := uuid.New()

	params := []ledger.TransactionParams{
		{StudentID: studentID, Kind: ledger.KindDeposit, Amount: 12345, Method: ledger.MethodOnline},
		{StudentID: studentID, Kind: ledger.KindExpense, Amount: 999, Method: ledger.MethodCredit},
	}

	for _, p := range params {
		t.Run(string(p.Kind), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			tx := ledger.NewMockTx(ctrl)

			var captured ledger.StudentDelta

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().
				ApplyStudentDelta(gomock.Any(), studentID, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ uuid.UUID, d ledger.StudentDelta) error {
					captured = d
					return nil
				})
			tx.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil)
			tx.EXPECT().Commit().Return(nil)
			tx.EXPECT().Rollback().Return(nil).AnyTimes()

			svc := ledger.NewService(repo, false)
			_, err := svc.ApplyTransaction(context.Background(), p)
			require.NoError(t, err)

			assert.Equal(t, captured.Paid-captured.Spent, captured.Balance)
		})
	}
}
