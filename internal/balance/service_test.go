package balance_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/campuspay/campuspay/internal/balance"
	"github.com/campuspay/campuspay/internal/student"
)

var classes = student.NewClassSet([]string{"S1", "S2", "D1", "D3"})

func TestService_FindByAdmissionNumber(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := balance.NewMockReader(ctrl)
		want := &student.Student{
			ID:          uuid.New(),
			AdmissionNo: "S1001",
			ClassCode:   "S1",
			Name:        "Anita",
			Balance:     1500,
			TotalPaid:   2000,
			TotalSpent:  500,
		}
		reader.EXPECT().
			GetStudentByAdmissionNo(gomock.Any(), "S1001").
			Return(want, nil)

		svc := balance.NewService(reader, classes)
		got, err := svc.FindByAdmissionNumber(context.Background(), "S1001")

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("UnknownNumberIsNotFoundNotEmpty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := balance.NewMockReader(ctrl)
		reader.EXPECT().
			GetStudentByAdmissionNo(gomock.Any(), "ZZZ").
			Return(nil, student.ErrNotFound)

		svc := balance.NewService(reader, classes)
		got, err := svc.FindByAdmissionNumber(context.Background(), "ZZZ")

		assert.ErrorIs(t, err, student.ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestService_FindByClassCode(t *testing.T) {
	t.Run("SumsBalancesAcrossTheClass", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := balance.NewMockReader(ctrl)
		reader.EXPECT().
			ListStudentsByClass(gomock.Any(), "S1").
			Return([]*student.Student{
				{Name: "Anita", Balance: 1000, TotalPaid: 1000},
				{Name: "Bala", Balance: -500, TotalPaid: 200, TotalSpent: 700},
				{Name: "Chitra", Balance: 2000, TotalPaid: 2500, TotalSpent: 500},
			}, nil)

		svc := balance.NewService(reader, classes)
		got, err := svc.FindByClassCode(context.Background(), "S1")

		require.NoError(t, err)
		require.Len(t, got.Students, 3)
		assert.Equal(t, int64(2500), got.Summary.Balance)
		assert.Equal(t, int64(3700), got.Summary.TotalPaid)
		assert.Equal(t, int64(1200), got.Summary.TotalSpent)
	})

	t.Run("EmptyClassIsASuccess", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := balance.NewMockReader(ctrl)
		reader.EXPECT().
			ListStudentsByClass(gomock.Any(), "D3").
			Return(nil, nil)

		svc := balance.NewService(reader, classes)
		got, err := svc.FindByClassCode(context.Background(), "D3")

		require.NoError(t, err)
		assert.Empty(t, got.Students)
		assert.Equal(t, balance.Summary{}, got.Summary)
	})

	t.Run("UnknownClassCodeRejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := balance.NewMockReader(ctrl)

		svc := balance.NewService(reader, classes)
		got, err := svc.FindByClassCode(context.Background(), "X9")

		assert.ErrorIs(t, err, student.ErrUnknownClass)
		assert.Nil(t, got)
	})
}
