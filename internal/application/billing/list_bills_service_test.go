package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBillReadRepository struct {
	mock.Mock
}

func (m *mockBillReadRepository) ListSummaries(ctx context.Context) ([]billing.BillSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillSummary), args.Error(1)
}

func TestListBillsService_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summaries in repository order", func(t *testing.T) {
		repo := new(mockBillReadRepository)
		issued := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		repo.On("ListSummaries", mock.Anything).Return([]billing.BillSummary{
			{ID: 1, BillNumber: "A", IssuedAt: issued, Total: decimal.RequireFromString("22.5"), Currency: "USD"},
			{ID: 2, BillNumber: "B", IssuedAt: issued, Total: decimal.Zero, Currency: "EUR"},
		}, nil)

		result, err := NewListBillsService(repo).Execute(ctx)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, int64(1), result[0].ID)
		assert.Equal(t, "22.50", result[0].Total.StringFixed(2))
		assert.Equal(t, "B", result[1].BillNumber)
		assert.Equal(t, "EUR", result[1].Currency)
	})

	t.Run("returns empty list", func(t *testing.T) {
		repo := new(mockBillReadRepository)
		repo.On("ListSummaries", mock.Anything).Return([]billing.BillSummary{}, nil)

		result, err := NewListBillsService(repo).Execute(ctx)

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		repo := new(mockBillReadRepository)
		dbErr := errors.New("boom")
		repo.On("ListSummaries", mock.Anything).Return(nil, dbErr)

		_, err := NewListBillsService(repo).Execute(ctx)

		assert.ErrorIs(t, err, dbErr)
	})
}
