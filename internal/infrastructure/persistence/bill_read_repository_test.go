package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/bills/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillReadRepository_ListSummaries(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty list", func(t *testing.T) {
		db := setupBillTestDB(t)
		repo := NewGormBillReadRepository(db)

		summaries, err := repo.ListSummaries(ctx)
		require.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})

	t.Run("totals are recomputed from lines plus tax in id order", func(t *testing.T) {
		db := setupBillTestDB(t)
		writer := NewGormBillWriteRepository(db)

		first, err := writer.Create(ctx, newTestBill(t, "INV-1"))
		require.NoError(t, err)
		second, err := writer.Create(ctx, newTestBill(t, "INV-2"))
		require.NoError(t, err)

		// A header without lines still lists with total == tax
		orphan := &models.BillModel{
			BillNumber:   "INV-3",
			IssuedAt:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			CustomerName: "Nobody",
			Subtotal:     decimal.Zero,
			Tax:          decimal.RequireFromString("1.25"),
			Currency:     "EUR",
		}
		require.NoError(t, db.Create(orphan).Error)

		summaries, err := NewGormBillReadRepository(db).ListSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 3)

		assert.Equal(t, first.ID, summaries[0].ID)
		assert.Equal(t, "INV-1", summaries[0].BillNumber)
		assert.Equal(t, "28.00", summaries[0].Total.StringFixed(2))
		assert.Equal(t, "USD", summaries[0].Currency)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), summaries[0].IssuedAt)

		assert.Equal(t, second.ID, summaries[1].ID)

		assert.Equal(t, orphan.ID, summaries[2].ID)
		assert.Equal(t, "1.25", summaries[2].Total.StringFixed(2))
		assert.Equal(t, "EUR", summaries[2].Currency)
	})
}

func TestSQLBillSummaryReader_ListSummaries(t *testing.T) {
	ctx := context.Background()

	t.Run("scans rows and rounds totals", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		issued := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT b.id, b.bill_number, b.issued_at, b.currency,.*LEFT JOIN bill_line l ON l.bill_id = b.id.*ORDER BY b.id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "bill_number", "issued_at", "currency", "total"}).
				AddRow(int64(1), "INV-1", issued, "USD", "28.00").
				AddRow(int64(2), "INV-2", issued, "EUR", "3.5"))

		summaries, err := NewSQLBillSummaryReader(mockDB).ListSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, int64(1), summaries[0].ID)
		assert.Equal(t, "28.00", summaries[0].Total.StringFixed(2))
		assert.Equal(t, "3.50", summaries[1].Total.StringFixed(2))
		assert.Equal(t, "EUR", summaries[1].Currency)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT b.id`).WillReturnError(assert.AnError)

		_, err = NewSQLBillSummaryReader(mockDB).ListSummaries(ctx)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "query bill summaries")
	})

	t.Run("no rows returns empty slice", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT b.id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "bill_number", "issued_at", "currency", "total"}))

		summaries, err := NewSQLBillSummaryReader(mockDB).ListSummaries(ctx)
		require.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})
}
