package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBillWriteRepository_SQL(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistsByNumber counts by exact number", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormBillWriteRepository(db.DB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bill" WHERE bill_number = \$1`).
			WithArgs("INV-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByNumber(ctx, "INV-1")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create inserts header then lines in one transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormBillWriteRepository(db.DB)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "bill" \(`).
			WithArgs("INV-1", sqlmock.AnyArg(), "ACME Corp", sqlmock.AnyArg(), sqlmock.AnyArg(), "USD", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery(`INSERT INTO "bill_line"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, newTestBill(t, "INV-1"))
		require.NoError(t, err)

		assert.Equal(t, int64(42), created.ID)
		assert.Equal(t, "INV-1", created.BillNumber)
		assert.Equal(t, "USD", created.Currency)
		assert.Equal(t, "25.50", created.Subtotal.StringFixed(2))
		assert.Equal(t, "2.50", created.Tax.StringFixed(2))
		assert.Equal(t, "28.00", created.Total.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateBillNumber", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormBillWriteRepository(db.DB)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "bill" \(`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_bill_bill_number"})
		mock.ExpectRollback()

		created, err := repo.Create(ctx, newTestBill(t, "INV-1"))
		assert.Nil(t, created)
		assert.ErrorIs(t, err, billing.ErrDuplicateBillNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("line insert failure rolls back the header", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormBillWriteRepository(db.DB)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "bill" \(`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(`INSERT INTO "bill_line"`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.Create(ctx, newTestBill(t, "INV-1"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, billing.ErrDuplicateBillNumber)
		assert.Contains(t, err.Error(), "insert bill lines")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillWriteRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("persists bill and lines", func(t *testing.T) {
		db := setupBillTestDB(t)
		repo := NewGormBillWriteRepository(db)

		created, err := repo.Create(ctx, newTestBill(t, "INV-10"))
		require.NoError(t, err)
		assert.Positive(t, created.ID)
		assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), created.IssuedAt)

		var lines []models.BillLineModel
		require.NoError(t, db.Where("bill_id = ?", created.ID).Order("line_no").Find(&lines).Error)
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].LineNo)
		assert.Equal(t, "Consulting", lines[0].Concept)
		assert.Equal(t, "20.00", lines[0].LineAmount.StringFixed(2))
		assert.Equal(t, 2, lines[1].LineNo)
		assert.Equal(t, "5.50", lines[1].LineAmount.StringFixed(2))

		exists, err := repo.ExistsByNumber(ctx, "INV-10")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("ExistsByNumber is false for unknown numbers", func(t *testing.T) {
		db := setupBillTestDB(t)
		repo := NewGormBillWriteRepository(db)

		exists, err := repo.ExistsByNumber(ctx, "INV-404")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("second insert of the same number is a duplicate", func(t *testing.T) {
		db := setupBillTestDB(t)
		repo := NewGormBillWriteRepository(db)

		_, err := repo.Create(ctx, newTestBill(t, "INV-11"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newTestBill(t, "INV-11"))
		assert.ErrorIs(t, err, billing.ErrDuplicateBillNumber)

		var count int64
		require.NoError(t, db.Model(&models.BillLineModel{}).Count(&count).Error)
		assert.Equal(t, int64(2), count, "lines of the rejected bill must not be stored")
	})
}
