package persistence

import (
	"testing"
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupBillTestDB opens an in-memory SQLite database with the bill tables.
// The pool is pinned to one connection so every query sees the same database.
func setupBillTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.BillModel{}, &models.BillLineModel{}))
	return db
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// newTestBill builds a valid bill: 2 x 10.00 + 1 x 5.50, tax 2.50
func newTestBill(t *testing.T, number string) *billing.Bill {
	t.Helper()

	bill, err := billing.NewBill(billing.BillInput{
		BillNumber:   number,
		IssuedAt:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		CustomerName: "ACME Corp",
		Currency:     "usd",
		Tax:          nd("2.50"),
		Lines: []billing.LineInput{
			{Concept: "Consulting", Quantity: nd("2"), UnitAmount: nd("10.00")},
			{Concept: "Travel", Quantity: nd("1"), UnitAmount: nd("5.50")},
		},
	})
	require.NoError(t, err)
	return bill
}
