package persistence

import (
	"context"
	"errors"
	"testing"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		db := setupBillTestDB(t)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
			exists, err := repos.BillWriteRepo().ExistsByNumber(ctx, "INV-1")
			require.NoError(t, err)
			require.False(t, exists)

			_, err = repos.BillWriteRepo().Create(ctx, newTestBill(t, "INV-1"))
			return err
		})
		require.NoError(t, err)

		exists, err := NewGormBillWriteRepository(db).ExistsByNumber(ctx, "INV-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("rolls back bill and lines when fn fails", func(t *testing.T) {
		db := setupBillTestDB(t)
		scope := NewGormTransactionScope(db)
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
			if _, err := repos.BillWriteRepo().Create(ctx, newTestBill(t, "INV-2")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		summaries, err := NewGormBillReadRepository(db).ListSummaries(ctx)
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})
}
