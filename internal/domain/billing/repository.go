package billing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDuplicateBillNumber is returned by BillWriteRepository.Create when the
// storage uniqueness constraint on the bill number rejects the insert
var ErrDuplicateBillNumber = errors.New("billing: duplicate bill number")

// CreatedBill is the persisted view of a bill returned by Create
type CreatedBill struct {
	ID         int64
	BillNumber string
	IssuedAt   time.Time
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Currency   string
}

// BillSummary is one row of the bill listing.
// Total is recomputed from persisted lines plus tax.
type BillSummary struct {
	ID         int64
	BillNumber string
	IssuedAt   time.Time
	Total      decimal.Decimal
	Currency   string
}

// BillWriteRepository persists bills
type BillWriteRepository interface {
	// ExistsByNumber reports whether a bill with this exact number is stored
	ExistsByNumber(ctx context.Context, billNumber string) (bool, error)

	// Create stores the bill and all of its lines atomically
	Create(ctx context.Context, bill *Bill) (*CreatedBill, error)
}

// BillReadRepository serves the bill listing
type BillReadRepository interface {
	// ListSummaries returns every bill ordered by id ascending
	ListSummaries(ctx context.Context) ([]BillSummary, error)
}
