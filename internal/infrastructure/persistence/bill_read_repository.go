package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// billSummaryRow is the scan target of the listing query
type billSummaryRow struct {
	ID         int64
	BillNumber string
	IssuedAt   time.Time
	Currency   string
	Total      decimal.Decimal
}

func (r billSummaryRow) toDomain() billing.BillSummary {
	return billing.BillSummary{
		ID:         r.ID,
		BillNumber: r.BillNumber,
		IssuedAt:   billing.DateOnly(r.IssuedAt),
		Total:      valueobject.Round2(r.Total),
		Currency:   r.Currency,
	}
}

// GormBillReadRepository implements billing.BillReadRepository using GORM.
// Totals are recomputed from stored lines plus tax, not read from a column.
type GormBillReadRepository struct {
	db *gorm.DB
}

// NewGormBillReadRepository creates a new GormBillReadRepository
func NewGormBillReadRepository(db *gorm.DB) *GormBillReadRepository {
	return &GormBillReadRepository{db: db}
}

// ListSummaries returns every bill ordered by id ascending
func (r *GormBillReadRepository) ListSummaries(ctx context.Context) ([]billing.BillSummary, error) {
	var rows []billSummaryRow
	err := r.db.WithContext(ctx).
		Table("bill AS b").
		Select("b.id, b.bill_number, b.issued_at, b.currency, COALESCE(SUM(l.line_amount), 0) + b.tax AS total").
		Joins("LEFT JOIN bill_line AS l ON l.bill_id = b.id").
		Group("b.id, b.bill_number, b.issued_at, b.currency, b.tax").
		Order("b.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query bill summaries: %w", err)
	}

	summaries := make([]billing.BillSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toDomain())
	}
	return summaries, nil
}

var _ billing.BillReadRepository = (*GormBillReadRepository)(nil)
