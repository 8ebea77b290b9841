package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erp/bills/internal/domain/billing"
)

// billSummarySQL is the hand-written listing query served by the minimal endpoint
const billSummarySQL = `
SELECT b.id, b.bill_number, b.issued_at, b.currency,
       COALESCE(SUM(l.line_amount), 0) + b.tax AS total
FROM bill b
LEFT JOIN bill_line l ON l.bill_id = b.id
GROUP BY b.id, b.bill_number, b.issued_at, b.currency, b.tax
ORDER BY b.id`

// SQLBillSummaryReader implements billing.BillReadRepository on database/sql
// without going through the ORM.
type SQLBillSummaryReader struct {
	db *sql.DB
}

// NewSQLBillSummaryReader creates a new SQLBillSummaryReader
func NewSQLBillSummaryReader(db *sql.DB) *SQLBillSummaryReader {
	return &SQLBillSummaryReader{db: db}
}

// ListSummaries returns every bill ordered by id ascending
func (r *SQLBillSummaryReader) ListSummaries(ctx context.Context) ([]billing.BillSummary, error) {
	rows, err := r.db.QueryContext(ctx, billSummarySQL)
	if err != nil {
		return nil, fmt.Errorf("query bill summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]billing.BillSummary, 0)
	for rows.Next() {
		var row billSummaryRow
		if err := rows.Scan(&row.ID, &row.BillNumber, &row.IssuedAt, &row.Currency, &row.Total); err != nil {
			return nil, fmt.Errorf("scan bill summary: %w", err)
		}
		summaries = append(summaries, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bill summaries: %w", err)
	}
	return summaries, nil
}

var _ billing.BillReadRepository = (*SQLBillSummaryReader)(nil)
