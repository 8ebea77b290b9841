package billing

import (
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreateBillLineCommand is one requested line of a new bill
type CreateBillLineCommand struct {
	Concept    string
	Quantity   decimal.NullDecimal
	UnitAmount decimal.NullDecimal
}

// CreateBillCommand carries the data needed to issue a bill
type CreateBillCommand struct {
	BillNumber string
	IssuedAt   time.Time
	// IssuedAtMalformed is set when a date was sent but did not parse
	IssuedAtMalformed bool
	CustomerName      string
	Currency          string
	Tax               decimal.NullDecimal
	Lines             []CreateBillLineCommand
}

func (c CreateBillCommand) toInput() billing.BillInput {
	lines := make([]billing.LineInput, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, billing.LineInput{
			Concept:    l.Concept,
			Quantity:   l.Quantity,
			UnitAmount: l.UnitAmount,
		})
	}
	return billing.BillInput{
		BillNumber:        c.BillNumber,
		IssuedAt:          c.IssuedAt,
		IssuedAtMalformed: c.IssuedAtMalformed,
		CustomerName:      c.CustomerName,
		Currency:          c.Currency,
		Tax:               c.Tax,
		Lines:             lines,
	}
}

// CreateBillResult is returned after a bill has been created and announced
type CreateBillResult struct {
	ID         int64
	BillNumber string
	IssuedAt   time.Time
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Currency   string
}

// ToCreateBillResult converts a persisted bill into a result
func ToCreateBillResult(c *billing.CreatedBill) *CreateBillResult {
	return &CreateBillResult{
		ID:         c.ID,
		BillNumber: c.BillNumber,
		IssuedAt:   c.IssuedAt,
		Subtotal:   c.Subtotal,
		Tax:        c.Tax,
		Total:      c.Total,
		Currency:   c.Currency,
	}
}

// BillSummaryResponse is one entry of the bill listing
type BillSummaryResponse struct {
	ID         int64
	BillNumber string
	IssuedAt   time.Time
	Total      decimal.Decimal
	Currency   string
}

// ToBillSummaryResponses converts domain summaries into responses
func ToBillSummaryResponses(summaries []billing.BillSummary) []BillSummaryResponse {
	out := make([]BillSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = BillSummaryResponse{
			ID:         s.ID,
			BillNumber: s.BillNumber,
			IssuedAt:   s.IssuedAt,
			Total:      s.Total,
			Currency:   s.Currency,
		}
	}
	return out
}
