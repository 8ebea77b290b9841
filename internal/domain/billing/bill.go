package billing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/bills/internal/domain/shared"
	"github.com/erp/bills/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Bill validation keys and limits
const (
	FieldBillNumber   = "billNumber"
	FieldCustomerName = "customerName"
	FieldIssuedAt     = "issuedAt"
	FieldCurrency     = "currency"
	FieldTax          = "tax"
	FieldLines        = "lines"

	MaxBillNumberLength   = 50
	MaxCustomerNameLength = 200

	// IssuedAtLayout is the wire format of a bill's issue date
	IssuedAtLayout = time.DateOnly
)

// BillInput is the raw, unvalidated data for a new bill
type BillInput struct {
	BillNumber string
	IssuedAt   time.Time
	// IssuedAtMalformed marks a date that was supplied but could not be
	// parsed as IssuedAtLayout; IssuedAt is zero in that case
	IssuedAtMalformed bool
	CustomerName      string
	Currency          string
	Tax               decimal.NullDecimal
	Lines             []LineInput
}

// Bill is a validated bill ready to be persisted
type Bill struct {
	BillNumber   string
	IssuedAt     time.Time
	CustomerName string
	Currency     valueobject.Currency
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Lines        []BillLine
}

// NewBill validates input and builds a Bill.
//
// Lines are renumbered 1..n in input order. Validation errors for the header
// and for every line are merged into one *shared.ValidationError.
func NewBill(input BillInput) (*Bill, error) {
	verr := shared.NewValidationError()

	billNumber := strings.TrimSpace(input.BillNumber)
	if billNumber == "" {
		verr.Add(FieldBillNumber, "Bill number is required.")
	}
	if utf8.RuneCountInString(billNumber) > MaxBillNumberLength {
		verr.Add(FieldBillNumber, "Bill number max length is 50.")
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		verr.Add(FieldCustomerName, "Customer name is required.")
	}
	if utf8.RuneCountInString(customerName) > MaxCustomerNameLength {
		verr.Add(FieldCustomerName, "Customer name max length is 200.")
	}

	switch {
	case input.IssuedAtMalformed:
		verr.Add(FieldIssuedAt, "Issued date must use format YYYY-MM-DD.")
	case input.IssuedAt.IsZero():
		verr.Add(FieldIssuedAt, "Issued date is required.")
	}

	currency, err := valueobject.ParseCurrency(input.Currency)
	if err != nil {
		verr.Add(FieldCurrency, "Currency must be a 3-letter ISO code.")
	}

	tax := decimal.Zero
	if input.Tax.Valid {
		if input.Tax.Decimal.IsNegative() {
			verr.Add(FieldTax, "Tax cannot be negative.")
		}
		tax = valueobject.Round2(input.Tax.Decimal)
	}

	if len(input.Lines) == 0 {
		verr.Add(FieldLines, "At least one line is required.")
	}

	lines := make([]BillLine, 0, len(input.Lines))
	for i, in := range input.Lines {
		in.LineNo = i + 1
		line, lineErr := buildLine(in)
		if lineErr.HasErrors() {
			verr.Merge(lineErr)
			continue
		}
		lines = append(lines, *line)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineAmount)
	}
	subtotal = valueobject.Round2(subtotal)

	return &Bill{
		BillNumber:   billNumber,
		IssuedAt:     DateOnly(input.IssuedAt),
		CustomerName: customerName,
		Currency:     currency,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        valueobject.Round2(subtotal.Add(tax)),
		Lines:        lines,
	}, nil
}

// DateOnly drops the time-of-day of t, keeping its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeBillNumber is the form of a bill number used for uniqueness checks
func NormalizeBillNumber(billNumber string) string {
	return strings.TrimSpace(billNumber)
}
