package billing

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/bills/internal/domain/shared"
	"github.com/erp/bills/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Line validation keys and limits
const (
	FieldLineNo         = "lines.lineNo"
	FieldLineConcept    = "lines.concept"
	FieldLineQuantity   = "lines.quantity"
	FieldLineUnitAmount = "lines.unitAmount"

	MaxConceptLength = 200
)

// LineInput is the raw, unvalidated data for a bill line
type LineInput struct {
	LineNo     int
	Concept    string
	Quantity   decimal.NullDecimal
	UnitAmount decimal.NullDecimal
}

// BillLine is a validated line with its derived amount
type BillLine struct {
	LineNo     int
	Concept    string
	Quantity   decimal.Decimal
	UnitAmount decimal.Decimal
	LineAmount decimal.Decimal
}

// NewBillLine validates input and builds a BillLine.
// Every violation is reported in the returned *shared.ValidationError.
func NewBillLine(input LineInput) (*BillLine, error) {
	line, verr := buildLine(input)
	if verr.HasErrors() {
		return nil, verr
	}
	return line, nil
}

func buildLine(input LineInput) (*BillLine, *shared.ValidationError) {
	verr := shared.NewValidationError()

	if input.LineNo <= 0 {
		verr.Add(FieldLineNo, "Line number must be greater than zero.")
	}

	concept := strings.TrimSpace(input.Concept)
	if concept == "" {
		verr.Add(FieldLineConcept, "Line concept is required.")
	}
	if utf8.RuneCountInString(concept) > MaxConceptLength {
		verr.Add(FieldLineConcept, "Line concept max length is 200.")
	}

	if !input.Quantity.Valid || !input.Quantity.Decimal.IsPositive() {
		verr.Add(FieldLineQuantity, "Line quantity must be greater than zero.")
	}
	if !input.UnitAmount.Valid || input.UnitAmount.Decimal.IsNegative() {
		verr.Add(FieldLineUnitAmount, "Line unit amount cannot be negative.")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	quantity := valueobject.Round2(input.Quantity.Decimal)
	unitAmount := valueobject.Round2(input.UnitAmount.Decimal)

	return &BillLine{
		LineNo:     input.LineNo,
		Concept:    concept,
		Quantity:   quantity,
		UnitAmount: unitAmount,
		LineAmount: valueobject.Round2(quantity.Mul(unitAmount)),
	}, verr
}
