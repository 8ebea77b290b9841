package handler

import (
	"encoding/json"
	"strings"
	"time"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateBillLineRequest is one line of a create bill request
type CreateBillLineRequest struct {
	Concept    string              `json:"concept"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	UnitAmount decimal.NullDecimal `json:"unitAmount"`
}

// CreateBillRequest is the body of POST /api/v1/bills.
// Field rules are enforced by the domain so every violation is reported together.
type CreateBillRequest struct {
	BillNumber   string                  `json:"billNumber"`
	IssuedAt     string                  `json:"issuedAt"`
	CustomerName string                  `json:"customerName"`
	Currency     string                  `json:"currency"`
	Tax          decimal.NullDecimal     `json:"tax"`
	Lines        []CreateBillLineRequest `json:"lines"`
}

// ToCommand converts the request into a CreateBillCommand. An empty
// issuedAt stays zero; one that does not parse is flagged as malformed.
func (r *CreateBillRequest) ToCommand() appbilling.CreateBillCommand {
	var (
		issuedAt  time.Time
		malformed bool
	)
	if raw := strings.TrimSpace(r.IssuedAt); raw != "" {
		t, err := time.Parse(billing.IssuedAtLayout, raw)
		if err != nil {
			malformed = true
		} else {
			issuedAt = t
		}
	}

	lines := make([]appbilling.CreateBillLineCommand, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, appbilling.CreateBillLineCommand{
			Concept:    l.Concept,
			Quantity:   l.Quantity,
			UnitAmount: l.UnitAmount,
		})
	}

	return appbilling.CreateBillCommand{
		BillNumber:        r.BillNumber,
		IssuedAt:          issuedAt,
		IssuedAtMalformed: malformed,
		CustomerName:      r.CustomerName,
		Currency:          r.Currency,
		Tax:               r.Tax,
		Lines:             lines,
	}
}

// CreateBillResponse is returned by POST /api/v1/bills
type CreateBillResponse struct {
	ID         int64       `json:"id"`
	BillNumber string      `json:"billNumber"`
	IssuedAt   string      `json:"issuedAt"`
	Subtotal   json.Number `json:"subtotal"`
	Tax        json.Number `json:"tax"`
	Total      json.Number `json:"total"`
	Currency   string      `json:"currency"`
}

// BillSummaryResponse is one entry of GET /api/v1/bills
type BillSummaryResponse struct {
	ID         int64       `json:"id"`
	BillNumber string      `json:"billNumber"`
	IssuedAt   string      `json:"issuedAt"`
	Total      json.Number `json:"total"`
	Currency   string      `json:"currency"`
}

func toCreateBillResponse(r *appbilling.CreateBillResult) CreateBillResponse {
	return CreateBillResponse{
		ID:         r.ID,
		BillNumber: r.BillNumber,
		IssuedAt:   r.IssuedAt.Format(billing.IssuedAtLayout),
		Subtotal:   valueobject.Number(r.Subtotal),
		Tax:        valueobject.Number(r.Tax),
		Total:      valueobject.Number(r.Total),
		Currency:   r.Currency,
	}
}

func toBillSummaryResponses(items []appbilling.BillSummaryResponse) []BillSummaryResponse {
	out := make([]BillSummaryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, BillSummaryResponse{
			ID:         item.ID,
			BillNumber: item.BillNumber,
			IssuedAt:   item.IssuedAt.Format(billing.IssuedAtLayout),
			Total:      valueobject.Number(item.Total),
			Currency:   item.Currency,
		})
	}
	return out
}
