package handler

import (
	"context"
	"time"

	appbilling "github.com/erp/bills/internal/application/billing"
	"github.com/erp/bills/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BillCreator issues bills
type BillCreator interface {
	Execute(ctx context.Context, cmd appbilling.CreateBillCommand) (*appbilling.CreateBillResult, error)
}

// BillLister lists bill summaries
type BillLister interface {
	Execute(ctx context.Context) ([]appbilling.BillSummaryResponse, error)
}

// Request deadlines applied on top of the client's context
const (
	createTimeout = 10 * time.Second
	listTimeout   = 5 * time.Second
)

// BillHandler serves the bill endpoints
type BillHandler struct {
	BaseHandler
	creator       BillCreator
	lister        BillLister
	minimalLister BillLister
}

// NewBillHandler creates a BillHandler. minimalLister backs /bills-minimal.
func NewBillHandler(creator BillCreator, lister, minimalLister BillLister) *BillHandler {
	return &BillHandler{
		creator:       creator,
		lister:        lister,
		minimalLister: minimalLister,
	}
}

// CreateBill handles POST /api/v1/bills
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, middleware.FormatValidationErrors(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), createTimeout)
	defer cancel()

	result, err := h.creator.Execute(ctx, req.ToCommand())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCreateBillResponse(result))
}

// ListBills handles GET /api/v1/bills
func (h *BillHandler) ListBills(c *gin.Context) {
	h.list(c, h.lister)
}

// ListBillsMinimal handles GET /api/v1/bills-minimal
func (h *BillHandler) ListBillsMinimal(c *gin.Context) {
	h.list(c, h.minimalLister)
}

func (h *BillHandler) list(c *gin.Context, lister BillLister) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), listTimeout)
	defer cancel()

	items, err := lister.Execute(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBillSummaryResponses(items))
}
