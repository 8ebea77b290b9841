package billing

import (
	"context"
	"fmt"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/telemetry"
)

// ListBillsService serves the bill listing
type ListBillsService struct {
	readRepo billing.BillReadRepository
}

// NewListBillsService creates a new ListBillsService
func NewListBillsService(readRepo billing.BillReadRepository) *ListBillsService {
	return &ListBillsService{readRepo: readRepo}
}

// Execute returns every bill summary ordered by id
func (s *ListBillsService) Execute(ctx context.Context) ([]BillSummaryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "list_bills")
	defer span.End()

	summaries, err := s.readRepo.ListSummaries(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return ToBillSummaryResponses(summaries), nil
}
