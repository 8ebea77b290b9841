package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared"
	"github.com/erp/bills/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrNoBillCreated is returned when the transaction committed without
// producing a created bill
var ErrNoBillCreated = shared.NewDomainError(shared.CodeInternal, "Transaction did not produce a created bill result.")

// CreateBillService issues new bills.
//
// The uniqueness check, validation and insert run in one transaction. The
// bill.created event is published only after that transaction commits; a
// publish failure is reported to the caller but never undoes the bill.
type CreateBillService struct {
	txScope     TransactionScope
	publisher   IntegrationEventPublisher
	logger      *zap.Logger
	metrics     MetricsRecorder
	eventSource string
	clock       func() time.Time
}

// CreateBillOption configures a CreateBillService
type CreateBillOption func(*CreateBillService)

// WithEventSource sets the source tag stamped on published events
func WithEventSource(source string) CreateBillOption {
	return func(s *CreateBillService) {
		if source != "" {
			s.eventSource = source
		}
	}
}

// WithClock overrides the clock used for event timestamps
func WithClock(clock func() time.Time) CreateBillOption {
	return func(s *CreateBillService) {
		s.clock = clock
	}
}

// WithMetrics sets the recorder that receives operation outcomes
func WithMetrics(m MetricsRecorder) CreateBillOption {
	return func(s *CreateBillService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewCreateBillService creates a new CreateBillService
func NewCreateBillService(
	txScope TransactionScope,
	publisher IntegrationEventPublisher,
	logger *zap.Logger,
	opts ...CreateBillOption,
) *CreateBillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CreateBillService{
		txScope:     txScope,
		publisher:   publisher,
		logger:      logger,
		metrics:     noopMetrics{},
		eventSource: billing.DefaultEventSource,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute validates, persists and announces a new bill
func (s *CreateBillService) Execute(ctx context.Context, cmd CreateBillCommand) (*CreateBillResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "create_bill")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillNumber, cmd.BillNumber,
		telemetry.SpanAttrLineCount, len(cmd.Lines),
	)

	var created *billing.CreatedBill
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.BillWriteRepo()

		exists, err := repo.ExistsByNumber(ctx, billing.NormalizeBillNumber(cmd.BillNumber))
		if err != nil {
			return fmt.Errorf("check bill number: %w", err)
		}
		if exists {
			return billing.NewBillNumberConflictError(cmd.BillNumber)
		}

		bill, err := billing.NewBill(cmd.toInput())
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, bill)
		if err != nil {
			if errors.Is(err, billing.ErrDuplicateBillNumber) {
				return billing.NewBillNumberConflictError(cmd.BillNumber)
			}
			return fmt.Errorf("create bill: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordRejection(ctx, cmd, err)
		return nil, err
	}
	if created == nil {
		telemetry.RecordError(span, ErrNoBillCreated)
		s.logger.Error("Bill transaction committed without a result",
			zap.String("bill_number", cmd.BillNumber))
		return nil, ErrNoBillCreated
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrBillID, created.ID,
		telemetry.SpanAttrCurrency, created.Currency,
		telemetry.SpanAttrTotal, created.Total.StringFixed(2),
	)
	s.metrics.RecordBillCreated(ctx, created.Currency)

	event := billing.NewBillCreatedEvent(created, s.clock(), s.eventSource)
	if err := s.publisher.PublishBillCreated(ctx, event); err != nil {
		pubErr := &billing.PublishError{BillID: created.ID, BillNumber: created.BillNumber, Err: err}
		telemetry.RecordError(span, pubErr)
		s.metrics.RecordPublishFailed(ctx, event.EventType())
		s.logger.Error("Failed to publish bill created event",
			zap.Int64("bill_id", created.ID),
			zap.String("bill_number", created.BillNumber),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err))
		return nil, pubErr
	}

	s.logger.Info("Bill created",
		zap.Int64("bill_id", created.ID),
		zap.String("bill_number", created.BillNumber),
		zap.String("total", created.Total.StringFixed(2)),
		zap.String("currency", created.Currency))

	telemetry.SetOK(span)
	return ToCreateBillResult(created), nil
}

func (s *CreateBillService) recordRejection(ctx context.Context, cmd CreateBillCommand, err error) {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.RecordBillRejected(ctx, RejectReasonValidation)
		s.logger.Debug("Bill rejected by validation",
			zap.String("bill_number", cmd.BillNumber),
			zap.Int("violations", len(verr.Items())))
	case errors.Is(err, shared.ErrAlreadyExists):
		s.metrics.RecordBillRejected(ctx, RejectReasonConflict)
		s.logger.Info("Bill number already exists",
			zap.String("bill_number", cmd.BillNumber))
	default:
		s.logger.Error("Failed to create bill",
			zap.String("bill_number", cmd.BillNumber),
			zap.Error(err))
	}
}
