package billing

import (
	"fmt"

	"github.com/erp/bills/internal/domain/shared"
)

// NewBillNumberConflictError reports that billNumber is already taken.
// The message echoes the number exactly as the caller supplied it.
func NewBillNumberConflictError(billNumber string) *shared.DomainError {
	return shared.NewDomainError(
		shared.CodeAlreadyExists,
		fmt.Sprintf("Bill number '%s' already exists.", billNumber),
	)
}

// PublishError is returned when a bill was committed but its integration
// event could not be delivered. The bill stays persisted.
type PublishError struct {
	BillID     int64
	BillNumber string
	Err        error
}

// Error implements the error interface
func (e *PublishError) Error() string {
	return fmt.Sprintf("bill %d (%s) was created but publishing %s failed: %v",
		e.BillID, e.BillNumber, EventTypeBillCreated, e.Err)
}

// Unwrap returns the publisher failure
func (e *PublishError) Unwrap() error {
	return e.Err
}

// Code returns the error code used by the HTTP layer
func (e *PublishError) Code() string {
	return shared.CodePublishFailed
}
