package billing

import (
	"context"

	"github.com/erp/bills/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// All repository operations performed inside Execute share one database
// transaction and are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to billing repositories bound to
// the current transaction
type TransactionalRepositories interface {
	// BillWriteRepo returns the bill write repository scoped to the current transaction
	BillWriteRepo() billing.BillWriteRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
type NoOpTransactionScope struct {
	writeRepo billing.BillWriteRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(writeRepo billing.BillWriteRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{writeRepo: writeRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BillWriteRepo returns the bill write repository.
func (s *NoOpTransactionScope) BillWriteRepo() billing.BillWriteRepository {
	return s.writeRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
