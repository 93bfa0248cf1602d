package checkout

import (
	"context"

	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/payment"
)

// TransactionScope runs checkout writes atomically.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories share one database transaction
type TransactionalRepositories interface {
	Orders() entry.OrderRepository
	Entries() entry.EntryRepository
	AuditLogs() entry.AuditLogRepository
	Payments() payment.Repository
}

// NoOpTransactionScope runs fn against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	orders   entry.OrderRepository
	entries  entry.EntryRepository
	audit    entry.AuditLogRepository
	payments payment.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	orders entry.OrderRepository,
	entries entry.EntryRepository,
	audit entry.AuditLogRepository,
	payments payment.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, entries: entries, audit: audit, payments: payments}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Orders() entry.OrderRepository       { return s.orders }
func (s *NoOpTransactionScope) Entries() entry.EntryRepository      { return s.entries }
func (s *NoOpTransactionScope) AuditLogs() entry.AuditLogRepository { return s.audit }
func (s *NoOpTransactionScope) Payments() payment.Repository        { return s.payments }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
