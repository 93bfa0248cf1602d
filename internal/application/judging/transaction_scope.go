package judging

import (
	"context"

	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
)

// TransactionScope runs an offer's live-contract check and insert, or a
// response and its checklist side effects, atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories bound to one transaction
type TransactionalRepositories interface {
	Contracts() judging.Repository
	Checklist() checklist.Repository
}

// NoOpTransactionScope runs fn directly against the given repositories
type NoOpTransactionScope struct {
	contracts judging.Repository
	checklist checklist.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(contracts judging.Repository, items checklist.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{contracts: contracts, checklist: items}
}

// Execute implements TransactionScope
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Contracts implements TransactionalRepositories
func (s *NoOpTransactionScope) Contracts() judging.Repository { return s.contracts }

// Checklist implements TransactionalRepositories
func (s *NoOpTransactionScope) Checklist() checklist.Repository { return s.checklist }
