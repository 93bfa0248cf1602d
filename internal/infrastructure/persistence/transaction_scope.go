package persistence

import (
	"context"

	appcatalogue "github.com/showring/backend/internal/application/catalogue"
	appcheckout "github.com/showring/backend/internal/application/checkout"
	appjudging "github.com/showring/backend/internal/application/judging"
	"github.com/showring/backend/internal/domain/catalogue"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/payment"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application TransactionScopes using
// GORM transactions. If fn returns an error the transaction is rolled
// back, otherwise it is committed.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// CheckoutScope adapts the scope to checkout.TransactionScope
func (s *GormTransactionScope) CheckoutScope() appcheckout.TransactionScope {
	return checkoutScope{s}
}

// JudgingScope adapts the scope to judging.TransactionScope
func (s *GormTransactionScope) JudgingScope() appjudging.TransactionScope {
	return judgingScope{s}
}

// CatalogueScope adapts the scope to catalogue.TransactionScope
func (s *GormTransactionScope) CatalogueScope() appcatalogue.TransactionScope {
	return catalogueScope{s}
}

func (s *GormTransactionScope) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// gormTransactionalRepositories provides every repository bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Orders() entry.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Entries() entry.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditLogs() entry.AuditLogRepository {
	return NewGormAuditLogRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() payment.Repository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Contracts() judging.Repository {
	return NewGormJudgeContractRepository(r.tx)
}

func (r *gormTransactionalRepositories) Checklist() checklist.Repository {
	return NewGormChecklistRepository(r.tx)
}

type checkoutScope struct{ s *GormTransactionScope }

func (c checkoutScope) Execute(ctx context.Context, fn func(repos appcheckout.TransactionalRepositories) error) error {
	return c.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type judgingScope struct{ s *GormTransactionScope }

func (j judgingScope) Execute(ctx context.Context, fn func(repos appjudging.TransactionalRepositories) error) error {
	return j.s.run(ctx, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type catalogueScope struct{ s *GormTransactionScope }

func (c catalogueScope) Execute(ctx context.Context, fn func(repo catalogue.Repository) error) error {
	return c.s.run(ctx, func(tx *gorm.DB) error {
		return fn(NewGormCatalogueRepository(tx))
	})
}

var (
	_ appcheckout.TransactionScope          = checkoutScope{}
	_ appjudging.TransactionScope           = judgingScope{}
	_ appcatalogue.TransactionScope         = catalogueScope{}
	_ appcheckout.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appjudging.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
)
