// Package catalogue assigns and lists catalogue numbers for a show.
package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/catalogue"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// TransactionScope runs a numbering run atomically
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repo catalogue.Repository) error) error
}

// NoOpTransactionScope runs fn against the given repository
type NoOpTransactionScope struct {
	repo catalogue.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repo catalogue.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{repo: repo}
}

// Execute implements TransactionScope
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repo catalogue.Repository) error) error {
	return fn(s.repo)
}

// AssignResult summarises a numbering run
type AssignResult struct {
	ShowID      uuid.UUID              `json:"show_id"`
	Count       int                    `json:"count"`
	Assignments []catalogue.Assignment `json:"assignments"`
}

// Service numbers confirmed entries
type Service struct {
	shows  show.Repository
	repo   catalogue.Repository
	scope  TransactionScope
	logger *zap.Logger
}

// ServiceConfig holds the dependencies of Service
type ServiceConfig struct {
	Shows      show.Repository
	Repository catalogue.Repository
	Scope      TransactionScope
	Logger     *zap.Logger
}

// NewService creates a catalogue Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{shows: cfg.Shows, repo: cfg.Repository, scope: cfg.Scope, logger: logger}
}

// Assign renumbers every confirmed entry of the show. Existing numbers are
// cleared first; either all new numbers commit or none do.
func (s *Service) Assign(ctx context.Context, orgID, showID uuid.UUID) (*AssignResult, error) {
	if _, err := s.ownedShow(ctx, orgID, showID); err != nil {
		return nil, err
	}

	var assignments []catalogue.Assignment
	err := s.scope.Execute(ctx, func(repo catalogue.Repository) error {
		if err := repo.LockShow(ctx, showID); err != nil {
			return fmt.Errorf("failed to lock show for numbering: %w", err)
		}
		items, err := repo.FindItems(ctx, showID)
		if err != nil {
			return fmt.Errorf("failed to load confirmed entries: %w", err)
		}
		assignments = catalogue.Sequence(items)
		if err := repo.ClearNumbers(ctx, showID); err != nil {
			return fmt.Errorf("failed to clear catalogue numbers: %w", err)
		}
		if len(assignments) == 0 {
			return nil
		}
		if err := repo.SetNumbers(ctx, assignments); err != nil {
			return fmt.Errorf("failed to write catalogue numbers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Catalogue numbers assigned",
		zap.String("show_id", showID.String()),
		zap.Int("count", len(assignments)))
	return &AssignResult{ShowID: showID, Count: len(assignments), Assignments: assignments}, nil
}

// List returns the numbered entries in catalogue order
func (s *Service) List(ctx context.Context, orgID, showID uuid.UUID) ([]catalogue.Listing, error) {
	if _, err := s.ownedShow(ctx, orgID, showID); err != nil {
		return nil, err
	}
	listings, err := s.repo.ListNumbered(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogue: %w", err)
	}
	return listings, nil
}

func (s *Service) ownedShow(ctx context.Context, orgID, showID uuid.UUID) (*show.Show, error) {
	sh, err := s.shows.FindByID(ctx, showID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, show.ErrShowNotFound.Withf("show %s not found", showID)
		}
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	if !sh.OwnedBy(orgID) {
		return nil, shared.ErrForbidden.Withf("show belongs to another organisation")
	}
	return sh, nil
}
