// Package judging sends judge offers, serves the public offer link and
// records responses and confirmations.
package judging

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"go.uber.org/zap"
)

// DefaultOfferTTL is how long an offer link stays valid
const DefaultOfferTTL = 14 * 24 * time.Hour

// Service runs the judge contract workflow
type Service struct {
	shows     show.Repository
	contracts judging.Repository
	scope     TransactionScope
	events    shared.EventPublisher
	offerTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// ServiceConfig holds the dependencies of Service
type ServiceConfig struct {
	Shows          show.Repository
	Contracts      judging.Repository
	Scope          TransactionScope
	EventPublisher shared.EventPublisher
	OfferTTL       time.Duration
	Logger         *zap.Logger
}

// NewService creates a judging Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.OfferTTL
	if ttl <= 0 {
		ttl = DefaultOfferTTL
	}
	return &Service{
		shows:     cfg.Shows,
		contracts: cfg.Contracts,
		scope:     cfg.Scope,
		events:    cfg.EventPublisher,
		offerTTL:  ttl,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SendOffer creates a contract at offer_sent and emails the judge a
// single-use link. A judge may hold only one live contract per show.
func (s *Service) SendOffer(ctx context.Context, cmd SendOfferCommand) (*ContractResponse, error) {
	name := strings.TrimSpace(cmd.JudgeName)
	if name == "" {
		return nil, shared.ErrInvalidInput.Withf("judge name is required")
	}
	if cmd.JudgeID == uuid.Nil {
		return nil, shared.ErrInvalidInput.Withf("judge id is required")
	}
	if _, err := mail.ParseAddress(cmd.JudgeEmail); err != nil {
		return nil, shared.ErrInvalidInput.Withf("judge email %q is not valid", cmd.JudgeEmail)
	}

	sh, err := s.loadOwnedShow(ctx, cmd.ActorOrgID, cmd.ShowID)
	if err != nil {
		return nil, err
	}

	token, err := judging.NewToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	c := judging.NewContract(sh.ID, sh.OrganisationID, cmd.JudgeID, name, strings.TrimSpace(cmd.JudgeEmail),
		cmd.Appointment, token, s.offerTTL, now)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Contracts().LockJudge(ctx, sh.ID, cmd.JudgeID); err != nil {
			return fmt.Errorf("failed to lock judge: %w", err)
		}
		existing, err := repos.Contracts().FindByShowAndJudge(ctx, sh.ID, cmd.JudgeID)
		if err != nil {
			return fmt.Errorf("failed to load judge contracts: %w", err)
		}
		for i := range existing {
			if existing[i].IsLive(now) {
				return judging.ErrContractExists.Withf("%s already has a %s contract for this show",
					existing[i].JudgeName, existing[i].Stage)
			}
		}
		if err := repos.Contracts().Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create judge contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Judge offer sent",
		zap.String("contract_id", c.ID.String()),
		zap.String("show_id", sh.ID.String()),
		zap.String("judge_id", cmd.JudgeID.String()),
		zap.Time("expires_at", c.TokenExpiresAt))
	s.publish(ctx, c.PullDomainEvents()...)

	res := ToContractResponse(c, now)
	return &res, nil
}

// View resolves an offer link without changing anything
func (s *Service) View(ctx context.Context, rawToken string) (*OfferView, error) {
	c, err := s.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Respond applies the judge's accept or decline. Acceptance completes the
// judge's acceptance-letter checklist items in the same transaction. A
// replay returns ALREADY_RESPONDED and publishes nothing.
func (s *Service) Respond(ctx context.Context, rawToken, rawAction string) (*OfferView, error) {
	action, err := judging.ParseAction(rawAction)
	if err != nil {
		return nil, err
	}
	c, err := s.resolveToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := c.Respond(action, now); err != nil {
		return nil, err
	}
	var completed int64
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Contracts().SaveTransition(ctx, c, judging.StageOfferSent); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				return judging.ErrAlreadyResponded.Withf("this offer has already been answered")
			}
			return fmt.Errorf("failed to save contract: %w", err)
		}
		if action != judging.ActionAccept {
			return nil
		}
		n, err := repos.Checklist().CompleteByKey(ctx, checklist.Key{
			ShowID:        c.ShowID,
			EntityType:    checklist.EntityJudge,
			EntityID:      c.JudgeID,
			AutoDetectKey: checklist.KeyJudgeAcceptanceLetter,
		}, now)
		if err != nil {
			return fmt.Errorf("failed to complete checklist items: %w", err)
		}
		completed = n
		return nil
	})
	if err != nil {
		c.ClearDomainEvents()
		return nil, err
	}

	s.logger.Info("Judge responded to offer",
		zap.String("contract_id", c.ID.String()),
		zap.String("stage", string(c.Stage)),
		zap.Int64("checklist_items_completed", completed))
	s.publish(ctx, c.PullDomainEvents()...)

	return s.view(ctx, c)
}

// Confirm finalises an accepted contract
func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) (*ContractResponse, error) {
	c, err := s.loadOwnedContract(ctx, cmd.ActorOrgID, cmd.ContractID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := c.Confirm(now); err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Contracts().SaveTransition(ctx, c, judging.StageOfferAccepted)
	})
	if err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, judging.ErrInvalidTransition.Withf("contract changed while confirming")
		}
		return nil, fmt.Errorf("failed to confirm contract: %w", err)
	}
	s.logger.Info("Judge contract confirmed", zap.String("contract_id", c.ID.String()))

	res := ToContractResponse(c, now)
	return &res, nil
}

// Get returns one contract of the organisation
func (s *Service) Get(ctx context.Context, orgID, contractID uuid.UUID) (*ContractResponse, error) {
	c, err := s.loadOwnedContract(ctx, orgID, contractID)
	if err != nil {
		return nil, err
	}
	res := ToContractResponse(c, s.now())
	return &res, nil
}

// ListByShow returns every contract of a show, newest offer first
func (s *Service) ListByShow(ctx context.Context, orgID, showID uuid.UUID) ([]ContractResponse, error) {
	if _, err := s.loadOwnedShow(ctx, orgID, showID); err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByShow(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judge contracts: %w", err)
	}
	now := s.now()
	out := make([]ContractResponse, len(contracts))
	for i := range contracts {
		out[i] = ToContractResponse(&contracts[i], now)
	}
	return out, nil
}

func (s *Service) resolveToken(ctx context.Context, rawToken string) (*judging.JudgeContract, error) {
	if rawToken == "" {
		return nil, judging.ErrTokenNotFound
	}
	c, err := s.contracts.FindByTokenHash(ctx, judging.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, judging.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to resolve offer link: %w", err)
	}
	if err := c.CheckToken(s.now()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) view(ctx context.Context, c *judging.JudgeContract) (*OfferView, error) {
	sh, err := s.shows.FindByID(ctx, c.ShowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load show: %w", err)
	}
	return &OfferView{
		ContractID:  c.ID,
		ShowName:    sh.Name,
		ShowDate:    sh.StartDate,
		JudgeName:   c.JudgeName,
		Appointment: c.Appointment,
		Stage:       c.Stage,
		ExpiresAt:   c.TokenExpiresAt,
		CanRespond:  !c.Stage.IsResponded(),
	}, nil
}

func (s *Service) loadOwnedShow(ctx context.Context, orgID, showID uuid.UUID) (*show.Show, error) {
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

func (s *Service) loadOwnedContract(ctx context.Context, orgID, contractID uuid.UUID) (*judging.JudgeContract, error) {
	c, err := s.contracts.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, judging.ErrContractNotFound.Withf("contract %s not found", contractID)
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if c.OrganisationID != orgID {
		return nil, shared.ErrForbidden.Withf("contract belongs to another organisation")
	}
	return c, nil
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish judge contract events", zap.Error(err))
	}
}
