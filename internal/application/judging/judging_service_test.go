package judging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/domain/show"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type judgingFixture struct {
	shows     *MockShowRepository
	contracts *MockContractRepository
	checklist *MockChecklistRepository
	events    *MockEventPublisher
	svc       *Service
	show      *show.Show
	orgID     uuid.UUID
}

func newJudgingFixture(t *testing.T) *judgingFixture {
	t.Helper()
	f := &judgingFixture{
		shows:     new(MockShowRepository),
		contracts: new(MockContractRepository),
		checklist: new(MockChecklistRepository),
		events:    new(MockEventPublisher),
		orgID:     uuid.New(),
	}
	f.show = &show.Show{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrganisationID:    f.orgID,
		Name:              "Northern Counties Championship",
		Type:              show.TypeChampionship,
		StartDate:         fixedNow.AddDate(0, 4, 0),
		SecretaryEmail:    "secretary@example.org",
	}
	f.shows.On("FindByID", mock.Anything, f.show.ID).Return(f.show, nil).Maybe()
	f.contracts.On("LockJudge", mock.Anything, f.show.ID, mock.Anything).Return(nil).Maybe()
	f.svc = NewService(ServiceConfig{
		Shows:          f.shows,
		Contracts:      f.contracts,
		Scope:          NewNoOpTransactionScope(f.contracts, f.checklist),
		EventPublisher: f.events,
		Logger:         zap.NewNop(),
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// offered returns a contract at offer_sent with its plaintext token
func (f *judgingFixture) offered(t *testing.T) (*judging.JudgeContract, judging.Token) {
	t.Helper()
	token, err := judging.NewToken()
	require.NoError(t, err)
	c := judging.NewContract(f.show.ID, f.orgID, uuid.New(), "Ann Judge", "ann@example.org",
		judging.Appointment{Breeds: []string{"Whippet"}}, token, DefaultOfferTTL, fixedNow.Add(-time.Hour))
	c.ClearDomainEvents()
	f.contracts.On("FindByTokenHash", mock.Anything, token.Hash()).Return(c, nil).Maybe()
	return c, token
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestSendOffer(t *testing.T) {
	t.Run("creates contract and publishes the token", func(t *testing.T) {
		f := newJudgingFixture(t)
		judgeID := uuid.New()
		f.contracts.On("FindByShowAndJudge", mock.Anything, f.show.ID, judgeID).Return([]judging.JudgeContract{}, nil)

		var stored *judging.JudgeContract
		f.contracts.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*judging.JudgeContract) }).
			Return(nil)
		var published []shared.DomainEvent
		f.events.On("Publish", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(1).([]shared.DomainEvent) }).
			Return(nil)

		res, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID:  f.orgID,
			ShowID:      f.show.ID,
			JudgeID:     judgeID,
			JudgeName:   " Ann Judge ",
			JudgeEmail:  "ann@example.org",
			Appointment: judging.Appointment{Breeds: []string{"Whippet", "Greyhound"}},
		})

		require.NoError(t, err)
		assert.Equal(t, judging.StageOfferSent, res.Stage)
		assert.Equal(t, "Ann Judge", res.JudgeName)
		assert.Equal(t, fixedNow.Add(DefaultOfferTTL), res.TokenExpiresAt)

		require.Len(t, published, 1)
		sent, ok := published[0].(*judging.OfferSentEvent)
		require.True(t, ok)
		assert.Len(t, string(sent.Token), 43)
		require.NotNil(t, stored)
		assert.Equal(t, sent.Token.Hash(), stored.TokenHash)
		assert.NotEqual(t, string(sent.Token), stored.TokenHash)
	})

	t.Run("live contract blocks a new offer", func(t *testing.T) {
		f := newJudgingFixture(t)
		live, _ := f.offered(t)
		f.contracts.On("FindByShowAndJudge", mock.Anything, f.show.ID, live.JudgeID).Return([]judging.JudgeContract{*live}, nil)

		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: f.orgID, ShowID: f.show.ID, JudgeID: live.JudgeID,
			JudgeName: "Ann Judge", JudgeEmail: "ann@example.org",
		})

		assertCode(t, err, "CONTRACT_EXISTS")
		f.contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("expired or declined offers do not block", func(t *testing.T) {
		f := newJudgingFixture(t)
		expired, _ := f.offered(t)
		expired.TokenExpiresAt = fixedNow.Add(-time.Minute)
		declined, _ := f.offered(t)
		declined.Stage = judging.StageDeclined
		declined.JudgeID = expired.JudgeID
		f.contracts.On("FindByShowAndJudge", mock.Anything, f.show.ID, expired.JudgeID).
			Return([]judging.JudgeContract{*expired, *declined}, nil)
		f.contracts.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: f.orgID, ShowID: f.show.ID, JudgeID: expired.JudgeID,
			JudgeName: "Ann Judge", JudgeEmail: "ann@example.org",
		})

		require.NoError(t, err)
	})

	t.Run("live check and insert run under the judge lock", func(t *testing.T) {
		f := newJudgingFixture(t)
		judgeID := uuid.New()
		var calls []string
		f.contracts.ExpectedCalls = nil
		f.contracts.On("LockJudge", mock.Anything, f.show.ID, judgeID).
			Run(func(mock.Arguments) { calls = append(calls, "lock") }).Return(nil)
		f.contracts.On("FindByShowAndJudge", mock.Anything, f.show.ID, judgeID).
			Run(func(mock.Arguments) { calls = append(calls, "check") }).Return([]judging.JudgeContract{}, nil)
		f.contracts.On("Create", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { calls = append(calls, "create") }).Return(nil)
		f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: f.orgID, ShowID: f.show.ID, JudgeID: judgeID,
			JudgeName: "Ann Judge", JudgeEmail: "ann@example.org",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"lock", "check", "create"}, calls)
	})

	t.Run("lock failure creates nothing", func(t *testing.T) {
		f := newJudgingFixture(t)
		judgeID := uuid.New()
		f.contracts.ExpectedCalls = nil
		f.contracts.On("LockJudge", mock.Anything, f.show.ID, judgeID).Return(errors.New("connection reset"))

		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: f.orgID, ShowID: f.show.ID, JudgeID: judgeID,
			JudgeName: "Ann Judge", JudgeEmail: "ann@example.org",
		})

		require.Error(t, err)
		f.contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("another organisation's show", func(t *testing.T) {
		f := newJudgingFixture(t)
		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: uuid.New(), ShowID: f.show.ID, JudgeID: uuid.New(),
			JudgeName: "Ann Judge", JudgeEmail: "ann@example.org",
		})
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newJudgingFixture(t)
		_, err := f.svc.SendOffer(context.Background(), SendOfferCommand{
			ActorOrgID: f.orgID, ShowID: f.show.ID, JudgeID: uuid.New(),
			JudgeName: "Ann Judge", JudgeEmail: "not-an-email",
		})
		assertCode(t, err, "INVALID_INPUT")
	})
}

func TestView(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		f := newJudgingFixture(t)
		f.contracts.On("FindByTokenHash", mock.Anything, judging.HashToken("nope")).Return(nil, shared.ErrNotFound)

		_, err := f.svc.View(context.Background(), "nope")
		assertCode(t, err, "TOKEN_NOT_FOUND")
	})

	t.Run("expiry is checked before stage", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		c.Stage = judging.StageOfferAccepted
		c.TokenExpiresAt = fixedNow.Add(-time.Second)

		_, err := f.svc.View(context.Background(), string(token))
		assertCode(t, err, "TOKEN_EXPIRED")
	})

	t.Run("open offer", func(t *testing.T) {
		f := newJudgingFixture(t)
		_, token := f.offered(t)

		v, err := f.svc.View(context.Background(), string(token))
		require.NoError(t, err)
		assert.True(t, v.CanRespond)
		assert.Equal(t, f.show.Name, v.ShowName)
		f.contracts.AssertNotCalled(t, "SaveTransition", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("answered offer", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		c.Stage = judging.StageDeclined

		v, err := f.svc.View(context.Background(), string(token))
		require.NoError(t, err)
		assert.False(t, v.CanRespond)
		assert.Equal(t, judging.StageDeclined, v.Stage)
	})
}

func TestRespond(t *testing.T) {
	t.Run("accept completes checklist and publishes", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		f.contracts.On("SaveTransition", mock.Anything, c, judging.StageOfferSent).Return(nil)
		f.checklist.On("CompleteByKey", mock.Anything, checklist.Key{
			ShowID:        f.show.ID,
			EntityType:    checklist.EntityJudge,
			EntityID:      c.JudgeID,
			AutoDetectKey: checklist.KeyJudgeAcceptanceLetter,
		}, fixedNow).Return(int64(1), nil)
		f.events.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == judging.EventTypeOfferAccepted
		})).Return(nil)

		v, err := f.svc.Respond(context.Background(), string(token), "accept")

		require.NoError(t, err)
		assert.Equal(t, judging.StageOfferAccepted, v.Stage)
		assert.False(t, v.CanRespond)
		f.checklist.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("decline leaves checklist alone", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		f.contracts.On("SaveTransition", mock.Anything, c, judging.StageOfferSent).Return(nil)
		f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		v, err := f.svc.Respond(context.Background(), string(token), "decline")

		require.NoError(t, err)
		assert.Equal(t, judging.StageDeclined, v.Stage)
		f.checklist.AssertNotCalled(t, "CompleteByKey", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replay is rejected without events", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		c.Stage = judging.StageOfferAccepted

		_, err := f.svc.Respond(context.Background(), string(token), "decline")

		assertCode(t, err, "ALREADY_RESPONDED")
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("concurrent responder loses the compare-and-set", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		f.contracts.On("SaveTransition", mock.Anything, c, judging.StageOfferSent).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Respond(context.Background(), string(token), "accept")

		assertCode(t, err, "ALREADY_RESPONDED")
		f.checklist.AssertNotCalled(t, "CompleteByKey", mock.Anything, mock.Anything, mock.Anything)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newJudgingFixture(t)
		_, token := f.offered(t)

		_, err := f.svc.Respond(context.Background(), string(token), "maybe")
		assertCode(t, err, "INVALID_ACTION")
	})

	t.Run("expired link", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, token := f.offered(t)
		c.TokenExpiresAt = fixedNow.Add(-time.Second)

		_, err := f.svc.Respond(context.Background(), string(token), "accept")
		assertCode(t, err, "TOKEN_EXPIRED")
	})
}

func TestConfirm(t *testing.T) {
	t.Run("accepted contract is confirmed", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, _ := f.offered(t)
		require.NoError(t, c.Accept(fixedNow))
		f.contracts.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		f.contracts.On("SaveTransition", mock.Anything, c, judging.StageOfferAccepted).Return(nil)

		res, err := f.svc.Confirm(context.Background(), ConfirmCommand{ActorOrgID: f.orgID, ContractID: c.ID})

		require.NoError(t, err)
		assert.Equal(t, judging.StageConfirmed, res.Stage)
		assert.NotNil(t, res.ConfirmedAt)
	})

	t.Run("offer not yet accepted", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, _ := f.offered(t)
		f.contracts.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.Confirm(context.Background(), ConfirmCommand{ActorOrgID: f.orgID, ContractID: c.ID})
		assertCode(t, err, "INVALID_TRANSITION")
	})

	t.Run("another organisation", func(t *testing.T) {
		f := newJudgingFixture(t)
		c, _ := f.offered(t)
		f.contracts.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		_, err := f.svc.Confirm(context.Background(), ConfirmCommand{ActorOrgID: uuid.New(), ContractID: c.ID})
		assertCode(t, err, "FORBIDDEN")
	})

	t.Run("unknown contract", func(t *testing.T) {
		f := newJudgingFixture(t)
		id := uuid.New()
		f.contracts.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Confirm(context.Background(), ConfirmCommand{ActorOrgID: f.orgID, ContractID: id})
		assertCode(t, err, "CONTRACT_NOT_FOUND")
	})
}

func TestListByShow(t *testing.T) {
	f := newJudgingFixture(t)
	c, _ := f.offered(t)
	f.contracts.On("ListByShow", mock.Anything, f.show.ID).Return([]judging.JudgeContract{*c}, nil)

	list, err := f.svc.ListByShow(context.Background(), f.orgID, f.show.ID)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
	assert.False(t, list[0].Expired)
}
