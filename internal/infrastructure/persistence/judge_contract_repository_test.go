package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/checklist"
	"github.com/showring/backend/internal/domain/judging"
	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContract(t *testing.T, showID uuid.UUID, now time.Time) (*judging.JudgeContract, judging.Token) {
	t.Helper()
	token, err := judging.NewToken()
	require.NoError(t, err)
	c := judging.NewContract(showID, uuid.New(), uuid.New(), "Ann Judge", "ann@example.org",
		judging.Appointment{Breeds: []string{"Whippet", "Greyhound"}, Date: "2026-11-14"},
		token, 14*24*time.Hour, now)
	return c, token
}

func TestGormJudgeContractRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormJudgeContractRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	showID := uuid.New()

	c, token := newContract(t, showID, now)
	require.NoError(t, repo.Create(ctx, c))

	t.Run("find by token hash", func(t *testing.T) {
		got, err := repo.FindByTokenHash(ctx, judging.HashToken(string(token)))
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, judging.StageOfferSent, got.Stage)
		assert.Equal(t, []string{"Whippet", "Greyhound"}, got.Appointment.Breeds)

		_, err = repo.FindByTokenHash(ctx, judging.HashToken("forged"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("compare-and-set transition", func(t *testing.T) {
		fresh, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		stale, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Accept(now))
		require.NoError(t, repo.SaveTransition(ctx, fresh, judging.StageOfferSent))

		require.NoError(t, stale.Decline(now))
		err = repo.SaveTransition(ctx, stale, judging.StageOfferSent)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, judging.StageOfferAccepted, stored.Stage)
		require.NotNil(t, stored.AcceptedAt)
		assert.Nil(t, stored.DeclinedAt)
	})

	t.Run("list by show and judge", func(t *testing.T) {
		other, _ := newContract(t, showID, now)
		require.NoError(t, repo.Create(ctx, other))

		all, err := repo.ListByShow(ctx, showID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := repo.FindByShowAndJudge(ctx, showID, c.JudgeID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, c.ID, mine[0].ID)
	})
}

func TestGormJudgeContractRepository_SaveTransitionSQL(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormJudgeContractRepository(mdb.DB)
	now := time.Now().UTC()

	c, _ := newContract(t, uuid.New(), now)
	require.NoError(t, c.Accept(now))

	mdb.Mock.ExpectExec(`UPDATE "judge_contracts" SET .*"stage"=\$\d+.*"version"=version \+ 1 WHERE \(id = \$\d+ AND stage = \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveTransition(context.Background(), c, judging.StageOfferSent)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormJudgeContractRepository_LockJudgeSQL(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormJudgeContractRepository(mdb.DB)
	showID, judgeID := uuid.New(), uuid.New()

	mdb.Mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`)).
		WithArgs("judge_contract:" + showID.String() + ":" + judgeID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockJudge(context.Background(), showID, judgeID))
}

func TestGormChecklistRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormChecklistRepository(db)
	ctx := context.Background()
	showID, judgeID := uuid.New(), uuid.New()

	letter := checklist.NewItem(showID, "Send acceptance letter", checklist.EntityJudge, &judgeID, checklist.KeyJudgeAcceptanceLetter)
	hotel := checklist.NewItem(showID, "Book hotel", checklist.EntityJudge, &judgeID, "")
	unrelated := checklist.NewItem(uuid.New(), "Send acceptance letter", checklist.EntityJudge, &judgeID, checklist.KeyJudgeAcceptanceLetter)
	for _, item := range []*checklist.Item{letter, hotel, unrelated} {
		require.NoError(t, repo.Create(ctx, item))
	}

	key := checklist.Key{ShowID: showID, EntityType: checklist.EntityJudge, EntityID: judgeID, AutoDetectKey: checklist.KeyJudgeAcceptanceLetter}
	at := time.Now().UTC().Truncate(time.Second)

	n, err := repo.CompleteByKey(ctx, key, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CompleteByKey(ctx, key, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n, "completed items are not stamped twice")

	items, err := repo.FindByEntity(ctx, showID, checklist.EntityJudge, judgeID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, checklist.AllCompleted(items))
	for _, item := range items {
		if item.ID == letter.ID {
			require.NotNil(t, item.CompletedAt)
			assert.True(t, item.CompletedAt.Equal(at))
		}
	}
}

func TestGormContactDirectory(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	user := testutil.NewFixtures(t, db).Exhibitor()
	dir := NewGormContactDirectory(db)

	email, err := dir.EmailFor(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, email)

	_, err = dir.EmailFor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
