package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/catalogue"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCatalogueRepository_NumberingRoundTrip(t *testing.T) {
	w := newEntryWorld(t)
	ctx := context.Background()
	entries := NewGormEntryRepository(w.db)
	repo := NewGormCatalogueRepository(w.db)
	o := w.order(t)

	hound := w.fx.Breed("Whippet", "Hound", 2)
	whippet := w.fx.Dog(w.owner.ID, &hound.ID, dog.SexDog, time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC))

	confirmed := w.newEntry(t, o.ID, w.classes[0])
	confirmed.Status = entry.StatusConfirmed
	require.NoError(t, entries.Create(ctx, confirmed))

	second := entry.NewEntry(w.show.ID, w.owner.ID, o.ID, &whippet.ID, entry.TypeStandard, false, w.quote(w.classes[1]))
	second.Status = entry.StatusConfirmed
	require.NoError(t, entries.Create(ctx, second))

	pendingDog := w.fx.Dog(w.owner.ID, nil, dog.SexDog, time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC))
	pending := entry.NewEntry(w.show.ID, w.owner.ID, o.ID, &pendingDog.ID, entry.TypeStandard, false, w.quote(w.classes[0]))
	require.NoError(t, entries.Create(ctx, pending))

	items, err := repo.FindItems(ctx, w.show.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "only confirmed entries are numbered")

	assignments := catalogue.Sequence(items)
	require.Len(t, assignments, 2)
	assert.Equal(t, second.ID, assignments[0].EntryID, "hound group sorts before pastoral")

	require.NoError(t, repo.LockShow(ctx, w.show.ID))
	require.NoError(t, repo.ClearNumbers(ctx, w.show.ID))
	require.NoError(t, repo.SetNumbers(ctx, assignments))

	listings, err := repo.ListNumbered(ctx, w.show.ID)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "1", listings[0].Number)
	assert.Equal(t, "Whippet", listings[0].BreedName)
	assert.Equal(t, "Hound", listings[0].GroupName)
	assert.Equal(t, "2", listings[1].Number)
	assert.Equal(t, "Border Collie", listings[1].BreedName)

	t.Run("clear removes every number", func(t *testing.T) {
		require.NoError(t, repo.ClearNumbers(ctx, w.show.ID))
		listings, err := repo.ListNumbered(ctx, w.show.ID)
		require.NoError(t, err)
		assert.Empty(t, listings)
	})

	t.Run("vanished entry fails the run", func(t *testing.T) {
		err := repo.SetNumbers(ctx, []catalogue.Assignment{{EntryID: uuid.New(), Number: "1"}})
		assert.Error(t, err)
	})
}

func TestGormCatalogueRepository_NumbersEntriesWithoutDog(t *testing.T) {
	w := newEntryWorld(t)
	ctx := context.Background()
	entries := NewGormEntryRepository(w.db)
	repo := NewGormCatalogueRepository(w.db)
	o := w.order(t)

	standard := w.newEntry(t, o.ID, w.classes[0])
	standard.Status = entry.StatusConfirmed
	require.NoError(t, entries.Create(ctx, standard))

	junior := entry.NewEntry(w.show.ID, w.owner.ID, o.ID, nil, entry.TypeJuniorHandler, false, w.quote(w.classes[1]))
	junior.Status = entry.StatusConfirmed
	junior.JuniorHandler = &entry.JuniorHandlerDetails{
		HandlerName: "Ella Fenwick",
		DateOfBirth: time.Date(2013, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, entries.Create(ctx, junior))

	items, err := repo.FindItems(ctx, w.show.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "every confirmed entry gets a number")

	assignments := catalogue.Sequence(items)
	require.Len(t, assignments, 2)
	assert.Equal(t, standard.ID, assignments[0].EntryID)
	assert.Equal(t, junior.ID, assignments[1].EntryID, "entries without a group sort last")

	require.NoError(t, repo.SetNumbers(ctx, assignments))
	listings, err := repo.ListNumbered(ctx, w.show.ID)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "2", listings[1].Number)
	assert.Equal(t, "Ella Fenwick", listings[1].DogName)
	assert.Equal(t, dog.SexUnset, listings[1].Sex)
	assert.Empty(t, listings[1].GroupName)
}

func TestGormCatalogueRepository_LockShowSQL(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	repo := NewGormCatalogueRepository(mdb.DB)
	showID := uuid.New()

	mdb.Mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`)).
		WithArgs(showID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockShow(context.Background(), showID))
}

func TestGormTransactionScope_RollsBack(t *testing.T) {
	w := newEntryWorld(t)
	ctx := context.Background()
	o := w.order(t)
	e := w.newEntry(t, o.ID, w.classes[0])
	e.Status = entry.StatusConfirmed
	require.NoError(t, NewGormEntryRepository(w.db).Create(ctx, e))

	scope := NewGormTransactionScope(w.db).CatalogueScope()
	boom := errors.New("boom")
	err := scope.Execute(ctx, func(repo catalogue.Repository) error {
		if err := repo.SetNumbers(ctx, []catalogue.Assignment{{EntryID: e.ID, Number: "1"}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	listings, err := NewGormCatalogueRepository(w.db).ListNumbered(ctx, w.show.ID)
	require.NoError(t, err)
	assert.Empty(t, listings)
}
