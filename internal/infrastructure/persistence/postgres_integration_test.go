//go:build integration

package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
	"github.com/showring/backend/internal/domain/entry"
	"github.com/showring/backend/internal/domain/fee"
	"github.com/showring/backend/internal/domain/show"
	"github.com/showring/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostgres_ConcurrentEntriesForOneDog(t *testing.T) {
	db := testutil.NewPostgresDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()

	owner := fx.Exhibitor()
	d := fx.Dog(owner.ID, nil, dog.SexDog, time.Date(2023, 2, 2, 0, 0, 0, 0, time.UTC))
	s := fx.Show(uuid.New(), show.TypeOpen, show.StatusEntriesOpen, time.Now().AddDate(0, 1, 0))
	class := fx.ShowClass(s.ID, "Open", 1, 1200)
	quote := fee.Quote{Total: class.EntryFee, Snapshots: []fee.Snapshot{{ShowClassID: class.ID, Fee: class.EntryFee}}}

	const attempts = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				o := entry.NewOrder(owner.ID, s.ID)
				if err := NewGormOrderRepository(tx).Create(ctx, o); err != nil {
					return err
				}
				return NewGormEntryRepository(tx).Create(ctx, entry.NewEntry(s.ID, owner.ID, o.ID, &d.ID, entry.TypeStandard, false, quote))
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, entry.ErrDuplicateEntry):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, dupes)
}

func TestPostgres_LockShowSerialisesNumbering(t *testing.T) {
	db := testutil.NewPostgresDB(t)
	ctx := context.Background()
	showID := uuid.New()

	holder := db.Begin()
	require.NoError(t, holder.Error)
	require.NoError(t, NewGormCatalogueRepository(holder).LockShow(ctx, showID))

	acquired := make(chan struct{})
	go func() {
		_ = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := NewGormCatalogueRepository(tx).LockShow(ctx, showID); err != nil {
				return err
			}
			close(acquired)
			return nil
		})
	}()

	select {
	case <-acquired:
		t.Fatal("second run acquired the lock while the first held it")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, holder.Commit().Error)

	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("second run never acquired the lock")
	}
}
