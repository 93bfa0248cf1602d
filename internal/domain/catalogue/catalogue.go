// Package catalogue orders confirmed entries for the show programme.
package catalogue

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/showring/backend/internal/domain/dog"
)

// MissingGroupSentinel sorts entries without a breed group last
const MissingGroupSentinel = math.MaxInt32

// Item is one confirmed entry with the fields the sort key needs
type Item struct {
	EntryID        uuid.UUID
	GroupSortOrder *int
	BreedName      string
	Sex            dog.Sex
	EntryDate      time.Time
}

// Assignment pairs an entry with its catalogue number
type Assignment struct {
	EntryID uuid.UUID `json:"entry_id"`
	Number  string    `json:"catalogue_number"`
}

func sexRank(s dog.Sex) int {
	switch s {
	case dog.SexDog:
		return 0
	case dog.SexBitch:
		return 1
	default:
		return 2
	}
}

func groupOrder(i Item) int {
	if i.GroupSortOrder == nil {
		return MissingGroupSentinel
	}
	return *i.GroupSortOrder
}

// Less reports whether a sorts before b
func Less(a, b Item) bool {
	if ga, gb := groupOrder(a), groupOrder(b); ga != gb {
		return ga < gb
	}
	if a.BreedName != b.BreedName {
		return a.BreedName < b.BreedName
	}
	if ra, rb := sexRank(a.Sex), sexRank(b.Sex); ra != rb {
		return ra < rb
	}
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	return a.EntryID.String() < b.EntryID.String()
}

// Sequence sorts items and numbers them "1".."N". The input slice is not
// modified.
func Sequence(items []Item) []Assignment {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})

	out := make([]Assignment, len(sorted))
	for i, it := range sorted {
		out[i] = Assignment{EntryID: it.EntryID, Number: strconv.Itoa(i + 1)}
	}
	return out
}
