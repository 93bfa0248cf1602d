package eligibility

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/showring/backend/internal/domain/show"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstsAt(n int, st show.Type, at time.Time) []Win {
	wins := make([]Win, n)
	for i := range wins {
		wins[i] = Win{ShowType: st, Placement: 1, Date: at}
	}
	return wins
}

func TestEligibleClasses_Staircase(t *testing.T) {
	tests := []struct {
		firsts int
		want   []ClassName
	}{
		{0, []ClassName{ClassMaiden, ClassNovice, ClassGraduate, ClassPostGraduate, ClassLimit, ClassOpen}},
		{1, []ClassName{ClassNovice, ClassGraduate, ClassPostGraduate, ClassLimit, ClassOpen}},
		{2, []ClassName{ClassNovice, ClassGraduate, ClassPostGraduate, ClassLimit, ClassOpen}},
		{3, []ClassName{ClassGraduate, ClassPostGraduate, ClassLimit, ClassOpen}},
		{4, []ClassName{ClassPostGraduate, ClassLimit, ClassOpen}},
		{5, []ClassName{ClassLimit, ClassOpen}},
		{6, []ClassName{ClassLimit, ClassOpen}},
		{7, []ClassName{ClassOpen}},
		{40, []ClassName{ClassOpen}},
	}
	for _, tt := range tests {
		got := EligibleClasses(tt.firsts, 0)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("firsts=%d (-want +got):\n%s", tt.firsts, diff)
		}
	}
}

func TestEligibleClasses_Monotonic(t *testing.T) {
	for k := 0; k < 12; k++ {
		wider := EligibleClasses(k, 0)
		narrower := EligibleClasses(k+1, 0)
		for _, c := range narrower {
			assert.Contains(t, wider, c, "firsts=%d should include %s", k, c)
		}
	}
}

func TestEligibleClasses_CCOverridesStaircase(t *testing.T) {
	for _, firsts := range []int{0, 1, 3, 9} {
		assert.Equal(t, []ClassName{ClassOpen}, EligibleClasses(firsts, 1))
	}
}

func TestEvaluate_SuggestedClassAndQualifyingFirsts(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	wins := []Win{
		{ShowType: show.TypeOpen, Placement: 1, Date: now},
		{ShowType: show.TypeChampionship, Placement: 1, Date: now},
		{ShowType: show.TypePremierOpen, Placement: 1, Date: now},
		{ShowType: show.TypeLimited, Placement: 1, Date: now},
		{ShowType: show.TypeCompanion, Placement: 1, Date: now},
		{ShowType: show.TypeOpen, Placement: 2, Date: now},
	}

	res := Evaluate(Input{Wins: wins, AsOf: now})

	assert.Equal(t, 3, res.Firsts)
	assert.Equal(t, ClassGraduate, res.SuggestedClass)
	assert.Equal(t, res.EligibleClasses[0], res.SuggestedClass)
}

func TestEvaluate_Champion(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("three CCs from three judges", func(t *testing.T) {
		res := Evaluate(Input{CCs: []CC{{"j1", at}, {"j2", at}, {"j3", at}}})
		champ := findTitle(t, res, TitleChampion)
		assert.Equal(t, 1.0, champ.Progress)
		assert.True(t, champ.MilestoneReached)
		assert.Equal(t, []ClassName{ClassOpen}, res.EligibleClasses)
	})

	t.Run("three CCs from two judges", func(t *testing.T) {
		res := Evaluate(Input{CCs: []CC{{"j1", at}, {"j2", at}, {"j1", at}}})
		champ := findTitle(t, res, TitleChampion)
		assert.Equal(t, 1.0, champ.Progress)
		assert.False(t, champ.MilestoneReached)
		assert.NotEmpty(t, champ.Note)
	})

	t.Run("progress caps at one", func(t *testing.T) {
		res := Evaluate(Input{CCs: []CC{{"a", at}, {"b", at}, {"c", at}, {"d", at}, {"e", at}}})
		assert.Equal(t, 1.0, findTitle(t, res, TitleChampion).Progress)
	})

	t.Run("partial progress", func(t *testing.T) {
		res := Evaluate(Input{CCs: []CC{{"a", at}}})
		assert.InDelta(t, 1.0/3.0, findTitle(t, res, TitleChampion).Progress, 1e-9)
	})
}

func TestEvaluate_JuniorWarrant(t *testing.T) {
	dob := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	young := dob.AddDate(0, 10, 0)
	old := dob.AddDate(0, 19, 0)

	t.Run("points before eighteen months", func(t *testing.T) {
		wins := append(firstsAt(6, show.TypeChampionship, young), firstsAt(7, show.TypeOpen, young)...)
		res := Evaluate(Input{DateOfBirth: &dob, Wins: wins, AsOf: young})
		jw := findTitle(t, res, TitleJuniorWarrant)
		assert.Equal(t, 25, jw.Current)
		assert.True(t, jw.MilestoneReached)
		assert.Equal(t, 1.0, jw.Progress)
	})

	t.Run("wins after cutoff do not count but earlier points stay", func(t *testing.T) {
		wins := append(firstsAt(2, show.TypeChampionship, young), firstsAt(5, show.TypeChampionship, old)...)
		res := Evaluate(Input{DateOfBirth: &dob, Wins: wins, AsOf: old})
		jw := findTitle(t, res, TitleJuniorWarrant)
		assert.Equal(t, 6, jw.Current)
		assert.False(t, jw.MilestoneReached)
		assert.Contains(t, jw.Note, "18 months")
	})

	t.Run("seconds and limited shows score nothing", func(t *testing.T) {
		wins := []Win{
			{ShowType: show.TypeChampionship, Placement: 2, Date: young},
			{ShowType: show.TypeLimited, Placement: 1, Date: young},
		}
		res := Evaluate(Input{DateOfBirth: &dob, Wins: wins, AsOf: young})
		assert.Equal(t, 0, findTitle(t, res, TitleJuniorWarrant).Current)
	})

	t.Run("unknown date of birth", func(t *testing.T) {
		res := Evaluate(Input{Wins: firstsAt(3, show.TypeChampionship, young)})
		jw := findTitle(t, res, TitleJuniorWarrant)
		assert.Equal(t, 0, jw.Current)
		assert.NotEmpty(t, jw.Note)
	})
}

func TestEvaluate_ShowChampion(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ccs := []CC{{"j1", at}, {"j2", at}, {"j3", at}}

	t.Run("only for gundogs", func(t *testing.T) {
		res := Evaluate(Input{BreedGroup: "Terrier", CCs: ccs})
		for _, tp := range res.Titles {
			assert.NotEqual(t, TitleShowChampion, tp.Title)
		}
	})

	t.Run("never reached without evidence", func(t *testing.T) {
		res := Evaluate(Input{BreedGroup: "Gundog", CCs: ccs})
		sc := findTitle(t, res, TitleShowChampion)
		assert.Equal(t, 1.0, sc.Progress)
		assert.False(t, sc.MilestoneReached)
		assert.Equal(t, VerificationExternalEvidence, sc.Verification)
	})

	t.Run("reached with evidence", func(t *testing.T) {
		res := Evaluate(Input{BreedGroup: "gundog", CCs: ccs, FieldTrialEvidence: true})
		assert.True(t, findTitle(t, res, TitleShowChampion).MilestoneReached)
	})

	t.Run("evidence does not replace distinct judges", func(t *testing.T) {
		res := Evaluate(Input{BreedGroup: "Gundog", CCs: []CC{{"j1", at}, {"j1", at}, {"j1", at}}, FieldTrialEvidence: true})
		assert.False(t, findTitle(t, res, TitleShowChampion).MilestoneReached)
	})
}

func findTitle(t *testing.T, res Result, title Title) TitleProgress {
	t.Helper()
	for _, tp := range res.Titles {
		if tp.Title == title {
			return tp
		}
	}
	require.Failf(t, "title missing", "%s not in result", title)
	return TitleProgress{}
}
