// Package eligibility derives achievement-class eligibility and title
// progress from a dog's record. Output is descriptive; callers decide
// whether to block or warn.
package eligibility

import (
	"math"
	"strings"
	"time"

	"github.com/showring/backend/internal/domain/show"
)

// ClassName is an achievement class
type ClassName string

const (
	ClassMaiden       ClassName = "Maiden"
	ClassNovice       ClassName = "Novice"
	ClassGraduate     ClassName = "Graduate"
	ClassPostGraduate ClassName = "Post Graduate"
	ClassLimit        ClassName = "Limit"
	ClassOpen         ClassName = "Open"
)

const (
	gundogGroup         = "gundog"
	championCCs         = 3
	championJudges      = 3
	juniorWarrantPoints = 25
	juniorWarrantMonths = 18
)

// Ladder lists achievement classes from most to least restrictive
var Ladder = []ClassName{ClassMaiden, ClassNovice, ClassGraduate, ClassPostGraduate, ClassLimit, ClassOpen}

// Win is a first-or-lower placing at a show
type Win struct {
	ShowType  show.Type
	Placement int
	Date      time.Time
}

// CC is a Challenge Certificate award
type CC struct {
	JudgeID string
	Date    time.Time
}

// Input is a dog's record
type Input struct {
	DateOfBirth *time.Time
	BreedGroup  string
	Wins        []Win
	CCs         []CC
	// FieldTrialEvidence is supplied by a secretary; it cannot be derived.
	FieldTrialEvidence bool
	AsOf               time.Time
}

// Title names a KC title
type Title string

const (
	TitleChampion      Title = "Champion"
	TitleJuniorWarrant Title = "Junior Warrant"
	TitleShowChampion  Title = "Show Champion"
)

// Verification states how a milestone was established
type Verification string

const (
	VerificationAutomatic        Verification = "automatic"
	VerificationExternalEvidence Verification = "requires_external_evidence"
)

// TitleProgress is percentage-complete presentation for one title
type TitleProgress struct {
	Title            Title        `json:"title"`
	Current          int          `json:"current"`
	Required         int          `json:"required"`
	Progress         float64      `json:"progress"`
	MilestoneReached bool         `json:"milestone_reached"`
	Verification     Verification `json:"verification"`
	Note             string       `json:"note,omitempty"`
}

// Result is the evaluator output
type Result struct {
	EligibleClasses []ClassName     `json:"eligible_classes"`
	SuggestedClass  ClassName       `json:"suggested_class"`
	Firsts          int             `json:"firsts"`
	CCCount         int             `json:"cc_count"`
	Titles          []TitleProgress `json:"titles"`
}

// Evaluate computes eligibility and title progress
func Evaluate(in Input) Result {
	firsts := CountFirsts(in.Wins)
	classes := EligibleClasses(firsts, len(in.CCs))

	res := Result{
		EligibleClasses: classes,
		SuggestedClass:  classes[0],
		Firsts:          firsts,
		CCCount:         len(in.CCs),
	}
	champion := championProgress(in.CCs)
	res.Titles = append(res.Titles, champion, juniorWarrantProgress(in))
	if strings.EqualFold(strings.TrimSpace(in.BreedGroup), gundogGroup) {
		res.Titles = append(res.Titles, showChampionProgress(champion, in.FieldTrialEvidence))
	}
	return res
}

// QualifiesAsFirst reports whether a win counts toward the staircase
func QualifiesAsFirst(w Win) bool {
	if w.Placement != 1 {
		return false
	}
	switch w.ShowType {
	case show.TypeOpen, show.TypeChampionship, show.TypePremierOpen:
		return true
	}
	return false
}

// CountFirsts counts qualifying first places
func CountFirsts(wins []Win) int {
	n := 0
	for _, w := range wins {
		if QualifiesAsFirst(w) {
			n++
		}
	}
	return n
}

// EligibleClasses returns the staircase bucket for firsts. Any CC leaves
// Open only. The first element is the most restrictive class.
func EligibleClasses(firsts, ccCount int) []ClassName {
	start := len(Ladder) - 1
	switch {
	case ccCount > 0:
	case firsts <= 0:
		start = 0
	case firsts <= 2:
		start = 1
	case firsts == 3:
		start = 2
	case firsts == 4:
		start = 3
	case firsts <= 6:
		start = 4
	}
	out := make([]ClassName, len(Ladder)-start)
	copy(out, Ladder[start:])
	return out
}

func championProgress(ccs []CC) TitleProgress {
	judges := make(map[string]struct{}, len(ccs))
	for _, cc := range ccs {
		if id := strings.TrimSpace(cc.JudgeID); id != "" {
			judges[id] = struct{}{}
		}
	}
	p := TitleProgress{
		Title:        TitleChampion,
		Current:      len(ccs),
		Required:     championCCs,
		Progress:     ratio(len(ccs), championCCs),
		Verification: VerificationAutomatic,
	}
	p.MilestoneReached = len(ccs) >= championCCs && len(judges) >= championJudges
	if len(ccs) >= championCCs && !p.MilestoneReached {
		p.Note = "CCs must come from three different judges"
	}
	return p
}

func juniorWarrantProgress(in Input) TitleProgress {
	p := TitleProgress{
		Title:        TitleJuniorWarrant,
		Required:     juniorWarrantPoints,
		Verification: VerificationAutomatic,
	}
	if in.DateOfBirth == nil {
		p.Note = "date of birth not recorded"
		return p
	}
	cutoff := in.DateOfBirth.AddDate(0, juniorWarrantMonths, 0)
	for _, w := range in.Wins {
		if w.Placement != 1 || !w.Date.Before(cutoff) {
			continue
		}
		switch w.ShowType {
		case show.TypeChampionship:
			p.Current += 3
		case show.TypeOpen, show.TypePremierOpen:
			p.Current++
		}
	}
	p.Progress = ratio(p.Current, juniorWarrantPoints)
	p.MilestoneReached = p.Current >= juniorWarrantPoints
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	if !asOf.Before(cutoff) && !p.MilestoneReached {
		p.Note = "qualifying window closed at 18 months"
	}
	return p
}

// showChampionProgress mirrors Champion but the field trial cannot be
// detected, so the milestone holds only with evidence supplied.
func showChampionProgress(champion TitleProgress, fieldTrialEvidence bool) TitleProgress {
	p := champion
	p.Title = TitleShowChampion
	p.Verification = VerificationExternalEvidence
	p.MilestoneReached = champion.MilestoneReached && fieldTrialEvidence
	if !fieldTrialEvidence {
		p.Note = "field trial qualification cannot be verified automatically"
	}
	return p
}

func ratio(current, required int) float64 {
	if required <= 0 {
		return 0
	}
	return math.Min(float64(current)/float64(required), 1)
}
