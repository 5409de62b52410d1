// Package companion scores how well crops grow next to each other.
// Every pairwise judgement goes through Scorer.Pair so the bed score, the
// succession gate and bed composition all apply the same rules.
package companion

import "github.com/furrow/furrow/pkg/crop"

// Verdict is the outcome of a pairwise check.
type Verdict string

const (
	VerdictCompatible   Verdict = "COMPATIBLE"
	VerdictAntagonistic Verdict = "ANTAGONISTIC"
)

// Factor keys.
const (
	KeyAntagonist = "antagonist"
	KeyCompanion  = "explicit_companion"
	KeySeason     = "season_overlap"
	KeyHabit      = "growth_habit"
)

// FactorResult is the contribution of one rule to a pair score.
type FactorResult struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Points  int    `json:"points"`
	Summary string `json:"summary"`
}

// PairResult is the score of one candidate against one other crop.
// Immutable once computed.
type PairResult struct {
	CandidateID string         `json:"candidate_id"`
	OtherID     string         `json:"other_id"`
	Verdict     Verdict        `json:"verdict"`
	Total       int            `json:"total"`
	Factors     []FactorResult `json:"factors"`
}

// Antagonistic reports whether the pair was vetoed by an antagonist rule.
func (p PairResult) Antagonistic() bool { return p.Verdict == VerdictAntagonistic }

// Fired reports whether the factor with the given key contributed points.
func (p PairResult) Fired(key string) bool {
	for _, f := range p.Factors {
		if f.Key == key && f.Points != 0 {
			return true
		}
	}
	return false
}

// Result is a candidate scored against every crop already in a bed.
type Result struct {
	CandidateID string       `json:"candidate_id"`
	Total       int          `json:"total"`
	Pairs       []PairResult `json:"pairs"`
}

// Antagonists returns the IDs of placed crops the candidate clashes with.
func (r Result) Antagonists() []string {
	var ids []string
	for _, p := range r.Pairs {
		if p.Antagonistic() {
			ids = append(ids, p.OtherID)
		}
	}
	return ids
}

// Placement is one crop chosen during bed composition.
type Placement struct {
	Slot  int          `json:"slot"`
	Crop  crop.Crop    `json:"crop"`
	Score int          `json:"score"`
	Pairs []PairResult `json:"pairs,omitempty"`
}
