package companion

import (
	"fmt"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/rules"
)

// Scorer applies the antagonist veto and then every configured factor to
// each pair. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	weights Weights
	factors []Factor
}

// NewScorer creates a scorer with the given weights and the default
// factor set.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w, factors: DefaultFactors(w)}
}

// Weights returns the weights the scorer was built with.
func (s *Scorer) Weights() Weights { return s.weights }

// Pair scores candidate against one other crop. An antagonistic pair gets
// the penalty and nothing else.
func (s *Scorer) Pair(candidate, other *crop.Crop) PairResult {
	res := PairResult{
		CandidateID: candidate.ID,
		OtherID:     other.ID,
		Verdict:     VerdictCompatible,
	}

	if rule, ok := rules.FindAntagonist(candidate.Names(), other.Names()); ok {
		res.Verdict = VerdictAntagonistic
		res.Total = -s.weights.AntagonistPenalty
		summary := fmt.Sprintf("%s and %s are antagonists", candidate.Name, other.Name)
		if rule.Note != "" {
			summary += ": " + rule.Note
		}
		res.Factors = []FactorResult{{
			Key:     KeyAntagonist,
			Name:    "Antagonist",
			Points:  res.Total,
			Summary: summary,
		}}
		return res
	}

	for _, f := range s.factors {
		fr := f.Evaluate(candidate, other)
		res.Factors = append(res.Factors, fr)
		res.Total += fr.Points
	}
	return res
}

// Evaluate scores candidate against every placed crop. Pairs are
// independent, so the total is the plain sum of the pair totals.
func (s *Scorer) Evaluate(candidate *crop.Crop, placed []crop.Crop) Result {
	res := Result{CandidateID: candidate.ID}
	for i := range placed {
		p := s.Pair(candidate, &placed[i])
		res.Pairs = append(res.Pairs, p)
		res.Total += p.Total
	}
	return res
}

// Score returns only the total of Evaluate.
func (s *Scorer) Score(candidate *crop.Crop, placed []crop.Crop) int {
	total := 0
	for i := range placed {
		total += s.Pair(candidate, &placed[i]).Total
	}
	return total
}

// AntagonistOf returns the first placed crop that clashes with candidate.
func (s *Scorer) AntagonistOf(candidate *crop.Crop, placed []crop.Crop) (*crop.Crop, bool) {
	for i := range placed {
		if IsAntagonist(candidate, &placed[i]) {
			return &placed[i], true
		}
	}
	return nil, false
}

// IsAntagonist reports whether any antagonist rule matches the two crops.
// The relation is symmetric.
func IsAntagonist(a, b *crop.Crop) bool {
	_, ok := rules.FindAntagonist(a.Names(), b.Names())
	return ok
}

var defaultScorer = NewScorer(Defaults())

// Pair scores a pair with the default weights.
func Pair(candidate, other *crop.Crop) PairResult {
	return defaultScorer.Pair(candidate, other)
}

// Score scores a candidate against a bed with the default weights.
func Score(candidate *crop.Crop, placed []crop.Crop) int {
	return defaultScorer.Score(candidate, placed)
}

// Compose fills a bed with the default weights.
func Compose(seed []crop.Crop, catalog *crop.Catalog, slots int) []Placement {
	return defaultScorer.Compose(seed, catalog, slots)
}
