package companion

import (
	"fmt"
	"strings"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/match"
	"github.com/furrow/furrow/pkg/rules"
)

// Factor is one additive companion rule. Factors only run for pairs that
// are not antagonistic.
type Factor interface {
	// Key returns the machine-readable factor identifier.
	Key() string
	// Name returns the human-readable factor name.
	Name() string
	// Evaluate scores the candidate against one other crop.
	Evaluate(candidate, other *crop.Crop) FactorResult
}

// CompanionFactor awards a bonus when either crop lists the other as a
// companion.
type CompanionFactor struct {
	Bonus int
}

func (f *CompanionFactor) Key() string  { return KeyCompanion }
func (f *CompanionFactor) Name() string { return "Explicit companion" }

func (f *CompanionFactor) Evaluate(candidate, other *crop.Crop) FactorResult {
	r := FactorResult{Key: f.Key(), Name: f.Name()}
	if IsCompanion(candidate, other) {
		r.Points = f.Bonus
		r.Summary = fmt.Sprintf("%s and %s are listed companions", candidate.Name, other.Name)
	} else {
		r.Summary = "not listed as companions"
	}
	return r
}

// IsCompanion reports whether either crop's companion list references the
// other by name. Direction does not matter.
func IsCompanion(a, b *crop.Crop) bool {
	return match.References(a.CompanionCrops, b.Names()...) ||
		match.References(b.CompanionCrops, a.Names()...)
}

// SeasonFactor rewards crops that go in the ground at the same time.
type SeasonFactor struct {
	Cap     int
	Unknown int
}

func (f *SeasonFactor) Key() string  { return KeySeason }
func (f *SeasonFactor) Name() string { return "Season overlap" }

func (f *SeasonFactor) Evaluate(candidate, other *crop.Crop) FactorResult {
	r := FactorResult{Key: f.Key(), Name: f.Name()}
	if !candidate.HasSeasonData() || !other.HasSeasonData() {
		r.Points = f.Unknown
		r.Summary = "season data missing, scored as neutral"
		return r
	}

	var shared []string
	for _, s := range candidate.PlantingSeason {
		for _, o := range other.PlantingSeason {
			if s == o {
				shared = append(shared, string(s))
				break
			}
		}
	}
	r.Points = min(len(shared), f.Cap)
	if len(shared) == 0 {
		r.Summary = "no shared planting season"
	} else {
		r.Summary = "shared seasons: " + strings.Join(shared, ", ")
	}
	return r
}

// HabitFactor rewards beds that mix growth habits.
type HabitFactor struct {
	Complementary int
	Different     int
}

func (f *HabitFactor) Key() string  { return KeyHabit }
func (f *HabitFactor) Name() string { return "Growth habit" }

func (f *HabitFactor) Evaluate(candidate, other *crop.Crop) FactorResult {
	r := FactorResult{Key: f.Key(), Name: f.Name()}
	a, b := candidate.GrowthHabit, other.GrowthHabit
	switch {
	case a == "" || b == "":
		r.Summary = "growth habit unknown"
	case a == b:
		r.Summary = fmt.Sprintf("both %s, no vertical diversity", a)
	case rules.Complementary(a, b):
		r.Points = f.Complementary
		r.Summary = fmt.Sprintf("%s and %s are complementary", a, b)
	default:
		r.Points = f.Different
		r.Summary = fmt.Sprintf("%s and %s differ", a, b)
	}
	return r
}

// DefaultFactors returns the standard factor set for the given weights.
func DefaultFactors(w Weights) []Factor {
	return []Factor{
		&CompanionFactor{Bonus: w.CompanionBonus},
		&SeasonFactor{Cap: w.SeasonOverlapCap, Unknown: w.UnknownSeason},
		&HabitFactor{Complementary: w.ComplementaryHabit, Different: w.DifferentHabit},
	}
}
