package companion

import "fmt"

// Weights holds the point values of the companion rules.
type Weights struct {
	// Subtracted once per antagonistic pair.
	AntagonistPenalty int `yaml:"antagonist_penalty" json:"antagonist_penalty"`

	CompanionBonus int `yaml:"companion_bonus" json:"companion_bonus"`

	// Shared planting seasons count up to this cap.
	SeasonOverlapCap int `yaml:"season_overlap_cap" json:"season_overlap_cap"`
	// Awarded instead of the overlap when either crop has no season data.
	UnknownSeason int `yaml:"unknown_season" json:"unknown_season"`

	ComplementaryHabit int `yaml:"complementary_habit" json:"complementary_habit"`
	DifferentHabit     int `yaml:"different_habit" json:"different_habit"`
}

// Defaults returns the default companion weights.
func Defaults() Weights {
	return Weights{
		AntagonistPenalty:  15,
		CompanionBonus:     5,
		SeasonOverlapCap:   3,
		UnknownSeason:      1,
		ComplementaryHabit: 2,
		DifferentHabit:     1,
	}
}

// Validate rejects negative weights. The penalty is stored as a
// magnitude and subtracted when applied.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"antagonist_penalty", w.AntagonistPenalty},
		{"companion_bonus", w.CompanionBonus},
		{"season_overlap_cap", w.SeasonOverlapCap},
		{"unknown_season", w.UnknownSeason},
		{"complementary_habit", w.ComplementaryHabit},
		{"different_habit", w.DifferentHabit},
	} {
		if f.v < 0 {
			return fmt.Errorf("companion weight %s is negative: %d", f.name, f.v)
		}
	}
	return nil
}
