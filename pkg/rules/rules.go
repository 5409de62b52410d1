// Package rules holds the static, hand-curated reference tables shared by
// the companion and succession engines: antagonist keyword pairs,
// complementary growth habits and the season calendar.
//
// The tables are built once at init and never written afterwards.
// Accessors hand out copies.
package rules

import (
	"time"

	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/match"
)

// AntagonistRule marks two keyword groups as incompatible neighbours.
type AntagonistRule struct {
	A    []string `json:"a"`
	B    []string `json:"b"`
	Note string   `json:"note,omitempty"`
}

// Matches reports whether one side's names hit group A and the other
// side's names hit group B, in either direction. A rule with an empty
// group never matches.
func (r AntagonistRule) Matches(left, right []string) bool {
	return (anyContains(left, r.A) && anyContains(right, r.B)) ||
		(anyContains(left, r.B) && anyContains(right, r.A))
}

func anyContains(names, keywords []string) bool {
	for _, n := range names {
		if match.ContainsAny(n, keywords) {
			return true
		}
	}
	return false
}

var antagonists = []AntagonistRule{
	{A: []string{"tomato"}, B: []string{"potato"}, Note: "share early and late blight"},
	{A: []string{"fennel"}, B: []string{"tomato", "bean", "pepper", "kohlrabi"}, Note: "fennel suppresses most neighbours"},
	{A: []string{"bean", "pea"}, B: []string{"onion", "garlic", "leek", "shallot", "chive"}, Note: "alliums stunt legumes"},
	{A: []string{"potato"}, B: []string{"squash", "pumpkin", "cucumber", "sunflower"}, Note: "competing heavy feeders and shared blight"},
	{A: []string{"cabbage", "broccoli", "kale", "cauliflower", "brussels"}, B: []string{"strawberry", "tomato"}, Note: "brassicas compete for the same nutrients"},
	{A: []string{"walnut"}, B: []string{"tomato", "potato", "pepper", "eggplant", "apple"}, Note: "juglone is toxic to these crops"},
	{A: []string{"dill"}, B: []string{"carrot"}, Note: "cross-pollination and shared pests"},
	{A: []string{"corn"}, B: []string{"tomato"}, Note: "share the corn earworm"},
	{A: []string{"asparagus"}, B: []string{"onion", "garlic"}, Note: "alliums stunt asparagus"},
	{A: []string{"sunflower"}, B: []string{"potato", "bean"}, Note: "sunflower is allelopathic"},
}

// Antagonists returns a copy of the antagonist table in its curated order.
func Antagonists() []AntagonistRule {
	out := make([]AntagonistRule, len(antagonists))
	for i, r := range antagonists {
		out[i] = AntagonistRule{
			A:    append([]string(nil), r.A...),
			B:    append([]string(nil), r.B...),
			Note: r.Note,
		}
	}
	return out
}

// FindAntagonist returns the first rule matching the two name sets.
func FindAntagonist(left, right []string) (AntagonistRule, bool) {
	for _, r := range antagonists {
		if r.Matches(left, right) {
			return r, true
		}
	}
	return AntagonistRule{}, false
}

type habitPair struct{ a, b crop.Habit }

var complementary = []habitPair{
	{crop.HabitTree, crop.HabitGroundCover},
	{crop.HabitVine, crop.HabitHerb},
	{crop.HabitShrub, crop.HabitGroundCover},
	{crop.HabitUpright, crop.HabitSpreading},
	{crop.HabitVine, crop.HabitUpright},
}

// Complementary reports whether two growth habits stack well in the same
// bed. The relation is unordered.
func Complementary(a, b crop.Habit) bool {
	for _, p := range complementary {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return true
		}
	}
	return false
}

var seasonMonths = map[crop.Season][]time.Month{
	crop.SeasonSpring: {time.March, time.April, time.May},
	crop.SeasonSummer: {time.June, time.July, time.August},
	crop.SeasonFall:   {time.September, time.October, time.November},
	crop.SeasonWinter: {time.December, time.January, time.February},
	crop.SeasonYearRound: {
		time.January, time.February, time.March, time.April, time.May, time.June,
		time.July, time.August, time.September, time.October, time.November, time.December,
	},
}

// SeasonMonths returns the calendar months a season covers. Unknown
// seasons cover nothing.
func SeasonMonths(s crop.Season) []time.Month {
	return append([]time.Month(nil), seasonMonths[s]...)
}

// PlantableIn reports whether any of the seasons covers the month.
func PlantableIn(seasons []crop.Season, m time.Month) bool {
	for _, s := range seasons {
		for _, sm := range seasonMonths[s] {
			if sm == m {
				return true
			}
		}
	}
	return false
}

// NextMonth returns the month after m, wrapping December to January.
func NextMonth(m time.Month) time.Month {
	return m%12 + 1
}
