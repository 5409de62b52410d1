package companion_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/crop"
)

func builtin(t *testing.T, ids ...string) []crop.Crop {
	t.Helper()
	found, missing := crop.Builtin().Resolve(ids)
	if len(missing) > 0 {
		t.Fatalf("crops missing from builtin catalog: %v", missing)
	}
	return found
}

func TestPairTomatoPotatoAntagonistic(t *testing.T) {
	c := builtin(t, "tomato", "potato")
	tomato, potato := &c[0], &c[1]

	if !companion.IsAntagonist(tomato, potato) || !companion.IsAntagonist(potato, tomato) {
		t.Fatal("expected tomato and potato to be antagonists in both directions")
	}
	p := companion.Pair(tomato, potato)
	if p.Total != -15 {
		t.Errorf("expected -15, got %d", p.Total)
	}
	if !p.Antagonistic() {
		t.Errorf("expected antagonistic verdict, got %s", p.Verdict)
	}
	if len(p.Factors) != 1 || p.Factors[0].Key != companion.KeyAntagonist {
		t.Errorf("expected only the antagonist factor, got %+v", p.Factors)
	}
	if got := companion.Score(tomato, []crop.Crop{*potato}); got != -15 {
		t.Errorf("Score() = %d, want -15", got)
	}
}

func TestPairBasilTomato(t *testing.T) {
	c := builtin(t, "basil", "tomato")
	p := companion.Pair(&c[0], &c[1])

	// companion 5 + two shared seasons + herb/upright differ 1
	if p.Total != 8 {
		t.Errorf("expected 8, got %d (%+v)", p.Total, p.Factors)
	}
	for _, key := range []string{companion.KeyCompanion, companion.KeySeason, companion.KeyHabit} {
		if !p.Fired(key) {
			t.Errorf("expected factor %s to fire", key)
		}
	}
}

func TestPairUnknownSeasonIsNeutral(t *testing.T) {
	c := builtin(t, "comfrey", "apple")
	p := companion.Pair(&c[0], &c[1])
	// companion 5 + unknown season 1 + herb/tree differ 1
	if p.Total != 7 {
		t.Errorf("expected 7, got %d (%+v)", p.Total, p.Factors)
	}
}

func TestPairFactors(t *testing.T) {
	all := []crop.Season{crop.SeasonSpring, crop.SeasonSummer, crop.SeasonFall, crop.SeasonWinter}
	tests := []struct {
		name string
		a, b crop.Crop
		want int
	}{
		{
			name: "season overlap capped",
			a:    crop.Crop{ID: "a", Name: "Alpha", PlantingSeason: all},
			b:    crop.Crop{ID: "b", Name: "Bravo", PlantingSeason: all},
			want: 3,
		},
		{
			name: "no shared season",
			a:    crop.Crop{ID: "a", Name: "Alpha", PlantingSeason: []crop.Season{crop.SeasonSpring}},
			b:    crop.Crop{ID: "b", Name: "Bravo", PlantingSeason: []crop.Season{crop.SeasonFall}},
			want: 0,
		},
		{
			name: "year round does not expand",
			a:    crop.Crop{ID: "a", Name: "Alpha", PlantingSeason: []crop.Season{crop.SeasonYearRound}},
			b:    crop.Crop{ID: "b", Name: "Bravo", PlantingSeason: []crop.Season{crop.SeasonSpring}},
			want: 0,
		},
		{
			name: "one side without seasons",
			a:    crop.Crop{ID: "a", Name: "Alpha"},
			b:    crop.Crop{ID: "b", Name: "Bravo", PlantingSeason: all},
			want: 1,
		},
		{
			name: "complementary habits",
			a:    crop.Crop{ID: "a", Name: "Alpha", GrowthHabit: crop.HabitVine},
			b:    crop.Crop{ID: "b", Name: "Bravo", GrowthHabit: crop.HabitHerb},
			want: 1 + 2,
		},
		{
			name: "same habit",
			a:    crop.Crop{ID: "a", Name: "Alpha", GrowthHabit: crop.HabitHerb},
			b:    crop.Crop{ID: "b", Name: "Bravo", GrowthHabit: crop.HabitHerb},
			want: 1,
		},
		{
			name: "unknown habit",
			a:    crop.Crop{ID: "a", Name: "Alpha", GrowthHabit: crop.HabitTree},
			b:    crop.Crop{ID: "b", Name: "Bravo"},
			want: 1,
		},
		{
			name: "companion fragment matches common name",
			a:    crop.Crop{ID: "a", Name: "Alpha", CompanionCrops: []string{"maize"}},
			b:    crop.Crop{ID: "b", Name: "Bravo", CommonName: "Maize"},
			want: 5 + 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := companion.Pair(&tt.a, &tt.b).Total; got != tt.want {
				t.Errorf("Pair().Total = %d, want %d", got, tt.want)
			}
			if got := companion.Pair(&tt.b, &tt.a).Total; got != tt.want {
				t.Errorf("reversed Pair().Total = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeywordSubstrings(t *testing.T) {
	c := builtin(t, "snap-pea", "onion", "sweet-pepper")
	pea, onion, pepper := &c[0], &c[1], &c[2]
	if !companion.IsAntagonist(pea, onion) {
		t.Error("expected snap pea and onion to be antagonists")
	}
	if companion.IsAntagonist(pepper, onion) {
		t.Error("sweet pepper must not match the pea keyword")
	}
}

func TestIsAntagonistSymmetricOverCatalog(t *testing.T) {
	cat := crop.Builtin()
	for i := range cat.Crops {
		for j := range cat.Crops {
			a, b := &cat.Crops[i], &cat.Crops[j]
			if companion.IsAntagonist(a, b) != companion.IsAntagonist(b, a) {
				t.Errorf("IsAntagonist(%s, %s) is not symmetric", a.ID, b.ID)
			}
		}
	}
}

func TestScoreAdditive(t *testing.T) {
	c := builtin(t, "tomato", "basil", "marigold", "potato", "carrot")
	tomato := &c[0]
	placed := c[1:]

	var sum int
	for _, p := range placed {
		sum += companion.Score(tomato, []crop.Crop{p})
	}
	if got := companion.Score(tomato, placed); got != sum {
		t.Errorf("Score over bed = %d, sum of individual scores = %d", got, sum)
	}
}

func TestScoreEmptyBed(t *testing.T) {
	c := builtin(t, "tomato")
	if got := companion.Score(&c[0], nil); got != 0 {
		t.Errorf("expected 0 for empty bed, got %d", got)
	}
}

func TestEvaluateListsAntagonists(t *testing.T) {
	c := builtin(t, "tomato", "potato", "basil")
	r := companion.NewScorer(companion.Defaults()).Evaluate(&c[0], c[1:])
	if r.Total != -15+8 {
		t.Errorf("expected total -7, got %d", r.Total)
	}
	if diff := cmp.Diff([]string{"potato"}, r.Antagonists()); diff != "" {
		t.Errorf("antagonists mismatch (-want +got):\n%s", diff)
	}
}

func TestCustomWeights(t *testing.T) {
	w := companion.Defaults()
	w.CompanionBonus = 10
	w.AntagonistPenalty = 100
	s := companion.NewScorer(w)

	c := builtin(t, "basil", "tomato", "potato")
	if got := s.Pair(&c[0], &c[1]).Total; got != 13 {
		t.Errorf("expected 13 with doubled companion bonus, got %d", got)
	}
	if got := s.Pair(&c[1], &c[2]).Total; got != -100 {
		t.Errorf("expected -100 penalty, got %d", got)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := companion.Defaults().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	w := companion.Defaults()
	w.DifferentHabit = -1
	if err := w.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}
}
