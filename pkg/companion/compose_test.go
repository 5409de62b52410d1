package companion_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/crop"
)

func composeCatalog() *crop.Catalog {
	warm := []crop.Season{crop.SeasonSpring, crop.SeasonSummer}
	return &crop.Catalog{Crops: []crop.Crop{
		{ID: "tomato", Name: "Tomato", GrowthHabit: crop.HabitUpright, PlantingSeason: warm, CompanionCrops: []string{"basil"}},
		{ID: "potato", Name: "Potato", GrowthHabit: crop.HabitUpright, PlantingSeason: []crop.Season{crop.SeasonSpring}},
		{ID: "basil", Name: "Basil", GrowthHabit: crop.HabitHerb, PlantingSeason: warm, CompanionCrops: []string{"tomato"}},
		{ID: "marigold", Name: "Marigold", GrowthHabit: crop.HabitHerb, PlantingSeason: warm, CompanionCrops: []string{"tomato"}},
		{ID: "lettuce", Name: "Lettuce", GrowthHabit: crop.HabitGroundCover, PlantingSeason: []crop.Season{crop.SeasonSpring, crop.SeasonFall}},
	}}
}

func TestCompose(t *testing.T) {
	cat := composeCatalog()
	seed := []crop.Crop{cat.Crops[0]}

	got := companion.Compose(seed, cat, 3)

	type placed struct {
		ID    string
		Score int
	}
	var summary []placed
	for _, p := range got {
		summary = append(summary, placed{p.Crop.ID, p.Score})
	}
	// basil and marigold tie on the first slot; catalog order wins.
	want := []placed{{"basil", 8}, {"marigold", 10}, {"lettuce", 6}}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("composition mismatch (-want +got):\n%s", diff)
	}
	for i, p := range got {
		if p.Slot != i+1 {
			t.Errorf("placement %d has slot %d", i, p.Slot)
		}
	}
}

func TestComposeNeverAddsAntagonists(t *testing.T) {
	cat := composeCatalog()
	got := companion.Compose([]crop.Crop{cat.Crops[0]}, cat, 10)
	if len(got) != 3 {
		t.Fatalf("expected composition to stop after 3 crops, got %d", len(got))
	}
	for _, p := range got {
		if p.Crop.ID == "potato" || p.Crop.ID == "tomato" {
			t.Errorf("unexpected placement %s", p.Crop.ID)
		}
	}
}

func TestComposeBuiltinIsDeterministic(t *testing.T) {
	cat := crop.Builtin()
	seed, _ := cat.Resolve([]string{"tomato", "carrot"})

	first := companion.Compose(seed, cat, 5)
	second := companion.Compose(seed, cat, 5)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("composition not deterministic (-first +second):\n%s", diff)
	}

	bed := append([]crop.Crop(nil), seed...)
	seen := map[string]bool{"tomato": true, "carrot": true}
	for _, p := range first {
		if seen[p.Crop.ID] {
			t.Errorf("crop %s placed twice", p.Crop.ID)
		}
		seen[p.Crop.ID] = true
		for i := range bed {
			if companion.IsAntagonist(&p.Crop, &bed[i]) {
				t.Errorf("%s placed next to antagonist %s", p.Crop.ID, bed[i].ID)
			}
		}
		bed = append(bed, p.Crop)
	}
}

func TestComposeEdgeCases(t *testing.T) {
	cat := composeCatalog()
	if got := companion.Compose(nil, cat, 0); got != nil {
		t.Errorf("expected nil for zero slots, got %v", got)
	}
	if got := companion.Compose(nil, nil, 3); got != nil {
		t.Errorf("expected nil for nil catalog, got %v", got)
	}
	got := companion.Compose(nil, cat, 1)
	if len(got) != 1 || got[0].Crop.ID != "tomato" {
		t.Errorf("expected empty bed to start with the first catalog crop, got %+v", got)
	}
}
