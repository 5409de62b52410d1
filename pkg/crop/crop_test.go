package crop_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/furrow/furrow/pkg/crop"
)

func TestBuiltinCatalogIsValid(t *testing.T) {
	cat := crop.Builtin()
	if len(cat.Crops) < 20 {
		t.Fatalf("expected a populated builtin catalog, got %d crops", len(cat.Crops))
	}
	for _, issue := range crop.Validate(cat) {
		if issue.Level == crop.IssueError {
			t.Errorf("builtin catalog: %s", issue)
		}
	}
}

func TestBuiltinReturnsFreshCopy(t *testing.T) {
	a := crop.Builtin()
	a.Crops[0].Name = "changed"
	if b := crop.Builtin(); b.Crops[0].Name == "changed" {
		t.Error("Builtin shared state between calls")
	}
}

func TestFamilyKey(t *testing.T) {
	tests := []struct {
		name string
		c    crop.Crop
		want string
	}{
		{"scientific name", crop.Crop{ScientificName: "Solanum lycopersicum"}, "solanum"},
		{"extra whitespace", crop.Crop{ScientificName: "  Vicia   faba"}, "vicia"},
		{"falls back to category", crop.Crop{Category: crop.CategoryNitrogenFixer}, "nitrogen_fixing"},
		{"nothing known", crop.Crop{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.FamilyKey(); got != tt.want {
				t.Errorf("FamilyKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	c := crop.Crop{Name: "Corn", CommonName: "Maize"}
	if diff := cmp.Diff([]string{"Corn", "Maize"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	c = crop.Crop{Name: "Kale", CommonName: "kale"}
	if diff := cmp.Diff([]string{"Kale"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeason(t *testing.T) {
	tests := map[string]crop.Season{
		"Spring":     crop.SeasonSpring,
		"autumn":     crop.SeasonFall,
		"year-round": crop.SeasonYearRound,
		"all":        crop.SeasonYearRound,
	}
	for in, want := range tests {
		got, ok := crop.ParseSeason(in)
		if !ok || got != want {
			t.Errorf("ParseSeason(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := crop.ParseSeason("monsoon"); ok {
		t.Error("expected monsoon to be rejected")
	}
}

func TestDecodeYAMLNormalizesSeasons(t *testing.T) {
	data := []byte(`
crops:
  - id: kale
    name: Kale
    category: staple_food
    planting_season: [Spring, autumn, spring, monsoon]
`)
	cat, err := crop.Decode(data, "crops.yaml")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := []crop.Season{crop.SeasonSpring, crop.SeasonFall}
	if diff := cmp.Diff(want, cat.Crops[0].PlantingSeason); diff != "" {
		t.Errorf("seasons mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsUnknownYAMLFields(t *testing.T) {
	data := []byte("crops:\n  - id: kale\n    nmae: Kale\n")
	if _, err := crop.Decode(data, "crops.yaml"); err == nil {
		t.Error("expected error for misspelled field")
	}
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{"crops":[{"id":"bean","name":"Bean","category":"nitrogen_fixing","harvest_days":55,"hardiness_zone_min":3}]}`)
	cat, err := crop.Decode(data, "crops.JSON")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	c := cat.Crops[0]
	if c.HarvestDays == nil || *c.HarvestDays != 55 {
		t.Errorf("expected harvest days 55, got %v", c.HarvestDays)
	}
	if c.HardinessZoneMax != nil {
		t.Errorf("expected absent zone max, got %v", *c.HardinessZoneMax)
	}
}

func TestSaveAndLoadCatalog(t *testing.T) {
	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "crops"+ext)
			want := &crop.Catalog{Version: "test", Crops: []crop.Crop{{
				ID: "bean", Name: "Bean", Category: crop.CategoryNitrogenFixer,
				PlantingSeason:   []crop.Season{crop.SeasonSpring},
				HarvestDays:      crop.Int(55),
				HardinessZoneMin: crop.Zone(3),
			}}}
			if err := crop.SaveCatalog(path, want); err != nil {
				t.Fatalf("SaveCatalog() error: %v", err)
			}
			got, err := crop.LoadCatalog(path)
			if err != nil {
				t.Fatalf("LoadCatalog() error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("catalog mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cat := crop.Builtin()
	found, missing := cat.Resolve([]string{"tomato", "dragonfruit", "basil"})
	if len(found) != 2 || found[0].ID != "tomato" || found[1].ID != "basil" {
		t.Errorf("unexpected resolved crops: %+v", found)
	}
	if diff := cmp.Diff([]string{"dragonfruit"}, missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if cat.Lookup("dragonfruit") != nil {
		t.Error("expected nil lookup for unknown crop")
	}
}

func TestValidate(t *testing.T) {
	cat := &crop.Catalog{Crops: []crop.Crop{
		{ID: "a", Name: "A", Category: crop.CategoryStaple, PlantingSeason: []crop.Season{crop.SeasonSpring}},
		{ID: "a", Name: "A again", Category: crop.CategoryStaple, PlantingSeason: []crop.Season{crop.SeasonSpring}},
		{ID: "", Name: "No ID", Category: crop.CategoryStaple, PlantingSeason: []crop.Season{crop.SeasonSpring}},
		{ID: "z", Name: "Zoned", Category: crop.CategoryStaple, PlantingSeason: []crop.Season{crop.SeasonSpring},
			HardinessZoneMin: crop.Zone(9), HardinessZoneMax: crop.Zone(4)},
		{ID: "w", Name: "Weird", Category: "ornamental", GrowthHabit: "creeping"},
	}}
	issues := crop.Validate(cat)
	if !crop.HasErrors(issues) {
		t.Fatal("expected errors")
	}

	var errs, warns []string
	for _, i := range issues {
		if i.Level == crop.IssueError {
			errs = append(errs, i.String())
		} else {
			warns = append(warns, i.String())
		}
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if len(warns) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(warns), warns)
	}
	if !strings.Contains(strings.Join(errs, "\n"), "duplicate id") {
		t.Errorf("expected duplicate id error, got %v", errs)
	}
}

func TestValidateEmpty(t *testing.T) {
	issues := crop.Validate(&crop.Catalog{})
	if len(issues) != 1 || issues[0].Level != crop.IssueWarning {
		t.Errorf("expected one warning for empty catalog, got %v", issues)
	}
}
