// Package crop defines the crop catalog data model for furrow.
// These types are the shared vocabulary of the soil, companion and
// succession engines. Catalog entries are read-only once loaded.
package crop

import (
	"sort"
	"strings"
)

// Crop is a single catalog entry.
type Crop struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	CommonName     string   `json:"common_name,omitempty" yaml:"common_name,omitempty"`
	ScientificName string   `json:"scientific_name,omitempty" yaml:"scientific_name,omitempty"`
	Category       Category `json:"category" yaml:"category"`
	GrowthHabit    Habit    `json:"growth_habit,omitempty" yaml:"growth_habit,omitempty"`
	PlantingSeason []Season `json:"planting_season,omitempty" yaml:"planting_season,omitempty"`
	HarvestDays    *int     `json:"harvest_days,omitempty" yaml:"harvest_days,omitempty"`

	// USDA-style hardiness bounds. Nil means unknown.
	HardinessZoneMin *float64 `json:"hardiness_zone_min,omitempty" yaml:"hardiness_zone_min,omitempty"`
	HardinessZoneMax *float64 `json:"hardiness_zone_max,omitempty" yaml:"hardiness_zone_max,omitempty"`

	// Free-text companion name fragments, asserted by the catalog author.
	// Not guaranteed to be bidirectional.
	CompanionCrops []string `json:"companion_crops,omitempty" yaml:"companion_crops,omitempty"`
}

// Category classifies what a crop is grown for.
type Category string

const (
	CategoryStaple        Category = "staple_food"
	CategoryNitrogenFixer Category = "nitrogen_fixing"
	CategorySentinel      Category = "sentinel"
	CategoryDyeFiber      Category = "dye_fiber_aromatic"
)

// Habit is the growth habit of a crop. The empty Habit means unknown.
type Habit string

const (
	HabitTree        Habit = "tree"
	HabitShrub       Habit = "shrub"
	HabitVine        Habit = "vine"
	HabitHerb        Habit = "herb"
	HabitGroundCover Habit = "ground_cover"
	HabitUpright     Habit = "upright"
	HabitSpreading   Habit = "spreading"
)

// Season is a planting season label.
type Season string

const (
	SeasonSpring    Season = "spring"
	SeasonSummer    Season = "summer"
	SeasonFall      Season = "fall"
	SeasonWinter    Season = "winter"
	SeasonYearRound Season = "year_round"
)

// ParseSeason normalizes a season label. Returns false for unknown labels.
func ParseSeason(s string) (Season, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spring":
		return SeasonSpring, true
	case "summer":
		return SeasonSummer, true
	case "fall", "autumn":
		return SeasonFall, true
	case "winter":
		return SeasonWinter, true
	case "year_round", "year-round", "yearround", "all":
		return SeasonYearRound, true
	default:
		return "", false
	}
}

// FamilyKey returns the coarse rotation family of the crop: the first
// token of the scientific name, lowercased, or the category when the
// scientific name is missing.
func (c *Crop) FamilyKey() string {
	if fields := strings.Fields(c.ScientificName); len(fields) > 0 {
		return strings.ToLower(fields[0])
	}
	return strings.ToLower(string(c.Category))
}

// Names returns the non-empty names the crop can be matched by.
func (c *Crop) Names() []string {
	names := make([]string, 0, 2)
	if c.Name != "" {
		names = append(names, c.Name)
	}
	if c.CommonName != "" && !strings.EqualFold(c.CommonName, c.Name) {
		names = append(names, c.CommonName)
	}
	return names
}

// HasSeasonData reports whether any planting season is recorded.
func (c *Crop) HasSeasonData() bool {
	return len(c.PlantingSeason) > 0
}

// Catalog is an ordered list of crops. Order is significant: it is the
// final tie-breaker for every ranking the engines produce.
type Catalog struct {
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Crops   []Crop `json:"crops" yaml:"crops"`
}

// Index returns the crops keyed by ID.
func (c *Catalog) Index() map[string]*Crop {
	idx := make(map[string]*Crop, len(c.Crops))
	for i := range c.Crops {
		idx[c.Crops[i].ID] = &c.Crops[i]
	}
	return idx
}

// Lookup returns the crop with the given ID, or nil.
func (c *Catalog) Lookup(id string) *Crop {
	for i := range c.Crops {
		if c.Crops[i].ID == id {
			return &c.Crops[i]
		}
	}
	return nil
}

// Resolve returns the crops for the given IDs, in order, and the IDs that
// are not in the catalog.
func (c *Catalog) Resolve(ids []string) ([]Crop, []string) {
	idx := c.Index()
	var found []Crop
	var missing []string
	for _, id := range ids {
		if cr, ok := idx[id]; ok {
			found = append(found, *cr)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// Families returns the sorted distinct family keys in the catalog.
func (c *Catalog) Families() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range c.Crops {
		k := c.Crops[i].FamilyKey()
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Int returns a pointer to v. Handy for optional catalog fields.
func Int(v int) *int { return &v }

// Zone returns a pointer to v. Handy for optional hardiness bounds.
func Zone(v float64) *float64 { return &v }
