package soil

import "strings"

// Range is the optimal band for one nutrient.
type Range struct {
	Nutrient Nutrient `json:"nutrient"`
	Label    string   `json:"label"`
	Unit     string   `json:"unit,omitempty"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
}

// Mid returns the centre of the optimal band.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

var ranges = map[Nutrient]Range{
	PH:               {PH, "pH", "", 6.0, 7.0},
	Nitrogen:         {Nitrogen, "Nitrogen", "ppm", 40, 80},
	Phosphorus:       {Phosphorus, "Phosphorus", "ppm", 25, 50},
	Potassium:        {Potassium, "Potassium", "ppm", 150, 250},
	Calcium:          {Calcium, "Calcium", "ppm", 1000, 2000},
	Magnesium:        {Magnesium, "Magnesium", "ppm", 100, 250},
	Sulfur:           {Sulfur, "Sulfur", "ppm", 10, 30},
	Silicon:          {Silicon, "Silicon", "ppm", 20, 50},
	Iron:             {Iron, "Iron", "ppm", 10, 40},
	OrganicMatter:    {OrganicMatter, "Organic matter", "%", 3, 6},
	ExchangeCapacity: {ExchangeCapacity, "Cation exchange capacity", "meq/100g", 10, 25},
}

// Ranges returns the optimal ranges in canonical nutrient order.
func Ranges() []Range {
	out := make([]Range, 0, len(ranges))
	for _, n := range Nutrients() {
		out = append(out, ranges[n])
	}
	return out
}

// RangeFor returns the optimal range for a nutrient.
func RangeFor(n Nutrient) (Range, bool) {
	r, ok := ranges[n]
	return r, ok
}

// Amendment is a soil input that corrects one or more nutrients.
type Amendment struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Addresses []Nutrient `json:"addresses"`
	BaseRate  float64    `json:"base_rate_lbs_per_100sqft"`
	Note      string     `json:"note,omitempty"`
}

var amendments = []Amendment{
	{"agricultural-lime", "Agricultural lime", []Nutrient{PH, Calcium}, 5, "Raises pH; work in several weeks before planting"},
	{"basalt-dust", "Basalt rock dust", []Nutrient{Silicon}, 5, "Slow release; broadcast and rake in"},
	{"biochar", "Biochar", []Nutrient{OrganicMatter, ExchangeCapacity}, 5, "Charge with compost before use"},
	{"blood-meal", "Blood meal", []Nutrient{Nitrogen}, 2, "Fast acting; avoid contact with seedlings"},
	{"bone-meal", "Bone meal", []Nutrient{Phosphorus}, 2, "Mix into the root zone at planting"},
	{"compost", "Finished compost", []Nutrient{Nitrogen, OrganicMatter, ExchangeCapacity}, 40, "Spread about an inch and fork in"},
	{"elemental-sulfur", "Elemental sulfur", []Nutrient{PH, Sulfur}, 1, "Lowers pH slowly; retest after two months"},
	{"epsom-salt", "Epsom salt", []Nutrient{Magnesium}, 0.5, "Dissolve in water for a quick fix"},
	{"feather-meal", "Feather meal", []Nutrient{Nitrogen}, 2.5, "Slow release over the season"},
	{"greensand", "Greensand", []Nutrient{Potassium}, 5, "Also improves soil structure"},
	{"gypsum", "Gypsum", []Nutrient{Calcium, Sulfur}, 2.5, "Adds calcium without changing pH"},
	{"iron-sulfate", "Iron sulfate", []Nutrient{Iron}, 0.5, "Water in well; avoid staining paving"},
	{"kelp-meal", "Kelp meal", []Nutrient{Potassium}, 1, "Carries trace minerals"},
	{"rice-hull-ash", "Rice hull ash", []Nutrient{Silicon}, 2, "Alkaline; watch pH"},
	{"rock-phosphate", "Rock phosphate", []Nutrient{Phosphorus}, 5, "Very slow release; apply in fall"},
	{"sul-po-mag", "Sul-Po-Mag", []Nutrient{Potassium, Magnesium, Sulfur}, 1, "Balanced K, Mg and S source"},
}

var nutrientAmendments = map[Nutrient][]string{
	PH:               {"agricultural-lime", "elemental-sulfur"},
	Nitrogen:         {"blood-meal", "feather-meal", "compost"},
	Phosphorus:       {"bone-meal", "rock-phosphate"},
	Potassium:        {"kelp-meal", "greensand", "sul-po-mag"},
	Calcium:          {"gypsum", "agricultural-lime"},
	Magnesium:        {"epsom-salt", "sul-po-mag"},
	Sulfur:           {"gypsum", "sul-po-mag", "elemental-sulfur"},
	Silicon:          {"basalt-dust", "rice-hull-ash"},
	Iron:             {"iron-sulfate"},
	OrganicMatter:    {"compost", "biochar"},
	ExchangeCapacity: {"compost", "biochar"},
}

// Amendments returns a copy of the amendment table sorted by ID.
func Amendments() []Amendment {
	out := make([]Amendment, len(amendments))
	for i, a := range amendments {
		a.Addresses = append([]Nutrient(nil), a.Addresses...)
		out[i] = a
	}
	return out
}

// LookupAmendment returns the amendment with the given ID.
func LookupAmendment(id string) (Amendment, bool) {
	for _, a := range amendments {
		if a.ID == id {
			a.Addresses = append([]Nutrient(nil), a.Addresses...)
			return a, true
		}
	}
	return Amendment{}, false
}

// AmendmentsFor returns the amendment IDs that address a nutrient.
func AmendmentsFor(n Nutrient) []string {
	return append([]string(nil), nutrientAmendments[n]...)
}

func amendmentNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if a, ok := LookupAmendment(id); ok {
			names = append(names, strings.ToLower(a.Name))
		}
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
