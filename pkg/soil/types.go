// Package soil classifies soil-test readings against optimal ranges and
// turns the findings into amendment dosages.
package soil

import "strings"

// Nutrient is a tracked soil property.
type Nutrient string

const (
	PH               Nutrient = "ph"
	Nitrogen         Nutrient = "n"
	Phosphorus       Nutrient = "p"
	Potassium        Nutrient = "k"
	Calcium          Nutrient = "ca"
	Magnesium        Nutrient = "mg"
	Sulfur           Nutrient = "s"
	Silicon          Nutrient = "si"
	Iron             Nutrient = "fe"
	OrganicMatter    Nutrient = "om"
	ExchangeCapacity Nutrient = "cec"
)

// Nutrients returns every tracked nutrient in canonical order.
func Nutrients() []Nutrient {
	return []Nutrient{PH, Nitrogen, Phosphorus, Potassium, Calcium, Magnesium,
		Sulfur, Silicon, Iron, OrganicMatter, ExchangeCapacity}
}

var nutrientAliases = map[string]Nutrient{
	"ph":             PH,
	"n":              Nitrogen,
	"nitrogen":       Nitrogen,
	"p":              Phosphorus,
	"phosphorus":     Phosphorus,
	"k":              Potassium,
	"potassium":      Potassium,
	"ca":             Calcium,
	"calcium":        Calcium,
	"mg":             Magnesium,
	"magnesium":      Magnesium,
	"s":              Sulfur,
	"sulfur":         Sulfur,
	"si":             Silicon,
	"silicon":        Silicon,
	"fe":             Iron,
	"iron":           Iron,
	"om":             OrganicMatter,
	"organic_matter": OrganicMatter,
	"cec":            ExchangeCapacity,
}

// ParseNutrient accepts a nutrient key or its long name.
func ParseNutrient(s string) (Nutrient, bool) {
	n, ok := nutrientAliases[strings.ToLower(strings.TrimSpace(s))]
	return n, ok
}

// Reading is one measured value from a soil test. A nil Value means the
// nutrient was not tested.
type Reading struct {
	Nutrient Nutrient `json:"nutrient"`
	Value    *float64 `json:"value"`
}

// Measured returns a pointer to v for building readings.
func Measured(v float64) *float64 { return &v }

// Status is the classification of a reading against its optimal range.
type Status string

const (
	StatusDeficient Status = "deficient"
	StatusOptimal   Status = "optimal"
	StatusExcess    Status = "excess"
)

// Diagnosis is the result of classifying one reading.
type Diagnosis struct {
	Nutrient       Nutrient `json:"nutrient"`
	Label          string   `json:"label"`
	Unit           string   `json:"unit,omitempty"`
	Value          float64  `json:"value"`
	Min            float64  `json:"min"`
	Max            float64  `json:"max"`
	Status         Status   `json:"status"`
	PctOfOptimal   float64  `json:"pct_of_optimal"`
	DeviationPct   int      `json:"deviation_pct"` // display only
	Severe         bool     `json:"severe"`
	Multiplier     float64  `json:"multiplier"`
	Amendments     []string `json:"amendments"`
	Recommendation string   `json:"recommendation"`
}

// Dosage is how much of one amendment to apply to a bed.
type Dosage struct {
	AmendmentID string     `json:"amendment_id"`
	Name        string     `json:"name"`
	Multiplier  float64    `json:"multiplier"`
	BaseRate    float64    `json:"base_rate_lbs_per_100sqft"`
	Pounds      float64    `json:"pounds"`
	Nutrients   []Nutrient `json:"nutrients"`
	Note        string     `json:"note,omitempty"`
}
