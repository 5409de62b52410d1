package soil

import (
	"fmt"
	"math"
	"sort"
)

// Multipliers applied to amendment base rates.
const (
	phMultiplier              = 1.5
	deficientMultiplier       = 1.5
	severeDeficientMultiplier = 2.0
	excessMultiplier          = 0.5
	severeExcessMultiplier    = 0.25
)

// Diagnose classifies every tested reading. Untested readings and
// unknown nutrients are left out. The result follows canonical nutrient
// order regardless of input order; when a nutrient is listed twice the
// last tested value wins.
func Diagnose(readings []Reading) []Diagnosis {
	values := make(map[Nutrient]float64, len(readings))
	for _, r := range readings {
		if r.Value == nil {
			continue
		}
		if _, ok := ranges[r.Nutrient]; !ok {
			continue
		}
		values[r.Nutrient] = *r.Value
	}

	var out []Diagnosis
	for _, n := range Nutrients() {
		v, ok := values[n]
		if !ok {
			continue
		}
		out = append(out, classify(ranges[n], v))
	}
	return out
}

func classify(r Range, value float64) Diagnosis {
	d := Diagnosis{
		Nutrient:     r.Nutrient,
		Label:        r.Label,
		Unit:         r.Unit,
		Value:        value,
		Min:          r.Min,
		Max:          r.Max,
		Status:       StatusOptimal,
		PctOfOptimal: value / r.Mid() * 100,
		Multiplier:   1,
		Amendments:   AmendmentsFor(r.Nutrient),
	}

	switch {
	case value < r.Min:
		d.Status = StatusDeficient
		d.DeviationPct = int(math.Round((r.Min - value) / r.Min * 100))
	case value > r.Max:
		d.Status = StatusExcess
		d.DeviationPct = int(math.Round((value - r.Max) / r.Max * 100))
	}

	if r.Nutrient == PH {
		// pH amendments are directional: lime raises, sulfur lowers.
		switch d.Status {
		case StatusDeficient:
			d.Amendments = []string{"agricultural-lime"}
			d.Multiplier = phMultiplier
		case StatusExcess:
			d.Amendments = []string{"elemental-sulfur"}
			d.Multiplier = phMultiplier
		}
		d.Recommendation = phRecommendation(d)
		return d
	}

	switch d.Status {
	case StatusDeficient:
		d.Severe = value < r.Min*0.5
		d.Multiplier = deficientMultiplier
		if d.Severe {
			d.Multiplier = severeDeficientMultiplier
		}
	case StatusExcess:
		d.Severe = value > r.Max*1.5
		d.Multiplier = excessMultiplier
		if d.Severe {
			d.Multiplier = severeExcessMultiplier
		}
	}
	d.Recommendation = recommendation(d)
	return d
}

func phRecommendation(d Diagnosis) string {
	switch d.Status {
	case StatusDeficient:
		return fmt.Sprintf("Soil is too acidic (pH %.1f, target %.1f-%.1f). Apply agricultural lime to raise pH.", d.Value, d.Min, d.Max)
	case StatusExcess:
		return fmt.Sprintf("Soil is too alkaline (pH %.1f, target %.1f-%.1f). Apply elemental sulfur to lower pH.", d.Value, d.Min, d.Max)
	default:
		return fmt.Sprintf("pH %.1f is within the optimal range.", d.Value)
	}
}

func recommendation(d Diagnosis) string {
	reading := fmt.Sprintf("%g %s, target %g-%g %s", d.Value, d.Unit, d.Min, d.Max, d.Unit)
	names := amendmentNames(d.Amendments)
	switch d.Status {
	case StatusDeficient:
		severity := ""
		if d.Severe {
			severity = "severely "
		}
		return fmt.Sprintf("%s is %sdeficient, %d%% below optimal (%s). Apply %s.", d.Label, severity, d.DeviationPct, reading, names)
	case StatusExcess:
		return fmt.Sprintf("%s is %d%% above optimal (%s). Cut back on %s.", d.Label, d.DeviationPct, reading, names)
	default:
		return fmt.Sprintf("%s is within the optimal range (%s).", d.Label, reading)
	}
}

// AmendmentMultipliers folds the diagnoses into one multiplier per
// amendment. An amendment referenced by any deficiency takes the highest
// deficiency multiplier; one referenced only by excesses takes the
// lowest excess multiplier. Optimal diagnoses contribute nothing.
func AmendmentMultipliers(diagnoses []Diagnosis) map[string]float64 {
	deficit := make(map[string]float64)
	excess := make(map[string]float64)
	for _, d := range diagnoses {
		for _, id := range d.Amendments {
			switch d.Status {
			case StatusDeficient:
				if cur, ok := deficit[id]; !ok || d.Multiplier > cur {
					deficit[id] = d.Multiplier
				}
			case StatusExcess:
				if cur, ok := excess[id]; !ok || d.Multiplier < cur {
					excess[id] = d.Multiplier
				}
			}
		}
	}

	out := make(map[string]float64, len(deficit)+len(excess))
	for id, m := range excess {
		out[id] = m
	}
	for id, m := range deficit {
		out[id] = m
	}
	return out
}

// Plan turns the diagnoses into per-amendment application amounts for a
// bed of the given area, sorted by amendment ID.
func Plan(diagnoses []Diagnosis, areaSqFt float64) []Dosage {
	if areaSqFt <= 0 {
		return nil
	}

	drivers := make(map[string][]Nutrient)
	for _, d := range diagnoses {
		if d.Status == StatusOptimal {
			continue
		}
		for _, id := range d.Amendments {
			drivers[id] = append(drivers[id], d.Nutrient)
		}
	}

	var out []Dosage
	for id, mult := range AmendmentMultipliers(diagnoses) {
		a, ok := LookupAmendment(id)
		if !ok {
			continue
		}
		out = append(out, Dosage{
			AmendmentID: id,
			Name:        a.Name,
			Multiplier:  mult,
			BaseRate:    a.BaseRate,
			Pounds:      math.Round(a.BaseRate*mult*areaSqFt/100*100) / 100,
			Nutrients:   drivers[id],
			Note:        a.Note,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AmendmentID < out[j].AmendmentID })
	return out
}
