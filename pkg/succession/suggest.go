// Package succession ranks replacement crops for a bed position whose crop
// has finished its cycle.
package succession

import (
	"fmt"
	"sort"
	"time"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/rules"
)

// Reason keys.
const (
	ReasonRotation         = "rotation"
	ReasonSameFamily       = "same_family"
	ReasonPlantNow         = "plant_now"
	ReasonPlantNextMonth   = "plant_next_month"
	ReasonFastHarvest      = "fast_harvest"
	ReasonMediumHarvest    = "medium_harvest"
	ReasonBedmateSynergy   = "bedmate_synergy"
	ReasonNitrogenFollowUp = "nitrogen_follow_up"
	ReasonDirectSuccession = "direct_succession"
)

// Gate keys for excluded crops.
const (
	GateSeason     = "season"
	GateHardiness  = "hardiness"
	GateAntagonist = "antagonist"
)

// unknownHarvestDays sorts crops without harvest data after every crop
// that has it.
const unknownHarvestDays = 9999

// Request is the input to a succession suggestion.
type Request struct {
	Finished crop.Crop
	Catalog  []crop.Crop
	// Nil means the zone is unknown and hardiness is not checked.
	HardinessZone *float64
	// Crops sharing the bed with the position being replanted.
	Bedmates []crop.Crop
	AsOf     time.Time
	// Limit <= 0 returns every candidate.
	Limit int
}

// Reason is one scoring rule that fired for a candidate.
type Reason struct {
	Key     string `json:"key"`
	Points  int    `json:"points"`
	Summary string `json:"summary"`
}

// RankedCandidate is a replacement crop with its score and the rules
// behind it.
type RankedCandidate struct {
	Crop    crop.Crop `json:"crop"`
	Score   int       `json:"score"`
	Reasons []Reason  `json:"reasons"`
}

// Exclusion records why a catalog crop was not considered.
type Exclusion struct {
	CropID  string `json:"crop_id"`
	Gate    string `json:"gate"`
	Summary string `json:"summary"`
}

// Outcome is the full result of a suggestion, including exclusions.
type Outcome struct {
	Ranked   []RankedCandidate `json:"ranked"`
	Excluded []Exclusion       `json:"excluded,omitempty"`
}

// Suggester ranks succession candidates. It holds no mutable state and
// is safe for concurrent use.
type Suggester struct {
	weights Weights
}

// NewSuggester creates a suggester with the given weights.
func NewSuggester(w Weights) *Suggester {
	return &Suggester{weights: w}
}

// Weights returns the weights the suggester was built with.
func (s *Suggester) Weights() Weights { return s.weights }

var defaultSuggester = NewSuggester(Defaults())

// Suggest ranks candidates with the default weights.
func Suggest(req Request) []RankedCandidate {
	return defaultSuggester.Suggest(req)
}

// Suggest returns the ranked candidates, best first.
func (s *Suggester) Suggest(req Request) []RankedCandidate {
	return s.Evaluate(req).Ranked
}

// Evaluate ranks every eligible catalog crop and records why the others
// were left out.
func (s *Suggester) Evaluate(req Request) Outcome {
	var out Outcome
	thisMonth := req.AsOf.Month()
	nextMonth := rules.NextMonth(thisMonth)

	for i := range req.Catalog {
		c := &req.Catalog[i]
		if c.ID == req.Finished.ID {
			continue
		}

		now := rules.PlantableIn(c.PlantingSeason, thisMonth)
		next := rules.PlantableIn(c.PlantingSeason, nextMonth)
		if !now && !next {
			summary := fmt.Sprintf("not plantable in %s or %s", thisMonth, nextMonth)
			if !c.HasSeasonData() {
				summary = "no planting season data"
			}
			out.Excluded = append(out.Excluded, Exclusion{CropID: c.ID, Gate: GateSeason, Summary: summary})
			continue
		}

		if reason, ok := hardy(c, req.HardinessZone); !ok {
			out.Excluded = append(out.Excluded, Exclusion{CropID: c.ID, Gate: GateHardiness, Summary: reason})
			continue
		}

		if clash := antagonistIn(c, req.Bedmates); clash != nil {
			out.Excluded = append(out.Excluded, Exclusion{
				CropID:  c.ID,
				Gate:    GateAntagonist,
				Summary: fmt.Sprintf("antagonistic to bedmate %s", clash.Name),
			})
			continue
		}

		out.Ranked = append(out.Ranked, s.score(c, &req, now))
	}

	sort.SliceStable(out.Ranked, func(i, j int) bool {
		a, b := out.Ranked[i], out.Ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return harvestDays(&a.Crop) < harvestDays(&b.Crop)
	})

	if req.Limit > 0 && len(out.Ranked) > req.Limit {
		out.Ranked = out.Ranked[:req.Limit]
	}
	return out
}

func (s *Suggester) score(c *crop.Crop, req *Request, plantNow bool) RankedCandidate {
	w := s.weights
	rc := RankedCandidate{Crop: *c}
	add := func(key string, points int, format string, args ...any) {
		rc.Score += points
		rc.Reasons = append(rc.Reasons, Reason{Key: key, Points: points, Summary: fmt.Sprintf(format, args...)})
	}

	finished := &req.Finished
	if c.FamilyKey() != finished.FamilyKey() {
		add(ReasonRotation, w.RotationBonus, "good rotation: %s follows %s", c.FamilyKey(), finished.FamilyKey())
	} else {
		add(ReasonSameFamily, -w.SameFamilyPenalty, "same family as %s (%s) depletes the same nutrients", finished.Name, c.FamilyKey())
	}

	if plantNow {
		add(ReasonPlantNow, w.PlantNow, "plantable in %s", req.AsOf.Month())
	} else {
		add(ReasonPlantNextMonth, w.PlantNextMonth, "plantable from %s", rules.NextMonth(req.AsOf.Month()))
	}

	if c.HarvestDays != nil {
		switch days := *c.HarvestDays; {
		case days <= w.FastHarvestDays:
			add(ReasonFastHarvest, w.FastHarvest, "quick harvest in %d days", days)
		case days <= w.MediumHarvestDays:
			add(ReasonMediumHarvest, w.MediumHarvest, "harvest in %d days", days)
		}
	}

	for i := range req.Bedmates {
		if companion.IsCompanion(c, &req.Bedmates[i]) {
			add(ReasonBedmateSynergy, w.BedmateSynergy, "companion of bedmate %s", req.Bedmates[i].Name)
			break
		}
	}

	if finished.Category == crop.CategoryStaple && c.Category == crop.CategoryNitrogenFixer {
		add(ReasonNitrogenFollowUp, w.NitrogenFollowUp, "restores nitrogen after heavy-feeding %s", finished.Name)
	}

	if companion.IsCompanion(c, finished) {
		add(ReasonDirectSuccession, w.DirectSuccession, "listed companion of %s", finished.Name)
	}
	return rc
}

// hardy checks the candidate's zone bounds. Absent bounds pass.
func hardy(c *crop.Crop, zone *float64) (string, bool) {
	if zone == nil {
		return "", true
	}
	if c.HardinessZoneMin != nil && *zone < *c.HardinessZoneMin {
		return fmt.Sprintf("zone %g is colder than its minimum %g", *zone, *c.HardinessZoneMin), false
	}
	if c.HardinessZoneMax != nil && *zone > *c.HardinessZoneMax {
		return fmt.Sprintf("zone %g is warmer than its maximum %g", *zone, *c.HardinessZoneMax), false
	}
	return "", true
}

func antagonistIn(c *crop.Crop, bedmates []crop.Crop) *crop.Crop {
	for i := range bedmates {
		if companion.IsAntagonist(c, &bedmates[i]) {
			return &bedmates[i]
		}
	}
	return nil
}

func harvestDays(c *crop.Crop) int {
	if c.HarvestDays == nil {
		return unknownHarvestDays
	}
	return *c.HarvestDays
}
