// Package report holds the results furrow produces for a bed: soil
// diagnoses, companion scores, succession rankings and compositions. The
// API, the CLI renderers and the plan archive all share these shapes.
package report

import (
	"time"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/soil"
	"github.com/furrow/furrow/pkg/succession"
)

// Diagnosis is a soil diagnosis and the amendment plan for a bed area.
type Diagnosis struct {
	BedID      string           `json:"bed_id,omitempty"`
	SoilTestID string           `json:"soil_test_id,omitempty"`
	TakenAt    *time.Time       `json:"taken_at,omitempty"`
	AreaSqFt   float64          `json:"area_sq_ft"`
	Diagnoses  []soil.Diagnosis `json:"diagnoses"`
	Dosages    []soil.Dosage    `json:"dosages,omitempty"`
	PlanID     string           `json:"plan_id,omitempty"`
}

// Deficient returns the diagnoses that are below range.
func (r *Diagnosis) Deficient() []soil.Diagnosis {
	var out []soil.Diagnosis
	for _, d := range r.Diagnoses {
		if d.Status == soil.StatusDeficient {
			out = append(out, d)
		}
	}
	return out
}

// Companion is a candidate crop scored against a set of placed crops.
type Companion struct {
	BedID     string           `json:"bed_id,omitempty"`
	Candidate crop.Crop        `json:"candidate"`
	Placed    []string         `json:"placed"`
	Result    companion.Result `json:"result"`
	PlanID    string           `json:"plan_id,omitempty"`
}

// Succession ranks replacements for a finished crop.
type Succession struct {
	BedID         string                       `json:"bed_id,omitempty"`
	Finished      crop.Crop                    `json:"finished"`
	Bedmates      []string                     `json:"bedmates"`
	HardinessZone *float64                     `json:"hardiness_zone,omitempty"`
	AsOf          time.Time                    `json:"as_of"`
	Ranked        []succession.RankedCandidate `json:"ranked"`
	Excluded      []succession.Exclusion       `json:"excluded,omitempty"`
	PlanID        string                       `json:"plan_id,omitempty"`
}

// Composition is a bed filled slot by slot from a seed.
type Composition struct {
	BedID      string                `json:"bed_id,omitempty"`
	Seed       []string              `json:"seed"`
	Slots      int                   `json:"slots"`
	Placements []companion.Placement `json:"placements"`
	PlanID     string                `json:"plan_id,omitempty"`
}
