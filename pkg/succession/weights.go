package succession

import "fmt"

// Weights holds the point values of the succession rules.
type Weights struct {
	RotationBonus     int `yaml:"rotation_bonus" json:"rotation_bonus"`
	SameFamilyPenalty int `yaml:"same_family_penalty" json:"same_family_penalty"`

	PlantNow       int `yaml:"plant_now" json:"plant_now"`
	PlantNextMonth int `yaml:"plant_next_month" json:"plant_next_month"`

	FastHarvest       int `yaml:"fast_harvest" json:"fast_harvest"`
	FastHarvestDays   int `yaml:"fast_harvest_days" json:"fast_harvest_days"`
	MediumHarvest     int `yaml:"medium_harvest" json:"medium_harvest"`
	MediumHarvestDays int `yaml:"medium_harvest_days" json:"medium_harvest_days"`

	BedmateSynergy   int `yaml:"bedmate_synergy" json:"bedmate_synergy"`
	NitrogenFollowUp int `yaml:"nitrogen_follow_up" json:"nitrogen_follow_up"`
	DirectSuccession int `yaml:"direct_succession" json:"direct_succession"`
}

// Defaults returns the default succession weights.
func Defaults() Weights {
	return Weights{
		RotationBonus:     8,
		SameFamilyPenalty: 5,
		PlantNow:          6,
		PlantNextMonth:    3,
		FastHarvest:       4,
		FastHarvestDays:   45,
		MediumHarvest:     2,
		MediumHarvestDays: 75,
		BedmateSynergy:    5,
		NitrogenFollowUp:  4,
		DirectSuccession:  3,
	}
}

// Validate rejects negative weights and inverted harvest thresholds.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"rotation_bonus", w.RotationBonus},
		{"same_family_penalty", w.SameFamilyPenalty},
		{"plant_now", w.PlantNow},
		{"plant_next_month", w.PlantNextMonth},
		{"fast_harvest", w.FastHarvest},
		{"fast_harvest_days", w.FastHarvestDays},
		{"medium_harvest", w.MediumHarvest},
		{"medium_harvest_days", w.MediumHarvestDays},
		{"bedmate_synergy", w.BedmateSynergy},
		{"nitrogen_follow_up", w.NitrogenFollowUp},
		{"direct_succession", w.DirectSuccession},
	} {
		if f.v < 0 {
			return fmt.Errorf("succession weight %s is negative: %d", f.name, f.v)
		}
	}
	if w.FastHarvestDays > w.MediumHarvestDays {
		return fmt.Errorf("fast_harvest_days (%d) exceeds medium_harvest_days (%d)", w.FastHarvestDays, w.MediumHarvestDays)
	}
	return nil
}
