package planner

import (
	"context"

	"github.com/furrow/furrow/pkg/companion"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
	"github.com/furrow/furrow/pkg/soil"
	"github.com/furrow/furrow/pkg/succession"
)

// Diagnose classifies soil readings and, when the area is positive, sizes
// the amendments for it.
func (s *Service) Diagnose(readings []soil.Reading, areaSqFt float64) *report.Diagnosis {
	diagnoses := soil.Diagnose(readings)
	if diagnoses == nil {
		diagnoses = []soil.Diagnosis{}
	}
	return &report.Diagnosis{
		AreaSqFt:  areaSqFt,
		Diagnoses: diagnoses,
		Dosages:   soil.Plan(diagnoses, areaSqFt),
	}
}

// ScoreCrops scores a candidate against crops already placed in a bed.
func (s *Service) ScoreCrops(ctx context.Context, candidateID string, placedIDs []string) (*report.Companion, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	candidate, err := lookup(cat, candidateID)
	if err != nil {
		return nil, err
	}
	placed, err := resolve(cat, placedIDs)
	if err != nil {
		return nil, err
	}
	return &report.Companion{
		Candidate: *candidate,
		Placed:    ids(placed),
		Result:    s.companion.Evaluate(candidate, placed),
	}, nil
}

// Suggest ranks succession candidates for a finished crop.
func (s *Service) Suggest(ctx context.Context, q SuccessionQuery) (*report.Succession, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.SuggestWith(cat, q)
}

// SuggestWith ranks succession candidates against the given catalog
// rather than the active one. Callers that key results by catalog version
// use it so the result and the key come from the same catalog.
func (s *Service) SuggestWith(cat *crop.Catalog, q SuccessionQuery) (*report.Succession, error) {
	finished, err := lookup(cat, q.FinishedID)
	if err != nil {
		return nil, err
	}
	bedmates, err := resolve(cat, q.BedmateIDs)
	if err != nil {
		return nil, err
	}

	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	zone := q.HardinessZone
	if zone == nil {
		zone = s.engine.DefaultZone
	}

	out := s.suggester.Evaluate(succession.Request{
		Finished:      *finished,
		Catalog:       cat.Crops,
		HardinessZone: zone,
		Bedmates:      bedmates,
		AsOf:          asOf,
		Limit:         s.limit(q.Limit),
	})
	ranked := out.Ranked
	if ranked == nil {
		ranked = []succession.RankedCandidate{}
	}
	return &report.Succession{
		Finished:      *finished,
		Bedmates:      ids(bedmates),
		HardinessZone: zone,
		AsOf:          asOf,
		Ranked:        ranked,
		Excluded:      out.Excluded,
	}, nil
}

// Compose fills a bed from seed crops, slot by slot.
func (s *Service) Compose(ctx context.Context, seedIDs []string, slots int) (*report.Composition, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	seed, err := resolve(cat, seedIDs)
	if err != nil {
		return nil, err
	}
	if slots <= 0 {
		slots = s.engine.CompositionSlots
	}
	placements := s.companion.Compose(seed, cat, slots)
	if placements == nil {
		placements = []companion.Placement{}
	}
	return &report.Composition{
		Seed:       ids(seed),
		Slots:      slots,
		Placements: placements,
	}, nil
}

func (s *Service) limit(n int) int {
	switch {
	case n < 0:
		return 0
	case n == 0:
		return s.engine.DefaultLimit
	default:
		return n
	}
}
