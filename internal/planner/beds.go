package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/furrow/furrow/internal/garden"
	"github.com/furrow/furrow/pkg/crop"
	"github.com/furrow/furrow/pkg/report"
	"github.com/furrow/furrow/pkg/soil"
)

// CreateBed stores a new bed after checking its crops exist.
func (s *Service) CreateBed(ctx context.Context, in garden.NewBed) (*garden.Bed, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if err := s.checkCrops(ctx, in.CropIDs); err != nil {
		return nil, err
	}
	return s.store.CreateBed(ctx, in)
}

// SetBedCrops replaces the crops growing in a bed.
func (s *Service) SetBedCrops(ctx context.Context, bedID string, cropIDs []string) (*garden.Bed, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if err := s.checkCrops(ctx, cropIDs); err != nil {
		return nil, err
	}
	return s.store.SetBedCrops(ctx, bedID, cropIDs)
}

func (s *Service) checkCrops(ctx context.Context, cropIDs []string) error {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return err
	}
	_, err = resolve(cat, cropIDs)
	return err
}

// DiagnoseBed diagnoses the latest soil test of a bed and sizes the
// amendments for the bed area.
func (s *Service) DiagnoseBed(ctx context.Context, bedID string) (*report.Diagnosis, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	var bed *garden.Bed
	var test *garden.SoilTest
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bed, err = s.store.GetBed(gctx, bedID)
		return err
	})
	g.Go(func() error {
		var err error
		test, err = s.store.LatestSoilTest(gctx, bedID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.diagnoseTest(ctx, bed, test), nil
}

// RecordAndDiagnose stores a soil test and diagnoses that test, even when
// a back-dated takenAt makes it older than the bed's latest one.
func (s *Service) RecordAndDiagnose(ctx context.Context, bedID string, readings []soil.Reading, takenAt time.Time) (*report.Diagnosis, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	test, err := s.store.RecordSoilTest(ctx, bedID, readings, takenAt)
	if err != nil {
		return nil, err
	}
	bed, err := s.store.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	return s.diagnoseTest(ctx, bed, test), nil
}

func (s *Service) diagnoseTest(ctx context.Context, bed *garden.Bed, test *garden.SoilTest) *report.Diagnosis {
	rep := s.Diagnose(test.Readings, bed.AreaSqFt)
	rep.BedID = bed.ID
	rep.SoilTestID = test.ID
	takenAt := test.TakenAt
	rep.TakenAt = &takenAt

	rep.PlanID = s.savePlan(ctx, bed.ID, garden.PlanDiagnosis, rep)
	return rep
}

// ScoreCandidate scores a candidate against the crops growing in a bed.
func (s *Service) ScoreCandidate(ctx context.Context, bedID, cropID string) (*report.Companion, error) {
	bed, cat, err := s.loadBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	candidate, err := lookup(cat, cropID)
	if err != nil {
		return nil, err
	}
	placed := s.bedCrops(cat, bed.ID, bed.CropIDs)

	rep := &report.Companion{
		BedID:     bed.ID,
		Candidate: *candidate,
		Placed:    ids(placed),
		Result:    s.companion.Evaluate(candidate, placed),
	}
	rep.PlanID = s.savePlan(ctx, bed.ID, garden.PlanCompanion, rep)
	return rep, nil
}

// SuggestSuccession ranks replacements for a finished crop in a bed. The
// remaining bed crops are the bedmates; the zone comes from the bed or the
// configured default.
func (s *Service) SuggestSuccession(ctx context.Context, bedID, finishedID string, asOf time.Time, limit int) (*report.Succession, error) {
	bed, cat, err := s.loadBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if _, err := lookup(cat, finishedID); err != nil {
		return nil, err
	}

	rep, err := s.Suggest(ctx, SuccessionQuery{
		FinishedID:    finishedID,
		BedmateIDs:    ids(s.bedCrops(cat, bed.ID, withoutOne(bed.CropIDs, finishedID))),
		HardinessZone: bed.HardinessZone,
		AsOf:          asOf,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	rep.BedID = bed.ID
	rep.PlanID = s.savePlan(ctx, bed.ID, garden.PlanSuccession, rep)
	return rep, nil
}

// ComposeBed fills free slots of a bed, seeded with its current crops.
func (s *Service) ComposeBed(ctx context.Context, bedID string, slots int) (*report.Composition, error) {
	bed, cat, err := s.loadBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	rep, err := s.Compose(ctx, ids(s.bedCrops(cat, bed.ID, bed.CropIDs)), slots)
	if err != nil {
		return nil, err
	}
	rep.BedID = bed.ID
	rep.PlanID = s.savePlan(ctx, bed.ID, garden.PlanComposition, rep)
	return rep, nil
}

// loadBed fetches a bed and the catalog concurrently.
func (s *Service) loadBed(ctx context.Context, bedID string) (*garden.Bed, *crop.Catalog, error) {
	if s.store == nil {
		return nil, nil, ErrNoStore
	}
	var bed *garden.Bed
	var cat *crop.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bed, err = s.store.GetBed(gctx, bedID)
		return err
	})
	g.Go(func() error {
		var err error
		cat, err = s.Catalog(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bed, cat, nil
}

// bedCrops resolves a bed's crops. The catalog may have changed since the
// bed was planted, so unknown IDs are logged and skipped.
func (s *Service) bedCrops(cat *crop.Catalog, bedID string, cropIDs []string) []crop.Crop {
	found, missing := cat.Resolve(cropIDs)
	if len(missing) > 0 {
		s.logger.Warn("bed references crops missing from the catalog",
			zap.String("bed_id", bedID),
			zap.Strings("crop_ids", missing),
		)
	}
	return found
}

// withoutOne drops the first occurrence of id; a bed may hold the same
// crop in several positions.
func withoutOne(cropIDs []string, id string) []string {
	out := make([]string, 0, len(cropIDs))
	dropped := false
	for _, c := range cropIDs {
		if c == id && !dropped {
			dropped = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// savePlan records a result for the bed and archives its payload. Both
// are best-effort: failures are logged and the result is still returned.
func (s *Service) savePlan(ctx context.Context, bedID string, kind garden.PlanKind, payload any) string {
	plan, err := s.store.SavePlan(ctx, bedID, kind, payload)
	if err != nil {
		s.logger.Error("failed to save plan", zap.String("bed_id", bedID), zap.String("kind", string(kind)), zap.Error(err))
		return ""
	}
	if s.blobs == nil {
		return plan.ID
	}

	key := fmt.Sprintf("plans/%s/%s.json", bedID, plan.ID)
	data, err := json.MarshalIndent(json.RawMessage(plan.Payload), "", "  ")
	if err == nil {
		err = s.blobs.Put(ctx, key, data)
	}
	if err != nil {
		s.logger.Warn("failed to archive plan", zap.String("plan_id", plan.ID), zap.String("key", key), zap.Error(err))
		return plan.ID
	}
	if err := s.store.SetPlanArchiveKey(ctx, plan.ID, key); err != nil {
		s.logger.Warn("failed to record archive key", zap.String("plan_id", plan.ID), zap.Error(err))
	}
	return plan.ID
}
