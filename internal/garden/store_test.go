package garden

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furrow/furrow/pkg/soil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "garden.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing clock.
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
}

func TestOpenTwiceKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garden.db")

	s, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	_, err = s.CreateBed(ctx, NewBed{Name: "North"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer s.Close()
	beds, err := s.ListBeds(ctx, "")
	require.NoError(t, err)
	assert.Len(t, beds, 1)
}

func TestBedLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	zone := 6.5
	bed, err := s.CreateBed(ctx, NewBed{
		Owner:         "ana",
		Name:          "Kitchen bed",
		HardinessZone: &zone,
		AreaSqFt:      32,
		CropIDs:       []string{"tomato", "basil"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, bed.ID)
	assert.Equal(t, "Kitchen bed", bed.Name)
	require.NotNil(t, bed.HardinessZone)
	assert.Equal(t, 6.5, *bed.HardinessZone)
	assert.Equal(t, []string{"tomato", "basil"}, bed.CropIDs)
	assert.False(t, bed.CreatedAt.IsZero())

	got, err := s.GetBed(ctx, bed.ID)
	require.NoError(t, err)
	assert.Equal(t, bed, got)

	updated, err := s.SetBedCrops(ctx, bed.ID, []string{"lettuce"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lettuce"}, updated.CropIDs)
	assert.True(t, updated.UpdatedAt.After(bed.UpdatedAt))

	cleared, err := s.SetBedCrops(ctx, bed.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, cleared.CropIDs)

	require.NoError(t, s.DeleteBed(ctx, bed.ID))
	_, err = s.GetBed(ctx, bed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteBed(ctx, bed.ID), ErrNotFound)
}

func TestCreateBedValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.CreateBed(ctx, NewBed{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.CreateBed(ctx, NewBed{Name: "Bed", AreaSqFt: -1})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBedWithoutZone(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bed, err := s.CreateBed(ctx, NewBed{Name: "Shade"})
	require.NoError(t, err)
	assert.Nil(t, bed.HardinessZone)
	assert.Equal(t, []string{}, bed.CropIDs)
}

func TestListBedsByOwner(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, in := range []NewBed{
		{Owner: "ana", Name: "One"},
		{Owner: "ben", Name: "Two"},
		{Owner: "ana", Name: "Three"},
	} {
		_, err := s.CreateBed(ctx, in)
		require.NoError(t, err)
	}

	beds, err := s.ListBeds(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, beds, 2)
	assert.Equal(t, "One", beds[0].Name)
	assert.Equal(t, "Three", beds[1].Name)

	all, err := s.ListBeds(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.ListBeds(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetBedCropsMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SetBedCrops(context.Background(), "missing", []string{"kale"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoilTests(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bed, err := s.CreateBed(ctx, NewBed{Name: "Bed"})
	require.NoError(t, err)

	_, err = s.LatestSoilTest(ctx, bed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	early := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	_, err = s.RecordSoilTest(ctx, bed.ID, []soil.Reading{{Nutrient: soil.Nitrogen, Value: soil.Measured(20)}}, late)
	require.NoError(t, err)
	_, err = s.RecordSoilTest(ctx, bed.ID, []soil.Reading{{Nutrient: soil.Nitrogen, Value: soil.Measured(60)}}, early)
	require.NoError(t, err)

	latest, err := s.LatestSoilTest(ctx, bed.ID)
	require.NoError(t, err)
	assert.True(t, latest.TakenAt.Equal(late))
	require.Len(t, latest.Readings, 1)
	require.NotNil(t, latest.Readings[0].Value)
	assert.Equal(t, 20.0, *latest.Readings[0].Value)

	// Untested readings round-trip as nil.
	st, err := s.RecordSoilTest(ctx, bed.ID, []soil.Reading{{Nutrient: soil.PH}}, late.Add(time.Hour))
	require.NoError(t, err)
	latest, err = s.LatestSoilTest(ctx, bed.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, latest.ID)
	assert.Nil(t, latest.Readings[0].Value)
}

func TestRecordSoilTestDefaultsToNow(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bed, err := s.CreateBed(ctx, NewBed{Name: "Bed"})
	require.NoError(t, err)
	st, err := s.RecordSoilTest(ctx, bed.ID, []soil.Reading{{Nutrient: soil.PH, Value: soil.Measured(6.4)}}, time.Time{})
	require.NoError(t, err)
	assert.False(t, st.TakenAt.IsZero())
	assert.True(t, st.TakenAt.After(bed.CreatedAt))
}

func TestRecordSoilTestValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.RecordSoilTest(ctx, "missing", []soil.Reading{{Nutrient: soil.PH, Value: soil.Measured(6)}}, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)

	bed, err := s.CreateBed(ctx, NewBed{Name: "Bed"})
	require.NoError(t, err)
	_, err = s.RecordSoilTest(ctx, bed.ID, nil, time.Time{})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.RecordSoilTest(ctx, bed.ID, []soil.Reading{{Nutrient: "boron", Value: soil.Measured(1)}}, time.Time{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestPlans(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	bed, err := s.CreateBed(ctx, NewBed{Name: "Bed"})
	require.NoError(t, err)

	first, err := s.SavePlan(ctx, bed.ID, PlanDiagnosis, map[string]int{"n": 1})
	require.NoError(t, err)
	second, err := s.SavePlan(ctx, bed.ID, PlanSuccession, []string{"bean"})
	require.NoError(t, err)

	plans, err := s.ListPlans(ctx, bed.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second.ID, plans[0].ID, "newest plan first")
	assert.Equal(t, PlanDiagnosis, plans[1].Kind)
	assert.JSONEq(t, `{"n":1}`, string(plans[1].Payload))

	require.NoError(t, s.SetPlanArchiveKey(ctx, first.ID, "plans/x/y.json"))
	got, err := s.GetPlan(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "plans/x/y.json", got.ArchiveKey)

	var payload []string
	require.NoError(t, json.Unmarshal(second.Payload, &payload))
	assert.Equal(t, []string{"bean"}, payload)

	_, err = s.GetPlan(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SetPlanArchiveKey(ctx, "missing", "k"), ErrNotFound)
	_, err = s.SavePlan(ctx, "missing", PlanDiagnosis, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteBed(ctx, bed.ID))
	plans, err = s.ListPlans(ctx, bed.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}
