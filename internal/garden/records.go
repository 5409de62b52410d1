package garden

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/furrow/furrow/pkg/soil"
)

// SoilTest is one set of readings taken from a bed.
type SoilTest struct {
	ID       string         `json:"id"`
	BedID    string         `json:"bed_id"`
	Readings []soil.Reading `json:"readings"`
	TakenAt  time.Time      `json:"taken_at"`
}

type soilTestRow struct {
	ID       string `db:"id"`
	BedID    string `db:"bed_id"`
	Readings string `db:"readings"`
	TakenAt  string `db:"taken_at"`
}

// PlanKind says which engine produced a plan.
type PlanKind string

const (
	PlanDiagnosis   PlanKind = "diagnosis"
	PlanSuccession  PlanKind = "succession"
	PlanComposition PlanKind = "composition"
	PlanCompanion   PlanKind = "companion"
)

// Plan is a saved engine result for a bed.
type Plan struct {
	ID         string          `json:"id"`
	BedID      string          `json:"bed_id"`
	Kind       PlanKind        `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	ArchiveKey string          `json:"archive_key,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type planRow struct {
	ID         string `db:"id"`
	BedID      string `db:"bed_id"`
	Kind       string `db:"kind"`
	Payload    string `db:"payload"`
	ArchiveKey string `db:"archive_key"`
	CreatedAt  string `db:"created_at"`
}

func (r planRow) plan() Plan {
	return Plan{
		ID:         r.ID,
		BedID:      r.BedID,
		Kind:       PlanKind(r.Kind),
		Payload:    json.RawMessage(r.Payload),
		ArchiveKey: r.ArchiveKey,
		CreatedAt:  parseTime(r.CreatedAt),
	}
}

// RecordSoilTest stores readings for a bed. A zero takenAt means now.
func (s *Store) RecordSoilTest(ctx context.Context, bedID string, readings []soil.Reading, takenAt time.Time) (*SoilTest, error) {
	if _, err := s.GetBed(ctx, bedID); err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: soil test has no readings", ErrInvalid)
	}
	for _, r := range readings {
		if _, ok := soil.RangeFor(r.Nutrient); !ok {
			return nil, fmt.Errorf("%w: unknown nutrient %q", ErrInvalid, r.Nutrient)
		}
	}
	if takenAt.IsZero() {
		takenAt = s.now()
	}

	data, err := json.Marshal(readings)
	if err != nil {
		return nil, fmt.Errorf("encode readings: %w", err)
	}
	st := &SoilTest{
		ID:       uuid.NewString(),
		BedID:    bedID,
		Readings: readings,
		TakenAt:  parseTime(formatTime(takenAt)),
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO soil_tests (id, bed_id, readings, taken_at)
		VALUES (?, ?, ?, ?)`),
		st.ID, bedID, string(data), formatTime(takenAt),
	)
	if err != nil {
		return nil, fmt.Errorf("record soil test for bed %s: %w", bedID, err)
	}
	return st, nil
}

// LatestSoilTest returns the most recent soil test of a bed.
func (s *Store) LatestSoilTest(ctx context.Context, bedID string) (*SoilTest, error) {
	var row soilTestRow
	err := s.db.GetContext(ctx, &row, s.rebind(`
		SELECT id, bed_id, readings, taken_at FROM soil_tests
		WHERE bed_id = ? ORDER BY taken_at DESC, id DESC LIMIT 1`), bedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("soil test for bed %s: %w", bedID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest soil test for bed %s: %w", bedID, err)
	}

	st := &SoilTest{ID: row.ID, BedID: row.BedID, TakenAt: parseTime(row.TakenAt)}
	if err := json.Unmarshal([]byte(row.Readings), &st.Readings); err != nil {
		return nil, fmt.Errorf("decode soil test %s: %w", row.ID, err)
	}
	return st, nil
}

// SavePlan stores an engine result for a bed. The payload is JSON-encoded.
func (s *Store) SavePlan(ctx context.Context, bedID string, kind PlanKind, payload any) (*Plan, error) {
	if _, err := s.GetBed(ctx, bedID); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s plan: %w", kind, err)
	}
	row := planRow{
		ID:        uuid.NewString(),
		BedID:     bedID,
		Kind:      string(kind),
		Payload:   string(data),
		CreatedAt: s.stamp(),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO plans (id, bed_id, kind, payload, archive_key, created_at)
		VALUES (:id, :bed_id, :kind, :payload, :archive_key, :created_at)`, row)
	if err != nil {
		return nil, fmt.Errorf("save %s plan for bed %s: %w", kind, bedID, err)
	}
	p := row.plan()
	return &p, nil
}

// SetPlanArchiveKey records where a plan's payload was archived.
func (s *Store) SetPlanArchiveKey(ctx context.Context, planID, key string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE plans SET archive_key = ? WHERE id = ?`), key, planID)
	if err != nil {
		return fmt.Errorf("set archive key for plan %s: %w", planID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var row planRow
	err := s.db.GetContext(ctx, &row, s.rebind(`
		SELECT id, bed_id, kind, payload, archive_key, created_at
		FROM plans WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	p := row.plan()
	return &p, nil
}

// ListPlans returns the plans of a bed, newest first.
func (s *Store) ListPlans(ctx context.Context, bedID string) ([]Plan, error) {
	var rows []planRow
	err := s.db.SelectContext(ctx, &rows, s.rebind(`
		SELECT id, bed_id, kind, payload, archive_key, created_at
		FROM plans WHERE bed_id = ? ORDER BY created_at DESC, id DESC`), bedID)
	if err != nil {
		return nil, fmt.Errorf("list plans for bed %s: %w", bedID, err)
	}
	plans := make([]Plan, 0, len(rows))
	for _, r := range rows {
		plans = append(plans, r.plan())
	}
	return plans, nil
}
