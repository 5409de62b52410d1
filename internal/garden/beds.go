package garden

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bed is one planting bed and the crops currently growing in it.
type Bed struct {
	ID            string    `json:"id"`
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	HardinessZone *float64  `json:"hardiness_zone,omitempty"`
	AreaSqFt      float64   `json:"area_sq_ft"`
	CropIDs       []string  `json:"crop_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBed is the input to CreateBed.
type NewBed struct {
	Owner         string   `json:"owner"`
	Name          string   `json:"name"`
	HardinessZone *float64 `json:"hardiness_zone,omitempty"`
	AreaSqFt      float64  `json:"area_sq_ft"`
	CropIDs       []string `json:"crop_ids"`
}

type bedRow struct {
	ID            string          `db:"id"`
	Owner         string          `db:"owner"`
	Name          string          `db:"name"`
	HardinessZone sql.NullFloat64 `db:"hardiness_zone"`
	AreaSqFt      float64         `db:"area_sq_ft"`
	CropIDs       string          `db:"crop_ids"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

func (r bedRow) bed() (*Bed, error) {
	b := &Bed{
		ID:        r.ID,
		Owner:     r.Owner,
		Name:      r.Name,
		AreaSqFt:  r.AreaSqFt,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
	if r.HardinessZone.Valid {
		z := r.HardinessZone.Float64
		b.HardinessZone = &z
	}
	if err := json.Unmarshal([]byte(r.CropIDs), &b.CropIDs); err != nil {
		return nil, fmt.Errorf("decode crop ids for bed %s: %w", r.ID, err)
	}
	if b.CropIDs == nil {
		b.CropIDs = []string{}
	}
	return b, nil
}

const bedColumns = `id, owner, name, hardiness_zone, area_sq_ft, crop_ids, created_at, updated_at`

func encodeCropIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode crop ids: %w", err)
	}
	return string(data), nil
}

// CreateBed inserts a new bed.
func (s *Store) CreateBed(ctx context.Context, in NewBed) (*Bed, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: bed name is required", ErrInvalid)
	}
	if in.AreaSqFt < 0 {
		return nil, fmt.Errorf("%w: area must not be negative", ErrInvalid)
	}
	crops, err := encodeCropIDs(in.CropIDs)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := s.stamp()
	var zone sql.NullFloat64
	if in.HardinessZone != nil {
		zone = sql.NullFloat64{Float64: *in.HardinessZone, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO beds (`+bedColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		id, in.Owner, in.Name, zone, in.AreaSqFt, crops, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create bed: %w", err)
	}
	return s.GetBed(ctx, id)
}

// GetBed retrieves a bed by ID.
func (s *Store) GetBed(ctx context.Context, id string) (*Bed, error) {
	var row bedRow
	err := s.db.GetContext(ctx, &row, s.rebind(`SELECT `+bedColumns+` FROM beds WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bed %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bed %s: %w", id, err)
	}
	return row.bed()
}

// ListBeds returns the beds of an owner, oldest first. An empty owner
// lists every bed.
func (s *Store) ListBeds(ctx context.Context, owner string) ([]Bed, error) {
	query := `SELECT ` + bedColumns + ` FROM beds`
	var args []any
	if owner != "" {
		query += ` WHERE owner = ?`
		args = append(args, owner)
	}
	query += ` ORDER BY created_at, id`

	var rows []bedRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list beds: %w", err)
	}

	beds := make([]Bed, 0, len(rows))
	for _, r := range rows {
		b, err := r.bed()
		if err != nil {
			return nil, err
		}
		beds = append(beds, *b)
	}
	return beds, nil
}

// SetBedCrops replaces the crops growing in a bed.
func (s *Store) SetBedCrops(ctx context.Context, id string, cropIDs []string) (*Bed, error) {
	crops, err := encodeCropIDs(cropIDs)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE beds SET crop_ids = ?, updated_at = ? WHERE id = ?`),
		crops, s.stamp(), id)
	if err != nil {
		return nil, fmt.Errorf("set crops for bed %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("bed %s: %w", id, ErrNotFound)
	}
	return s.GetBed(ctx, id)
}

// DeleteBed removes a bed with its soil tests and plans.
func (s *Store) DeleteBed(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete bed: %w", err)
	}
	defer tx.Rollback()

	// Children first; SQLite only cascades with foreign_keys enabled.
	for _, q := range []string{
		`DELETE FROM soil_tests WHERE bed_id = ?`,
		`DELETE FROM plans WHERE bed_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return fmt.Errorf("delete bed %s: %w", id, err)
		}
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM beds WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete bed %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bed %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
