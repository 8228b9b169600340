package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartenergy/metering/internal/domain"
)

// ListMetersByFacility returns the facility's meters, optionally narrowed to
// one meter type. The filter is an extra predicate on the same base query,
// not a separate query path.
func (r *Repos) ListMetersByFacility(ctx context.Context, facilityName, meterType string) ([]domain.Meter, error) {
	fid, err := r.ResolveFacilityID(ctx, facilityName)
	if err != nil {
		return nil, err
	}

	query := `SELECT meter_id, serial_number, meter_type, facility_id, ppe, multiply_factor, description
		FROM meters WHERE facility_id = $1`
	args := []interface{}{fid}
	if meterType != "" {
		query += ` AND meter_type = $2`
		args = append(args, meterType)
	}
	query += ` ORDER BY meter_id`

	var out []domain.Meter
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list meters for facility %q: %w", facilityName, err)
	}
	return out, nil
}

func (r *Repos) GetMeterBySerial(ctx context.Context, serial string) (*domain.Meter, error) {
	var m domain.Meter
	err := r.db.GetContext(ctx, &m,
		`SELECT meter_id, serial_number, meter_type, facility_id, ppe, multiply_factor, description
		 FROM meters WHERE serial_number = $1`, serial)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "meter", Key: serial}
	}
	if err != nil {
		return nil, fmt.Errorf("get meter %q: %w", serial, err)
	}
	return &m, nil
}

// CreateMeter resolves the owning facility first, then inserts. A PPE code
// is only meaningful on electric meters; for any other type it is dropped
// regardless of what the caller supplied.
func (r *Repos) CreateMeter(ctx context.Context, m *domain.Meter, facilityName string) error {
	fid, err := r.ResolveFacilityID(ctx, facilityName)
	if err != nil {
		return err
	}
	m.FacilityID = fid
	m.PPE = normalizePPE(m.Type, m.PPE)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meters (serial_number, meter_type, facility_id, ppe, multiply_factor, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.Serial, m.Type, m.FacilityID, m.PPE, m.MultiplyFactor, m.Description)
	if err != nil {
		return fmt.Errorf("insert meter %q: %w", m.Serial, err)
	}
	return nil
}

// UpdateMeter modifies type, ppe, factor and description, keyed by serial
// number. The serial itself never changes. The electric-only PPE rule is
// re-applied on every update.
func (r *Repos) UpdateMeter(ctx context.Context, serial, meterType string, ppe *string, multiplyFactor float64, description *string) error {
	ppe = normalizePPE(meterType, ppe)
	res, err := r.db.ExecContext(ctx,
		`UPDATE meters SET meter_type = $1, ppe = $2, multiply_factor = $3, description = $4
		 WHERE serial_number = $5`,
		meterType, ppe, multiplyFactor, description, serial)
	if err != nil {
		return fmt.Errorf("update meter %q: %w", serial, err)
	}
	return rowsOrNotFound(res, "meter", serial)
}

// DeleteMeter refuses to delete while readings reference the meter
// (restrict policy).
func (r *Repos) DeleteMeter(ctx context.Context, serial string) error {
	id, err := r.ResolveMeterID(ctx, serial)
	if err != nil {
		return err
	}

	var readings int64
	if err := r.db.GetContext(ctx, &readings,
		`SELECT COUNT(*) FROM readings WHERE meter_id = $1`, id); err != nil {
		return fmt.Errorf("count readings for meter %q: %w", serial, err)
	}
	if readings > 0 {
		return &domain.ConflictError{Entity: "meter", Key: serial, Reason: "readings reference this meter"}
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM meters WHERE meter_id = $1`, id); err != nil {
		return fmt.Errorf("delete meter %q: %w", serial, err)
	}
	return nil
}

func normalizePPE(meterType string, ppe *string) *string {
	if meterType != domain.MeterTypeElectric {
		return nil
	}
	return ppe
}
