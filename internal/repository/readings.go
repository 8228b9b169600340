package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/smartenergy/metering/internal/domain"
)

// ListReadingsByFacility joins readings through meters to the facility and
// attaches the reporting user's email. meterType narrows the join when set.
func (r *Repos) ListReadingsByFacility(ctx context.Context, facilityName, meterType string) ([]domain.FacilityReading, error) {
	fid, err := r.ResolveFacilityID(ctx, facilityName)
	if err != nil {
		return nil, err
	}

	query := `SELECT r.reading_id, r.value, r.reading_date, m.serial_number, u.email
		FROM readings r
		JOIN meters m ON m.meter_id = r.meter_id
		JOIN users u ON u.user_id = r.user_id
		WHERE m.facility_id = $1`
	args := []interface{}{fid}
	if meterType != "" {
		query += ` AND m.meter_type = $2`
		args = append(args, meterType)
	}
	query += ` ORDER BY r.reading_id`

	var out []domain.FacilityReading
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list readings for facility %q: %w", facilityName, err)
	}
	return out, nil
}

// CreateReading resolves both the meter and the reporting user before the
// insert so a dangling reference fails as a clean NotFound.
func (r *Repos) CreateReading(ctx context.Context, value float64, date, meterSerial, userEmail string) error {
	meterID, err := r.ResolveMeterID(ctx, meterSerial)
	if err != nil {
		return err
	}
	userID, err := r.ResolveUserID(ctx, userEmail)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO readings (value, reading_date, meter_id, user_id) VALUES ($1, $2, $3, $4)`,
		value, date, meterID, userID)
	if err != nil {
		return fmt.Errorf("insert reading for meter %q: %w", meterSerial, err)
	}
	return nil
}

// UpdateReading modifies value and date only, keyed by the reading's own
// surrogate id.
func (r *Repos) UpdateReading(ctx context.Context, readingID int64, value float64, date string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE readings SET value = $1, reading_date = $2 WHERE reading_id = $3`,
		value, date, readingID)
	if err != nil {
		return fmt.Errorf("update reading %d: %w", readingID, err)
	}
	return rowsOrNotFound(res, "reading", strconv.FormatInt(readingID, 10))
}

func (r *Repos) DeleteReading(ctx context.Context, readingID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE reading_id = $1`, readingID)
	if err != nil {
		return fmt.Errorf("delete reading %d: %w", readingID, err)
	}
	return rowsOrNotFound(res, "reading", strconv.FormatInt(readingID, 10))
}
