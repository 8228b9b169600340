package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartenergy/metering/internal/domain"
)

func (r *Repos) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	var out []domain.Facility
	err := r.db.SelectContext(ctx, &out,
		`SELECT facility_id, name, address, email FROM facilities ORDER BY facility_id`)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return out, nil
}

func (r *Repos) GetFacilityByName(ctx context.Context, name string) (*domain.Facility, error) {
	var f domain.Facility
	err := r.db.GetContext(ctx, &f,
		`SELECT facility_id, name, address, email FROM facilities WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "facility", Key: name}
	}
	if err != nil {
		return nil, fmt.Errorf("get facility %q: %w", name, err)
	}
	return &f, nil
}

func (r *Repos) CreateFacility(ctx context.Context, name, address, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO facilities (name, address, email) VALUES ($1, $2, $3)`, name, address, email)
	if err != nil {
		return fmt.Errorf("insert facility %q: %w", name, err)
	}
	return nil
}

// UpdateFacility modifies address and email only. The name is the lookup key
// and stays immutable.
func (r *Repos) UpdateFacility(ctx context.Context, name, address, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE facilities SET address = $1, email = $2 WHERE name = $3`, address, email, name)
	if err != nil {
		return fmt.Errorf("update facility %q: %w", name, err)
	}
	return rowsOrNotFound(res, "facility", name)
}

// DeleteFacility refuses to delete while meters are still attached
// (restrict policy). Assignments to the facility are join rows with no
// independent meaning and are removed along with it.
func (r *Repos) DeleteFacility(ctx context.Context, name string) error {
	id, err := r.ResolveFacilityID(ctx, name)
	if err != nil {
		return err
	}

	var meters int64
	if err := r.db.GetContext(ctx, &meters,
		`SELECT COUNT(*) FROM meters WHERE facility_id = $1`, id); err != nil {
		return fmt.Errorf("count meters for facility %q: %w", name, err)
	}
	if meters > 0 {
		return &domain.ConflictError{Entity: "facility", Key: name, Reason: "meters are still attached"}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete facility: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE facility_id = $1`, id); err != nil {
		return fmt.Errorf("delete assignments for facility %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM facilities WHERE facility_id = $1`, id); err != nil {
		return fmt.Errorf("delete facility %q: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete facility: %w", err)
	}
	return nil
}
