package repository

import (
	"context"
	"fmt"

	"github.com/smartenergy/metering/internal/domain"
)

// AssignUserToFacility links the pair, both sides resolved independently so
// the caller learns exactly which key was wrong.
func (r *Repos) AssignUserToFacility(ctx context.Context, email, facilityName string) error {
	userID, err := r.ResolveUserID(ctx, email)
	if err != nil {
		return err
	}
	facilityID, err := r.ResolveFacilityID(ctx, facilityName)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO assignments (user_id, facility_id) VALUES ($1, $2)`, userID, facilityID)
	if err != nil {
		return fmt.Errorf("assign user %q to facility %q: %w", email, facilityName, err)
	}
	return nil
}

// UnassignUserFromFacility deletes the pair. Removing an assignment that does
// not exist is NotFound, not a silent success: callers rely on this to detect
// stale state.
func (r *Repos) UnassignUserFromFacility(ctx context.Context, email, facilityName string) error {
	userID, err := r.ResolveUserID(ctx, email)
	if err != nil {
		return err
	}
	facilityID, err := r.ResolveFacilityID(ctx, facilityName)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE user_id = $1 AND facility_id = $2`, userID, facilityID)
	if err != nil {
		return fmt.Errorf("unassign user %q from facility %q: %w", email, facilityName, err)
	}
	return rowsOrNotFound(res, "assignment", email+"/"+facilityName)
}

func (r *Repos) ListFacilitiesForUser(ctx context.Context, email string) ([]domain.Facility, error) {
	userID, err := r.ResolveUserID(ctx, email)
	if err != nil {
		return nil, err
	}

	var out []domain.Facility
	err = r.db.SelectContext(ctx, &out,
		`SELECT f.facility_id, f.name, f.address, f.email
		 FROM facilities f
		 JOIN assignments a ON a.facility_id = f.facility_id
		 WHERE a.user_id = $1
		 ORDER BY f.facility_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list facilities for user %q: %w", email, err)
	}
	return out, nil
}
