package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartenergy/metering/internal/domain"
)

// The resolver translates natural keys (email, facility name, meter serial)
// into surrogate ids. A miss is always a hard NotFound, never a zero id:
// every write path depends on that to keep foreign keys valid.

func (r *Repos) ResolveUserID(ctx context.Context, email string) (int64, error) {
	return r.resolveID(ctx, r.db, `SELECT user_id FROM users WHERE email = $1`, "user", email)
}

func (r *Repos) ResolveFacilityID(ctx context.Context, name string) (int64, error) {
	return r.resolveID(ctx, r.db, `SELECT facility_id FROM facilities WHERE name = $1`, "facility", name)
}

func (r *Repos) ResolveMeterID(ctx context.Context, serial string) (int64, error) {
	return r.resolveID(ctx, r.db, `SELECT meter_id FROM meters WHERE serial_number = $1`, "meter", serial)
}

func (r *Repos) resolveID(ctx context.Context, q querier, query, entity, key string) (int64, error) {
	var id int64
	err := q.GetContext(ctx, &id, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &domain.NotFoundError{Entity: entity, Key: key}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s %q: %w", entity, key, err)
	}
	return id, nil
}
