package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/smartenergy/metering/internal/database"
	"github.com/smartenergy/metering/internal/domain"
)

// newTestRepos opens an in-memory SQLite database with the full schema. The
// repositories only use placeholders and types valid in both SQLite and
// Postgres, so the tests exercise the same SQL the service runs in
// production.
func newTestRepos(t *testing.T) *Repos {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return New(db)
}

func seedFacility(t *testing.T, r *Repos, name string) {
	t.Helper()
	require.NoError(t, r.CreateFacility(context.Background(), name, "1 Grid Way", name+"@example.com"))
}

func seedUser(t *testing.T, r *Repos, email string, accessLevel int) {
	t.Helper()
	require.NoError(t, r.CreateUser(context.Background(), email, "pw-"+email, accessLevel))
}

func seedMeter(t *testing.T, r *Repos, serial, meterType, facility string) {
	t.Helper()
	m := &domain.Meter{Serial: serial, Type: meterType, MultiplyFactor: 1}
	require.NoError(t, r.CreateMeter(context.Background(), m, facility))
}
