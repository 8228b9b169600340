package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the five tables if they do not exist. Surrogate keys are
// database-assigned; every natural key carries a UNIQUE constraint so lookups
// can never match more than one row.
func Migrate(db *sqlx.DB) error {
	pk := "BIGSERIAL PRIMARY KEY"
	if db.DriverName() == "sqlite" {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			user_id %s,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			access_level INTEGER NOT NULL DEFAULT 2
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS facilities (
			facility_id %s,
			name TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT ''
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS meters (
			meter_id %s,
			serial_number TEXT NOT NULL UNIQUE,
			meter_type TEXT NOT NULL,
			facility_id BIGINT NOT NULL REFERENCES facilities(facility_id),
			ppe TEXT,
			multiply_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
			description TEXT
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS readings (
			reading_id %s,
			value DOUBLE PRECISION NOT NULL,
			reading_date TEXT NOT NULL,
			meter_id BIGINT NOT NULL REFERENCES meters(meter_id),
			user_id BIGINT NOT NULL REFERENCES users(user_id)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS assignments (
			assignment_id %s,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			facility_id BIGINT NOT NULL REFERENCES facilities(facility_id),
			UNIQUE(user_id, facility_id)
		)`, pk),
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
