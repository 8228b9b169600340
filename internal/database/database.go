package database

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite" // pure go sqlite driver, for local dev and tests
)

func Connect() (*sqlx.DB, error) {
	driver := viper.GetString("DB_DRIVER")
	dsn := viper.GetString("DB_DSN")
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// a single connection keeps an in-memory database alive
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
