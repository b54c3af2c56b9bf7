package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Wrap returns a sqlx handle over an open Postgres connection pool.
func Wrap(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}
