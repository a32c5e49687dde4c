// Package database provides the database/sql connection and schema
// migration management used by the migration tooling. Request-path code
// uses the pgx pool from internal/infra instead.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open opens a PostgreSQL connection via database/sql. sql.Open does not
// dial; call db.Ping to verify the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
