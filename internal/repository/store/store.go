package store

import (
	"context"
	"database/sql"
	"fmt"

	// Register the postgres driver.
	_ "github.com/lib/pq"
)

const (
	// defaultMaxOpenConns bounds the connection pool; the workload is a
	// single serialized evaluation loop plus a handful of API reads.
	defaultMaxOpenConns = 4
	// defaultMaxIdleConns keeps a couple of warm connections around.
	defaultMaxIdleConns = 2
)

// Open connects to the relational store and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
