package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates or verifies every table the daemon touches.
// The indoor/outdoor tables are written by the external sensor pipeline;
// they are included here because the dashboard historically owned the DDL.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS indoor (
		id SERIAL PRIMARY KEY,
		timestamp TEXT,
		pm25 DOUBLE PRECISION,
		temperature DOUBLE PRECISION,
		humidity DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS outdoor (
		id SERIAL PRIMARY KEY,
		timestamp TEXT,
		pm25_value DOUBLE PRECISION,
		temperature DOUBLE PRECISION,
		humidity DOUBLE PRECISION,
		wifi_strength DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS conditions (
		event_id SERIAL PRIMARY KEY,
		timestamp TEXT,
		state TEXT CHECK (state IN ('ON','OFF'))
	)`,
	`CREATE TABLE IF NOT EXISTS operator_decisions (
		decision_id SERIAL PRIMARY KEY,
		timestamp TEXT,
		state TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS processed_events (
		processed_id SERIAL PRIMARY KEY,
		event_id INTEGER NOT NULL,
		action TEXT NOT NULL,
		processed_timestamp TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		reminder_id SERIAL PRIMARY KEY,
		event_id INTEGER NOT NULL,
		reminder_time TEXT NOT NULL,
		reminder_type TEXT NOT NULL
	)`,
}

// EnsureSchema creates missing tables. It is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
