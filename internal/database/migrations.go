package database

import (
	"database/sql"
	"fmt"
)

// Schema is the run journal table layout
const Schema = `
CREATE TABLE IF NOT EXISTS flow_runs (
	id UUID PRIMARY KEY,
	reference VARCHAR(255) UNIQUE NOT NULL,
	flow VARCHAR(100) NOT NULL,
	browser VARCHAR(50) NOT NULL,
	status VARCHAR(20) NOT NULL,
	failures TEXT[] NOT NULL DEFAULT '{}',
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_flow_runs_reference ON flow_runs(reference);
CREATE INDEX IF NOT EXISTS idx_flow_runs_started_at ON flow_runs(started_at DESC);
`

// RunMigrations creates the run journal tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create flow_runs table: %w", err)
	}
	return nil
}
