package migration

import (
	"context"

	"fleetops/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements returns the DDL in execution order. Every statement is
// idempotent so Run is safe on every boot.
func (r *MigrationRunner) Statements() []string {
	return []string{
		createFirstMileTasksTable,
		createTaskDateIndex,
		createTaskDestinationIndex,
		createTaskBatchIndex,
	}
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range r.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(errors.DatabaseError("migration statement failed", err), "failed to migrate first_mile_tasks")
		}
	}
	return nil
}

const createFirstMileTasksTable = `
CREATE TABLE IF NOT EXISTS first_mile_tasks (
	id UUID PRIMARY KEY,
	batch_id UUID NOT NULL,
	task_date DATE NOT NULL,
	source_hub VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	task_time VARCHAR(32) NOT NULL DEFAULT '',
	plate_type VARCHAR(32) NOT NULL DEFAULT '4W',
	shipment_id VARCHAR(255) NOT NULL DEFAULT '',
	license_plate VARCHAR(64) NOT NULL DEFAULT '',
	driver_name VARCHAR(255) NOT NULL DEFAULT '',
	driver_phone VARCHAR(64) NOT NULL DEFAULT '',
	status VARCHAR(32) NOT NULL DEFAULT 'Pending',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`

const createTaskDateIndex = `
CREATE INDEX IF NOT EXISTS idx_first_mile_tasks_date ON first_mile_tasks (task_date, task_time)`

const createTaskDestinationIndex = `
CREATE INDEX IF NOT EXISTS idx_first_mile_tasks_destination ON first_mile_tasks (destination, status)`

const createTaskBatchIndex = `
CREATE INDEX IF NOT EXISTS idx_first_mile_tasks_batch ON first_mile_tasks (batch_id)`
