package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS trips (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_id VARCHAR(32) NOT NULL UNIQUE,
		trip_type VARCHAR(20) NOT NULL DEFAULT 'interstate',
		current_location VARCHAR(255) NOT NULL,
		pickup_location VARCHAR(255) NOT NULL,
		dropoff_location VARCHAR(255) NOT NULL,
		cycle_hours_used DOUBLE PRECISION NOT NULL DEFAULT 0,
		cmv_weight_lbs INTEGER NOT NULL DEFAULT 10001,
		requires_cdl BOOLEAN NOT NULL DEFAULT TRUE,
		adverse_conditions BOOLEAN NOT NULL DEFAULT FALSE,
		includes_hazmat BOOLEAN NOT NULL DEFAULT FALSE,
		total_distance_miles DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_days INTEGER NOT NULL DEFAULT 0,
		is_compliant BOOLEAN NOT NULL DEFAULT TRUE,
		violation_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_trips_created_at ON trips (created_at);`,
	`CREATE TABLE IF NOT EXISTS eld_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trip_record_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		day_number INTEGER NOT NULL,
		date DATE NOT NULL,
		driving_hours DOUBLE PRECISION NOT NULL,
		on_duty_hours DOUBLE PRECISION NOT NULL,
		off_duty_hours DOUBLE PRECISION NOT NULL,
		sleeper_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		cycle8_day_total DOUBLE PRECISION NOT NULL,
		requires_restart BOOLEAN NOT NULL DEFAULT FALSE,
		activities JSONB NOT NULL DEFAULT '[]',
		remarks JSONB NOT NULL DEFAULT '[]',
		violations JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (trip_record_id, day_number)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_eld_logs_trip_record_id ON eld_logs (trip_record_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
