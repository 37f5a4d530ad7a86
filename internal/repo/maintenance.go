package repo

import (
	"context"
	"fmt"
)

// MaintenanceRepo holds the destructive data-administration operations.
type MaintenanceRepo interface {
	// ClearAll wipes every table in one statement. The schema itself stays
	// in place; goose owns its shape.
	ClearAll(ctx context.Context) error
}

// pgMaintenanceRepo is the Postgres implementation of MaintenanceRepo.
type pgMaintenanceRepo struct {
	db db
}

// NewMaintenanceRepo constructs a MaintenanceRepo backed by the provided connection.
func NewMaintenanceRepo(db db) MaintenanceRepo {
	return &pgMaintenanceRepo{db: db}
}

func (r *pgMaintenanceRepo) ClearAll(ctx context.Context) error {
	// TRUNCATE is a single statement, so all four tables empty atomically.
	const q = `TRUNCATE trips, prepared_trips, work_days, work_segments RESTART IDENTITY CASCADE`

	if _, err := r.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("repo.MaintenanceRepo.ClearAll: %w", err)
	}
	return nil
}
