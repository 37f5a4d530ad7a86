package service

import (
	"context"
	"fmt"

	"github.com/pkordes/mileage-tracker/internal/repo"
)

// MaintenanceService wraps the destructive data-administration operations.
type MaintenanceService struct {
	repo repo.MaintenanceRepo
}

// NewMaintenanceService constructs a MaintenanceService backed by the provided repo.
func NewMaintenanceService(r repo.MaintenanceRepo) *MaintenanceService {
	return &MaintenanceService{repo: r}
}

// ClearAll erases every trip, prepared trip, work day, and segment.
// There is no undo.
func (s *MaintenanceService) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("service.MaintenanceService.ClearAll: %w", err)
	}
	return nil
}
