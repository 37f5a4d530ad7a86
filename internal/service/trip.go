// Package service contains the business logic for the mileage tracker.
// Services enforce lifecycle rules and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// TripService implements the trip lifecycle: start, finish, edit, delete.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Start creates a new trip in the started state. Only the odometer reading is
// coerced at the boundary; the remaining fields are stored as entered.
func (s *TripService) Start(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	return result, nil
}

// Finish transitions a started trip to completed, deriving miles as
// odometerEnd - odometerStart. The difference is deliberately not clamped:
// a misentered reading yields negative miles the user can correct via edit.
// Returns domain.ErrConflict when the ID is unknown or the trip is not started.
func (s *TripService) Finish(ctx context.Context, id uuid.UUID, levelOfPlay string, odometerEnd, amountPaid float64) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", invalidFinish(err))
	}
	if trip.Status != domain.TripStarted {
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", invalidFinish(nil))
	}

	miles := odometerEnd - trip.OdometerStart
	result, err := s.repo.Complete(ctx, id, odometerEnd, miles, amountPaid, levelOfPlay)
	if err != nil {
		// A concurrent finish can slip between the read and the conditional
		// update; the repo reports that as not found.
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", invalidFinish(err))
	}
	return result, nil
}

// ListStarted returns current trips awaiting completion.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListStarted(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.ListStarted(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListStarted: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// List returns all current trips, newest first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update overwrites every field of an existing trip. There is no state-machine
// enforcement here; the edit form is the manual correction escape hatch.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	result, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete hard-deletes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Totals sums miles and revenue over all current trips.
func (s *TripService) Totals(ctx context.Context) (domain.TripTotals, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return domain.TripTotals{}, fmt.Errorf("service.TripService.Totals: %w", err)
	}
	return totals, nil
}

// invalidFinish collapses unknown-ID and wrong-state failures into the single
// user-facing conflict the finish form reports.
func invalidFinish(cause error) error {
	if cause != nil && !isNotFound(cause) {
		return cause
	}
	return fmt.Errorf("%w: invalid trip ID or the trip is already completed", domain.ErrConflict)
}
