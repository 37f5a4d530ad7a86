package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// PreparedTripService manages trip templates created ahead of game day.
type PreparedTripService struct {
	repo repo.PreparedTripRepo
}

// NewPreparedTripService constructs a PreparedTripService backed by the provided repo.
func NewPreparedTripService(r repo.PreparedTripRepo) *PreparedTripService {
	return &PreparedTripService{repo: r}
}

// Create inserts a new template row.
func (s *PreparedTripService) Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error) {
	result, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.PreparedTrip{}, fmt.Errorf("service.PreparedTripService.Create: %w", err)
	}
	return result, nil
}

// List returns current templates, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PreparedTripService) List(ctx context.Context) ([]domain.PreparedTrip, error) {
	preps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PreparedTripService.List: %w", err)
	}
	if preps == nil {
		return []domain.PreparedTrip{}, nil
	}
	return preps, nil
}

// Consume turns a template into a started trip with the given odometer
// reading and removes the template. The repo performs both writes in one
// transaction, so the template can only ever be consumed once.
// Returns domain.ErrNotFound when the template does not exist.
func (s *PreparedTripService) Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error) {
	trip, err := s.repo.Consume(ctx, id, odometerStart)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PreparedTripService.Consume: %w", err)
	}
	return trip, nil
}

// Delete removes a template without spawning a trip.
func (s *PreparedTripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PreparedTripService.Delete: %w", err)
	}
	return nil
}
