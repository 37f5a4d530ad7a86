package service

import (
	"context"
	"fmt"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// ArchiveService reclassifies trips and prepared trips by calendar year so
// current views stay small. Archived rows are never destroyed.
type ArchiveService struct {
	trips repo.TripRepo
	preps repo.PreparedTripRepo
}

// NewArchiveService constructs an ArchiveService backed by the provided repos.
func NewArchiveService(trips repo.TripRepo, preps repo.PreparedTripRepo) *ArchiveService {
	return &ArchiveService{trips: trips, preps: preps}
}

// ArchiveResult reports how many rows an ArchiveYear call stamped.
type ArchiveResult struct {
	Trips         int64
	PreparedTrips int64
}

// ArchiveYear stamps archived_year onto every unarchived trip and prepared
// trip whose date string starts with the given year. Already-archived rows
// are untouched, so running the same year twice is a no-op on the second run.
// The year is not validated against a calendar range; archiving a year with
// no matching rows simply stamps nothing.
func (s *ArchiveService) ArchiveYear(ctx context.Context, year int) (ArchiveResult, error) {
	var result ArchiveResult

	n, err := s.trips.ArchiveYear(ctx, year)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("service.ArchiveService.ArchiveYear: %w", err)
	}
	result.Trips = n

	n, err = s.preps.ArchiveYear(ctx, year)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("service.ArchiveService.ArchiveYear: %w", err)
	}
	result.PreparedTrips = n

	return result, nil
}

// ListYears returns the distinct archived years present, descending.
// Always returns a non-nil slice.
func (s *ArchiveService) ListYears(ctx context.Context) ([]int, error) {
	years, err := s.trips.ListArchivedYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ArchiveService.ListYears: %w", err)
	}
	if years == nil {
		return []int{}, nil
	}
	return years, nil
}

// TripsForYear returns all trips archived under the given year, newest first.
// Always returns a non-nil slice.
func (s *ArchiveService) TripsForYear(ctx context.Context, year int) ([]domain.Trip, error) {
	trips, err := s.trips.ListByArchivedYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("service.ArchiveService.TripsForYear: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}
