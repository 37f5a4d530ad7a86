package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// WorkDayService implements the work-day lifecycle: start, update, end, delete.
type WorkDayService struct {
	repo repo.WorkDayRepo
}

// NewWorkDayService constructs a WorkDayService backed by the provided repo.
func NewWorkDayService(r repo.WorkDayRepo) *WorkDayService {
	return &WorkDayService{repo: r}
}

// StartWorkDayInput carries the start form fields.
// Nil pointers mean the field was left blank (allowed for backfill).
type StartWorkDayInput struct {
	Day             time.Time
	StartOdo        *int
	StartLocation   *string
	TripExplanation *string
	SegmentsCSV     string
}

// EditWorkDayInput carries the full-edit form: every field is overwritten
// and the segment list is replaced wholesale.
type EditWorkDayInput struct {
	Day             time.Time
	Status          string
	StartOdo        *int
	EndOdo          *int
	TotalMiles      *int
	StartLocation   *string
	TripExplanation *string
	SegmentsCSV     string
}

// UpdateWorkDayInput carries the mid-day update form: segments are appended
// and only the provided fields change.
type UpdateWorkDayInput struct {
	AppendSegmentsCSV string
	TripExplanation   *string // only overrides when non-nil and non-empty
	StartLocation     *string // always overwritten, may clear
	StartOdo          *int    // only overrides when non-nil
}

// EndWorkDayInput carries the end form fields. Mode selects whether
// SegmentsCSV is appended after the existing segments or replaces them.
type EndWorkDayInput struct {
	Mode            string // "append" (default) or "overwrite"
	SegmentsCSV     string
	EndOdo          *int    // keeps the existing value when nil
	TotalMiles      *int    // keeps the existing value when nil
	TripExplanation *string // only overrides when non-nil and non-empty
}

// Start creates a new started work day with its initial segments.
// Returns domain.ErrConflict when another day is already started, checked
// up front for a friendly message, and enforced again by the store's partial
// unique index should two starts race.
func (s *WorkDayService) Start(ctx context.Context, in StartWorkDayInput) (domain.WorkDay, error) {
	if _, err := s.repo.GetActive(ctx); err == nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Start: %w: a work day is already started", domain.ErrConflict)
	} else if !isNotFound(err) {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Start: %w", err)
	}

	day := domain.WorkDay{
		UserID:          domain.DefaultUserID,
		Day:             in.Day,
		Status:          domain.WorkDayStarted,
		StartOdo:        in.StartOdo,
		StartLocation:   in.StartLocation,
		TripExplanation: in.TripExplanation,
	}
	for i, name := range parseSegmentsCSV(in.SegmentsCSV) {
		day.Segments = append(day.Segments, domain.WorkSegment{Seq: i, LocationName: name})
	}

	created, err := s.repo.Create(ctx, day)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Start: %w: a work day is already started", domain.ErrConflict)
		}
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Start: %w", err)
	}
	return created, nil
}

// Get returns a work day with its segments in sequence order.
func (s *WorkDayService) Get(ctx context.Context, id uuid.UUID) (domain.WorkDay, error) {
	day, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Get: %w", err)
	}
	return day, nil
}

// ListMonth returns all work days inside the given calendar month,
// descending by day. Always returns a non-nil slice.
func (s *WorkDayService) ListMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error) {
	days, err := s.repo.ListByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("service.WorkDayService.ListMonth: %w", err)
	}
	if days == nil {
		return []domain.WorkDay{}, nil
	}
	return days, nil
}

// Update is the mid-day partial edit: appends segments and overrides only
// the provided fields, all in one repo transaction. No odometer-ordering
// rule applies here.
func (s *WorkDayService) Update(ctx context.Context, id uuid.UUID, in UpdateWorkDayInput) (domain.WorkDay, error) {
	day, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Update: %w", err)
	}

	if in.TripExplanation != nil && *in.TripExplanation != "" {
		day.TripExplanation = in.TripExplanation
	}
	day.StartLocation = in.StartLocation
	if in.StartOdo != nil {
		day.StartOdo = in.StartOdo
	}

	updated, err := s.repo.Update(ctx, day, parseSegmentsCSV(in.AppendSegmentsCSV), true)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Update: %w", err)
	}
	return updated, nil
}

// Edit is the full-field overwrite (the backfill form): every scalar field is
// replaced and the segment list is rebuilt with fresh sequence numbers, all
// in one repo transaction so a half-applied edit cannot persist.
// This is deliberately the one mutation path without the end-odometer check,
// so historical mistakes can always be corrected.
func (s *WorkDayService) Edit(ctx context.Context, id uuid.UUID, in EditWorkDayInput) (domain.WorkDay, error) {
	day, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Edit: %w", err)
	}

	if in.Status != domain.WorkDayStarted && in.Status != domain.WorkDayEnded {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Edit: %w: unknown status %q", domain.ErrValidation, in.Status)
	}

	day.Day = in.Day
	day.Status = in.Status
	day.StartOdo = in.StartOdo
	day.EndOdo = in.EndOdo
	day.TotalMiles = in.TotalMiles
	day.StartLocation = in.StartLocation
	day.TripExplanation = in.TripExplanation

	updated, err := s.repo.Update(ctx, day, parseSegmentsCSV(in.SegmentsCSV), false)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.Edit: %w", err)
	}
	return updated, nil
}

// End closes a started work day: applies the chosen segment mode, records
// end-of-day readings, and sets the status to ended. All validation happens
// before any write, so a rejected end leaves the day untouched.
// Returns domain.ErrConflict when the day is not started or when both
// odometers are present and end < start.
func (s *WorkDayService) End(ctx context.Context, id uuid.UUID, in EndWorkDayInput) (domain.WorkDay, error) {
	day, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.End: %w", err)
	}
	if day.Status != domain.WorkDayStarted {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.End: %w: this work day is not started", domain.ErrConflict)
	}

	if in.EndOdo != nil {
		day.EndOdo = in.EndOdo
	}
	if in.TotalMiles != nil {
		day.TotalMiles = in.TotalMiles
	}
	if in.TripExplanation != nil && *in.TripExplanation != "" {
		day.TripExplanation = in.TripExplanation
	}

	if day.StartOdo != nil && day.EndOdo != nil && *day.EndOdo < *day.StartOdo {
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.End: %w: end odometer cannot be less than start odometer", domain.ErrConflict)
	}

	day.Status = domain.WorkDayEnded
	appendMode := in.Mode != "overwrite"

	ended, err := s.repo.End(ctx, day, parseSegmentsCSV(in.SegmentsCSV), appendMode)
	if err != nil {
		if isNotFound(err) {
			// A concurrent end slipped between the read and the conditional update.
			return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.End: %w: this work day is not started", domain.ErrConflict)
		}
		return domain.WorkDay{}, fmt.Errorf("service.WorkDayService.End: %w", err)
	}
	return ended, nil
}

// Delete removes a work day and all of its segments.
func (s *WorkDayService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.WorkDayService.Delete: %w", err)
	}
	return nil
}

// parseSegmentsCSV splits a comma-separated list of location names,
// trimming whitespace and discarding empty tokens.
func parseSegmentsCSV(csvText string) []string {
	var names []string
	for _, part := range strings.Split(csvText, ",") {
		if t := strings.TrimSpace(part); t != "" {
			names = append(names, t)
		}
	}
	return names
}
