package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a function
// field; set only the ones your test needs; an unset method panics, which
// surfaces unexpected repo calls immediately.
// This is idiomatic Go: no mock generation library required for simple cases.

type mockTripRepo struct {
	create               func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID              func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list                 func(ctx context.Context) ([]domain.Trip, error)
	listStarted          func(ctx context.Context) ([]domain.Trip, error)
	listCompletedCurrent func(ctx context.Context) ([]domain.Trip, error)
	listCompletedForYear func(ctx context.Context, year int) ([]domain.Trip, error)
	complete             func(ctx context.Context, id uuid.UUID, odometerEnd, miles, amountPaid float64, levelOfPlay string) (domain.Trip, error)
	update               func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete               func(ctx context.Context, id uuid.UUID) error
	totals               func(ctx context.Context) (domain.TripTotals, error)
	archiveYear          func(ctx context.Context, year int) (int64, error)
	listArchivedYears    func(ctx context.Context) ([]int, error)
	listByArchivedYear   func(ctx context.Context, year int) ([]domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListStarted(ctx context.Context) ([]domain.Trip, error) {
	return m.listStarted(ctx)
}
func (m *mockTripRepo) ListCompletedCurrent(ctx context.Context) ([]domain.Trip, error) {
	return m.listCompletedCurrent(ctx)
}
func (m *mockTripRepo) ListCompletedForYear(ctx context.Context, year int) ([]domain.Trip, error) {
	return m.listCompletedForYear(ctx, year)
}
func (m *mockTripRepo) Complete(ctx context.Context, id uuid.UUID, odometerEnd, miles, amountPaid float64, levelOfPlay string) (domain.Trip, error) {
	return m.complete(ctx, id, odometerEnd, miles, amountPaid, levelOfPlay)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) Totals(ctx context.Context) (domain.TripTotals, error) {
	return m.totals(ctx)
}
func (m *mockTripRepo) ArchiveYear(ctx context.Context, year int) (int64, error) {
	return m.archiveYear(ctx, year)
}
func (m *mockTripRepo) ListArchivedYears(ctx context.Context) ([]int, error) {
	return m.listArchivedYears(ctx)
}
func (m *mockTripRepo) ListByArchivedYear(ctx context.Context, year int) ([]domain.Trip, error) {
	return m.listByArchivedYear(ctx, year)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockPreparedTripRepo struct {
	create      func(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.PreparedTrip, error)
	list        func(ctx context.Context) ([]domain.PreparedTrip, error)
	consume     func(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	archiveYear func(ctx context.Context, year int) (int64, error)
}

func (m *mockPreparedTripRepo) Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error) {
	return m.create(ctx, p)
}
func (m *mockPreparedTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PreparedTrip, error) {
	return m.getByID(ctx, id)
}
func (m *mockPreparedTripRepo) List(ctx context.Context) ([]domain.PreparedTrip, error) {
	return m.list(ctx)
}
func (m *mockPreparedTripRepo) Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error) {
	return m.consume(ctx, id, odometerStart)
}
func (m *mockPreparedTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockPreparedTripRepo) ArchiveYear(ctx context.Context, year int) (int64, error) {
	return m.archiveYear(ctx, year)
}

var _ repo.PreparedTripRepo = (*mockPreparedTripRepo)(nil)

type mockWorkDayRepo struct {
	create      func(ctx context.Context, day domain.WorkDay) (domain.WorkDay, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.WorkDay, error)
	getActive   func(ctx context.Context) (domain.WorkDay, error)
	listByMonth func(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error)
	listAll     func(ctx context.Context) ([]domain.WorkDay, error)
	update      func(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error)
	end         func(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockWorkDayRepo) Create(ctx context.Context, day domain.WorkDay) (domain.WorkDay, error) {
	return m.create(ctx, day)
}
func (m *mockWorkDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.WorkDay, error) {
	return m.getByID(ctx, id)
}
func (m *mockWorkDayRepo) GetActive(ctx context.Context) (domain.WorkDay, error) {
	return m.getActive(ctx)
}
func (m *mockWorkDayRepo) ListByMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error) {
	return m.listByMonth(ctx, year, month)
}
func (m *mockWorkDayRepo) ListAll(ctx context.Context) ([]domain.WorkDay, error) {
	return m.listAll(ctx)
}
func (m *mockWorkDayRepo) Update(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error) {
	return m.update(ctx, day, segmentNames, appendMode)
}
func (m *mockWorkDayRepo) End(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error) {
	return m.end(ctx, day, segmentNames, appendMode)
}
func (m *mockWorkDayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.WorkDayRepo = (*mockWorkDayRepo)(nil)

type mockMaintenanceRepo struct {
	clearAll func(ctx context.Context) error
}

func (m *mockMaintenanceRepo) ClearAll(ctx context.Context) error {
	return m.clearAll(ctx)
}

var _ repo.MaintenanceRepo = (*mockMaintenanceRepo)(nil)

// pointer helpers shared by the service tests.
func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }
