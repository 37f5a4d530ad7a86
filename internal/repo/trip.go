package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// tripColumns is the SELECT list shared by every trip query, in scanTrip order.
const tripColumns = `id, date, time, sport, venue, home_team, away_team,
		odometer_start, odometer_end, level_of_play, miles, amount_paid,
		status, archived_year, created_at, updated_at`

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new started trip and returns the persisted record
	// (with DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all current (non-archived) trips, newest first.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListStarted returns current trips still in the started state.
	ListStarted(ctx context.Context) ([]domain.Trip, error)

	// ListCompletedCurrent returns current completed trips.
	ListCompletedCurrent(ctx context.Context) ([]domain.Trip, error)

	// ListCompletedForYear returns completed trips archived under the given
	// year, or, as a compatibility fallback for rows archived before the
	// column existed, whose date string starts with that year.
	ListCompletedForYear(ctx context.Context, year int) ([]domain.Trip, error)

	// Complete transitions a started trip to completed, setting the end
	// odometer, derived miles, level of play, and amount paid in one
	// conditional update. Returns domain.ErrNotFound when no started trip
	// with that ID exists (unknown ID or already completed).
	Complete(ctx context.Context, id uuid.UUID, odometerEnd, miles, amountPaid float64, levelOfPlay string) (domain.Trip, error)

	// Update overwrites every mutable field of an existing trip and returns
	// the updated record. No lifecycle rules are enforced here.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Totals sums miles and amount paid over all current rows.
	Totals(ctx context.Context) (domain.TripTotals, error)

	// ArchiveYear stamps archived_year onto every unarchived trip whose date
	// starts with the given year. Already-archived rows are untouched, which
	// makes the operation idempotent per row. Returns the number of rows stamped.
	ArchiveYear(ctx context.Context, year int) (int64, error)

	// ListArchivedYears returns the distinct archived years present, descending.
	ListArchivedYears(ctx context.Context) ([]int, error)

	// ListByArchivedYear returns all trips archived under the given year, newest first.
	ListByArchivedYear(ctx context.Context, year int) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (date, time, sport, venue, home_team, away_team, odometer_start, status)
		VALUES (@date, @time, @sport, @venue, @home_team, @away_team, @odometer_start, 'started')
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"date":           trip.Date,
		"time":           trip.Time,
		"sport":          trip.Sport,
		"venue":          trip.Venue,
		"home_team":      trip.HomeTeam,
		"away_team":      trip.AwayTeam,
		"odometer_start": trip.OdometerStart,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE archived_year IS NULL
		ORDER BY created_at DESC`

	trips, err := r.queryTrips(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListStarted(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = 'started' AND archived_year IS NULL
		ORDER BY created_at DESC`

	trips, err := r.queryTrips(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListStarted: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListCompletedCurrent(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = 'completed' AND archived_year IS NULL
		ORDER BY date, created_at`

	trips, err := r.queryTrips(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListCompletedCurrent: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ListCompletedForYear(ctx context.Context, year int) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = 'completed'
		  AND (archived_year = @year OR substr(date, 1, 4) = @year_prefix)
		ORDER BY date, created_at`

	args := pgx.NamedArgs{"year": year, "year_prefix": strconv.Itoa(year)}
	trips, err := r.queryTrips(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListCompletedForYear: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) Complete(ctx context.Context, id uuid.UUID, odometerEnd, miles, amountPaid float64, levelOfPlay string) (domain.Trip, error) {
	// The status predicate makes the transition conditional: an unknown ID
	// and an already-completed trip both come back as no rows.
	const q = `
		UPDATE trips
		SET odometer_end  = @odometer_end,
		    miles         = @miles,
		    level_of_play = @level_of_play,
		    amount_paid   = @amount_paid,
		    status        = 'completed',
		    updated_at    = now()
		WHERE id = @id AND status = 'started'
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":            id,
		"odometer_end":  odometerEnd,
		"miles":         miles,
		"level_of_play": levelOfPlay,
		"amount_paid":   amountPaid,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Complete: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET date           = @date,
		    time           = @time,
		    sport          = @sport,
		    venue          = @venue,
		    home_team      = @home_team,
		    away_team      = @away_team,
		    odometer_start = @odometer_start,
		    odometer_end   = @odometer_end,
		    level_of_play  = @level_of_play,
		    miles          = @miles,
		    amount_paid    = @amount_paid,
		    status         = @status,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":             trip.ID,
		"date":           trip.Date,
		"time":           trip.Time,
		"sport":          trip.Sport,
		"venue":          trip.Venue,
		"home_team":      trip.HomeTeam,
		"away_team":      trip.AwayTeam,
		"odometer_start": trip.OdometerStart,
		"odometer_end":   trip.OdometerEnd, // nil becomes NULL
		"level_of_play":  trip.LevelOfPlay,
		"miles":          trip.Miles,
		"amount_paid":    trip.AmountPaid,
		"status":         trip.Status,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) Totals(ctx context.Context) (domain.TripTotals, error) {
	const q = `
		SELECT COALESCE(SUM(miles), 0), COALESCE(SUM(amount_paid), 0)
		FROM trips
		WHERE archived_year IS NULL`

	var t domain.TripTotals
	if err := r.db.QueryRow(ctx, q).Scan(&t.Miles, &t.Revenue); err != nil {
		return domain.TripTotals{}, fmt.Errorf("repo.TripRepo.Totals: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) ArchiveYear(ctx context.Context, year int) (int64, error) {
	const q = `
		UPDATE trips
		SET archived_year = @year, updated_at = now()
		WHERE substr(date, 1, 4) = @year_prefix AND archived_year IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"year": year, "year_prefix": strconv.Itoa(year)})
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.ArchiveYear: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgTripRepo) ListArchivedYears(ctx context.Context) ([]int, error) {
	const q = `
		SELECT DISTINCT archived_year
		FROM trips
		WHERE archived_year IS NOT NULL
		ORDER BY archived_year DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListArchivedYears: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListArchivedYears: scan: %w", err)
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListArchivedYears: rows: %w", err)
	}
	return years, nil
}

func (r *pgTripRepo) ListByArchivedYear(ctx context.Context, year int) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE archived_year = @year
		ORDER BY created_at DESC`

	trips, err := r.queryTrips(ctx, q, pgx.NamedArgs{"year": year})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByArchivedYear: %w", err)
	}
	return trips, nil
}

// queryTrips runs a multi-row trip query and scans every row.
func (r *pgTripRepo) queryTrips(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and the five nullable column conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t            domain.Trip
		id           pgtype.UUID
		odometerEnd  pgtype.Float8
		levelOfPlay  pgtype.Text
		miles        pgtype.Float8
		amountPaid   pgtype.Float8
		archivedYear pgtype.Int4
	)

	err := s.Scan(&id, &t.Date, &t.Time, &t.Sport, &t.Venue, &t.HomeTeam, &t.AwayTeam,
		&t.OdometerStart, &odometerEnd, &levelOfPlay, &miles, &amountPaid,
		&t.Status, &archivedYear, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if odometerEnd.Valid {
		v := odometerEnd.Float64
		t.OdometerEnd = &v
	}
	if levelOfPlay.Valid {
		v := levelOfPlay.String
		t.LevelOfPlay = &v
	}
	if miles.Valid {
		v := miles.Float64
		t.Miles = &v
	}
	if amountPaid.Valid {
		v := amountPaid.Float64
		t.AmountPaid = &v
	}
	if archivedYear.Valid {
		v := int(archivedYear.Int32)
		t.ArchivedYear = &v
	}
	return t, nil
}
