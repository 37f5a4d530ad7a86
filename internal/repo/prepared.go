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

const preparedColumns = `id, date, time, sport, venue, home_team, away_team, archived_year, created_at`

// PreparedTripRepo defines the persistence operations for PreparedTrips.
type PreparedTripRepo interface {
	// Create inserts a new template row and returns the persisted record.
	Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error)

	// GetByID retrieves a template by its UUID primary key.
	// Returns domain.ErrNotFound if no template with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.PreparedTrip, error)

	// List returns all current (non-archived) templates, oldest first.
	List(ctx context.Context) ([]domain.PreparedTrip, error)

	// Consume spawns a started trip from the template's fields and deletes
	// the template, both inside one transaction so a partial failure cannot
	// leave a live trip alongside a stale template.
	// Returns domain.ErrNotFound if no template with that ID exists.
	Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error)

	// Delete removes a template by ID. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// ArchiveYear stamps archived_year onto every unarchived template whose
	// date starts with the given year. Returns the number of rows stamped.
	ArchiveYear(ctx context.Context, year int) (int64, error)
}

// pgPreparedTripRepo is the Postgres implementation of PreparedTripRepo.
type pgPreparedTripRepo struct {
	db txdb
}

// NewPreparedTripRepo constructs a PreparedTripRepo backed by the provided
// connection. Consume opens its own transaction, so in tests a pgx.Tx works
// through savepoints and rollback isolation still holds.
func NewPreparedTripRepo(db txdb) PreparedTripRepo {
	return &pgPreparedTripRepo{db: db}
}

func (r *pgPreparedTripRepo) Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error) {
	const q = `
		INSERT INTO prepared_trips (date, time, sport, venue, home_team, away_team)
		VALUES (@date, @time, @sport, @venue, @home_team, @away_team)
		RETURNING ` + preparedColumns

	args := pgx.NamedArgs{
		"date":      p.Date,
		"time":      p.Time,
		"sport":     p.Sport,
		"venue":     p.Venue,
		"home_team": p.HomeTeam,
		"away_team": p.AwayTeam,
	}

	result, err := scanPreparedTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PreparedTrip{}, fmt.Errorf("repo.PreparedTripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPreparedTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PreparedTrip, error) {
	const q = `SELECT ` + preparedColumns + ` FROM prepared_trips WHERE id = @id`

	result, err := scanPreparedTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.PreparedTrip{}, fmt.Errorf("repo.PreparedTripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPreparedTripRepo) List(ctx context.Context) ([]domain.PreparedTrip, error) {
	const q = `
		SELECT ` + preparedColumns + `
		FROM prepared_trips
		WHERE archived_year IS NULL
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PreparedTripRepo.List: %w", err)
	}
	defer rows.Close()

	var preps []domain.PreparedTrip
	for rows.Next() {
		p, err := scanPreparedTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PreparedTripRepo.List: scan: %w", err)
		}
		preps = append(preps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PreparedTripRepo.List: rows: %w", err)
	}
	return preps, nil
}

func (r *pgPreparedTripRepo) Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error) {
	const selectQ = `SELECT ` + preparedColumns + ` FROM prepared_trips WHERE id = @id FOR UPDATE`
	const insertQ = `
		INSERT INTO trips (date, time, sport, venue, home_team, away_team, odometer_start, status)
		VALUES (@date, @time, @sport, @venue, @home_team, @away_team, @odometer_start, 'started')
		RETURNING ` + tripColumns
	const deleteQ = `DELETE FROM prepared_trips WHERE id = @id`

	var trip domain.Trip
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPreparedTrip(tx.QueryRow(ctx, selectQ, pgx.NamedArgs{"id": id}))
		if err != nil {
			return err
		}

		args := pgx.NamedArgs{
			"date":           p.Date,
			"time":           p.Time,
			"sport":          p.Sport,
			"venue":          p.Venue,
			"home_team":      p.HomeTeam,
			"away_team":      p.AwayTeam,
			"odometer_start": odometerStart,
		}
		trip, err = scanTrip(tx.QueryRow(ctx, insertQ, args))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, deleteQ, pgx.NamedArgs{"id": id})
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.PreparedTripRepo.Consume: %w", err)
	}
	return trip, nil
}

func (r *pgPreparedTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM prepared_trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PreparedTripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PreparedTripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgPreparedTripRepo) ArchiveYear(ctx context.Context, year int) (int64, error) {
	const q = `
		UPDATE prepared_trips
		SET archived_year = @year
		WHERE substr(date, 1, 4) = @year_prefix AND archived_year IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"year": year, "year_prefix": strconv.Itoa(year)})
	if err != nil {
		return 0, fmt.Errorf("repo.PreparedTripRepo.ArchiveYear: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanPreparedTrip maps a single database row into a domain.PreparedTrip.
func scanPreparedTrip(s scanner) (domain.PreparedTrip, error) {
	var (
		p            domain.PreparedTrip
		id           pgtype.UUID
		archivedYear pgtype.Int4
	)

	err := s.Scan(&id, &p.Date, &p.Time, &p.Sport, &p.Venue, &p.HomeTeam, &p.AwayTeam,
		&archivedYear, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PreparedTrip{}, domain.ErrNotFound
		}
		return domain.PreparedTrip{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if archivedYear.Valid {
		v := int(archivedYear.Int32)
		p.ArchivedYear = &v
	}
	return p, nil
}
