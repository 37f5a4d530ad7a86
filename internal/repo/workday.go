package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

const workDayColumns = `id, user_id, day, status, start_odo, end_odo, total_miles,
		start_location, trip_explanation, created_at, updated_at`

// uniqueViolation is the Postgres error code for a unique constraint failure.
const uniqueViolation = "23505"

// WorkDayRepo defines the persistence operations for WorkDays and their
// exclusively-owned segments.
type WorkDayRepo interface {
	// Create inserts a new work day together with its initial segments in one
	// transaction. The partial unique index on started days turns a concurrent
	// double-start into domain.ErrConflict.
	Create(ctx context.Context, day domain.WorkDay) (domain.WorkDay, error)

	// GetByID retrieves a work day with its segments in sequence order.
	// Returns domain.ErrNotFound if no day with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.WorkDay, error)

	// GetActive returns the single work day currently in the started state.
	// Returns domain.ErrNotFound when no day is active.
	GetActive(ctx context.Context) (domain.WorkDay, error)

	// ListByMonth returns all work days whose date falls inside the given
	// calendar month, descending by day, each with its segments loaded.
	ListByMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error)

	// ListAll returns every work day ascending by day, with segments loaded.
	ListAll(ctx context.Context) ([]domain.WorkDay, error)

	// Update overwrites the scalar fields of a work day and applies the
	// segment change in the same transaction, so a failure on either side
	// leaves the day untouched. In append mode segmentNames continue the
	// existing sequence (an empty list is a no-op); otherwise the whole list
	// is rebuilt with fresh sequence numbers 0..n-1 (an empty list clears it).
	// Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error)

	// End applies the segment change and the end-of-day field update in one
	// transaction, conditional on the day still being started.
	// Returns domain.ErrNotFound when the day is no longer started.
	End(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error)

	// Delete removes a work day; the segment rows go with it via ON DELETE CASCADE.
	// Returns domain.ErrNotFound if no day with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgWorkDayRepo is the Postgres implementation of WorkDayRepo.
type pgWorkDayRepo struct {
	db txdb
}

// NewWorkDayRepo constructs a WorkDayRepo backed by the provided connection.
// Multi-statement operations open their own transactions, so in tests a
// pgx.Tx works through savepoints and rollback isolation still holds.
func NewWorkDayRepo(db txdb) WorkDayRepo {
	return &pgWorkDayRepo{db: db}
}

func (r *pgWorkDayRepo) Create(ctx context.Context, day domain.WorkDay) (domain.WorkDay, error) {
	const q = `
		INSERT INTO work_days (user_id, day, status, start_odo, start_location, trip_explanation)
		VALUES (@user_id, @day, 'started', @start_odo, @start_location, @trip_explanation)
		RETURNING ` + workDayColumns

	args := pgx.NamedArgs{
		"user_id":          domain.DefaultUserID,
		"day":              day.Day,
		"start_odo":        day.StartOdo,
		"start_location":   day.StartLocation,
		"trip_explanation": day.TripExplanation,
	}

	var created domain.WorkDay
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		created, err = scanWorkDay(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}
		created.Segments, err = insertSegments(ctx, tx, created.ID, segmentNames(day.Segments), 0)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.Create: %w", domain.ErrConflict)
		}
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgWorkDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.WorkDay, error) {
	const q = `SELECT ` + workDayColumns + ` FROM work_days WHERE id = @id`

	day, err := scanWorkDay(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.GetByID: %w", err)
	}
	if err := r.loadSegments(ctx, []*domain.WorkDay{&day}); err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.GetByID: %w", err)
	}
	return day, nil
}

func (r *pgWorkDayRepo) GetActive(ctx context.Context) (domain.WorkDay, error) {
	const q = `SELECT ` + workDayColumns + ` FROM work_days WHERE status = 'started' LIMIT 1`

	day, err := scanWorkDay(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.GetActive: %w", err)
	}
	if err := r.loadSegments(ctx, []*domain.WorkDay{&day}); err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.GetActive: %w", err)
	}
	return day, nil
}

func (r *pgWorkDayRepo) ListByMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error) {
	const q = `
		SELECT ` + workDayColumns + `
		FROM work_days
		WHERE day >= @first AND day < @next
		ORDER BY day DESC, created_at DESC`

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	args := pgx.NamedArgs{"first": first, "next": first.AddDate(0, 1, 0)}

	days, err := r.queryWorkDays(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.WorkDayRepo.ListByMonth: %w", err)
	}
	return days, nil
}

func (r *pgWorkDayRepo) ListAll(ctx context.Context) ([]domain.WorkDay, error) {
	const q = `
		SELECT ` + workDayColumns + `
		FROM work_days
		ORDER BY day, created_at`

	days, err := r.queryWorkDays(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.WorkDayRepo.ListAll: %w", err)
	}
	return days, nil
}

func (r *pgWorkDayRepo) Update(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error) {
	var updated domain.WorkDay
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		updated, err = scanWorkDay(tx.QueryRow(ctx, updateWorkDayQuery, updateWorkDayArgs(day)))
		if err != nil {
			return err
		}
		return applySegments(ctx, tx, day.ID, segmentNames, appendMode)
	})
	if err != nil {
		// Editing a day back to started while another is active trips the
		// partial unique index.
		if isUniqueViolation(err) {
			return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.Update: %w", domain.ErrConflict)
		}
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.Update: %w", err)
	}
	if err := r.loadSegments(ctx, []*domain.WorkDay{&updated}); err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgWorkDayRepo) End(ctx context.Context, day domain.WorkDay, segmentNames []string, appendMode bool) (domain.WorkDay, error) {
	// Same column set as Update, but conditional on the day still being
	// started so a concurrent end loses cleanly.
	const q = updateWorkDayQuery + ` AND status = 'started'`

	var ended domain.WorkDay
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		ended, err = scanWorkDay(tx.QueryRow(ctx, q, updateWorkDayArgs(day)))
		if err != nil {
			return err
		}
		return applySegments(ctx, tx, day.ID, segmentNames, appendMode)
	})
	if err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.End: %w", err)
	}
	if err := r.loadSegments(ctx, []*domain.WorkDay{&ended}); err != nil {
		return domain.WorkDay{}, fmt.Errorf("repo.WorkDayRepo.End: %w", err)
	}
	return ended, nil
}

// applySegments performs the segment half of Update and End inside the
// caller's transaction. In append mode names continue the existing sequence
// and an empty list leaves the segments alone; in replace mode the list is
// rebuilt from scratch and an empty list clears it.
func applySegments(ctx context.Context, tx pgx.Tx, dayID uuid.UUID, names []string, appendMode bool) error {
	if appendMode {
		if len(names) == 0 {
			return nil
		}
		const nextSeqQ = `
			SELECT COALESCE(MAX(seq) + 1, 0)
			FROM work_segments
			WHERE work_day_id = @work_day_id`
		var next int
		if err := tx.QueryRow(ctx, nextSeqQ, pgx.NamedArgs{"work_day_id": dayID}).Scan(&next); err != nil {
			return err
		}
		_, err := insertSegments(ctx, tx, dayID, names, next)
		return err
	}

	if err := deleteSegments(ctx, tx, dayID); err != nil {
		return err
	}
	_, err := insertSegments(ctx, tx, dayID, names, 0)
	return err
}

func (r *pgWorkDayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM work_days WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.WorkDayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.WorkDayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// updateWorkDayQuery overwrites every scalar field of a work day.
// End appends a status predicate to the same text, so keep WHERE last.
const updateWorkDayQuery = `
		UPDATE work_days
		SET day              = @day,
		    status           = @status,
		    start_odo        = @start_odo,
		    end_odo          = @end_odo,
		    total_miles      = @total_miles,
		    start_location   = @start_location,
		    trip_explanation = @trip_explanation,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + workDayColumns

func updateWorkDayArgs(day domain.WorkDay) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               day.ID,
		"day":              day.Day,
		"status":           day.Status,
		"start_odo":        day.StartOdo,
		"end_odo":          day.EndOdo,
		"total_miles":      day.TotalMiles,
		"start_location":   day.StartLocation,
		"trip_explanation": day.TripExplanation,
	}
}

func (r *pgWorkDayRepo) queryWorkDays(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.WorkDay, error) {
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

	var days []domain.WorkDay
	for rows.Next() {
		d, err := scanWorkDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	refs := make([]*domain.WorkDay, len(days))
	for i := range days {
		refs[i] = &days[i]
	}
	if err := r.loadSegments(ctx, refs); err != nil {
		return nil, err
	}
	return days, nil
}

// loadSegments fetches the segments for all given days in one query and
// attaches them in sequence order.
func (r *pgWorkDayRepo) loadSegments(ctx context.Context, days []*domain.WorkDay) error {
	if len(days) == 0 {
		return nil
	}

	const q = `
		SELECT id, work_day_id, seq, location_name
		FROM work_segments
		WHERE work_day_id = ANY(@day_ids)
		ORDER BY work_day_id, seq`

	ids := make([]uuid.UUID, len(days))
	byID := make(map[uuid.UUID]*domain.WorkDay, len(days))
	for i, d := range days {
		ids[i] = d.ID
		byID[d.ID] = d
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_ids": ids})
	if err != nil {
		return fmt.Errorf("load segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s     domain.WorkSegment
			id    pgtype.UUID
			dayID pgtype.UUID
		)
		if err := rows.Scan(&id, &dayID, &s.Seq, &s.LocationName); err != nil {
			return fmt.Errorf("load segments: scan: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		s.WorkDayID = uuid.UUID(dayID.Bytes)
		if d, ok := byID[s.WorkDayID]; ok {
			d.Segments = append(d.Segments, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load segments: rows: %w", err)
	}
	return nil
}

// insertSegments inserts names as segments for dayID starting at seq startSeq
// and returns the created rows in order.
func insertSegments(ctx context.Context, tx pgx.Tx, dayID uuid.UUID, names []string, startSeq int) ([]domain.WorkSegment, error) {
	const q = `
		INSERT INTO work_segments (work_day_id, seq, location_name)
		VALUES (@work_day_id, @seq, @location_name)
		RETURNING id, work_day_id, seq, location_name`

	segments := make([]domain.WorkSegment, 0, len(names))
	for i, name := range names {
		args := pgx.NamedArgs{
			"work_day_id":   dayID,
			"seq":           startSeq + i,
			"location_name": name,
		}

		var (
			s      domain.WorkSegment
			id     pgtype.UUID
			ownDay pgtype.UUID
		)
		if err := tx.QueryRow(ctx, q, args).Scan(&id, &ownDay, &s.Seq, &s.LocationName); err != nil {
			return nil, fmt.Errorf("insert segment %d: %w", startSeq+i, err)
		}
		s.ID = uuid.UUID(id.Bytes)
		s.WorkDayID = uuid.UUID(ownDay.Bytes)
		segments = append(segments, s)
	}
	return segments, nil
}

func deleteSegments(ctx context.Context, tx pgx.Tx, dayID uuid.UUID) error {
	const q = `DELETE FROM work_segments WHERE work_day_id = @work_day_id`
	if _, err := tx.Exec(ctx, q, pgx.NamedArgs{"work_day_id": dayID}); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}
	return nil
}

// segmentNames projects segments back to their location names.
func segmentNames(segments []domain.WorkSegment) []string {
	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.LocationName
	}
	return names
}

// scanWorkDay maps a single database row into a domain.WorkDay (without segments).
func scanWorkDay(s scanner) (domain.WorkDay, error) {
	var (
		d           domain.WorkDay
		id          pgtype.UUID
		day         pgtype.Date
		startOdo    pgtype.Int4
		endOdo      pgtype.Int4
		totalMiles  pgtype.Int4
		startLoc    pgtype.Text
		explanation pgtype.Text
	)

	err := s.Scan(&id, &d.UserID, &day, &d.Status, &startOdo, &endOdo, &totalMiles,
		&startLoc, &explanation, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WorkDay{}, domain.ErrNotFound
		}
		return domain.WorkDay{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.Day = day.Time
	if startOdo.Valid {
		v := int(startOdo.Int32)
		d.StartOdo = &v
	}
	if endOdo.Valid {
		v := int(endOdo.Int32)
		d.EndOdo = &v
	}
	if totalMiles.Valid {
		v := int(totalMiles.Int32)
		d.TotalMiles = &v
	}
	if startLoc.Valid {
		v := startLoc.String
		d.StartLocation = &v
	}
	if explanation.Valid {
		v := explanation.String
		d.TripExplanation = &v
	}
	return d, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
