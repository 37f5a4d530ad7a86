package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/repo"
)

func preparedFixture() domain.PreparedTrip {
	return domain.PreparedTrip{
		Date:     "2026-03-21",
		Time:     "19:00",
		Sport:    "Soccer",
		Venue:    "Riverside Park",
		HomeTeam: "Riverside",
		AwayTeam: "Lakeview",
	}
}

func TestPreparedTripRepo_Create(t *testing.T) {
	r := repo.NewPreparedTripRepo(newTestTx(t))
	ctx := context.Background()

	got, err := r.Create(ctx, preparedFixture())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Soccer", got.Sport)
	assert.Nil(t, got.ArchivedYear)
	assert.False(t, got.CreatedAt.IsZero())
}

// Consume must copy the template fields onto a new started trip and remove
// the template in the same transaction.
func TestPreparedTripRepo_Consume(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPreparedTripRepo(tx)
	trips := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, preparedFixture())
	require.NoError(t, err)

	trip, err := r.Consume(ctx, created.ID, 1234.5)

	require.NoError(t, err)
	assert.Equal(t, domain.TripStarted, trip.Status)
	assert.Equal(t, created.Date, trip.Date)
	assert.Equal(t, created.Venue, trip.Venue)
	assert.Equal(t, 1234.5, trip.OdometerStart)

	// The spawned trip is a real row and the template is gone.
	got, err := trips.GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, created.HomeTeam, got.HomeTeam)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreparedTripRepo_Consume_NotFound(t *testing.T) {
	r := repo.NewPreparedTripRepo(newTestTx(t))

	_, err := r.Consume(context.Background(), uuid.New(), 1000)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// A second consume of the same template must fail and must not spawn a
// second trip.
func TestPreparedTripRepo_Consume_Twice(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPreparedTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, preparedFixture())
	require.NoError(t, err)

	_, err = r.Consume(ctx, created.ID, 1000)
	require.NoError(t, err)

	_, err = r.Consume(ctx, created.ID, 2000)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreparedTripRepo_List_ExcludesArchived(t *testing.T) {
	r := repo.NewPreparedTripRepo(newTestTx(t))
	ctx := context.Background()

	old := preparedFixture()
	old.Date = "2024-09-01"
	archived, err := r.Create(ctx, old)
	require.NoError(t, err)

	_, err = r.Create(ctx, preparedFixture())
	require.NoError(t, err)

	n, err := r.ArchiveYear(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	preps, err := r.List(ctx)
	require.NoError(t, err)
	for _, p := range preps {
		assert.NotEqual(t, archived.ID, p.ID, "archived template must not appear in the current list")
	}
}

func TestPreparedTripRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewPreparedTripRepo(newTestTx(t))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
