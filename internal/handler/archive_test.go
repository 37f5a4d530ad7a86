package handler_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/service"
)

func TestArchiveYear(t *testing.T) {
	var gotYear int
	archive := &mockArchiveServicer{
		archiveYear: func(_ context.Context, year int) (service.ArchiveResult, error) {
			gotYear = year
			return service.ArchiveResult{Trips: 7, PreparedTrips: 2}, nil
		},
		listYears: func(_ context.Context) ([]int, error) {
			return []int{2025}, nil
		},
	}
	ts := newTestServer(nil, nil, nil, archive, nil)
	ts.login(t)

	rec := ts.postForm(t, "/archive", url.Values{"year": {"2025"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/archive", rec.Header().Get("Location"))
	assert.Equal(t, 2025, gotYear)

	page := ts.body(t, "/archive")
	assert.Contains(t, page, "Archived 7 trips and 2 prepared trips for 2025.")
}

func TestArchiveYear_NonNumeric(t *testing.T) {
	archiveCalled := false
	archive := &mockArchiveServicer{
		archiveYear: func(_ context.Context, _ int) (service.ArchiveResult, error) {
			archiveCalled = true
			return service.ArchiveResult{}, nil
		},
	}
	ts := newTestServer(nil, nil, nil, archive, nil)
	ts.login(t)

	rec := ts.postForm(t, "/archive", url.Values{"year": {"twenty-five"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, archiveCalled)
}

func TestArchivedTrips(t *testing.T) {
	archive := &mockArchiveServicer{
		tripsForYear: func(_ context.Context, year int) ([]domain.Trip, error) {
			require.Equal(t, 2024, year)
			return []domain.Trip{{Date: "2024-05-01", Venue: "Riverside Park", Status: domain.TripCompleted}}, nil
		},
	}
	ts := newTestServer(nil, nil, nil, archive, nil)
	ts.login(t)

	page := ts.body(t, "/archive/2024")

	assert.Contains(t, page, "Archive 2024")
	assert.Contains(t, page, "Riverside Park")
}

func TestArchivedTrips_BadYear(t *testing.T) {
	ts := newTestServer(nil, nil, nil, &mockArchiveServicer{}, nil)
	ts.login(t)

	rec := ts.get(t, "/archive/not-a-year")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
