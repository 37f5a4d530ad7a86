package handler_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportTrips_ServesNewestWorkbook(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "mileage_data_2025.xlsx")
	newest := filepath.Join(dir, "mileage_data_2026.xlsx")
	require.NoError(t, os.WriteFile(older, []byte("older"), 0o644))
	require.NoError(t, os.WriteFile(newest, []byte("workbook-bytes"), 0o644))

	export := &mockExportServicer{
		exportTrips: func(_ context.Context, year *int) ([]string, error) {
			assert.Nil(t, year)
			return []string{older, newest}, nil
		},
	}
	ts := newTestServer(nil, nil, nil, nil, export)
	ts.login(t)

	rec := ts.get(t, "/export/trips")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "mileage_data_2026.xlsx")
	assert.Equal(t, "workbook-bytes", rec.Body.String())
}

func TestExportTrips_YearParam(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mileage_data_2024.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	var gotYear *int
	export := &mockExportServicer{
		exportTrips: func(_ context.Context, year *int) ([]string, error) {
			gotYear = year
			return []string{path}, nil
		},
	}
	ts := newTestServer(nil, nil, nil, nil, export)
	ts.login(t)

	rec := ts.get(t, "/export/trips?year=2024")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotYear)
	assert.Equal(t, 2024, *gotYear)
}

func TestExportTrips_NothingToExport(t *testing.T) {
	export := &mockExportServicer{
		exportTrips: func(_ context.Context, _ *int) ([]string, error) {
			return nil, nil
		},
	}
	ts := newTestServer(nil, nil, nil, nil, export)
	ts.login(t)

	rec := ts.get(t, "/export/trips")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	page := ts.body(t, "/")
	assert.Contains(t, page, "No completed trips to export.")
}

func TestExportWorkDays_StreamsWorkbook(t *testing.T) {
	export := &mockExportServicer{
		exportWorkDays: func(_ context.Context) (string, *excelize.File, error) {
			return "work_mileage_20260314_090000.xlsx", excelize.NewFile(), nil
		},
	}
	ts := newTestServer(nil, nil, nil, nil, export)
	ts.login(t)

	rec := ts.get(t, "/export/work")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "work_mileage_20260314_090000.xlsx")
	assert.NotZero(t, rec.Body.Len())
}
