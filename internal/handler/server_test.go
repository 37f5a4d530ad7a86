package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/handler"
	"github.com/pkordes/mileage-tracker/internal/service"
)

const testPassword = "letmein"

// Hand-written test doubles for the servicer interfaces the handlers consume.
// Set only the method fields your test needs; an unset method panics, which
// surfaces unexpected service calls immediately.

type mockTripServicer struct {
	start       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	finish      func(ctx context.Context, id uuid.UUID, levelOfPlay string, odometerEnd, amountPaid float64) (domain.Trip, error)
	listStarted func(ctx context.Context) ([]domain.Trip, error)
	list        func(ctx context.Context) ([]domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	totals      func(ctx context.Context) (domain.TripTotals, error)
}

func (m *mockTripServicer) Start(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.start(ctx, trip)
}
func (m *mockTripServicer) Finish(ctx context.Context, id uuid.UUID, levelOfPlay string, odometerEnd, amountPaid float64) (domain.Trip, error) {
	return m.finish(ctx, id, levelOfPlay, odometerEnd, amountPaid)
}
func (m *mockTripServicer) ListStarted(ctx context.Context) ([]domain.Trip, error) {
	return m.listStarted(ctx)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) Totals(ctx context.Context) (domain.TripTotals, error) {
	return m.totals(ctx)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockPreparedServicer struct {
	create  func(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error)
	list    func(ctx context.Context) ([]domain.PreparedTrip, error)
	consume func(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPreparedServicer) Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error) {
	return m.create(ctx, p)
}
func (m *mockPreparedServicer) List(ctx context.Context) ([]domain.PreparedTrip, error) {
	return m.list(ctx)
}
func (m *mockPreparedServicer) Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error) {
	return m.consume(ctx, id, odometerStart)
}
func (m *mockPreparedServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.PreparedTripServicer = (*mockPreparedServicer)(nil)

type mockWorkDayServicer struct {
	start     func(ctx context.Context, in service.StartWorkDayInput) (domain.WorkDay, error)
	get       func(ctx context.Context, id uuid.UUID) (domain.WorkDay, error)
	listMonth func(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error)
	update    func(ctx context.Context, id uuid.UUID, in service.UpdateWorkDayInput) (domain.WorkDay, error)
	edit      func(ctx context.Context, id uuid.UUID, in service.EditWorkDayInput) (domain.WorkDay, error)
	end       func(ctx context.Context, id uuid.UUID, in service.EndWorkDayInput) (domain.WorkDay, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockWorkDayServicer) Start(ctx context.Context, in service.StartWorkDayInput) (domain.WorkDay, error) {
	return m.start(ctx, in)
}
func (m *mockWorkDayServicer) Get(ctx context.Context, id uuid.UUID) (domain.WorkDay, error) {
	return m.get(ctx, id)
}
func (m *mockWorkDayServicer) ListMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error) {
	return m.listMonth(ctx, year, month)
}
func (m *mockWorkDayServicer) Update(ctx context.Context, id uuid.UUID, in service.UpdateWorkDayInput) (domain.WorkDay, error) {
	return m.update(ctx, id, in)
}
func (m *mockWorkDayServicer) Edit(ctx context.Context, id uuid.UUID, in service.EditWorkDayInput) (domain.WorkDay, error) {
	return m.edit(ctx, id, in)
}
func (m *mockWorkDayServicer) End(ctx context.Context, id uuid.UUID, in service.EndWorkDayInput) (domain.WorkDay, error) {
	return m.end(ctx, id, in)
}
func (m *mockWorkDayServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.WorkDayServicer = (*mockWorkDayServicer)(nil)

type mockArchiveServicer struct {
	archiveYear  func(ctx context.Context, year int) (service.ArchiveResult, error)
	listYears    func(ctx context.Context) ([]int, error)
	tripsForYear func(ctx context.Context, year int) ([]domain.Trip, error)
}

func (m *mockArchiveServicer) ArchiveYear(ctx context.Context, year int) (service.ArchiveResult, error) {
	return m.archiveYear(ctx, year)
}
func (m *mockArchiveServicer) ListYears(ctx context.Context) ([]int, error) {
	return m.listYears(ctx)
}
func (m *mockArchiveServicer) TripsForYear(ctx context.Context, year int) ([]domain.Trip, error) {
	return m.tripsForYear(ctx, year)
}

var _ handler.ArchiveServicer = (*mockArchiveServicer)(nil)

type mockExportServicer struct {
	exportTrips    func(ctx context.Context, year *int) ([]string, error)
	exportWorkDays func(ctx context.Context) (string, *excelize.File, error)
}

func (m *mockExportServicer) ExportTrips(ctx context.Context, year *int) ([]string, error) {
	return m.exportTrips(ctx, year)
}
func (m *mockExportServicer) ExportWorkDays(ctx context.Context) (string, *excelize.File, error) {
	return m.exportWorkDays(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

type mockMaintenanceServicer struct {
	clearAll func(ctx context.Context) error
}

func (m *mockMaintenanceServicer) ClearAll(ctx context.Context) error {
	return m.clearAll(ctx)
}

var _ handler.MaintenanceServicer = (*mockMaintenanceServicer)(nil)

// ---- harness ---------------------------------------------------------------

// testServer wraps the full form router with a cookie jar so session state
// (the login flag and flash messages) carries across requests the way a
// browser would carry it.
type testServer struct {
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newTestServer(trips handler.TripServicer, prepared handler.PreparedTripServicer,
	workDays handler.WorkDayServicer, archive handler.ArchiveServicer,
	export handler.ExportServicer) *testServer {
	return newTestServerWith(trips, prepared, workDays, archive, export, nil)
}

// newTestServerWith is newTestServer plus the maintenance servicer, which
// only the clear-data tests need.
func newTestServerWith(trips handler.TripServicer, prepared handler.PreparedTripServicer,
	workDays handler.WorkDayServicer, archive handler.ArchiveServicer,
	export handler.ExportServicer, maintenance handler.MaintenanceServicer) *testServer {

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(trips, prepared, workDays, archive, export, maintenance,
		"test-session-secret", testPassword, log)
	return &testServer{h: srv.Routes(), cookies: make(map[string]*http.Cookie)}
}

// get performs a GET carrying the jar's cookies.
func (ts *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodGet, target, nil)
}

// postForm performs a urlencoded POST carrying the jar's cookies.
func (ts *testServer) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPost, target, form)
}

func (ts *testServer) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range ts.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	ts.h.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		ts.cookies[c.Name] = c
	}
	return rec
}

// login authenticates the jar with the shared test password.
func (ts *testServer) login(t *testing.T) {
	t.Helper()
	rec := ts.postForm(t, "/login", url.Values{"password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

// body follows up with a GET and returns the rendered page, which includes
// any flash queued by the previous request.
func (ts *testServer) body(t *testing.T, target string) string {
	t.Helper()
	rec := ts.get(t, target)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
