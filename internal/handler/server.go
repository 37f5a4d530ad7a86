// Package handler implements the HTTP surface of the mileage tracker:
// server-rendered HTML forms that post back, mutate through the service
// layer, and redirect with a flash message.
// Handlers are methods on Server, split into domain-specific files
// (trip.go, work.go, etc.) but all sharing the same struct.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Start(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Finish(ctx context.Context, id uuid.UUID, levelOfPlay string, odometerEnd, amountPaid float64) (domain.Trip, error)
	ListStarted(ctx context.Context) ([]domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Totals(ctx context.Context) (domain.TripTotals, error)
}

// PreparedTripServicer defines the prepared-trip operations the handlers depend on.
type PreparedTripServicer interface {
	Create(ctx context.Context, p domain.PreparedTrip) (domain.PreparedTrip, error)
	List(ctx context.Context) ([]domain.PreparedTrip, error)
	Consume(ctx context.Context, id uuid.UUID, odometerStart float64) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WorkDayServicer defines the work-day operations the handlers depend on.
type WorkDayServicer interface {
	Start(ctx context.Context, in service.StartWorkDayInput) (domain.WorkDay, error)
	Get(ctx context.Context, id uuid.UUID) (domain.WorkDay, error)
	ListMonth(ctx context.Context, year int, month time.Month) ([]domain.WorkDay, error)
	Update(ctx context.Context, id uuid.UUID, in service.UpdateWorkDayInput) (domain.WorkDay, error)
	Edit(ctx context.Context, id uuid.UUID, in service.EditWorkDayInput) (domain.WorkDay, error)
	End(ctx context.Context, id uuid.UUID, in service.EndWorkDayInput) (domain.WorkDay, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ArchiveServicer defines the archival operations the handlers depend on.
type ArchiveServicer interface {
	ArchiveYear(ctx context.Context, year int) (service.ArchiveResult, error)
	ListYears(ctx context.Context) ([]int, error)
	TripsForYear(ctx context.Context, year int) ([]domain.Trip, error)
}

// ExportServicer defines the export operations the handlers depend on.
type ExportServicer interface {
	ExportTrips(ctx context.Context, year *int) ([]string, error)
	ExportWorkDays(ctx context.Context) (string, *excelize.File, error)
}

// MaintenanceServicer defines the data-administration operations the handlers depend on.
type MaintenanceServicer interface {
	ClearAll(ctx context.Context) error
}

// Server holds every dependency the HTTP handlers need.
type Server struct {
	trips       TripServicer
	prepared    PreparedTripServicer
	workDays    WorkDayServicer
	archive     ArchiveServicer
	export      ExportServicer
	maintenance MaintenanceServicer

	sessions *sessions.CookieStore
	password string
	views    *renderer
	log      *slog.Logger
}

// sessionMaxAge is the login cookie lifetime.
const sessionMaxAge = 30 * 24 * time.Hour

// NewServer constructs the Server with all its dependencies.
// sessionSecret signs the session cookie; password is the shared login secret.
func NewServer(trips TripServicer, prepared PreparedTripServicer, workDays WorkDayServicer,
	archive ArchiveServicer, export ExportServicer, maintenance MaintenanceServicer,
	sessionSecret, password string, log *slog.Logger) *Server {

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Server{
		trips:       trips,
		prepared:    prepared,
		workDays:    workDays,
		archive:     archive,
		export:      export,
		maintenance: maintenance,
		sessions:    store,
		password:    password,
		views:       newRenderer(),
		log:         log,
	}
}

// Routes returns the chi router for the whole HTTP surface.
// Everything except the health check and the login page sits behind the
// logged-in session flag.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)

		r.Get("/", s.home)
		r.Get("/logout", s.logout)

		r.Get("/trips", s.listTrips)
		r.Get("/trips/new", s.newTripForm)
		r.Post("/trips/new", s.startTrip)
		r.Get("/trips/finish", s.finishTripForm)
		r.Post("/trips/finish", s.finishTrip)
		r.Get("/trips/{id}/edit", s.editTripForm)
		r.Post("/trips/{id}/edit", s.editTrip)
		r.Post("/trips/{id}/delete", s.deleteTrip)
		r.Get("/totals", s.totals)

		r.Get("/prepared", s.listPrepared)
		r.Post("/prepared", s.createPrepared)
		r.Post("/prepared/{id}/start", s.consumePrepared)
		r.Post("/prepared/{id}/delete", s.deletePrepared)

		r.Get("/work/list", s.listWorkDays)
		r.Get("/work/start", s.startWorkDayForm)
		r.Post("/work/start", s.startWorkDay)
		r.Get("/work/update/{id}", s.updateWorkDayForm)
		r.Post("/work/update/{id}", s.updateWorkDay)
		r.Get("/work/view/{id}", s.viewWorkDayForm)
		r.Post("/work/view/{id}", s.editWorkDay)
		r.Get("/work/end/{id}", s.endWorkDayForm)
		r.Post("/work/end/{id}", s.endWorkDay)
		r.Post("/work/delete/{id}", s.deleteWorkDay)

		r.Get("/archive", s.archiveIndex)
		r.Post("/archive", s.archiveYear)
		r.Get("/archive/{year}", s.archivedTrips)

		r.Get("/export/trips", s.exportTrips)
		r.Get("/export/work", s.exportWorkDays)

		r.Post("/clear", s.clearData)
	})

	return r
}

// health handles GET /healthz with a plain 200 so load balancers and
// container probes have something cheap to poll.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// home handles GET /.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home.html", "Home", nil)
}

// idParam parses the {id} URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
