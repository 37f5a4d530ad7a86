package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// listPrepared handles GET /prepared: the template list plus the create form.
func (s *Server) listPrepared(w http.ResponseWriter, r *http.Request) {
	preps, err := s.prepared.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "prepared.html", "Prepared Trips", preps)
}

// createPrepared handles POST /prepared: inserts a template row.
func (s *Server) createPrepared(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/prepared")
		return
	}

	p := domain.PreparedTrip{
		Date:     r.PostForm.Get("date"),
		Time:     r.PostForm.Get("time"),
		Sport:    r.PostForm.Get("sport"),
		Venue:    r.PostForm.Get("venue"),
		HomeTeam: r.PostForm.Get("home_team"),
		AwayTeam: r.PostForm.Get("away_team"),
	}

	if _, err := s.prepared.Create(r.Context(), p); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Prepared trip saved.")
	redirect(w, r, "/prepared")
}

// consumePrepared handles POST /prepared/{id}/start: spawns a started trip
// from the template and deletes the template in one transaction.
func (s *Server) consumePrepared(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.flash(w, r, flashWarning, "Prepared trip not found.")
		redirect(w, r, "/prepared")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/prepared")
		return
	}

	odometerStart, err := floatField(r.PostForm, "odometer_start")
	if err != nil {
		s.flash(w, r, flashDanger, "Invalid odometer reading. Please enter a numeric value.")
		redirect(w, r, "/prepared")
		return
	}

	if _, err := s.prepared.Consume(r.Context(), id, odometerStart); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.flash(w, r, flashWarning, "Prepared trip not found.")
			redirect(w, r, "/prepared")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "New trip started from the prepared trip.")
	redirect(w, r, "/")
}

// deletePrepared handles POST /prepared/{id}/delete.
func (s *Server) deletePrepared(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.flash(w, r, flashWarning, "Prepared trip not found.")
		redirect(w, r, "/prepared")
		return
	}

	if err := s.prepared.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.flash(w, r, flashWarning, "Prepared trip not found.")
			redirect(w, r, "/prepared")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Prepared trip deleted.")
	redirect(w, r, "/prepared")
}
