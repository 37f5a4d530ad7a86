package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// newTripForm handles GET /trips/new.
func (s *Server) newTripForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "new_trip.html", "New Trip", nil)
}

// startTrip handles POST /trips/new: creates a trip in the started state.
// Only the odometer reading is validated; everything else is stored as typed.
func (s *Server) startTrip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/trips/new")
		return
	}

	odometerStart, err := floatField(r.PostForm, "odometer_start")
	if err != nil {
		s.flash(w, r, flashDanger, "Invalid odometer reading. Please enter a numeric value.")
		redirect(w, r, "/trips/new")
		return
	}

	trip := domain.Trip{
		Date:          r.PostForm.Get("date"),
		Time:          r.PostForm.Get("time"),
		Sport:         r.PostForm.Get("sport"),
		Venue:         r.PostForm.Get("venue"),
		HomeTeam:      r.PostForm.Get("home_team"),
		AwayTeam:      r.PostForm.Get("away_team"),
		OdometerStart: odometerStart,
	}

	if _, err := s.trips.Start(r.Context(), trip); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "New trip started successfully.")
	redirect(w, r, "/")
}

// finishTripForm handles GET /trips/finish: lists started trips to pick from.
func (s *Server) finishTripForm(w http.ResponseWriter, r *http.Request) {
	started, err := s.trips.ListStarted(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "finish_trip.html", "Finish Trip", started)
}

// finishTrip handles POST /trips/finish: transitions a started trip to
// completed, deriving miles from the odometer readings.
func (s *Server) finishTrip(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/trips/finish")
		return
	}

	id, err := idFormField(r)
	if err != nil {
		s.flash(w, r, flashDanger, "Invalid input. Please enter numeric values where required.")
		redirect(w, r, "/trips/finish")
		return
	}
	odometerEnd, err1 := floatField(r.PostForm, "odometer_end")
	amountPaid, err2 := floatField(r.PostForm, "amount_paid")
	if err1 != nil || err2 != nil {
		s.flash(w, r, flashDanger, "Invalid input. Please enter numeric values where required.")
		redirect(w, r, "/trips/finish")
		return
	}

	_, err = s.trips.Finish(r.Context(), id, r.PostForm.Get("level_of_play"), odometerEnd, amountPaid)
	if err != nil {
		if isUserError(err) {
			s.flash(w, r, flashDanger, userMessage(err))
			redirect(w, r, "/trips/finish")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Trip completed successfully.")
	redirect(w, r, "/")
}

// listTrips handles GET /trips.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "view_trips.html", "Trips", trips)
}

// editTripForm handles GET /trips/{id}/edit.
func (s *Server) editTripForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "edit_trip.html", "Edit Trip", trip)
}

// editTrip handles POST /trips/{id}/edit: an unconstrained full-field
// overwrite with no lifecycle enforcement. This is the manual correction path.
func (s *Server) editTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/trips/"+id.String()+"/edit")
		return
	}

	trip, parseErr := tripFromEditForm(r)
	if parseErr != nil {
		s.flash(w, r, flashDanger, "Invalid input. Please enter numeric values where required.")
		redirect(w, r, "/trips/"+id.String()+"/edit")
		return
	}
	trip.ID = id

	if _, err := s.trips.Update(r.Context(), trip); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Trip updated successfully.")
	redirect(w, r, "/trips")
}

// deleteTrip handles POST /trips/{id}/delete.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Trip deleted successfully.")
	redirect(w, r, "/trips")
}

// totals handles GET /totals.
func (s *Server) totals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.trips.Totals(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "totals.html", "Totals", totals)
}

// tripFromEditForm builds the full replacement Trip from the edit form.
func tripFromEditForm(r *http.Request) (domain.Trip, error) {
	odometerStart, err := floatField(r.PostForm, "odometer_start")
	if err != nil {
		return domain.Trip{}, err
	}
	odometerEnd, err := optFloatField(r.PostForm, "odometer_end")
	if err != nil {
		return domain.Trip{}, err
	}
	miles, err := optFloatField(r.PostForm, "miles")
	if err != nil {
		return domain.Trip{}, err
	}
	amountPaid, err := optFloatField(r.PostForm, "amount_paid")
	if err != nil {
		return domain.Trip{}, err
	}

	return domain.Trip{
		Date:          r.PostForm.Get("date"),
		Time:          r.PostForm.Get("time"),
		Sport:         r.PostForm.Get("sport"),
		Venue:         r.PostForm.Get("venue"),
		HomeTeam:      r.PostForm.Get("home_team"),
		AwayTeam:      r.PostForm.Get("away_team"),
		OdometerStart: odometerStart,
		OdometerEnd:   odometerEnd,
		LevelOfPlay:   optStringField(r.PostForm, "level_of_play"),
		Miles:         miles,
		AmountPaid:    amountPaid,
		Status:        r.PostForm.Get("status"),
	}, nil
}
