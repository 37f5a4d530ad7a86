package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// archiveView is the payload for the archive index page.
type archiveView struct {
	Years []int
}

// archiveIndex handles GET /archive: the archived-years list plus the
// archive-a-year form.
func (s *Server) archiveIndex(w http.ResponseWriter, r *http.Request) {
	years, err := s.archive.ListYears(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "archive.html", "Archive", archiveView{Years: years})
}

// archiveYear handles POST /archive: stamps the given year onto every
// matching unarchived trip and prepared trip. Safe to repeat: rows already
// archived are untouched.
func (s *Server) archiveYear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/archive")
		return
	}

	year, err := strconv.Atoi(r.PostForm.Get("year"))
	if err != nil {
		s.flash(w, r, flashDanger, "Please enter a numeric year.")
		redirect(w, r, "/archive")
		return
	}

	result, err := s.archive.ArchiveYear(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, fmt.Sprintf("Archived %d trips and %d prepared trips for %d.",
		result.Trips, result.PreparedTrips, year))
	redirect(w, r, "/archive")
}

// archivedTripsView is the payload for a single archived year's trip list.
type archivedTripsView struct {
	Year  int
	Trips any
}

// archivedTrips handles GET /archive/{year}.
func (s *Server) archivedTrips(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		s.notFound(w)
		return
	}

	trips, err := s.archive.TripsForYear(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "archive_year.html", fmt.Sprintf("Archive %d", year),
		archivedTripsView{Year: year, Trips: trips})
}
