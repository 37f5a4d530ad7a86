package handler

import "net/http"

// clearData handles POST /clear: wipes every table and reports the outcome
// as a flash on the home page. The failure stays a flash rather than a 500
// so the user lands back on a working page either way.
func (s *Server) clearData(w http.ResponseWriter, r *http.Request) {
	if err := s.maintenance.ClearAll(r.Context()); err != nil {
		s.log.Error("clear data", "error", err)
		s.flash(w, r, flashDanger, "Error clearing database.")
		redirect(w, r, "/")
		return
	}

	s.flash(w, r, flashSuccess, "Database cleared.")
	redirect(w, r, "/")
}
