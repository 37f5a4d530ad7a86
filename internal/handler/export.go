package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
)

// xlsxContentType is the MIME type for .xlsx workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportTrips handles GET /export/trips?year=. The service writes one
// workbook per calendar year to the export directory; the newest one is
// served back as a download. No completed trips is a warning, not an error.
func (s *Server) exportTrips(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			s.flash(w, r, flashDanger, "Please enter a numeric year.")
			redirect(w, r, "/")
			return
		}
		year = &y
	}

	paths, err := s.export.ExportTrips(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if len(paths) == 0 {
		s.flash(w, r, flashWarning, "No completed trips to export.")
		redirect(w, r, "/")
		return
	}

	latest := paths[len(paths)-1]
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(latest)))
	http.ServeFile(w, r, latest)
}

// exportWorkDays handles GET /export/work: streams the all-months work-day
// workbook straight to the client without leaving a file behind.
func (s *Server) exportWorkDays(w http.ResponseWriter, r *http.Request) {
	filename, wb, err := s.export.ExportWorkDays(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	defer wb.Close() //nolint:errcheck

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := wb.Write(w); err != nil {
		// Headers are already gone; all we can do is log.
		s.log.Error("stream work-day export", "error", err)
	}
}
