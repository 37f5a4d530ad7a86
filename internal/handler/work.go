package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/mileage-tracker/internal/domain"
	"github.com/pkordes/mileage-tracker/internal/service"
)

// workListView is the payload for the monthly work-day list.
type workListView struct {
	Days  []domain.WorkDay
	Year  int
	Month int
}

// workDayView is the payload for the single-day forms.
type workDayView struct {
	Day         domain.WorkDay
	SegmentsCSV string
}

// listWorkDays handles GET /work/list?year=&month=, defaulting to the
// current month. Days come back newest first with derived totals and the
// joined segment path available to the template.
func (s *Server) listWorkDays(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := intQueryParam(r.URL.Query(), "year", now.Year())
	month := intQueryParam(r.URL.Query(), "month", int(now.Month()))

	days, err := s.workDays.ListMonth(r.Context(), year, time.Month(month))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, "work_list.html", "Work Days", workListView{Days: days, Year: year, Month: month})
}

// startWorkDayForm handles GET /work/start.
func (s *Server) startWorkDayForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "work_start.html", "Start Work Day", time.Now().Format("2006-01-02"))
}

// startWorkDay handles POST /work/start. Rejected with a danger flash when a
// work day is already started, since only one may be active at a time.
func (s *Server) startWorkDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/work/start")
		return
	}

	in, err := startInputFromForm(r)
	if err != nil {
		s.flash(w, r, flashDanger, userMessage(err))
		redirect(w, r, "/work/start")
		return
	}

	if _, err := s.workDays.Start(r.Context(), in); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.flash(w, r, flashDanger, "You already have a started Work Day. End it or edit it before starting a new one.")
			redirect(w, r, "/work/list")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Work Day started.")
	redirect(w, r, "/work/list")
}

// updateWorkDayForm handles GET /work/update/{id}.
func (s *Server) updateWorkDayForm(w http.ResponseWriter, r *http.Request) {
	day, ok := s.loadWorkDay(w, r)
	if !ok {
		return
	}
	s.render(w, r, "work_update.html", "Update Work Day", workDayView{Day: day})
}

// updateWorkDay handles POST /work/update/{id}: the mid-day partial edit.
// Segments are appended; only the provided fields change.
func (s *Server) updateWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/work/update/"+id.String())
		return
	}

	startOdo, err := optIntField(r.PostForm, "start_odo")
	if err != nil {
		s.flash(w, r, flashDanger, userMessage(err))
		redirect(w, r, "/work/update/"+id.String())
		return
	}

	in := service.UpdateWorkDayInput{
		AppendSegmentsCSV: r.PostForm.Get("append_segments"),
		TripExplanation:   optStringField(r.PostForm, "trip_explanation"),
		StartLocation:     optStringField(r.PostForm, "start_location"),
		StartOdo:          startOdo,
	}

	if _, err := s.workDays.Update(r.Context(), id, in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Work Day updated successfully.")
	redirect(w, r, "/work/list")
}

// viewWorkDayForm handles GET /work/view/{id}: the full edit/backfill form.
func (s *Server) viewWorkDayForm(w http.ResponseWriter, r *http.Request) {
	day, ok := s.loadWorkDay(w, r)
	if !ok {
		return
	}

	names := make([]string, 0, len(day.Segments))
	for _, seg := range day.Segments {
		names = append(names, seg.LocationName)
	}
	s.render(w, r, "work_view.html", "Work Day", workDayView{
		Day:         day,
		SegmentsCSV: strings.Join(names, ", "),
	})
}

// editWorkDay handles POST /work/view/{id}: the full-field overwrite.
// All fields editable, segments replaced wholesale, no odometer-ordering check.
func (s *Server) editWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/work/view/"+id.String())
		return
	}

	in, err := editInputFromForm(r)
	if err != nil {
		s.flash(w, r, flashDanger, userMessage(err))
		redirect(w, r, "/work/view/"+id.String())
		return
	}

	if _, err := s.workDays.Edit(r.Context(), id, in); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.notFound(w)
		case isUserError(err):
			s.flash(w, r, flashDanger, userMessage(err))
			redirect(w, r, "/work/view/"+id.String())
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.flash(w, r, flashSuccess, "Work Day updated.")
	redirect(w, r, "/work/list")
}

// endWorkDayForm handles GET /work/end/{id}.
func (s *Server) endWorkDayForm(w http.ResponseWriter, r *http.Request) {
	day, ok := s.loadWorkDay(w, r)
	if !ok {
		return
	}
	if day.Status != domain.WorkDayStarted {
		s.flash(w, r, flashDanger, "This work day is not started.")
		redirect(w, r, "/work/list")
		return
	}
	s.render(w, r, "work_end.html", "End Work Day", workDayView{Day: day})
}

// endWorkDay handles POST /work/end/{id}: closes the day. Validation happens
// before any write, so a rejected end leaves the day untouched.
func (s *Server) endWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/work/end/"+id.String())
		return
	}

	endOdo, err1 := optIntField(r.PostForm, "end_odo")
	totalMiles, err2 := optIntField(r.PostForm, "total_miles")
	if err1 != nil || err2 != nil {
		s.flash(w, r, flashDanger, "Invalid input. Please enter whole numbers for odometers and miles.")
		redirect(w, r, "/work/end/"+id.String())
		return
	}

	mode := r.PostForm.Get("mode")
	in := service.EndWorkDayInput{
		Mode:            mode,
		EndOdo:          endOdo,
		TotalMiles:      totalMiles,
		TripExplanation: optStringField(r.PostForm, "trip_explanation"),
	}
	if mode == "overwrite" {
		in.SegmentsCSV = r.PostForm.Get("segments_csv")
	} else {
		in.SegmentsCSV = r.PostForm.Get("append_segments")
	}

	if _, err := s.workDays.End(r.Context(), id, in); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.notFound(w)
		case errors.Is(err, domain.ErrConflict):
			s.flash(w, r, flashDanger, userMessage(err))
			redirect(w, r, "/work/end/"+id.String())
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.flash(w, r, flashSuccess, "Work day ended successfully.")
	redirect(w, r, "/work/list")
}

// deleteWorkDay handles POST /work/delete/{id}: removes the day and its segments.
func (s *Server) deleteWorkDay(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return
	}

	if err := s.workDays.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.flash(w, r, flashSuccess, "Work day deleted.")
	redirect(w, r, "/work/list")
}

// loadWorkDay fetches the {id} day for the GET form routes, answering 404
// itself when it cannot. The bool reports whether the caller should proceed.
func (s *Server) loadWorkDay(w http.ResponseWriter, r *http.Request) (domain.WorkDay, bool) {
	id, err := idParam(r)
	if err != nil {
		s.notFound(w)
		return domain.WorkDay{}, false
	}

	day, err := s.workDays.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w)
			return domain.WorkDay{}, false
		}
		s.serverError(w, r, err)
		return domain.WorkDay{}, false
	}
	return day, true
}

// startInputFromForm builds the start input from the posted form.
func startInputFromForm(r *http.Request) (service.StartWorkDayInput, error) {
	day, err := dateField(r.PostForm, "day")
	if err != nil {
		return service.StartWorkDayInput{}, err
	}
	startOdo, err := optIntField(r.PostForm, "start_odo")
	if err != nil {
		return service.StartWorkDayInput{}, err
	}

	return service.StartWorkDayInput{
		Day:             day,
		StartOdo:        startOdo,
		StartLocation:   optStringField(r.PostForm, "start_location"),
		TripExplanation: optStringField(r.PostForm, "trip_explanation"),
		SegmentsCSV:     r.PostForm.Get("segments_csv"),
	}, nil
}

// editInputFromForm builds the full-edit input from the posted form.
func editInputFromForm(r *http.Request) (service.EditWorkDayInput, error) {
	day, err := dateField(r.PostForm, "day")
	if err != nil {
		return service.EditWorkDayInput{}, err
	}
	startOdo, err := optIntField(r.PostForm, "start_odo")
	if err != nil {
		return service.EditWorkDayInput{}, err
	}
	endOdo, err := optIntField(r.PostForm, "end_odo")
	if err != nil {
		return service.EditWorkDayInput{}, err
	}
	totalMiles, err := optIntField(r.PostForm, "total_miles")
	if err != nil {
		return service.EditWorkDayInput{}, err
	}

	status := r.PostForm.Get("status")
	if status == "" {
		status = domain.WorkDayStarted
	}

	return service.EditWorkDayInput{
		Day:             day,
		Status:          status,
		StartOdo:        startOdo,
		EndOdo:          endOdo,
		TotalMiles:      totalMiles,
		StartLocation:   optStringField(r.PostForm, "start_location"),
		TripExplanation: optStringField(r.PostForm, "trip_explanation"),
		SegmentsCSV:     r.PostForm.Get("segments_csv"),
	}, nil
}
