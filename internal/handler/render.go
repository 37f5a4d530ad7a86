package handler

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are the per-route templates; each is parsed together with the shared
// layout so it can fill the layout's "content" block.
var pages = []string{
	"home.html", "login.html",
	"new_trip.html", "finish_trip.html", "view_trips.html", "edit_trip.html", "totals.html",
	"prepared.html", "archive.html", "archive_year.html",
	"work_list.html", "work_start.html", "work_update.html", "work_view.html", "work_end.html",
}

// renderer holds one compiled template set per page.
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() *renderer {
	t := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t[page] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+page))
	}
	return &renderer{templates: t}
}

// viewData is the payload every template executes against.
type viewData struct {
	Title    string
	LoggedIn bool
	Flashes  []flashMessage
	Data     any
}

// render executes the named page inside the layout, draining any pending
// flash messages into the view. Render failures are logged and answered
// with a bare 500; by then part of the page may already be written.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	v := viewData{
		Title:    title,
		LoggedIn: s.isLoggedIn(r),
		Flashes:  s.popFlashes(w, r),
		Data:     data,
	}

	tmpl, ok := s.views.templates[page]
	if !ok {
		s.log.Error("unknown template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", v); err != nil {
		s.log.Error("render template", "page", page, "error", err)
	}
}

// serverError logs err and answers with a generic 500 page.
// Nothing in this app treats an internal error as recoverable by the user.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("handler error", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// notFound answers with a plain 404.
func (s *Server) notFound(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

// redirect sends a 303 so the browser re-GETs after a form post.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
