package handler

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// sessionName is the cookie holding both the login flag and pending flashes.
const sessionName = "mileage_session"

// Flash severity levels, matching the Bootstrap alert classes the templates use.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashWarning = "warning"
	flashInfo    = "info"
)

// flashMessage is a one-shot user-facing notice carried across a redirect.
type flashMessage struct {
	Level   string
	Message string
}

func init() {
	// CookieStore serializes session values with gob.
	gob.Register(flashMessage{})
}

// session returns the request's session, falling back to a fresh one when the
// cookie fails to decode (e.g. the signing secret changed).
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		s.log.Warn("session decode failed, starting fresh", "error", err)
	}
	return sess
}

// isLoggedIn reports whether the request carries the logged-in session flag.
func (s *Server) isLoggedIn(r *http.Request) bool {
	v, ok := s.session(r).Values["logged_in"].(bool)
	return ok && v
}

// setLoggedIn sets or clears the login flag and saves the session.
func (s *Server) setLoggedIn(w http.ResponseWriter, r *http.Request, in bool) {
	sess := s.session(r)
	if in {
		sess.Values["logged_in"] = true
	} else {
		delete(sess.Values, "logged_in")
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Error("save session", "error", err)
	}
}

// flash queues a one-shot message to be shown on the next rendered page.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, level, message string) {
	sess := s.session(r)
	sess.AddFlash(flashMessage{Level: level, Message: message})
	if err := sess.Save(r, w); err != nil {
		s.log.Error("save session", "error", err)
	}
}

// popFlashes drains pending flash messages, saving the session so they are
// shown exactly once.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	sess := s.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Error("save session", "error", err)
	}

	out := make([]flashMessage, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(flashMessage); ok {
			out = append(out, m)
		}
	}
	return out
}

// requireLogin gates a route group on the logged-in session flag,
// bouncing anonymous requests to the login page with a warning.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.isLoggedIn(r) {
			s.flash(w, r, flashWarning, "Please log in to access this page.")
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}
