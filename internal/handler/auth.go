package handler

import (
	"crypto/subtle"
	"net/http"
)

// loginForm handles GET /login.
func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", "Log In", nil)
}

// login handles POST /login. The single shared password either sets the
// 30-day session flag or redisplays the form with a danger flash.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.flash(w, r, flashDanger, "Invalid form submission.")
		redirect(w, r, "/login")
		return
	}

	supplied := r.PostForm.Get("password")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.password)) != 1 {
		s.flash(w, r, flashDanger, "Invalid password.")
		redirect(w, r, "/login")
		return
	}

	s.setLoggedIn(w, r, true)
	s.flash(w, r, flashSuccess, "You have successfully logged in.")
	redirect(w, r, "/")
}

// logout handles GET /logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.setLoggedIn(w, r, false)
	s.flash(w, r, flashSuccess, "You have been logged out.")
	redirect(w, r, "/login")
}
