package web

import (
	"errors"
	"net/http"

	"washdesk/internal/clients/backend"
	"washdesk/internal/service"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", "login", viewData{Title: "Sign in"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", "login", viewData{
			Title: "Sign in",
			Error: "Could not read the form, try again.",
		})
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	session, err := s.sessions.Login(r.Context(), email, password, clientAddr(r))
	if err != nil {
		status := http.StatusBadGateway
		msg := "Sign-in is unavailable right now, try again later."
		switch {
		case errors.Is(err, backend.ErrUnauthorized):
			status = http.StatusUnauthorized
			msg = "Email or password is incorrect."
		case errors.Is(err, service.ErrTooManyAttempts):
			status = http.StatusTooManyRequests
			msg = "Too many attempts, wait a few minutes."
		}
		s.render(w, r, status, "login.html", "login", viewData{
			Title: "Sign in",
			Error: msg,
			Email: email,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/personnel", http.StatusSeeOther)
}

// handleLogout clears the session markers and the cookie, then returns
// the user to the login view. Unrelated to any page's record lifecycle.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil {
		_ = s.sessions.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
