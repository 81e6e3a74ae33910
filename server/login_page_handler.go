package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	PageData
	Username string // Preserve username on error
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.session.State().Authenticated() {
			http.Redirect(w, r, s.config.GetLandingPath(), http.StatusSeeOther)
			return
		}
		s.render(w, r, pages, pageLogin, http.StatusOK, LoginPageData{
			PageData: s.pageData(r, "Entrar"),
			Username: r.URL.Query().Get("username"),
		})
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			s.renderLoginError(w, r, pages, http.StatusBadRequest, "Informe usuário e senha", username)
			return
		}

		navigate := func(to string) {
			http.Redirect(w, r, to, http.StatusSeeOther)
		}

		// A company loaded for the previous user is not shown to the next.
		s.gate.Leave()
		err := s.session.Login(r.Context(), username, password, navigate)
		switch {
		case err == nil:
		case errors.Is(err, errors.ErrInvalidCredentials):
			s.renderLoginError(w, r, pages, http.StatusUnauthorized, errors.Detail(err, "Login failed"), username)
		default:
			log.Err(err).Str("username", username).Msg("Login failed")
			s.renderLoginError(w, r, pages, http.StatusServiceUnavailable, "Serviço de autenticação indisponível. Tente novamente.", username)
		}
	}
}

func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, pages pages, status int, message, username string) {
	data := LoginPageData{
		PageData: s.pageData(r, "Entrar"),
		Username: username,
	}
	data.Error = message
	s.render(w, r, pages, pageLogin, status, data)
}

// LogoutHandler ends the session. The local session is cleared even when
// the API could not be told.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.gate.Leave()

		navigate := func(to string) {
			http.Redirect(w, r, to, http.StatusSeeOther)
		}
		if err := s.session.Logout(r.Context(), navigate); err != nil {
			log.Warn().Err(err).Msg("Logout was not confirmed by the API")
		}
	}
}
