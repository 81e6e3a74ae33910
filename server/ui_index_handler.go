package server

import (
	"net/http"
)

// IndexHandler sends the user to the landing area matching the session
func (s *Server) IndexHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := s.session.State()
		switch {
		case !state.Resolved:
			s.renderLoading(w, r, pages)
		case state.Authenticated():
			http.Redirect(w, r, s.config.GetLandingPath(), http.StatusSeeOther)
		default:
			http.Redirect(w, r, s.config.GetLoginPath(), http.StatusSeeOther)
		}
	}
}
