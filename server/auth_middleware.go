package server

import (
	"net/http"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/rs/zerolog/log"
)

// RequireResolved holds a page back until the startup refresh has settled,
// answering with a self-reloading loading page meanwhile.
func (s *Server) RequireResolved(pages pages) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !s.session.State().Resolved {
				s.renderLoading(w, r, pages)
				return
			}
			next(w, r)
		}
	}
}

// RequireSession lets through only resolved, authenticated sessions.
// Anonymous sessions are sent to the login page.
func (s *Server) RequireSession(pages pages) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			state := s.session.State()
			if !state.Resolved {
				s.renderLoading(w, r, pages)
				return
			}
			if !state.Authenticated() {
				http.Redirect(w, r, s.config.GetLoginPath(), http.StatusSeeOther)
				return
			}
			next(w, r)
		}
	}
}

// LeaveTenant marks that the user navigated out of the company subtree.
func (s *Server) LeaveTenant(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.gate.Leave()
		next(w, r)
	}
}

// RequireTenant resolves the {company_id} of the route and injects the
// tenant Context into the request. A company that could not be fetched
// renders a generic unavailable page.
func (s *Server) RequireTenant(pages pages) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			companyID := r.PathValue("company_id")
			tc, err := s.gate.Resolve(r.Context(), companyID)
			switch {
			case errors.Is(err, errors.ErrCancelled):
				log.Debug().Str("company_id", companyID).Msg("Company navigation superseded")
				s.renderStatus(w, r, pages, http.StatusConflict, "Empresa alterada",
					"Outra empresa foi aberta enquanto esta carregava. Recarregue a página.")
				return
			case err != nil:
				// The browser went away.
				return
			case !tc.Available():
				s.renderStatus(w, r, pages, http.StatusNotFound, "Empresa indisponível",
					"Não foi possível carregar esta empresa.")
				return
			}
			next(w, r.WithContext(tenants.WithContext(r.Context(), tc)))
		}
	}
}
