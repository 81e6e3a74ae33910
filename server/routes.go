package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/legalcase-console/internal/metrics"
	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() error {
	pages, err := parsePages()
	if err != nil {
		return err
	}

	s.RegisterRouteFunc("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(pages), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(pages), s.HTMLMiddleWare(s.RequireResolved(pages))...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(pages), s.HTMLMiddleWare(s.RequireResolved(pages))...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Company selection; leaving the company subtree
	s.RegisterRouteFunc("GET "+RouteCompanies, ChainMiddleware(s.CompaniesPageHandler(pages), s.UserMiddleware(pages, s.LeaveTenant)...))
	s.RegisterRouteFunc("POST "+RouteCompanies, ChainMiddleware(s.CompanyCreateHandler(pages), s.UserMiddleware(pages, s.LeaveTenant)...))

	// Company scoped pages
	s.RegisterRouteFunc("GET "+RouteCompanyDashboard, ChainMiddleware(s.DashboardHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("GET "+RouteCompanyLegalCases, ChainMiddleware(s.LegalCasesListHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("GET "+RouteLegalCaseNew, ChainMiddleware(s.LegalCaseNewHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("POST "+RouteCompanyLegalCases, ChainMiddleware(s.LegalCaseCreateHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("GET "+RouteLegalCase, ChainMiddleware(s.LegalCaseViewHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("GET "+RouteLegalCaseEdit, ChainMiddleware(s.LegalCaseEditHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("POST "+RouteLegalCase, ChainMiddleware(s.LegalCaseUpdateHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))
	s.RegisterRouteFunc("POST "+RouteLegalCaseDelete, ChainMiddleware(s.LegalCaseDeleteHandler(pages), s.UserMiddleware(pages, s.RequireTenant(pages))...))

	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	return nil
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+error+ResetColor)
}
