package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/internal/config"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/jrsteele09/legalcase-console/sessions"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/rs/zerolog/log"
)

// Session is the part of the session manager the console drives.
type Session interface {
	Login(ctx context.Context, username, password string, navigate sessions.NavigateFunc) error
	Logout(ctx context.Context, navigate sessions.NavigateFunc) error
	State() sessions.State
}

// TenantGate resolves the company a company-scoped page renders for.
type TenantGate interface {
	Resolve(ctx context.Context, tenantID string) (tenants.Context, error)
	Leave()
}

// Repos are the API collections the pages read and write.
type Repos struct {
	Companies    companies.Repo
	LegalCases   legalcases.Repo
	Calculations calculations.Repo
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	appName string
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	session Session
	gate    TenantGate
	repos   Repos
}

func New(config config.Config, session Session, gate TenantGate, repos Repos) (*Server, error) {
	if session == nil || gate == nil {
		return nil, fmt.Errorf("[Server New] session and tenant gate are required")
	}
	if repos.Companies == nil || repos.LegalCases == nil || repos.Calculations == nil {
		return nil, fmt.Errorf("[Server New] all repositories are required")
	}

	s := &Server{
		env:     config.GetEnv(),
		appName: config.GetAppName(),
		mux:     http.NewServeMux(),
		config:  config,
		session: session,
		gate:    gate,
		repos:   repos,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}
