package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/rs/zerolog/log"
)

const recentCasesOnDashboard = 5

type CompaniesPageData struct {
	PageData
	Companies []*companies.Company
	Form      companies.CompanyCreate
}

// CompaniesPageHandler lists the companies of the current user
func (s *Server) CompaniesPageHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderCompanies(w, r, pages, http.StatusOK, companies.CompanyCreate{IsActive: true}, "")
	}
}

// CompanyCreateHandler creates a company from the form on the companies page
func (s *Server) CompanyCreateHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		create := companies.CompanyCreate{
			Name:     strings.TrimSpace(r.FormValue("name")),
			CNPJ:     strings.TrimSpace(r.FormValue("cnpj")),
			IsActive: r.FormValue("is_active") != "",
		}
		if err := create.Validate(); err != nil {
			s.renderCompanies(w, r, pages, http.StatusUnprocessableEntity, create, err.Error())
			return
		}

		company, err := s.repos.Companies.Create(r.Context(), create)
		if err != nil {
			log.Warn().Err(err).Str("name", create.Name).Msg("Failed to create company")
			s.renderCompanies(w, r, pages, statusFor(err), create, errors.Detail(err, "Erro ao criar empresa"))
			return
		}
		log.Info().Str("company_id", company.ID).Str("name", company.Name).Msg("Company created")
		http.Redirect(w, r, RouteCompanies, http.StatusSeeOther)
	}
}

func (s *Server) renderCompanies(w http.ResponseWriter, r *http.Request, pages pages, status int, form companies.CompanyCreate, formErr string) {
	data := CompaniesPageData{
		PageData: s.pageData(r, "Empresas"),
		Form:     form,
	}
	data.Error = formErr

	list, err := s.repos.Companies.ListMine(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch companies")
		data.Error = errors.Detail(err, "Failed to fetch companies")
		if status == http.StatusOK {
			status = statusFor(err)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	data.Companies = list
	s.render(w, r, pages, pageCompanies, status, data)
}

type StatusCount struct {
	Status string
	Count  int
}

type DashboardPageData struct {
	PageData
	Total    int
	ByStatus []StatusCount
	Recent   []*legalcases.LegalCase
}

// DashboardHandler summarises the legal cases of the company
func (s *Server) DashboardHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, _ := tenants.FromContext(r.Context())
		data := DashboardPageData{PageData: s.pageData(r, "Dashboard")}

		cases, err := s.companyCases(r, tc)
		if err != nil {
			data.Error = errors.Detail(err, "Erro ao carregar processos")
			s.render(w, r, pages, pageDashboard, statusFor(err), data)
			return
		}

		data.Total = len(cases)
		for status, count := range legalcases.CountByStatus(cases) {
			if status == "" {
				status = "sem status"
			}
			data.ByStatus = append(data.ByStatus, StatusCount{Status: status, Count: count})
		}
		sort.Slice(data.ByStatus, func(i, j int) bool {
			if data.ByStatus[i].Count != data.ByStatus[j].Count {
				return data.ByStatus[i].Count > data.ByStatus[j].Count
			}
			return data.ByStatus[i].Status < data.ByStatus[j].Status
		})
		data.Recent = cases
		if len(data.Recent) > recentCasesOnDashboard {
			data.Recent = data.Recent[:recentCasesOnDashboard]
		}
		s.render(w, r, pages, pageDashboard, http.StatusOK, data)
	}
}

// companyCases lists the legal cases filed under the tenant.
func (s *Server) companyCases(r *http.Request, tc tenants.Context) ([]*legalcases.LegalCase, error) {
	cases, err := s.repos.LegalCases.List(r.Context())
	if err != nil {
		log.Warn().Err(err).Str("company_id", tc.TenantID).Msg("Failed to fetch legal cases")
		return nil, err
	}
	return legalcases.FilterByCompany(cases, tc.TenantID), nil
}

// statusFor maps an API failure onto the status of the page reporting it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
