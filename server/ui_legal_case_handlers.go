package server

import (
	"net/http"
	"net/url"
	"sort"

	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/rs/zerolog/log"
)

type LegalCasesPageData struct {
	PageData
	LegalCases []*legalcases.LegalCase
}

// LegalCasesListHandler lists the legal cases of the company
func (s *Server) LegalCasesListHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, _ := tenants.FromContext(r.Context())
		data := LegalCasesPageData{PageData: s.pageData(r, "Processos")}

		cases, err := s.companyCases(r, tc)
		if err != nil {
			data.Error = errors.Detail(err, "Erro ao carregar processos")
			s.render(w, r, pages, pageLegalCases, statusFor(err), data)
			return
		}
		data.LegalCases = cases
		s.render(w, r, pages, pageLegalCases, http.StatusOK, data)
	}
}

type LegalCaseFormData struct {
	PageData
	Action      string
	SubmitLabel string
	Values      url.Values
	Clients     []legalcases.Client
}

func (s *Server) legalCaseForm(r *http.Request, title, action, submitLabel string, values url.Values) LegalCaseFormData {
	data := LegalCaseFormData{
		PageData:    s.pageData(r, title),
		Action:      action,
		SubmitLabel: submitLabel,
		Values:      values,
	}
	names, cpfs := values["client_name"], values["client_cpf"]
	for i := 0; i < max(len(names), len(cpfs)); i++ {
		c := legalcases.Client{}
		if i < len(names) {
			c.Name = names[i]
		}
		if i < len(cpfs) {
			c.CPF = cpfs[i]
		}
		data.Clients = append(data.Clients, c)
	}
	// Always offer one blank client row.
	data.Clients = append(data.Clients, legalcases.Client{})
	return data
}

func (s *Server) newLegalCaseForm(r *http.Request, companyID string, values url.Values) LegalCaseFormData {
	return s.legalCaseForm(r, "Criar Processo", companyLegalCasesPath(companyID), "Criar processo", values)
}

func (s *Server) editLegalCaseForm(r *http.Request, companyID, legalCaseID string, values url.Values) LegalCaseFormData {
	return s.legalCaseForm(r, "Editar Processo", legalCasePath(companyID, legalCaseID), "Salvar alterações", values)
}

// LegalCaseNewHandler renders the empty create form
func (s *Server) LegalCaseNewHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc, _ := tenants.FromContext(r.Context())
		s.render(w, r, pages, pageLegalCaseNew, http.StatusOK, s.newLegalCaseForm(r, tc.TenantID, url.Values{}))
	}
}

// LegalCaseCreateHandler files a new legal case under the company
func (s *Server) LegalCaseCreateHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		tc, _ := tenants.FromContext(r.Context())

		renderError := func(status int, message string) {
			data := s.newLegalCaseForm(r, tc.TenantID, r.PostForm)
			data.Error = message
			s.render(w, r, pages, pageLegalCaseNew, status, data)
		}

		lc, err := legalCaseFromForm(r.PostForm, tc.TenantID)
		if err != nil {
			renderError(http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := lc.Validate(); err != nil {
			renderError(http.StatusUnprocessableEntity, err.Error())
			return
		}

		created, err := s.repos.LegalCases.Create(r.Context(), lc)
		if err != nil {
			log.Warn().Err(err).Str("company_id", tc.TenantID).Msg("Failed to create legal case")
			renderError(statusFor(err), errors.Detail(err, "Erro ao criar processo"))
			return
		}
		log.Info().Str("company_id", tc.TenantID).Str("legal_case_id", created.ID).Msg("Legal case created")
		http.Redirect(w, r, companyLegalCasesPath(tc.TenantID), http.StatusSeeOther)
	}
}

type LegalCasePageData struct {
	PageData
	LegalCase         *legalcases.LegalCase
	Calculations      []*calculations.LegalCalculation
	CalculationsError string
}

// companyLegalCase fetches the legal case named in the path. A case filed
// under another company is reported as not found. On failure the status
// page has already been written.
func (s *Server) companyLegalCase(w http.ResponseWriter, r *http.Request, pages pages) (*legalcases.LegalCase, bool) {
	tc, _ := tenants.FromContext(r.Context())
	legalCaseID := r.PathValue("legal_case_id")

	lc, err := s.repos.LegalCases.Get(r.Context(), legalCaseID)
	if err == nil && !lc.BelongsTo(tc.TenantID) {
		err = errors.Wrapf(errors.ErrNotFound, "legal case %s is filed under another company", legalCaseID)
	}
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, errors.ErrInvalidRequest) {
			status = http.StatusNotFound
		}
		if status != http.StatusNotFound {
			log.Warn().Err(err).Str("legal_case_id", legalCaseID).Msg("Failed to fetch legal case")
		}
		s.renderStatus(w, r, pages, status, "Processo não encontrado", errors.Detail(err, "Não foi possível carregar este processo."))
		return nil, false
	}
	return lc, true
}

// LegalCaseViewHandler shows one legal case and its calculations
func (s *Server) LegalCaseViewHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lc, ok := s.companyLegalCase(w, r, pages)
		if !ok {
			return
		}

		data := LegalCasePageData{
			PageData:  s.pageData(r, "Processo "+lc.FormattedNumber()),
			LegalCase: lc,
		}
		calcs, err := s.repos.Calculations.ListByLegalCase(r.Context(), lc.ID)
		if err != nil {
			log.Warn().Err(err).Str("legal_case_id", lc.ID).Msg("Failed to fetch calculations")
			data.CalculationsError = errors.Detail(err, "Erro ao carregar cálculos")
		}
		sort.SliceStable(calcs, func(i, j int) bool {
			return dateKey(calcs[i].CalculationDate) > dateKey(calcs[j].CalculationDate)
		})
		data.Calculations = calcs
		s.render(w, r, pages, pageLegalCase, http.StatusOK, data)
	}
}

// LegalCaseEditHandler renders the form filled with the stored case
func (s *Server) LegalCaseEditHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lc, ok := s.companyLegalCase(w, r, pages)
		if !ok {
			return
		}
		tc, _ := tenants.FromContext(r.Context())
		s.render(w, r, pages, pageLegalCaseNew, http.StatusOK, s.editLegalCaseForm(r, tc.TenantID, lc.ID, legalCaseFormValues(lc)))
	}
}

// LegalCaseUpdateHandler replaces the stored case with the submitted form
func (s *Server) LegalCaseUpdateHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		lc, ok := s.companyLegalCase(w, r, pages)
		if !ok {
			return
		}
		tc, _ := tenants.FromContext(r.Context())

		renderError := func(status int, message string) {
			data := s.editLegalCaseForm(r, tc.TenantID, lc.ID, r.PostForm)
			data.Error = message
			s.render(w, r, pages, pageLegalCaseNew, status, data)
		}

		update, err := legalCaseFromForm(r.PostForm, tc.TenantID)
		if err != nil {
			renderError(http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := update.Validate(); err != nil {
			renderError(http.StatusUnprocessableEntity, err.Error())
			return
		}

		if _, err := s.repos.LegalCases.Update(r.Context(), lc.ID, update); err != nil {
			log.Warn().Err(err).Str("legal_case_id", lc.ID).Msg("Failed to update legal case")
			renderError(statusFor(err), errors.Detail(err, "Erro ao salvar processo"))
			return
		}
		log.Info().Str("company_id", tc.TenantID).Str("legal_case_id", lc.ID).Msg("Legal case updated")
		http.Redirect(w, r, legalCasePath(tc.TenantID, lc.ID), http.StatusSeeOther)
	}
}

// LegalCaseDeleteHandler removes the case and returns to the company's list
func (s *Server) LegalCaseDeleteHandler(pages pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lc, ok := s.companyLegalCase(w, r, pages)
		if !ok {
			return
		}
		tc, _ := tenants.FromContext(r.Context())

		if err := s.repos.LegalCases.Delete(r.Context(), lc.ID); err != nil {
			log.Warn().Err(err).Str("legal_case_id", lc.ID).Msg("Failed to delete legal case")
			s.renderStatus(w, r, pages, statusFor(err), "Erro ao excluir processo", errors.Detail(err, "Não foi possível excluir este processo."))
			return
		}
		log.Info().Str("company_id", tc.TenantID).Str("legal_case_id", lc.ID).Msg("Legal case deleted")
		http.Redirect(w, r, companyLegalCasesPath(tc.TenantID), http.StatusSeeOther)
	}
}

func dateKey(d *legalcases.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
