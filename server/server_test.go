package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/legalcase-console/calculations"
	calculationrepofakes "github.com/jrsteele09/legalcase-console/calculations/repofakes"
	"github.com/jrsteele09/legalcase-console/companies"
	companyrepofakes "github.com/jrsteele09/legalcase-console/companies/repofakes"
	"github.com/jrsteele09/legalcase-console/internal/config"
	"github.com/jrsteele09/legalcase-console/internal/utils"
	"github.com/jrsteele09/legalcase-console/legalcases"
	legalcaserepofakes "github.com/jrsteele09/legalcase-console/legalcases/repofakes"
	"github.com/jrsteele09/legalcase-console/server"
	"github.com/jrsteele09/legalcase-console/sessions"
	"github.com/jrsteele09/legalcase-console/sessions/authfakes"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/jrsteele09/legalcase-console/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	auth         *authfakes.FakeAuthenticator
	manager      *sessions.Manager
	gate         *tenants.Gate
	companies    *companyrepofakes.FakeCompanyRepo
	legalCases   *legalcaserepofakes.FakeLegalCaseRepo
	calculations *calculationrepofakes.FakeCalculationRepo
	server       *server.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		auth:         authfakes.NewFakeAuthenticator(),
		companies:    companyrepofakes.NewFakeCompanyRepo(),
		legalCases:   legalcaserepofakes.NewFakeLegalCaseRepo(),
		calculations: calculationrepofakes.NewFakeCalculationRepo(),
	}
	f.auth.AddUser(&users.User{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true}, "secret", "xyz")
	f.companies.Upsert(&companies.Company{ID: "1", Name: "Acme Créditos", CNPJ: "12.345.678/0001-90", IsActive: true})

	var err error
	f.manager, err = sessions.NewManager(f.auth)
	require.NoError(t, err)
	f.gate, err = tenants.NewGate(f.companies, f.manager)
	require.NoError(t, err)
	f.manager.Subscribe(f.gate.CredentialChanged)

	f.server, err = server.New(config.New(), f.manager, f.gate, server.Repos{
		Companies:    f.companies,
		LegalCases:   f.legalCases,
		Calculations: f.calculations,
	})
	require.NoError(t, err)
	return f
}

// resolve finishes the startup refresh with no session to resume.
func (f *testFixture) resolve(t *testing.T) {
	t.Helper()
	f.manager.RefreshOnStartup(context.Background())
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	f.resolve(t)
	require.NoError(t, f.manager.Login(context.Background(), "alice", "secret", nil))
}

func (f *testFixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (f *testFixture) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) postWithHeaders(path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestServer_Unresolved(t *testing.T) {
	f := setupTestFixture(t)

	for _, path := range []string{"/", "/login", "/u/companies", "/u/company/1/dashboard"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(path)
			require.Equal(t, http.StatusServiceUnavailable, rec.Code)
			require.Equal(t, "1", rec.Header().Get("Retry-After"))
			require.Contains(t, rec.Body.String(), "Carregando")
		})
	}
	require.Empty(t, f.companies.GetCalls())
}

func TestServer_Anonymous(t *testing.T) {
	f := setupTestFixture(t)
	f.resolve(t)

	for _, path := range []string{"/", "/u/companies", "/u/company/1/legal-cases"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(path)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}

	rec := f.get("/login")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `name="password"`)
	require.Empty(t, f.companies.GetCalls())
}

func TestServer_Login(t *testing.T) {
	t.Run("success navigates to companies", func(t *testing.T) {
		f := setupTestFixture(t)
		f.resolve(t)

		rec := f.post("/auth/login", url.Values{"username": {"alice"}, "password": {"secret"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/u/companies", rec.Header().Get("Location"))
		require.True(t, f.manager.State().Authenticated())

		rec = f.get("/u/companies")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Acme Créditos")
		require.Contains(t, rec.Body.String(), "alice")

		// The login page is skipped once logged in.
		rec = f.get("/login")
		require.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("rejected credentials show the API's message", func(t *testing.T) {
		f := setupTestFixture(t)
		f.resolve(t)

		rec := f.post("/auth/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Incorrect username or password")
		require.Contains(t, rec.Body.String(), `value="alice"`)
		require.False(t, f.manager.State().Authenticated())
	})

	t.Run("missing fields", func(t *testing.T) {
		f := setupTestFixture(t)
		f.resolve(t)

		rec := f.post("/auth/login", url.Values{"username": {"alice"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, []string{"refresh"}, f.auth.Calls())
	})
}

func TestServer_Logout(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	require.Equal(t, http.StatusOK, f.get("/u/company/1/dashboard").Code)

	rec := f.post("/auth/logout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.False(t, f.manager.State().Authenticated())
	require.Equal(t, tenants.Context{}, f.gate.Current())

	rec = f.get("/u/company/1/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestServer_Tenant(t *testing.T) {
	t.Run("dashboard renders for the company", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		_, err := f.legalCases.Create(context.Background(), &legalcases.LegalCase{LegalCaseNumber: "00012345620208260100", CompanyID: utils.Ptr("1"), Status: utils.Ptr("ativo")})
		require.NoError(t, err)
		_, err = f.legalCases.Create(context.Background(), &legalcases.LegalCase{LegalCaseNumber: "2", CompanyID: utils.Ptr("other")})
		require.NoError(t, err)

		rec := f.get("/u/company/1/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "Acme Créditos")
		require.Contains(t, body, "0001234-56.2020.8.26.0100")
		require.Contains(t, body, "ativo")
		require.Equal(t, "1", f.gate.Current().TenantID)
	})

	t.Run("unknown company is unavailable without details", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		rec := f.get("/u/company/missing/legal-cases")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Empresa indisponível")
		require.NotContains(t, rec.Body.String(), "Company not found")
	})

	t.Run("leaving the company clears it", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		require.Equal(t, http.StatusOK, f.get("/u/company/1/legal-cases").Code)
		require.True(t, f.gate.Current().Available())

		require.Equal(t, http.StatusOK, f.get("/u/companies").Code)
		require.Equal(t, tenants.Context{}, f.gate.Current())
	})

	t.Run("company that failed to load is fetched again", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		require.Equal(t, http.StatusNotFound, f.get("/u/company/3/dashboard").Code)
		f.companies.Upsert(&companies.Company{ID: "3", Name: "Gama Ativos", CNPJ: "11222333000144", IsActive: true})

		rec := f.get("/u/company/3/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Gama Ativos")
		require.Equal(t, []string{"3", "3"}, f.companies.GetCalls())
	})

	t.Run("logging in again drops the company", func(t *testing.T) {
		f := setupTestFixture(t)
		f.auth.AddUser(&users.User{ID: 8, Username: "bob", Email: "bob@example.com", IsActive: true}, "hunter2", "bob-token")
		f.login(t)
		require.Equal(t, http.StatusOK, f.get("/u/company/1/dashboard").Code)
		require.True(t, f.gate.Current().Available())

		rec := f.post("/auth/login", url.Values{"username": {"bob"}, "password": {"hunter2"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, tenants.Context{}, f.gate.Current())

		require.Equal(t, http.StatusOK, f.get("/u/company/1/dashboard").Code)
		require.Equal(t, []string{"1", "1"}, f.companies.GetCalls())
	})

	t.Run("same company is fetched once", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)
		require.Equal(t, http.StatusOK, f.get("/u/company/1/dashboard").Code)
		require.Equal(t, http.StatusOK, f.get("/u/company/1/legal-cases").Code)
		require.Equal(t, []string{"1"}, f.companies.GetCalls())
	})
}

func TestServer_CrossSiteRequests(t *testing.T) {
	t.Run("logout from another site", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		rec := f.postWithHeaders("/auth/logout", nil, map[string]string{"Origin": "https://attacker.example"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.True(t, f.manager.State().Authenticated())

		rec = f.postWithHeaders("/auth/logout", nil, map[string]string{"Sec-Fetch-Site": "cross-site"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.True(t, f.manager.State().Authenticated())
	})

	t.Run("login from another site", func(t *testing.T) {
		f := setupTestFixture(t)
		f.resolve(t)

		rec := f.postWithHeaders("/auth/login", url.Values{"username": {"alice"}, "password": {"secret"}},
			map[string]string{"Origin": "null"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.False(t, f.manager.State().Authenticated())
		require.Equal(t, []string{"refresh"}, f.auth.Calls())
	})

	t.Run("same origin is accepted", func(t *testing.T) {
		f := setupTestFixture(t)
		f.login(t)

		// httptest requests target example.com.
		rec := f.postWithHeaders("/auth/logout", nil, map[string]string{
			"Origin":         "http://example.com",
			"Sec-Fetch-Site": "same-origin",
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.False(t, f.manager.State().Authenticated())
	})

	t.Run("page loads are not affected", func(t *testing.T) {
		f := setupTestFixture(t)
		f.resolve(t)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_CreateCompany(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	rec := f.post("/u/companies", url.Values{"name": {"Beta"}, "cnpj": {"123"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "cnpj must be between 14 and 18 characters")

	rec = f.post("/u/companies", url.Values{"name": {"Beta Precatórios"}, "cnpj": {"98.765.432/0001-10"}, "is_active": {"true"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	mine, err := f.companies.ListMine(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestServer_CreateLegalCase(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	rec := f.get("/u/company/1/legal-cases/new")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/u/company/1/legal-cases"`)

	rec = f.post("/u/company/1/legal-cases", url.Values{
		"legal_case_number":   {"00012345620208260100"},
		"state":               {"SP"},
		"court":               {""},
		"case_value":          {"1.234,56"},
		"attorney_fees_value": {"abc"},
		"filing_date":         {"2020-02-03"},
		"client_name":         {"Maria", "", ""},
		"client_cpf":          {"", "123.456.789-00", ""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/u/company/1/legal-cases", rec.Header().Get("Location"))

	cases, err := f.legalCases.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	lc := cases[0]
	require.Equal(t, "1", utils.Value(lc.CompanyID))
	require.Equal(t, "SP", utils.Value(lc.State))
	require.Nil(t, lc.Court)
	require.Equal(t, 1234.56, utils.Value(lc.CaseValue))
	require.Nil(t, lc.AttorneyFeesValue)
	require.Equal(t, "2020-02-03", lc.FilingDate.String())
	require.Equal(t, []legalcases.Client{{Name: "Maria"}, {CPF: "123.456.789-00"}}, lc.Clients)

	t.Run("errors keep the form", func(t *testing.T) {
		rec := f.post("/u/company/1/legal-cases", url.Values{"state": {"RJ"}})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "legal_case_number is required")
		require.Contains(t, rec.Body.String(), `value="RJ"`)

		rec = f.post("/u/company/1/legal-cases", url.Values{"legal_case_number": {"1"}, "citation_date": {"03/02/2020"}})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "citation_date")
	})
}

func TestServer_LegalCaseView(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	lc, err := f.legalCases.Create(context.Background(), &legalcases.LegalCase{
		LegalCaseNumber: "00012345620208260100",
		CompanyID:       utils.Ptr("1"),
		CaseSubject:     utils.Ptr("Danos morais"),
	})
	require.NoError(t, err)
	_, err = f.calculations.Create(context.Background(), &calculations.LegalCalculation{
		LegalCaseID:            lc.ID,
		CalculationType:        utils.Ptr("moral"),
		MoralTotalUpdatedValue: utils.Ptr(1000.5),
	})
	require.NoError(t, err)

	rec := f.get("/u/company/1/legal-cases/" + lc.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Processo 0001234-56.2020.8.26.0100")
	require.Contains(t, body, "Danos morais")
	require.Contains(t, body, "1.000,50")

	t.Run("calculations failing does not hide the case", func(t *testing.T) {
		f.calculations.SetListError(&connectionReset{})
		defer f.calculations.SetListError(nil)
		rec := f.get("/u/company/1/legal-cases/" + lc.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Erro ao carregar cálculos")
	})

	t.Run("case of another company", func(t *testing.T) {
		f.companies.Upsert(&companies.Company{ID: "2", Name: "Beta", CNPJ: "98765432000110"})
		rec := f.get("/u/company/2/legal-cases/" + lc.ID)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown case", func(t *testing.T) {
		rec := f.get("/u/company/1/legal-cases/8d7c5a8e-4e3b-4a0f-9a4e-2b1f0c9d8e7f")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Legal case not found")
	})
}

func TestServer_EditLegalCase(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	lc, err := f.legalCases.Create(context.Background(), &legalcases.LegalCase{
		LegalCaseNumber: "00012345620208260100",
		CompanyID:       utils.Ptr("1"),
		State:           utils.Ptr("SP"),
		CaseValue:       utils.Ptr(1500.25),
		Clients:         []legalcases.Client{{Name: "Maria", CPF: "123.456.789-00"}},
	})
	require.NoError(t, err)
	casePath := "/u/company/1/legal-cases/" + lc.ID

	rec := f.get(casePath)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `href="`+casePath+`/edit"`)
	require.Contains(t, rec.Body.String(), `action="`+casePath+`/delete"`)

	rec = f.get(casePath + "/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `action="`+casePath+`"`)
	require.Contains(t, body, `value="SP"`)
	require.Contains(t, body, `value="1500.25"`)
	require.Contains(t, body, `value="Maria"`)

	t.Run("invalid form keeps the values", func(t *testing.T) {
		rec := f.post(casePath, url.Values{"legal_case_number": {""}, "state": {"RJ"}})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), `value="RJ"`)

		stored, err := f.legalCases.Get(context.Background(), lc.ID)
		require.NoError(t, err)
		require.Equal(t, "SP", utils.Value(stored.State))
	})

	rec = f.post(casePath, url.Values{
		"legal_case_number": {"00012345620208260100"},
		"state":             {"RJ"},
		"case_value":        {"2.000,00"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, casePath, rec.Header().Get("Location"))

	stored, err := f.legalCases.Get(context.Background(), lc.ID)
	require.NoError(t, err)
	require.Equal(t, "RJ", utils.Value(stored.State))
	require.Equal(t, 2000.0, utils.Value(stored.CaseValue))
	require.Equal(t, "1", utils.Value(stored.CompanyID))
	require.Empty(t, stored.Clients)

	t.Run("case of another company cannot be changed", func(t *testing.T) {
		f.companies.Upsert(&companies.Company{ID: "2", Name: "Beta", CNPJ: "98765432000110"})
		rec := f.post("/u/company/2/legal-cases/"+lc.ID+"/delete", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		_, err := f.legalCases.Get(context.Background(), lc.ID)
		require.NoError(t, err)
	})

	rec = f.post(casePath+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/u/company/1/legal-cases", rec.Header().Get("Location"))
	_, err = f.legalCases.Get(context.Background(), lc.ID)
	require.Error(t, err)

	require.Equal(t, http.StatusNotFound, f.get(casePath+"/edit").Code)
}

// connectionReset is a failure carrying no server message.
type connectionReset struct{}

func (*connectionReset) Error() string { return "connection reset" }

func TestServer_Assets(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.get("/css/console.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	require.Equal(t, http.StatusNotFound, f.get("/css/missing.css").Code)

	f.resolve(t)
	rec = f.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "legalcase_console_session_phase")
	require.Contains(t, body, "legalcase_console_http_requests_total")
	require.Contains(t, body, "legalcase_console_http_request_duration_seconds")
}

func TestServer_SecurityHeaders(t *testing.T) {
	f := setupTestFixture(t)
	f.resolve(t)

	rec := f.get("/login")
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
