package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/jrsteele09/legalcase-console/users"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	layoutTemplate  = "layout.html"
)

// Page templates, each rendered inside layout.html
const (
	pageLoading      = "loading.html"
	pageStatus       = "status.html"
	pageLogin        = "login.html"
	pageCompanies    = "companies.html"
	pageDashboard    = "dashboard.html"
	pageLegalCases   = "legal_cases.html"
	pageLegalCaseNew = "legal_case_new.html"
	pageLegalCase    = "legal_case.html"
)

//go:embed templates/*
var templateFiles embed.FS

// pages holds every parsed page by file name.
type pages map[string]*template.Template

var templateFuncs = template.FuncMap{
	"caseNumber":     legalcases.FormatCaseNumber,
	"str":            stringValue,
	"num":            numberValue,
	"date":           dateValue,
	"dashboardPath":  companyDashboardPath,
	"legalCasesPath": companyLegalCasesPath,
	"legalCasePath":  legalCasePath,
	"indexTypes":     calculations.MonetaryIndexTypes,
	"interestTypes":  calculations.InterestIndexTypes,
	"total": func(c *calculations.LegalCalculation) string {
		v := c.TotalUpdatedValue()
		return numberValue(&v)
	},
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with the layout it renders in
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

func parsePages() (pages, error) {
	p := make(pages)
	for _, name := range []string{pageLoading, pageStatus, pageLogin, pageCompanies, pageDashboard, pageLegalCases, pageLegalCaseNew, pageLegalCase} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		p[name] = tmpl
	}
	return p, nil
}

// PageData is what the layout needs on every page.
type PageData struct {
	AppName       string
	Title         string
	Authenticated bool
	User          *users.User
	Company       *companies.Company
	Error         string
	RequestID     string
}

func (s *Server) pageData(r *http.Request, title string) PageData {
	state := s.session.State()
	data := PageData{
		AppName:       s.appName,
		Title:         title,
		Authenticated: state.Authenticated(),
		User:          state.User,
		RequestID:     requestID(r),
	}
	if tc, ok := tenants.FromContext(r.Context()); ok {
		data.Company = tc.Tenant
	}
	return data
}

// render executes a page into a buffer first so a template failure never
// leaves a half written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, pages pages, name string, status int, data any) {
	tmpl, ok := pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown page template")
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		log.Err(err).Str("template", name).Str("request_id", requestID(r)).Msg("Failed to render page")
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderLoading(w http.ResponseWriter, r *http.Request, pages pages) {
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Cache-Control", "no-store")
	s.render(w, r, pages, pageLoading, http.StatusServiceUnavailable, PageData{AppName: s.appName, Title: "Carregando"})
}

// StatusPageData is a page carrying only a message.
type StatusPageData struct {
	PageData
	Heading string
	Message string
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, pages pages, status int, heading, message string) {
	s.render(w, r, pages, pageStatus, status, StatusPageData{
		PageData: s.pageData(r, heading),
		Heading:  heading,
		Message:  message,
	})
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// numberValue renders a monetary or percentage value with Brazilian
// separators, "—" when absent.
func numberValue(v *float64) string {
	if v == nil {
		return "—"
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

func dateValue(d *legalcases.Date) string {
	if d == nil || d.IsZero() {
		return "—"
	}
	return d.Format("02/01/2006")
}
