package server

import "net/url"

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"

	// Auth Routes - Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Company selection
	RouteCompanies = "/u/companies"

	// Company scoped routes
	RouteCompanyDashboard  = "/u/company/{company_id}/dashboard"
	RouteCompanyLegalCases = "/u/company/{company_id}/legal-cases"
	RouteLegalCaseNew      = "/u/company/{company_id}/legal-cases/new"
	RouteLegalCase         = "/u/company/{company_id}/legal-cases/{legal_case_id}"
	RouteLegalCaseEdit     = "/u/company/{company_id}/legal-cases/{legal_case_id}/edit"
	RouteLegalCaseDelete   = "/u/company/{company_id}/legal-cases/{legal_case_id}/delete"

	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

// Path builders for redirects and links.

func companyDashboardPath(companyID string) string {
	return "/u/company/" + url.PathEscape(companyID) + "/dashboard"
}

func companyLegalCasesPath(companyID string) string {
	return "/u/company/" + url.PathEscape(companyID) + "/legal-cases"
}

func legalCasePath(companyID, legalCaseID string) string {
	return companyLegalCasesPath(companyID) + "/" + url.PathEscape(legalCaseID)
}
