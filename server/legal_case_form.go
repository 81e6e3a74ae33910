package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/legalcase-console/internal/utils"
	"github.com/jrsteele09/legalcase-console/legalcases"
)

// Form field names, matching the API's JSON keys.
var (
	legalCaseTextFields = map[string]func(*legalcases.LegalCase) **string{
		"case_subject":                     func(lc *legalcases.LegalCase) **string { return &lc.CaseSubject },
		"state":                            func(lc *legalcases.LegalCase) **string { return &lc.State },
		"jurisdiction":                     func(lc *legalcases.LegalCase) **string { return &lc.Jurisdiction },
		"judicial_district":                func(lc *legalcases.LegalCase) **string { return &lc.JudicialDistrict },
		"court":                            func(lc *legalcases.LegalCase) **string { return &lc.Court },
		"defendant":                        func(lc *legalcases.LegalCase) **string { return &lc.Defendant },
		"attorney":                         func(lc *legalcases.LegalCase) **string { return &lc.Attorney },
		"status":                           func(lc *legalcases.LegalCase) **string { return &lc.Status },
		"assignee_from_juridical_team_id":  func(lc *legalcases.LegalCase) **string { return &lc.AssigneeFromJuridicalTeamID },
		"assignee_from_litigation_team_id": func(lc *legalcases.LegalCase) **string { return &lc.AssigneeFromLitigationTeamID },
		"moral_index_type":                 func(lc *legalcases.LegalCase) **string { return &lc.MoralIndexType },
		"moral_interest_index_type":        func(lc *legalcases.LegalCase) **string { return &lc.MoralInterestIndexType },
		"material_index_type":              func(lc *legalcases.LegalCase) **string { return &lc.MaterialIndexType },
		"material_interest_index_type":     func(lc *legalcases.LegalCase) **string { return &lc.MaterialInterestIndexType },
		"material_resolution":              func(lc *legalcases.LegalCase) **string { return &lc.MaterialResolution },
		"material_interest_multiplier":     func(lc *legalcases.LegalCase) **string { return &lc.MaterialInterestMultiplier },
		"case_value_basis":                 func(lc *legalcases.LegalCase) **string { return &lc.CaseValueBasis },
	}

	legalCaseNumberFields = map[string]func(*legalcases.LegalCase) **float64{
		"case_value":                             func(lc *legalcases.LegalCase) **float64 { return &lc.CaseValue },
		"attorney_fees_value":                    func(lc *legalcases.LegalCase) **float64 { return &lc.AttorneyFeesValue },
		"percentage_contractual_attorney_fees":   func(lc *legalcases.LegalCase) **float64 { return &lc.PercentageContractualAttorneyFees },
		"percentage_court_awarded_attorney_fees": func(lc *legalcases.LegalCase) **float64 { return &lc.PercentageCourtAwardedAttorneyFees },
		"proportion_court_awarded_attorney_fees": func(lc *legalcases.LegalCase) **float64 { return &lc.ProportionCourtAwardedAttorneyFees },
		"nominal_moral_damage":                   func(lc *legalcases.LegalCase) **float64 { return &lc.NominalMoralDamage },
		"nominal_material_damage":                func(lc *legalcases.LegalCase) **float64 { return &lc.NominalMaterialDamage },
		"first_installment_amount":               func(lc *legalcases.LegalCase) **float64 { return &lc.FirstInstallmentAmount },
		"last_installment_amount":                func(lc *legalcases.LegalCase) **float64 { return &lc.LastInstallmentAmount },
	}

	legalCaseDateFields = map[string]func(*legalcases.LegalCase) **legalcases.Date{
		"filing_date":                  func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.FilingDate },
		"final_judgment_date":          func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.FinalJudgmentDate },
		"citation_date":                func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.CitationDate },
		"damage_event_date":            func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.DamageEventDate },
		"judgment_date":                func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.JudgmentDate },
		"appellate_decision_date":      func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.AppellateDecisionDate },
		"moral_index_start_date":       func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MoralIndexStartDate },
		"moral_interest_start_date":    func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MoralInterestStartDate },
		"moral_end_date":               func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MoralEndDate },
		"material_index_start_date":    func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MaterialIndexStartDate },
		"material_interest_start_date": func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MaterialInterestStartDate },
		"material_end_date":            func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.MaterialEndDate },
		"first_installment_date":       func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.FirstInstallmentDate },
		"last_installment_date":        func(lc *legalcases.LegalCase) **legalcases.Date { return &lc.LastInstallmentDate },
	}
)

// legalCaseFromForm builds the create payload. Blank fields are left out,
// numbers that do not parse are dropped, clients are kept when they have a
// name or a CPF, and the case is filed under companyID. Only a malformed
// date is reported back.
func legalCaseFromForm(form url.Values, companyID string) (*legalcases.LegalCase, error) {
	lc := &legalcases.LegalCase{
		LegalCaseNumber: strings.TrimSpace(form.Get("legal_case_number")),
	}
	if companyID != "" {
		lc.CompanyID = utils.Ptr(companyID)
	}

	for name, field := range legalCaseTextFields {
		if v := strings.TrimSpace(form.Get(name)); v != "" {
			*field(lc) = utils.Ptr(v)
		}
	}

	for name, field := range legalCaseNumberFields {
		if n, ok := parseNumber(form.Get(name)); ok {
			*field(lc) = utils.Ptr(n)
		}
	}

	for name, field := range legalCaseDateFields {
		v := strings.TrimSpace(form.Get(name))
		if v == "" {
			continue
		}
		d, err := legalcases.ParseDate(v)
		if err != nil {
			return lc, fmt.Errorf("data inválida em %s: %q", name, v)
		}
		*field(lc) = &d
	}

	names := form["client_name"]
	cpfs := form["client_cpf"]
	for i := 0; i < max(len(names), len(cpfs)); i++ {
		c := legalcases.Client{}
		if i < len(names) {
			c.Name = strings.TrimSpace(names[i])
		}
		if i < len(cpfs) {
			c.CPF = strings.TrimSpace(cpfs[i])
		}
		if c.Name != "" || c.CPF != "" {
			lc.Clients = append(lc.Clients, c)
		}
	}
	return lc, nil
}

// legalCaseFormValues is the inverse of legalCaseFromForm, used to fill the
// edit form.
func legalCaseFormValues(lc *legalcases.LegalCase) url.Values {
	values := url.Values{}
	values.Set("legal_case_number", lc.LegalCaseNumber)
	for name, field := range legalCaseTextFields {
		if v := *field(lc); v != nil {
			values.Set(name, *v)
		}
	}
	for name, field := range legalCaseNumberFields {
		if v := *field(lc); v != nil {
			values.Set(name, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	for name, field := range legalCaseDateFields {
		if v := *field(lc); v != nil && !v.IsZero() {
			values.Set(name, v.String())
		}
	}
	for _, c := range lc.Clients {
		values.Add("client_name", c.Name)
		values.Add("client_cpf", c.CPF)
	}
	return values
}

// parseNumber accepts "1234.5" as well as the Brazilian "1.234,5".
func parseNumber(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
