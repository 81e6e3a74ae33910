package legalcases

import (
	"fmt"
	"strings"
	"unicode"
)

// Client is a party represented in a legal case.
type Client struct {
	Name string `json:"name"`
	CPF  string `json:"cpf"`
}

// LegalCase is a lawsuit whose credit is being purchased. Optional fields
// are pointers so that absent values stay absent on the wire.
type LegalCase struct {
	ID               string   `json:"id,omitempty"`
	CompanyID        *string  `json:"company_id,omitempty"`
	LegalCaseNumber  string   `json:"legal_case_number"`
	CaseSubject      *string  `json:"case_subject,omitempty"`
	State            *string  `json:"state,omitempty"`
	Jurisdiction     *string  `json:"jurisdiction,omitempty"`
	JudicialDistrict *string  `json:"judicial_district,omitempty"`
	Court            *string  `json:"court,omitempty"`
	Defendant        *string  `json:"defendant,omitempty"`
	Attorney         *string  `json:"attorney,omitempty"`
	Clients          []Client `json:"clients,omitempty"`
	Status           *string  `json:"status,omitempty"`

	AssigneeFromJuridicalTeamID  *string `json:"assignee_from_juridical_team_id,omitempty"`
	AssigneeFromLitigationTeamID *string `json:"assignee_from_litigation_team_id,omitempty"`

	// Juridical dates
	FilingDate            *Date `json:"filing_date,omitempty"`
	FinalJudgmentDate     *Date `json:"final_judgment_date,omitempty"`
	CitationDate          *Date `json:"citation_date,omitempty"`
	DamageEventDate       *Date `json:"damage_event_date,omitempty"`
	JudgmentDate          *Date `json:"judgment_date,omitempty"`
	AppellateDecisionDate *Date `json:"appellate_decision_date,omitempty"`

	// Moral (non-pecuniary) damage
	NominalMoralDamage     *float64 `json:"nominal_moral_damage,omitempty"`
	MoralIndexStartDate    *Date    `json:"moral_index_start_date,omitempty"`
	MoralInterestStartDate *Date    `json:"moral_interest_start_date,omitempty"`
	MoralIndexType         *string  `json:"moral_index_type,omitempty"`
	MoralInterestIndexType *string  `json:"moral_interest_index_type,omitempty"`
	MoralEndDate           *Date    `json:"moral_end_date,omitempty"`

	// Material (pecuniary) damage
	NominalMaterialDamage     *float64 `json:"nominal_material_damage,omitempty"`
	MaterialIndexStartDate    *Date    `json:"material_index_start_date,omitempty"`
	MaterialInterestStartDate *Date    `json:"material_interest_start_date,omitempty"`
	MaterialIndexType         *string  `json:"material_index_type,omitempty"`
	MaterialInterestIndexType *string  `json:"material_interest_index_type,omitempty"`
	MaterialEndDate           *Date    `json:"material_end_date,omitempty"`

	// Material installments and resolution
	FirstInstallmentDate       *Date    `json:"first_installment_date,omitempty"`
	LastInstallmentDate        *Date    `json:"last_installment_date,omitempty"`
	FirstInstallmentAmount     *float64 `json:"first_installment_amount,omitempty"`
	LastInstallmentAmount      *float64 `json:"last_installment_amount,omitempty"`
	MaterialResolution         *string  `json:"material_resolution,omitempty"`          // ANULADO / CONVERTIDO
	MaterialInterestMultiplier *string  `json:"material_interest_multiplier,omitempty"` // SIMPLES / DOBRADO

	// Case value and fees
	CaseValueBasis                     *string  `json:"case_value_basis,omitempty"` // CONDEMNATION_AMOUNT / CLAIM_AMOUNT / SPECIFIED_AMOUNT
	CaseValue                          *float64 `json:"case_value,omitempty"`
	AttorneyFeesValue                  *float64 `json:"attorney_fees_value,omitempty"`
	PercentageContractualAttorneyFees  *float64 `json:"percentage_contractual_attorney_fees,omitempty"`
	PercentageCourtAwardedAttorneyFees *float64 `json:"percentage_court_awarded_attorney_fees,omitempty"`
	ProportionCourtAwardedAttorneyFees *float64 `json:"proportion_court_awarded_attorney_fees,omitempty"`
}

// Validate checks the fields the API requires on create and update.
func (lc *LegalCase) Validate() error {
	if strings.TrimSpace(lc.LegalCaseNumber) == "" {
		return fmt.Errorf("legal_case_number is required")
	}
	for i, c := range lc.Clients {
		if strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.CPF) == "" {
			return fmt.Errorf("client %d is empty", i+1)
		}
	}
	return nil
}

// BelongsTo reports whether the case was filed under companyID. Cases
// without a company are shown under every company.
func (lc *LegalCase) BelongsTo(companyID string) bool {
	return lc.CompanyID == nil || *lc.CompanyID == "" || *lc.CompanyID == companyID
}

// FormattedNumber renders the case number in CNJ notation
// (NNNNNNN-DD.AAAA.J.TR.OOOO) when it holds exactly 20 digits.
func (lc *LegalCase) FormattedNumber() string {
	return FormatCaseNumber(lc.LegalCaseNumber)
}

// FormatCaseNumber formats a CNJ case number, returning the input untouched
// when it is not a 20 digit number.
func FormatCaseNumber(number string) string {
	if strings.TrimSpace(number) == "" {
		return "—"
	}
	var b strings.Builder
	for _, r := range number {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) != 20 {
		return number
	}
	return fmt.Sprintf("%s-%s.%s.%s.%s.%s", d[0:7], d[7:9], d[9:13], d[13:14], d[14:16], d[16:20])
}

// FilterByCompany keeps the cases belonging to companyID.
func FilterByCompany(cases []*LegalCase, companyID string) []*LegalCase {
	out := make([]*LegalCase, 0, len(cases))
	for _, lc := range cases {
		if lc.BelongsTo(companyID) {
			out = append(out, lc)
		}
	}
	return out
}

// CountByStatus groups cases by status; cases without one count as "".
func CountByStatus(cases []*LegalCase) map[string]int {
	counts := make(map[string]int)
	for _, lc := range cases {
		status := ""
		if lc.Status != nil {
			status = *lc.Status
		}
		counts[status]++
	}
	return counts
}
