package calculations

import "github.com/jrsteele09/legalcase-console/legalcases"

// MonetaryIndexType is the inflation index used to correct a damage value.
type MonetaryIndexType string

const (
	IndexIPCA  MonetaryIndexType = "IPCA"
	IndexINPC  MonetaryIndexType = "INPC"
	IndexIGPM  MonetaryIndexType = "IGP-M"
	IndexOther MonetaryIndexType = "OTHER"
)

// InterestIndexType is the interest regime applied to a damage value.
type InterestIndexType string

const (
	InterestOnePercent InterestIndexType = "1_PERCENT" // juros de mora 1%
	InterestSelic      InterestIndexType = "SELIC"
	InterestLegalRate  InterestIndexType = "LEGAL_RATE"
	InterestOther      InterestIndexType = "OTHER"
)

// MonetaryIndexTypes lists the index types the API accepts, in display order.
func MonetaryIndexTypes() []string {
	return []string{string(IndexIPCA), string(IndexINPC), string(IndexIGPM), string(IndexOther)}
}

func InterestIndexTypes() []string {
	return []string{string(InterestOnePercent), string(InterestSelic), string(InterestLegalRate), string(InterestOther)}
}

// LegalCalculation is an updated valuation of a legal case's damages,
// computed by the API.
type LegalCalculation struct {
	ID              string           `json:"id,omitempty"`
	LegalCaseID     string           `json:"legal_case_id,omitempty"`
	CreatedByID     *string          `json:"created_by_id,omitempty"`
	CalculationType *string          `json:"calculation_type,omitempty"` // moral, material, ...
	CalculationDate *legalcases.Date `json:"calculation_date,omitempty"`
	Description     *string          `json:"description,omitempty"`

	NumberOfPayments *int              `json:"number_of_payments,omitempty"`
	PaymentDates     []legalcases.Date `json:"payment_dates,omitempty"`
	PaymentAmounts   []float64         `json:"payment_amounts,omitempty"`

	NominalMoralDamage            *float64           `json:"nominal_moral_damage,omitempty"`
	MoralInterestStartDate        *legalcases.Date   `json:"moral_interest_start_date,omitempty"`
	MoralIndexStartDate           *legalcases.Date   `json:"moral_index_start_date,omitempty"`
	MoralEndDate                  *legalcases.Date   `json:"moral_end_date,omitempty"`
	MoralIndexType                *MonetaryIndexType `json:"moral_index_type,omitempty"`
	MoralInterestIndexType        *InterestIndexType `json:"moral_interest_index_type,omitempty"`
	CorrectedMoralValue           *float64           `json:"corrected_moral_value,omitempty"`
	MoralInterestValue            *float64           `json:"moral_interest_value,omitempty"`
	MoralTotalUpdatedValue        *float64           `json:"moral_total_updated_value,omitempty"`
	AccumulatedMoralIndex         *float64           `json:"accumulated_moral_index,omitempty"`
	AccumulatedMoralInterest1Pct  *float64           `json:"accumulated_moral_interest_1pct,omitempty"`
	AccumulatedMoralInterestSelic *float64           `json:"accumulated_moral_interest_selic,omitempty"`
	AccumulatedMoralInterestLegal *float64           `json:"accumulated_moral_interest_legal,omitempty"`

	NominalMaterialDamage     *float64           `json:"nominal_material_damage,omitempty"`
	MaterialInterestStartDate *legalcases.Date   `json:"material_interest_start_date,omitempty"`
	MaterialIndexStartDate    *legalcases.Date   `json:"material_index_start_date,omitempty"`
	MaterialEndDate           *legalcases.Date   `json:"material_end_date,omitempty"`
	MaterialIndexType         *MonetaryIndexType `json:"material_index_type,omitempty"`
	MaterialInterestIndexType *InterestIndexType `json:"material_interest_index_type,omitempty"`
	CorrectedMaterialValue    *float64           `json:"corrected_material_value,omitempty"`
	MaterialInterestValue     *float64           `json:"material_interest_value,omitempty"`
	MaterialTotalUpdatedValue *float64           `json:"material_total_updated_value,omitempty"`

	CreatedAt *legalcases.Date `json:"created_at,omitempty"`
	UpdatedAt *legalcases.Date `json:"updated_at,omitempty"`
}

// TotalUpdatedValue sums the updated moral and material totals.
func (c *LegalCalculation) TotalUpdatedValue() float64 {
	var total float64
	if c.MoralTotalUpdatedValue != nil {
		total += *c.MoralTotalUpdatedValue
	}
	if c.MaterialTotalUpdatedValue != nil {
		total += *c.MaterialTotalUpdatedValue
	}
	return total
}
