package companies

import (
	"fmt"
	"strings"
	"unicode"
)

// Company is the tenant that scopes legal cases.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CNPJ     string `json:"cnpj"`
	IsActive bool   `json:"is_active"`
}

// CompanyCreate is the body of a create request.
type CompanyCreate struct {
	Name     string `json:"name"`
	CNPJ     string `json:"cnpj"`
	IsActive bool   `json:"is_active"`
}

// CompanyUpdate carries only the fields being changed.
type CompanyUpdate struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate checks the constraints the API enforces on a new company.
// The CNPJ may be sent formatted ("12.345.678/0001-90") or as bare digits.
func (c CompanyCreate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	cnpj := strings.TrimSpace(c.CNPJ)
	if len(cnpj) < 14 || len(cnpj) > 18 {
		return fmt.Errorf("cnpj must be between 14 and 18 characters")
	}
	digits := 0
	for _, r := range cnpj {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == '/' || r == '-':
		default:
			return fmt.Errorf("cnpj contains invalid character %q", r)
		}
	}
	if digits != 14 {
		return fmt.Errorf("cnpj must contain 14 digits")
	}
	return nil
}
