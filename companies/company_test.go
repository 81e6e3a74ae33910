package companies_test

import (
	"testing"

	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/stretchr/testify/require"
)

func TestCompanyCreate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		create  companies.CompanyCreate
		wantErr string
	}{
		{"formatted cnpj", companies.CompanyCreate{Name: "Acme", CNPJ: "12.345.678/0001-90"}, ""},
		{"bare cnpj", companies.CompanyCreate{Name: "Acme", CNPJ: "12345678000190"}, ""},
		{"missing name", companies.CompanyCreate{CNPJ: "12345678000190"}, "name is required"},
		{"short cnpj", companies.CompanyCreate{Name: "Acme", CNPJ: "1234"}, "between 14 and 18"},
		{"letters", companies.CompanyCreate{Name: "Acme", CNPJ: "12.345.678/000A-90"}, "invalid character"},
		{"wrong digit count", companies.CompanyCreate{Name: "Acme", CNPJ: "12.345.678/0001-9"}, "14 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
