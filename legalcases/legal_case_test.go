package legalcases_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/legalcase-console/internal/utils"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/stretchr/testify/require"
)

func TestFormatCaseNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   string
	}{
		{"bare digits", "00012345620208260100", "0001234-56.2020.8.26.0100"},
		{"already formatted", "0001234-56.2020.8.26.0100", "0001234-56.2020.8.26.0100"},
		{"too short", "12345", "12345"},
		{"blank", "  ", "—"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, legalcases.FormatCaseNumber(tt.number))
		})
	}
}

func TestLegalCase_Validate(t *testing.T) {
	lc := &legalcases.LegalCase{}
	require.Error(t, lc.Validate())

	lc.LegalCaseNumber = "00012345620208260100"
	require.NoError(t, lc.Validate())

	lc.Clients = []legalcases.Client{{Name: "Maria"}, {}}
	require.Error(t, lc.Validate())
}

func TestFilterByCompany(t *testing.T) {
	cases := []*legalcases.LegalCase{
		{ID: "a", CompanyID: utils.Ptr("1")},
		{ID: "b", CompanyID: utils.Ptr("2")},
		{ID: "c"},
	}
	filtered := legalcases.FilterByCompany(cases, "1")
	require.Len(t, filtered, 2)
	require.Equal(t, "a", filtered[0].ID)
	require.Equal(t, "c", filtered[1].ID)
}

func TestCountByStatus(t *testing.T) {
	counts := legalcases.CountByStatus([]*legalcases.LegalCase{
		{Status: utils.Ptr("open")},
		{Status: utils.Ptr("open")},
		{},
	})
	require.Equal(t, map[string]int{"open": 2, "": 1}, counts)
}

func TestDate_JSON(t *testing.T) {
	var lc legalcases.LegalCase
	err := json.Unmarshal([]byte(`{"legal_case_number":"1","filing_date":"2021-03-04","citation_date":"2021-05-06T10:00:00","judgment_date":null}`), &lc)
	require.NoError(t, err)
	require.Equal(t, "2021-03-04", lc.FilingDate.String())
	require.Equal(t, "2021-05-06", lc.CitationDate.String())

	data, err := json.Marshal(struct {
		D legalcases.Date `json:"d"`
	}{D: *lc.FilingDate})
	require.NoError(t, err)
	require.JSONEq(t, `{"d":"2021-03-04"}`, string(data))

	_, err = legalcases.ParseDate("04/03/2021")
	require.Error(t, err)
}
