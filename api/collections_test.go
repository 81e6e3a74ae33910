package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/legalcase-console/api"
	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/internal/utils"
	"github.com/jrsteele09/legalcase-console/legalcases"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// recordingAPI answers every request with a canned record and remembers
// what it was sent.
type recordingAPI struct {
	lock     sync.Mutex
	requests []recordedRequest
}

func newRecordingAPI(t *testing.T) (*recordingAPI, *api.Client) {
	t.Helper()
	rec := &recordingAPI{}
	srv := httptest.NewServer(http.HandlerFunc(rec.serve))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, "/api/v1")
	require.NoError(t, err)
	return rec, client
}

func (a *recordingAPI) serve(w http.ResponseWriter, r *http.Request) {
	req := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}
	a.lock.Lock()
	a.requests = append(a.requests, req)
	a.lock.Unlock()

	switch {
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/"):
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "a"}, {"id": "b"}})
	default:
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "name": "Acme", "legal_case_number": "1"})
	}
}

func (a *recordingAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	a.lock.Lock()
	defer a.lock.Unlock()
	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

func (a *recordingAPI) count() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return len(a.requests)
}

func TestCompanies_Collection(t *testing.T) {
	rec, client := newRecordingAPI(t)
	ctx := context.Background()

	t.Run("list pages with skip and limit", func(t *testing.T) {
		list, err := client.Companies().List(ctx, 20, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)

		got := rec.last(t)
		require.Equal(t, http.MethodGet, got.Method)
		require.Equal(t, "/api/v1/companies/", got.Path)
		require.Equal(t, "limit=10&skip=20", got.Query)
	})

	t.Run("update sends only the changed fields", func(t *testing.T) {
		company, err := client.Companies().Update(ctx, "c1", companies.CompanyUpdate{Name: utils.Ptr("Nova Acme")})
		require.NoError(t, err)
		require.Equal(t, "c1", company.ID)

		got := rec.last(t)
		require.Equal(t, http.MethodPut, got.Method)
		require.Equal(t, "/api/v1/companies/c1", got.Path)
		require.Equal(t, map[string]any{"name": "Nova Acme"}, got.Body)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.Companies().Delete(ctx, "c1"))

		got := rec.last(t)
		require.Equal(t, http.MethodDelete, got.Method)
		require.Equal(t, "/api/v1/companies/c1", got.Path)
	})

	t.Run("empty id never reaches the API", func(t *testing.T) {
		before := rec.count()
		_, err := client.Companies().Update(ctx, "", companies.CompanyUpdate{})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.ErrorIs(t, client.Companies().Delete(ctx, ""), errors.ErrInvalidRequest)
		require.Equal(t, before, rec.count())
	})
}

func TestLegalCases_Collection(t *testing.T) {
	rec, client := newRecordingAPI(t)
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("update", func(t *testing.T) {
		updated, err := client.LegalCases().Update(ctx, id, &legalcases.LegalCase{
			LegalCaseNumber: "00012345620208260100",
			State:           utils.Ptr("RJ"),
		})
		require.NoError(t, err)
		require.Equal(t, id, updated.ID)

		got := rec.last(t)
		require.Equal(t, http.MethodPut, got.Method)
		require.Equal(t, "/api/v1/legal-cases/"+id, got.Path)
		require.Equal(t, "RJ", got.Body["state"])
		require.Equal(t, "00012345620208260100", got.Body["legal_case_number"])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.LegalCases().Delete(ctx, id))

		got := rec.last(t)
		require.Equal(t, http.MethodDelete, got.Method)
		require.Equal(t, "/api/v1/legal-cases/"+id, got.Path)
	})

	t.Run("rejected before dispatch", func(t *testing.T) {
		before := rec.count()
		_, err := client.LegalCases().Update(ctx, "not-a-uuid", &legalcases.LegalCase{LegalCaseNumber: "1"})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		_, err = client.LegalCases().Update(ctx, id, &legalcases.LegalCase{})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.ErrorIs(t, client.LegalCases().Delete(ctx, "../companies/1"), errors.ErrInvalidRequest)
		require.Equal(t, before, rec.count())
	})
}

func TestCalculations_Collection(t *testing.T) {
	rec, client := newRecordingAPI(t)
	ctx := context.Background()
	id := uuid.NewString()
	legalCaseID := uuid.NewString()

	t.Run("list", func(t *testing.T) {
		list, err := client.Calculations().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)

		got := rec.last(t)
		require.Equal(t, http.MethodGet, got.Method)
		require.Equal(t, "/api/v1/legal-calculations/", got.Path)
	})

	t.Run("list by legal case", func(t *testing.T) {
		_, err := client.Calculations().ListByLegalCase(ctx, legalCaseID)
		require.NoError(t, err)
		require.Equal(t, "/api/v1/legal-calculations/calculations-by-legal-case/"+legalCaseID, rec.last(t).Path)
	})

	t.Run("get", func(t *testing.T) {
		calc, err := client.Calculations().Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, id, calc.ID)

		got := rec.last(t)
		require.Equal(t, http.MethodGet, got.Method)
		require.Equal(t, "/api/v1/legal-calculations/"+id, got.Path)
	})

	t.Run("create", func(t *testing.T) {
		_, err := client.Calculations().Create(ctx, &calculations.LegalCalculation{
			LegalCaseID:        legalCaseID,
			CalculationType:    utils.Ptr("moral"),
			NominalMoralDamage: utils.Ptr(10000.0),
		})
		require.NoError(t, err)

		got := rec.last(t)
		require.Equal(t, http.MethodPost, got.Method)
		require.Equal(t, "/api/v1/legal-calculations/", got.Path)
		require.Equal(t, legalCaseID, got.Body["legal_case_id"])
		require.Equal(t, 10000.0, got.Body["nominal_moral_damage"])
	})

	t.Run("update leaves out identity fields", func(t *testing.T) {
		_, err := client.Calculations().Update(ctx, id, &calculations.LegalCalculation{
			ID:                 id,
			LegalCaseID:        legalCaseID,
			Description:        utils.Ptr("primeiro cálculo"),
			NominalMoralDamage: utils.Ptr(12000.0),
		})
		require.NoError(t, err)

		got := rec.last(t)
		require.Equal(t, http.MethodPut, got.Method)
		require.Equal(t, "/api/v1/legal-calculations/"+id, got.Path)
		require.Equal(t, map[string]any{"nominal_moral_damage": 12000.0}, got.Body)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.Calculations().Delete(ctx, id))

		got := rec.last(t)
		require.Equal(t, http.MethodDelete, got.Method)
		require.Equal(t, "/api/v1/legal-calculations/"+id, got.Path)
	})

	t.Run("rejected before dispatch", func(t *testing.T) {
		before := rec.count()
		_, err := client.Calculations().Get(ctx, "42")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		_, err = client.Calculations().Create(ctx, &calculations.LegalCalculation{LegalCaseID: "42"})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		_, err = client.Calculations().Update(ctx, "42", &calculations.LegalCalculation{})
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.ErrorIs(t, client.Calculations().Delete(ctx, "42"), errors.ErrInvalidRequest)
		require.Equal(t, before, rec.count())
	})
}
