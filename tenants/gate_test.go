package tenants_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/legalcase-console/companies"
	companyrepofakes "github.com/jrsteele09/legalcase-console/companies/repofakes"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/tenants"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeSession struct {
	resolved chan struct{}
}

func newFakeSession(resolved bool) *fakeSession {
	s := &fakeSession{resolved: make(chan struct{})}
	if resolved {
		s.resolve()
	}
	return s
}

func (s *fakeSession) resolve() {
	close(s.resolved)
}

func (s *fakeSession) ResolvedChan() <-chan struct{} {
	return s.resolved
}

type testFixture struct {
	repo    *companyrepofakes.FakeCompanyRepo
	session *fakeSession
	gate    *tenants.Gate
}

func setupTestFixture(t *testing.T, resolved bool) *testFixture {
	t.Helper()
	repo := companyrepofakes.NewFakeCompanyRepo()
	repo.Upsert(&companies.Company{ID: "1", Name: "Acme Créditos", CNPJ: "12.345.678/0001-90", IsActive: true})
	repo.Upsert(&companies.Company{ID: "2", Name: "Beta Precatórios", CNPJ: "98.765.432/0001-10", IsActive: true})

	session := newFakeSession(resolved)
	gate, err := tenants.NewGate(repo, session)
	require.NoError(t, err)
	return &testFixture{repo: repo, session: session, gate: gate}
}

func TestGate_Resolve(t *testing.T) {
	t.Run("fetches the tenant", func(t *testing.T) {
		f := setupTestFixture(t, true)

		tc, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		require.True(t, tc.Available())
		require.Equal(t, "1", tc.TenantID)
		require.Equal(t, "Acme Créditos", tc.Tenant.Name)
		require.Equal(t, tc, f.gate.Current())
	})

	t.Run("same tenant is fetched once", func(t *testing.T) {
		f := setupTestFixture(t, true)

		_, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		tc, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		require.True(t, tc.Available())
		require.Equal(t, []string{"1"}, f.repo.GetCalls())
	})

	t.Run("failure leaves the tenant absent", func(t *testing.T) {
		f := setupTestFixture(t, true)

		tc, err := f.gate.Resolve(context.Background(), "missing")
		require.NoError(t, err)
		require.False(t, tc.Available())
		require.Equal(t, "missing", tc.TenantID)
	})

	t.Run("failed tenant is fetched again", func(t *testing.T) {
		f := setupTestFixture(t, true)

		tc, err := f.gate.Resolve(context.Background(), "3")
		require.NoError(t, err)
		require.False(t, tc.Available())

		f.repo.Upsert(&companies.Company{ID: "3", Name: "Gama Ativos", CNPJ: "11.222.333/0001-44", IsActive: true})
		tc, err = f.gate.Resolve(context.Background(), "3")
		require.NoError(t, err)
		require.True(t, tc.Available())
		require.Equal(t, "Gama Ativos", tc.Tenant.Name)
		require.Equal(t, []string{"3", "3"}, f.repo.GetCalls())
	})

	t.Run("tenant in flight is not fetched twice", func(t *testing.T) {
		f := setupTestFixture(t, true)
		f.repo.SetDelay("1", 100*time.Millisecond)

		f.gate.Navigate("1")
		tc, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		require.True(t, tc.Available())
		require.Equal(t, []string{"1"}, f.repo.GetCalls())
	})

	t.Run("caller context", func(t *testing.T) {
		f := setupTestFixture(t, false)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := f.gate.Resolve(ctx, "1")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("superseded by another navigation", func(t *testing.T) {
		f := setupTestFixture(t, true)
		f.repo.SetDelay("1", 500*time.Millisecond)

		result := make(chan error, 1)
		go func() {
			_, err := f.gate.Resolve(context.Background(), "1")
			result <- err
		}()
		require.Eventually(t, func() bool {
			return len(f.repo.GetCalls()) == 1
		}, time.Second, 5*time.Millisecond)

		f.gate.Navigate("2")
		require.ErrorIs(t, <-result, errors.ErrCancelled)
	})
}

func TestGate_WaitsForSession(t *testing.T) {
	f := setupTestFixture(t, false)

	f.gate.Navigate("1")
	time.Sleep(50 * time.Millisecond)
	require.Empty(t, f.repo.GetCalls())
	require.False(t, f.gate.Current().Available())

	f.session.resolve()
	require.Eventually(t, func() bool {
		return f.gate.Current().Available()
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"1"}, f.repo.GetCalls())
}

func TestGate_SwitchTenantMidFetch(t *testing.T) {
	f := setupTestFixture(t, true)
	f.repo.SetDelay("1", 500*time.Millisecond)

	f.gate.Navigate("1")
	time.Sleep(100 * time.Millisecond)
	f.gate.Navigate("2")

	require.Eventually(t, func() bool {
		return f.gate.Current().Available()
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "2", f.gate.Current().Tenant.ID)

	// Past the point where the first fetch would have answered.
	time.Sleep(500 * time.Millisecond)
	tc := f.gate.Current()
	require.Equal(t, "2", tc.TenantID)
	require.Equal(t, "Beta Precatórios", tc.Tenant.Name)
}

func TestGate_Leave(t *testing.T) {
	f := setupTestFixture(t, true)
	f.repo.SetDelay("1", 100*time.Millisecond)

	f.gate.Navigate("1")
	f.gate.Leave()
	require.Equal(t, tenants.Context{}, f.gate.Current())

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, tenants.Context{}, f.gate.Current())

	// Coming back fetches again.
	f.repo.SetDelay("1", 0)
	tc, err := f.gate.Resolve(context.Background(), "1")
	require.NoError(t, err)
	require.True(t, tc.Available())
}

func TestGate_CredentialChanged(t *testing.T) {
	t.Run("drops the tenant of the previous credential", func(t *testing.T) {
		f := setupTestFixture(t, true)

		_, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		f.gate.CredentialChanged(&oauth2.Token{AccessToken: "other"})
		require.Equal(t, tenants.Context{}, f.gate.Current())

		tc, err := f.gate.Resolve(context.Background(), "1")
		require.NoError(t, err)
		require.True(t, tc.Available())
		require.Equal(t, []string{"1", "1"}, f.repo.GetCalls())
	})

	t.Run("keeps a fetch waiting for resolution", func(t *testing.T) {
		f := setupTestFixture(t, false)

		f.gate.Navigate("1")
		f.gate.CredentialChanged(&oauth2.Token{AccessToken: "abc"})
		f.session.resolve()

		require.Eventually(t, func() bool {
			return f.gate.Current().Available()
		}, time.Second, 5*time.Millisecond)
		require.Equal(t, []string{"1"}, f.repo.GetCalls())
	})
}

func TestNewGate_RequiresDependencies(t *testing.T) {
	_, err := tenants.NewGate(nil, newFakeSession(true))
	require.Error(t, err)
}

func TestContext_RoundTrip(t *testing.T) {
	_, ok := tenants.FromContext(context.Background())
	require.False(t, ok)

	tc := tenants.Context{TenantID: "1", Tenant: &companies.Company{ID: "1"}}
	got, ok := tenants.FromContext(tenants.WithContext(context.Background(), tc))
	require.True(t, ok)
	require.Equal(t, tc, got)
}
