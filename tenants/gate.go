package tenants

import (
	"context"
	"sync"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Fetch outcomes reported to metrics.
const (
	OutcomeLoaded    = "loaded"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Gate holds the tenant Context of the currently navigated company. A fetch
// starts only once the session is resolved, and a fetch for a company the
// user already navigated away from never writes its result.
type Gate struct {
	fetcher Fetcher
	session SessionResolution

	lock       sync.Mutex
	current    Context
	generation uint64
	cancel     context.CancelFunc
	settled    chan struct{}
}

func NewGate(fetcher Fetcher, session SessionResolution) (*Gate, error) {
	if fetcher == nil || session == nil {
		return nil, errors.New("[NewGate] fetcher and session are required")
	}
	settled := make(chan struct{})
	close(settled)
	return &Gate{
		fetcher: fetcher,
		session: session,
		settled: settled,
	}, nil
}

// Navigate records that the route now points at tenantID. Navigating to the
// current id is a no-op while its fetch is in flight or has loaded the
// tenant; a failed fetch is retried. Any other id cancels the fetch in
// flight and starts a new one. An empty id leaves the tenant subtree.
func (g *Gate) Navigate(tenantID string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.navigateLocked(tenantID)
}

// Resolve navigates to tenantID and waits until that navigation settles.
// It fails with errors.ErrCancelled if another navigation superseded it
// first, or with ctx's error. A failed fetch is not an error: the returned
// Context simply has no Tenant.
func (g *Gate) Resolve(ctx context.Context, tenantID string) (Context, error) {
	g.lock.Lock()
	generation, settled := g.navigateLocked(tenantID)
	g.lock.Unlock()

	select {
	case <-settled:
	case <-ctx.Done():
		return Context{TenantID: tenantID}, ctx.Err()
	}

	g.lock.Lock()
	defer g.lock.Unlock()
	if generation != g.generation {
		return Context{TenantID: tenantID}, errors.ErrCancelled
	}
	return g.current, nil
}

// Current returns the tenant Context as it stands.
func (g *Gate) Current() Context {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.current
}

// Leave cancels any fetch in flight and clears the tenant Context.
func (g *Gate) Leave() {
	g.Navigate("")
}

// CredentialChanged is a session credential listener. A tenant fetched
// under one credential is not shown under another, so once the session is
// resolved every credential change leaves the tenant subtree. Before that
// no fetch has been dispatched and there is nothing to drop.
func (g *Gate) CredentialChanged(_ *oauth2.Token) {
	select {
	case <-g.session.ResolvedChan():
		g.Leave()
	default:
	}
}

func (g *Gate) navigateLocked(tenantID string) (uint64, chan struct{}) {
	if tenantID == g.current.TenantID && !g.retryLocked() {
		return g.generation, g.settled
	}

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.generation++
	g.current = Context{TenantID: tenantID}
	g.settled = make(chan struct{})

	if tenantID == "" {
		close(g.settled)
		return g.generation, g.settled
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	go g.fetch(ctx, g.generation, tenantID, g.settled)
	return g.generation, g.settled
}

// retryLocked reports whether the current tenant settled without a record.
func (g *Gate) retryLocked() bool {
	if g.current.TenantID == "" || g.current.Available() {
		return false
	}
	select {
	case <-g.settled:
		return true
	default:
		return false
	}
}

func (g *Gate) fetch(ctx context.Context, generation uint64, tenantID string, settled chan struct{}) {
	defer close(settled)

	select {
	case <-g.session.ResolvedChan():
	case <-ctx.Done():
		metrics.ObserveTenantFetch(OutcomeCancelled)
		return
	}

	company, err := g.fetcher.Get(ctx, tenantID)

	g.lock.Lock()
	defer g.lock.Unlock()
	if generation != g.generation {
		metrics.ObserveTenantFetch(OutcomeCancelled)
		return
	}
	g.cancel()
	g.cancel = nil

	if err != nil {
		log.Warn().Err(err).Str("company_id", tenantID).Msg("Failed to fetch company")
		metrics.ObserveTenantFetch(OutcomeFailed)
		return
	}
	g.current.Tenant = company
	metrics.ObserveTenantFetch(OutcomeLoaded)
}
