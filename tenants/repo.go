package tenants

import (
	"context"

	"github.com/jrsteele09/legalcase-console/companies"
)

// Fetcher loads a single tenant record. companies.Repo satisfies it.
type Fetcher interface {
	Get(ctx context.Context, companyID string) (*companies.Company, error)
}

// SessionResolution exposes when the session has been resolved.
// *sessions.Manager satisfies it.
type SessionResolution interface {
	ResolvedChan() <-chan struct{}
}
