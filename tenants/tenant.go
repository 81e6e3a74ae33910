// Package tenants binds the company id in the current route to the company
// record fetched for it. Views below a company route read the record from a
// Context instead of fetching it themselves.
package tenants

import (
	"context"

	"github.com/jrsteele09/legalcase-console/companies"
)

// Context is the tenant a company-scoped view renders for. Tenant is nil
// while the fetch is pending and when it failed.
type Context struct {
	TenantID string
	Tenant   *companies.Company
}

// Available reports whether the tenant record was fetched.
func (c Context) Available() bool {
	return c.Tenant != nil
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying tc.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext returns the tenant Context stored by WithContext.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}
