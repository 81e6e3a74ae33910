package companies

import "context"

// Repo is the company collection of the legal case API.
type Repo interface {
	List(ctx context.Context, offset, limit int) ([]*Company, error)
	// ListMine returns the companies the current user belongs to.
	ListMine(ctx context.Context) ([]*Company, error)
	Get(ctx context.Context, companyID string) (*Company, error)
	Create(ctx context.Context, company CompanyCreate) (*Company, error)
	Update(ctx context.Context, companyID string, update CompanyUpdate) (*Company, error)
	Delete(ctx context.Context, companyID string) error
}
