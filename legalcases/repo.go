package legalcases

import "context"

// Repo is the legal case collection of the API.
type Repo interface {
	List(ctx context.Context) ([]*LegalCase, error)
	Get(ctx context.Context, legalCaseID string) (*LegalCase, error)
	Create(ctx context.Context, legalCase *LegalCase) (*LegalCase, error)
	Update(ctx context.Context, legalCaseID string, legalCase *LegalCase) (*LegalCase, error)
	Delete(ctx context.Context, legalCaseID string) error
}
