package calculations

import "context"

type Repo interface {
	List(ctx context.Context) ([]*LegalCalculation, error)
	ListByLegalCase(ctx context.Context, legalCaseID string) ([]*LegalCalculation, error)
	Get(ctx context.Context, calculationID string) (*LegalCalculation, error)
	Create(ctx context.Context, calculation *LegalCalculation) (*LegalCalculation, error)
	Update(ctx context.Context, calculationID string, calculation *LegalCalculation) (*LegalCalculation, error)
	Delete(ctx context.Context, calculationID string) error
}
