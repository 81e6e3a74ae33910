package calculationrepofakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/internal/errors"
)

var _ calculations.Repo = (*FakeCalculationRepo)(nil)

type FakeCalculationRepo struct {
	calculations map[string]*calculations.LegalCalculation
	listErr      error
	lock         sync.RWMutex
}

func NewFakeCalculationRepo() *FakeCalculationRepo {
	return &FakeCalculationRepo{
		calculations: make(map[string]*calculations.LegalCalculation),
	}
}

// SetListError makes List and ListByLegalCase fail with err.
func (cr *FakeCalculationRepo) SetListError(err error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.listErr = err
}

func (cr *FakeCalculationRepo) List(_ context.Context) ([]*calculations.LegalCalculation, error) {
	return cr.filter(func(*calculations.LegalCalculation) bool { return true })
}

func (cr *FakeCalculationRepo) ListByLegalCase(_ context.Context, legalCaseID string) ([]*calculations.LegalCalculation, error) {
	return cr.filter(func(c *calculations.LegalCalculation) bool { return c.LegalCaseID == legalCaseID })
}

func (cr *FakeCalculationRepo) Get(_ context.Context, calculationID string) (*calculations.LegalCalculation, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	c, ok := cr.calculations[calculationID]
	if !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Legal calculation not found"}
	}
	return c, nil
}

func (cr *FakeCalculationRepo) Create(_ context.Context, calculation *calculations.LegalCalculation) (*calculations.LegalCalculation, error) {
	if calculation.LegalCaseID == "" {
		return nil, &errors.APIError{StatusCode: 422, Detail: "legal_case_id is required"}
	}
	cr.lock.Lock()
	defer cr.lock.Unlock()
	stored := *calculation
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	cr.calculations[stored.ID] = &stored
	return &stored, nil
}

func (cr *FakeCalculationRepo) Update(_ context.Context, calculationID string, calculation *calculations.LegalCalculation) (*calculations.LegalCalculation, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	existing, ok := cr.calculations[calculationID]
	if !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Legal calculation not found"}
	}
	updated := *calculation
	updated.ID = existing.ID
	updated.LegalCaseID = existing.LegalCaseID
	cr.calculations[calculationID] = &updated
	return &updated, nil
}

func (cr *FakeCalculationRepo) Delete(_ context.Context, calculationID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	delete(cr.calculations, calculationID)
	return nil
}

func (cr *FakeCalculationRepo) filter(keep func(*calculations.LegalCalculation) bool) ([]*calculations.LegalCalculation, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	if cr.listErr != nil {
		return nil, cr.listErr
	}
	list := make([]*calculations.LegalCalculation, 0, len(cr.calculations))
	for _, c := range cr.calculations {
		if keep(c) {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list, nil
}
