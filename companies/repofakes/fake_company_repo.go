package companyrepofakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/internal/errors"
)

var _ companies.Repo = (*FakeCompanyRepo)(nil)

// FakeCompanyRepo is an in-memory companies.Repo. Get honours per-company
// delays and context cancellation so callers can exercise races.
type FakeCompanyRepo struct {
	companies map[string]*companies.Company
	mine      map[string]struct{}
	delays    map[string]time.Duration
	getCalls  []string
	lock      sync.RWMutex
}

func NewFakeCompanyRepo() *FakeCompanyRepo {
	return &FakeCompanyRepo{
		companies: make(map[string]*companies.Company),
		mine:      make(map[string]struct{}),
		delays:    make(map[string]time.Duration),
	}
}

// Upsert stores a company, marking it as belonging to the current user.
func (cr *FakeCompanyRepo) Upsert(company *companies.Company) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	if company.ID == "" {
		company.ID = uuid.New().String()
	}
	cr.companies[company.ID] = company
	cr.mine[company.ID] = struct{}{}
}

// SetDelay makes Get for companyID take d before answering.
func (cr *FakeCompanyRepo) SetDelay(companyID string, d time.Duration) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	cr.delays[companyID] = d
}

// GetCalls returns the ids passed to Get, in call order.
func (cr *FakeCompanyRepo) GetCalls() []string {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return append([]string(nil), cr.getCalls...)
}

func (cr *FakeCompanyRepo) List(_ context.Context, offset, limit int) ([]*companies.Company, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	all := cr.sortedLocked(func(string) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (cr *FakeCompanyRepo) ListMine(_ context.Context) ([]*companies.Company, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()
	return cr.sortedLocked(func(id string) bool {
		_, ok := cr.mine[id]
		return ok
	}), nil
}

func (cr *FakeCompanyRepo) Get(ctx context.Context, companyID string) (*companies.Company, error) {
	cr.lock.Lock()
	cr.getCalls = append(cr.getCalls, companyID)
	delay := cr.delays[companyID]
	cr.lock.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cr.lock.RLock()
	defer cr.lock.RUnlock()
	company, ok := cr.companies[companyID]
	if !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Company not found"}
	}
	return company, nil
}

func (cr *FakeCompanyRepo) Create(_ context.Context, company companies.CompanyCreate) (*companies.Company, error) {
	if err := company.Validate(); err != nil {
		return nil, &errors.APIError{StatusCode: 422, Detail: err.Error()}
	}
	c := &companies.Company{
		Name:     company.Name,
		CNPJ:     company.CNPJ,
		IsActive: company.IsActive,
	}
	cr.Upsert(c)
	return c, nil
}

func (cr *FakeCompanyRepo) Update(_ context.Context, companyID string, update companies.CompanyUpdate) (*companies.Company, error) {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	company, ok := cr.companies[companyID]
	if !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Company not found"}
	}
	if update.Name != nil {
		company.Name = *update.Name
	}
	if update.IsActive != nil {
		company.IsActive = *update.IsActive
	}
	return company, nil
}

func (cr *FakeCompanyRepo) Delete(_ context.Context, companyID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()
	delete(cr.companies, companyID)
	delete(cr.mine, companyID)
	return nil
}

func (cr *FakeCompanyRepo) sortedLocked(keep func(id string) bool) []*companies.Company {
	list := make([]*companies.Company, 0, len(cr.companies))
	for id, c := range cr.companies {
		if keep(id) {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}
