package legalcaserepofakes

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/legalcases"
)

var _ legalcases.Repo = (*FakeLegalCaseRepo)(nil)

type FakeLegalCaseRepo struct {
	cases map[string]*legalcases.LegalCase
	lock  sync.RWMutex
}

func NewFakeLegalCaseRepo() *FakeLegalCaseRepo {
	return &FakeLegalCaseRepo{
		cases: make(map[string]*legalcases.LegalCase),
	}
}

func (lr *FakeLegalCaseRepo) List(_ context.Context) ([]*legalcases.LegalCase, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	list := make([]*legalcases.LegalCase, 0, len(lr.cases))
	for _, lc := range lr.cases {
		list = append(list, lc)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LegalCaseNumber < list[j].LegalCaseNumber
	})
	return list, nil
}

func (lr *FakeLegalCaseRepo) Get(_ context.Context, legalCaseID string) (*legalcases.LegalCase, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	lc, ok := lr.cases[legalCaseID]
	if !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Legal case not found"}
	}
	return lc, nil
}

func (lr *FakeLegalCaseRepo) Create(_ context.Context, legalCase *legalcases.LegalCase) (*legalcases.LegalCase, error) {
	if err := legalCase.Validate(); err != nil {
		return nil, &errors.APIError{StatusCode: 422, Detail: err.Error()}
	}
	lr.lock.Lock()
	defer lr.lock.Unlock()
	stored := *legalCase
	stored.ID = uuid.New().String()
	lr.cases[stored.ID] = &stored
	return &stored, nil
}

func (lr *FakeLegalCaseRepo) Update(_ context.Context, legalCaseID string, legalCase *legalcases.LegalCase) (*legalcases.LegalCase, error) {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	if _, ok := lr.cases[legalCaseID]; !ok {
		return nil, &errors.APIError{StatusCode: 404, Detail: "Legal case not found"}
	}
	stored := *legalCase
	stored.ID = legalCaseID
	lr.cases[legalCaseID] = &stored
	return &stored, nil
}

func (lr *FakeLegalCaseRepo) Delete(_ context.Context, legalCaseID string) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	if _, ok := lr.cases[legalCaseID]; !ok {
		return &errors.APIError{StatusCode: 404, Detail: "Legal case not found"}
	}
	delete(lr.cases, legalCaseID)
	return nil
}
