package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/legalcase-console/calculations"
	"github.com/jrsteele09/legalcase-console/internal/errors"
)

const (
	RouteCalculations            = "/legal-calculations/"
	RouteCalculationsByLegalCase = "/legal-calculations/calculations-by-legal-case/"
)

var _ calculations.Repo = (*Calculations)(nil)

type Calculations struct {
	c *Client
}

func (c *Client) Calculations() *Calculations {
	return &Calculations{c: c}
}

func (s *Calculations) List(ctx context.Context) ([]*calculations.LegalCalculation, error) {
	var list []*calculations.LegalCalculation
	if err := s.c.doJSON(ctx, http.MethodGet, RouteCalculations, nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Calculations) ListByLegalCase(ctx context.Context, legalCaseID string) ([]*calculations.LegalCalculation, error) {
	path, err := uuidPath(RouteCalculationsByLegalCase, legalCaseID)
	if err != nil {
		return nil, err
	}
	var list []*calculations.LegalCalculation
	if err := s.c.doJSON(ctx, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Calculations) Get(ctx context.Context, calculationID string) (*calculations.LegalCalculation, error) {
	path, err := uuidPath(RouteCalculations, calculationID)
	if err != nil {
		return nil, err
	}
	var calc calculations.LegalCalculation
	if err := s.c.doJSON(ctx, http.MethodGet, path, nil, nil, &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

func (s *Calculations) Create(ctx context.Context, calculation *calculations.LegalCalculation) (*calculations.LegalCalculation, error) {
	if _, err := uuidPath("", calculation.LegalCaseID); err != nil {
		return nil, errors.Wrapf(err, "legal_case_id")
	}
	var created calculations.LegalCalculation
	if err := s.c.doJSON(ctx, http.MethodPost, RouteCalculations, nil, calculation, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Calculations) Update(ctx context.Context, calculationID string, calculation *calculations.LegalCalculation) (*calculations.LegalCalculation, error) {
	path, err := uuidPath(RouteCalculations, calculationID)
	if err != nil {
		return nil, err
	}
	// The update schema rejects identity and bookkeeping fields.
	body := *calculation
	body.ID = ""
	body.LegalCaseID = ""
	body.CreatedByID = nil
	body.Description = nil
	body.CreatedAt = nil
	body.UpdatedAt = nil

	var updated calculations.LegalCalculation
	if err := s.c.doJSON(ctx, http.MethodPut, path, nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Calculations) Delete(ctx context.Context, calculationID string) error {
	path, err := uuidPath(RouteCalculations, calculationID)
	if err != nil {
		return err
	}
	return s.c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
