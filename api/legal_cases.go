package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/legalcases"
)

const RouteLegalCases = "/legal-cases/"

var _ legalcases.Repo = (*LegalCases)(nil)

type LegalCases struct {
	c *Client
}

func (c *Client) LegalCases() *LegalCases {
	return &LegalCases{c: c}
}

// uuidPath validates id as a UUID before it is put on the wire.
func uuidPath(collection, id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "invalid id %q", id)
	}
	return collection + parsed.String(), nil
}

func (s *LegalCases) List(ctx context.Context) ([]*legalcases.LegalCase, error) {
	var list []*legalcases.LegalCase
	if err := s.c.doJSON(ctx, http.MethodGet, RouteLegalCases, nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *LegalCases) Get(ctx context.Context, legalCaseID string) (*legalcases.LegalCase, error) {
	path, err := uuidPath(RouteLegalCases, legalCaseID)
	if err != nil {
		return nil, err
	}
	var lc legalcases.LegalCase
	if err := s.c.doJSON(ctx, http.MethodGet, path, nil, nil, &lc); err != nil {
		return nil, err
	}
	return &lc, nil
}

func (s *LegalCases) Create(ctx context.Context, legalCase *legalcases.LegalCase) (*legalcases.LegalCase, error) {
	if err := legalCase.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "%s", err.Error())
	}
	var created legalcases.LegalCase
	if err := s.c.doJSON(ctx, http.MethodPost, RouteLegalCases, nil, legalCase, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LegalCases) Update(ctx context.Context, legalCaseID string, legalCase *legalcases.LegalCase) (*legalcases.LegalCase, error) {
	path, err := uuidPath(RouteLegalCases, legalCaseID)
	if err != nil {
		return nil, err
	}
	if err := legalCase.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "%s", err.Error())
	}
	var updated legalcases.LegalCase
	if err := s.c.doJSON(ctx, http.MethodPut, path, nil, legalCase, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LegalCases) Delete(ctx context.Context, legalCaseID string) error {
	path, err := uuidPath(RouteLegalCases, legalCaseID)
	if err != nil {
		return err
	}
	return s.c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
