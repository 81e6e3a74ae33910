package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/legalcase-console/companies"
	"github.com/jrsteele09/legalcase-console/internal/errors"
)

const (
	RouteCompanies   = "/companies/"
	RouteCompaniesMe = "/companies/me"
)

var _ companies.Repo = (*Companies)(nil)

// Companies is the company collection of the API.
type Companies struct {
	c *Client
}

func (c *Client) Companies() *Companies {
	return &Companies{c: c}
}

func companyPath(companyID string) (string, error) {
	if companyID == "" {
		return "", errors.Wrapf(errors.ErrInvalidRequest, "empty company id")
	}
	return RouteCompanies + url.PathEscape(companyID), nil
}

func (s *Companies) List(ctx context.Context, offset, limit int) ([]*companies.Company, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(offset))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var list []*companies.Company
	if err := s.c.doJSON(ctx, http.MethodGet, RouteCompanies, query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Companies) ListMine(ctx context.Context) ([]*companies.Company, error) {
	var list []*companies.Company
	if err := s.c.doJSON(ctx, http.MethodGet, RouteCompaniesMe, nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Companies) Get(ctx context.Context, companyID string) (*companies.Company, error) {
	path, err := companyPath(companyID)
	if err != nil {
		return nil, err
	}
	var company companies.Company
	if err := s.c.doJSON(ctx, http.MethodGet, path, nil, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Companies) Create(ctx context.Context, create companies.CompanyCreate) (*companies.Company, error) {
	if err := create.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "%s", err.Error())
	}
	var company companies.Company
	if err := s.c.doJSON(ctx, http.MethodPost, RouteCompanies, nil, create, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Companies) Update(ctx context.Context, companyID string, update companies.CompanyUpdate) (*companies.Company, error) {
	path, err := companyPath(companyID)
	if err != nil {
		return nil, err
	}
	var company companies.Company
	if err := s.c.doJSON(ctx, http.MethodPut, path, nil, update, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *Companies) Delete(ctx context.Context, companyID string) error {
	path, err := companyPath(companyID)
	if err != nil {
		return err
	}
	return s.c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
