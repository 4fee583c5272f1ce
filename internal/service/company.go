package service

import (
	"context"
	"log/slog"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/ports"
)

// CompanyService manages fintech company records.
type CompanyService struct {
	companies ports.CompanyStore
	logger    *slog.Logger
}

// NewCompanyService constructs a new CompanyService.
func NewCompanyService(companies ports.CompanyStore, logger *slog.Logger) *CompanyService {
	return &CompanyService{companies: companies, logger: logger}
}

// Create stores a new company record.
func (s *CompanyService) Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error) {
	company, err := s.companies.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

// Get retrieves a company by ID.
func (s *CompanyService) Get(ctx context.Context, id int64) (*model.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// List retrieves companies with optional filters.
func (s *CompanyService) List(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error) {
	return s.companies.List(ctx, opts)
}

// Update applies changes to a company record.
func (s *CompanyService) Update(ctx context.Context, id int64, req model.UpdateCompanyRequest) (*model.Company, error) {
	company, err := s.companies.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company updated", "company_id", id)
	return company, nil
}

// Delete removes a company record. Deletion is blocked while products
// still reference the company.
func (s *CompanyService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.companies.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("company deleted", "company_id", id)
	}
	return deleted, nil
}
