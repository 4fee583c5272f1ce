// Package devseed populates a development database with a bootstrap
// admin and a handful of sample records so the console is usable
// immediately after `make dev`.
package devseed

import (
	"context"
	"log/slog"

	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	"github.com/fincompass/console/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Auth      *service.AuthService
	Companies *service.CompanyService
	Products  *service.ProductService
}

// Run executes the development seeding workflow. Seeding is idempotent:
// records that already exist are left alone.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	admin, err := svcs.Auth.Setup(ctx)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "seeded bootstrap admin", "username", admin.Username)
	case apperrors.IsConflict(err):
		// Users already exist; nothing to do.
	default:
		return err
	}

	// Company names carry no unique constraint, so guard against
	// duplicate seeding by checking for any existing record.
	existing, err := svcs.Companies.List(ctx, model.CompaniesListOptions{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seedRecords(ctx, svcs, logger)
	return nil
}

func seedRecords(ctx context.Context, svcs Services, logger *slog.Logger) {
	companies := []struct {
		req      model.CreateCompanyRequest
		products []model.CreateProductRequest
	}{
		{
			req: model.CreateCompanyRequest{Name: "Acme Payments", Status: model.CompanyStatusEngaged},
			products: []model.CreateProductRequest{
				{Name: "Card Gateway", Status: model.ProductStatusInProgress},
				{Name: "Settlement API", Status: model.ProductStatusNew},
			},
		},
		{
			req: model.CreateCompanyRequest{Name: "Borealis Lending", Status: model.CompanyStatusNew},
			products: []model.CreateProductRequest{
				{Name: "Loan Origination", Status: model.ProductStatusNew},
			},
		},
		{
			req: model.CreateCompanyRequest{Name: "Cobalt Custody", Status: model.CompanyStatusRetired},
		},
	}

	for _, c := range companies {
		req := c.req
		company, err := svcs.Companies.Create(ctx, &req)
		if err != nil {
			logger.WarnContext(ctx, "failed to seed company", "name", req.Name, "error", err)
			continue
		}
		logger.InfoContext(ctx, "seeded company", "name", company.Name, "id", company.ID)

		for _, p := range c.products {
			preq := p
			preq.CompanyID = company.ID
			product, err := svcs.Products.Create(ctx, &preq)
			if err != nil {
				logger.WarnContext(ctx, "failed to seed product", "name", preq.Name, "error", err)
				continue
			}
			logger.InfoContext(ctx, "seeded product", "name", product.Name, "id", product.ID)
		}
	}
}
