package service

import (
	"context"
	"log/slog"

	"github.com/fincompass/console/internal/domain/model"
	"github.com/fincompass/console/internal/ports"
)

// ProductService manages product records.
type ProductService struct {
	products ports.ProductStore
	logger   *slog.Logger
}

// NewProductService constructs a new ProductService.
func NewProductService(products ports.ProductStore, logger *slog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Create stores a new product record.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	product, err := s.products.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", "product_id", product.ID, "company_id", product.CompanyID)
	return product, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List retrieves products with optional filters.
func (s *ProductService) List(ctx context.Context, opts model.ProductsListOptions) ([]*model.Product, error) {
	return s.products.List(ctx, opts)
}

// Update applies changes to a product record.
func (s *ProductService) Update(ctx context.Context, id int64, req model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.products.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", "product_id", id)
	return product, nil
}

// Delete removes a product record.
func (s *ProductService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("product deleted", "product_id", id)
	}
	return deleted, nil
}
