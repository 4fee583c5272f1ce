package ports

import (
	"context"

	"github.com/fincompass/console/internal/domain/model"
)

// UserAdminStore extends UserStore with the management operations the
// user administration surface needs.
type UserAdminStore interface {
	UserStore
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	Update(ctx context.Context, id int64, req model.UpdateUserRequest, passwordHash *string) (*model.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CompanyStore is the persistence surface for fintech companies.
type CompanyStore interface {
	Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error)
	GetByID(ctx context.Context, id int64) (*model.Company, error)
	List(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error)
	CountByStatus(ctx context.Context) (map[model.CompanyStatus]int64, error)
	Update(ctx context.Context, id int64, req model.UpdateCompanyRequest) (*model.Company, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProductStore is the persistence surface for products.
type ProductStore interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, opts model.ProductsListOptions) ([]*model.Product, error)
	CountByStatus(ctx context.Context) (map[model.ProductStatus]int64, error)
	Update(ctx context.Context, id int64, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
