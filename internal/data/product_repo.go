package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fincompass/console/internal/data/database"
	"github.com/fincompass/console/internal/data/pgxutil"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
)

const productColumns = `id, name, description, strength, weakness, status, company_id, created_by, created_at, updated_at`

// productColumnList is productColumns as a slice for dynamic query building.
func productColumnList() []string {
	return []string{
		"id", "name", "description", "strength", "weakness",
		"status", "company_id", "created_by", "created_at", "updated_at",
	}
}

// ProductRepo provides database operations for products.
type ProductRepo struct {
	DB *sql.DB
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db}
}

// Create inserts a new product. A missing parent company surfaces as a
// foreign key error.
func (r *ProductRepo) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("create product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO products (name, description, strength, weakness, status, company_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+productColumns,
			req.Name,
			strings.TrimSpace(req.Description),
			strings.TrimSpace(req.Strength),
			strings.TrimSpace(req.Weakness),
			req.Status,
			req.CompanyID,
			req.CreatedBy,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		product, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &product, nil
}

// List retrieves products with optional filters, newest first.
func (r *ProductRepo) List(ctx context.Context, opts model.ProductsListOptions) ([]*model.Product, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(productColumnList()...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.CompanyID != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("company_id", database.Equal, *opts.CompanyID),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("products", queryOpts...))

	var rowsOut []model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Product, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByStatus returns product counts grouped by status.
func (r *ProductRepo) CountByStatus(ctx context.Context) (map[model.ProductStatus]int64, error) {
	counts := make(map[model.ProductStatus]int64)
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT status, COUNT(*) FROM products GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status model.ProductStatus
			var count int64
			if err := rows.Scan(&status, &count); err != nil {
				return err
			}
			counts[status] = count
		}
		return rows.Err()
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return counts, nil
}

// Update updates fields of a product.
func (r *ProductRepo) Update(ctx context.Context, id int64, req model.UpdateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, *req.Name)
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Description))
	}
	if req.Strength != nil {
		setParts = append(setParts, fmt.Sprintf("strength = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Strength))
	}
	if req.Weakness != nil {
		setParts = append(setParts, fmt.Sprintf("weakness = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Weakness))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.CompanyID != nil {
		setParts = append(setParts, fmt.Sprintf("company_id = $%d", nextIdx()))
		args = append(args, *req.CompanyID)
	}
	setParts = append(setParts, "updated_at = NOW()")

	args = append(args, id)
	query := "UPDATE products SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + productColumns

	var out model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a product by ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var rows int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	}); err != nil {
		return false, apperrors.MapDBError(err)
	}
	return rows > 0, nil
}
