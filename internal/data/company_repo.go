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

const companyColumns = `id, name, address, contact_phone, contact_address, status, created_by, created_at, updated_at`

// companyColumnList is companyColumns as a slice for dynamic query building.
func companyColumnList() []string {
	return []string{
		"id", "name", "address", "contact_phone", "contact_address",
		"status", "created_by", "created_at", "updated_at",
	}
}

// CompanyRepo provides database operations for fintech companies.
type CompanyRepo struct {
	DB *sql.DB
}

// NewCompanyRepo creates a new CompanyRepo.
func NewCompanyRepo(db *sql.DB) *CompanyRepo {
	return &CompanyRepo{DB: db}
}

// Create inserts a new company.
func (r *CompanyRepo) Create(ctx context.Context, req *model.CreateCompanyRequest) (*model.Company, error) {
	if req == nil {
		return nil, apperrors.Validation("create company request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Company
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO fintech_companies (name, address, contact_phone, contact_address, status, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+companyColumns,
			req.Name,
			strings.TrimSpace(req.Address),
			strings.TrimSpace(req.ContactPhone),
			strings.TrimSpace(req.ContactAddress),
			req.Status,
			req.CreatedBy,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a company by ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	var company model.Company
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+companyColumns+` FROM fintech_companies WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		company, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &company, nil
}

// List retrieves companies with optional filters, newest first.
func (r *CompanyRepo) List(ctx context.Context, opts model.CompaniesListOptions) ([]*model.Company, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(companyColumnList()...),
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

	query, args := database.BuildListQuery(database.NewListQueryOptions("fintech_companies", queryOpts...))

	var rowsOut []model.Company
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Company])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Company, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountByStatus returns company counts grouped by status.
func (r *CompanyRepo) CountByStatus(ctx context.Context) (map[model.CompanyStatus]int64, error) {
	counts := make(map[model.CompanyStatus]int64)
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT status, COUNT(*) FROM fintech_companies GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status model.CompanyStatus
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

// Update updates fields of a company.
func (r *CompanyRepo) Update(ctx context.Context, id int64, req model.UpdateCompanyRequest) (*model.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, *req.Name)
	}
	if req.Address != nil {
		setParts = append(setParts, fmt.Sprintf("address = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Address))
	}
	if req.ContactPhone != nil {
		setParts = append(setParts, fmt.Sprintf("contact_phone = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.ContactPhone))
	}
	if req.ContactAddress != nil {
		setParts = append(setParts, fmt.Sprintf("contact_address = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.ContactAddress))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	setParts = append(setParts, "updated_at = NOW()")

	args = append(args, id)
	query := "UPDATE fintech_companies SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + companyColumns

	var out model.Company
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a company by ID. Fails with a foreign key error while
// products still reference it.
func (r *CompanyRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var rows int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM fintech_companies WHERE id = $1`, id)
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
