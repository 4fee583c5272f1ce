package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"

	"github.com/fincompass/console/internal/data/pgxutil"
)

const userColumns = `id, username, name, password_hash, role, is_active, created_by, created_at, updated_at`

// UserRepo provides database operations for users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a new user with the given password hash.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error) {
	if req == nil {
		return nil, apperrors.Validation("create user request is required")
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (username, name, password_hash, role, is_active, created_by)
			VALUES ($1, $2, $3, $4, TRUE, $5)
			RETURNING `+userColumns,
			req.Username,
			strings.TrimSpace(req.Name),
			passwordHash,
			req.Role,
			req.CreatedBy,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getByQuery(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getByQuery(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		domainauth.NormalizeUsername(username),
	)
}

// List retrieves users ordered by creation time, newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	var rowsOut []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.User, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the total number of users. Bootstrap uses a zero count to
// decide whether first-run setup is allowed.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	}); err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return count, nil
}

// Update updates fields of a user. A non-nil passwordHash replaces the
// stored hash; the plaintext never reaches this layer.
func (r *UserRepo) Update(ctx context.Context, id int64, req model.UpdateUserRequest, passwordHash *string) (*model.User, error) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if passwordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *passwordHash)
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *req.IsActive)
	}
	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}
	setParts = append(setParts, "updated_at = NOW()")

	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + userColumns

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user %d not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// UpdateDisplayName refreshes only the display name, used when the
// directory reports a changed name for an existing account.
func (r *UserRepo) UpdateDisplayName(ctx context.Context, id int64, name string) error {
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2`,
			strings.TrimSpace(name), id,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// Delete removes a user by ID. Records they created keep a NULL creator.
func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var rows int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *UserRepo) getByQuery(ctx context.Context, q string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &user, nil
}
