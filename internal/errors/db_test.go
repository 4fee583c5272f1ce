package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(fmt.Errorf("query user: %w", pgx.ErrNoRows))
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	assert.True(t, IsTimeout(MapDBError(context.DeadlineExceeded)))
	assert.True(t, IsCanceled(MapDBError(context.Canceled)))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "users_username_key",
		Detail:         `Key (username)=(alice) already exists.`,
	}

	err := MapDBError(pgErr)
	require.True(t, IsConflict(err))
	assert.Equal(t, "username", GetField(err))
}

func TestMapDBError_ForeignKeyMissingParent(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           pgerrcode.ForeignKeyViolation,
		ConstraintName: "products_company_id_fkey",
		Detail:         `Key (company_id)=(42) is not present in table "fintech_companies".`,
	}

	err := MapDBError(pgErr)
	require.True(t, IsForeignKey(err))
	assert.Contains(t, err.Error(), "Company")
}

func TestMapDBError_ForeignKeyStillReferenced(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(7) is still referenced from table "products".`,
	}

	err := MapDBError(pgErr)
	require.True(t, IsForeignKey(err))
	assert.Contains(t, err.Error(), "Product")
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "name",
	}

	err := MapDBError(pgErr)
	require.True(t, IsValidation(err))
	assert.Equal(t, "name", GetField(err))
}

func TestMapDBError_PassThrough(t *testing.T) {
	sentinel := fmt.Errorf("unrelated failure")
	assert.Equal(t, sentinel, MapDBError(sentinel))
	assert.Nil(t, MapDBError(nil))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInternal, GetCode(err))
}
