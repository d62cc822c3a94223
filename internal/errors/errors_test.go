package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "something failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "something failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsValidation(Validation("bad")))
	assert.True(t, IsInternal(Internal("oops")))
	assert.False(t, IsNotFound(Conflict("dup")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestPredicates_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("missing"))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
}

func TestMapDBError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	assert.True(t, IsNotFound(MapDBError(sql.ErrNoRows)))

	uniq := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (slug)=(widget) already exists.",
	}
	mapped := MapDBError(uniq)
	assert.True(t, IsConflict(mapped))
	var appErr *AppError
	assert.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, "slug", appErr.Field)

	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.True(t, IsValidation(MapDBError(fk)))

	assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapDBError(context.Canceled)))

	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
}
