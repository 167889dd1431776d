package sqlerr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"groop/internal/sqlerr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_UniqueUsername(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "groop_users_username_key"})

	httpErr := sqlerr.HandleError(err)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Username already taken", httpErr.Message)
}

func TestHandleError_UnknownUniqueConstraint(t *testing.T) {
	httpErr := sqlerr.HandleError(&pgconn.PgError{Code: "23505", ConstraintName: "other"})
	require.NotNil(t, httpErr)
	assert.Equal(t, "Duplicate value", httpErr.Message)
}

func TestHandleError_ForeignKey(t *testing.T) {
	httpErr := sqlerr.HandleError(&pgconn.PgError{Code: "23503"})
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestHandleError_NotPostgres(t *testing.T) {
	assert.Nil(t, sqlerr.HandleError(errors.New("connection refused")))
	assert.Nil(t, sqlerr.HandleError(&pgconn.PgError{Code: "40001"}))
}
