// Package sqlerr translates PostgreSQL constraint violations into client errors.
package sqlerr

import (
	"errors"

	"groop/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var uniqueMessages = map[string]string{
	"groop_users_username_key":                    "Username already taken",
	"groop_users_email_key":                       "Email is already being used",
	"groop_groups_members_group_id_member_id_key": "User is already a member of the group",
}

// HandleError returns an *errs.HTTPError for known constraint violations and
// nil for everything else.
func HandleError(err error) *errs.HTTPError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return errs.NewBadRequestError(msg)
		}
		return errs.NewBadRequestError("Duplicate value")
	case codeForeignKeyViolation:
		return errs.NewBadRequestError("Referenced record does not exist")
	case codeCheckViolation:
		return errs.NewBadRequestError("Invalid value for " + pgErr.ColumnName)
	}
	return nil
}
