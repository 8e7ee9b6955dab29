package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// Postgres error codes the stores care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Translate wraps err with what, mapping constraint violations and missing rows to
// apperr kinds. Anything else is returned wrapped as is.
func Translate(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Newf(apperr.KindNotFound, "%s: not found", what)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Newf(apperr.KindDuplicateName, "%s: name already in use", what)
		case codeForeignKeyViolation:
			return apperr.Newf(apperr.KindReferentialConflict, "%s: %s", what, pgErr.Detail)
		case codeCheckViolation:
			return apperr.Newf(apperr.KindValidation, "%s: violates %s", what, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s: %w", what, err)
}
