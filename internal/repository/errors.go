package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"blogplatform/internal/apperr"
)

const uniqueViolation = "23505"

// mapErr переводит ошибки pgx в доменные.
func mapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity + " not found")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field := constraintField(pgErr.ConstraintName)
		return apperr.Conflict(entity+" with this "+field+" already exists", field)
	}
	return apperr.Wrap(err, entity+" storage failure")
}

func constraintField(constraint string) string {
	switch {
	case strings.HasSuffix(constraint, "_slug_key"):
		return FieldSlug
	case strings.HasSuffix(constraint, "_name_key"):
		return FieldName
	default:
		return constraint
	}
}

// IsConflictOn: конфликт уникальности именно по полю field.
func IsConflictOn(err error, field string) bool {
	if apperr.KindOf(err) != apperr.KindConflict {
		return false
	}
	for _, d := range apperr.DetailsOf(err) {
		if d == field {
			return true
		}
	}
	return false
}
