package errors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we translate into user-facing errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// FromPostgres maps low-level database errors onto AppErrors. The unique
// constraint is the authoritative guard for business invariants, so a 23505
// must surface as the same conflict the application-level pre-check produces.
func FromPostgres(err error, resource string) *AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(resource, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Conflict(resource+" already exists", err)
		case pgForeignKeyViolation:
			return BadRequest("referenced "+resource+" does not exist", err)
		case pgCheckViolation:
			return BadRequest(resource+" violates a data constraint", err)
		}
	}

	return Internal("database error", err)
}

// IsUniqueViolation reports whether err is a Postgres 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
