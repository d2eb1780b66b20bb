package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kloda-app/kloda/backend/internal/repository"
)

const uniqueViolation = "23505"

// asConflict converts a unique violation into a *repository.ConflictError.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &repository.ConflictError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
