package repository

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"citizen-services/internal/apperrors"
)

// uniqueViolation is the Postgres error code for unique constraint
// violations.
const uniqueViolation = "23505"

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to read rows affected for %s", entity)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// mapError translates driver-level errors into the application taxonomy.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return apperrors.ErrDuplicateKey
	}
	return errors.Wrap(err, msg)
}
