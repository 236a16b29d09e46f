package payslip

import (
	"errors"

	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgCheckViolation = "23514"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		return paysliperrors.ErrInvalidPayslipRecord
	}

	return err
}
