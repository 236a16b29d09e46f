package taxstrategyerrors

import (
	"net/http"

	"github.com/wcewong/paygen/internal/shared/apperror"
)

var (
	ErrEmptyBrackets = apperror.New(
		apperror.CodeInvalidInput,
		"tax brackets cannot be empty",
		http.StatusBadRequest,
	)
	ErrNegativeMinimum = apperror.New(
		apperror.CodeInvalidInput,
		"minimum amount cannot be negative",
		http.StatusBadRequest,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"rate cannot be negative",
		http.StatusBadRequest,
	)
	ErrRateAboveOne = apperror.New(
		apperror.CodeInvalidInput,
		"rate cannot exceed 100%",
		http.StatusBadRequest,
	)
	ErrMinimumAboveMaximum = apperror.New(
		apperror.CodeInvalidInput,
		"minimum cannot be greater than maximum",
		http.StatusBadRequest,
	)
	ErrInvalidFlatTaxRate = apperror.New(
		apperror.CodeInvalidInput,
		"flat tax rate must be between 0 and 1",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"annual salary cannot be negative",
		http.StatusBadRequest,
	)
)
