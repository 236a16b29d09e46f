package paysliperrors

import (
	"net/http"

	"github.com/wcewong/paygen/internal/shared/apperror"
)

// Builder errors.
var (
	ErrEmployeeNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee name is required",
		http.StatusBadRequest,
	)
	ErrIncomeAmountsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"all income amounts are required",
		http.StatusBadRequest,
	)
	ErrCurrencyCodeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"currency code is required",
		http.StatusBadRequest,
	)
	ErrNegativeIncome = apperror.New(
		apperror.CodeInvalidInput,
		"income amounts cannot be negative",
		http.StatusBadRequest,
	)
	ErrNetIncomeMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"net income must equal gross income minus tax",
		http.StatusBadRequest,
	)
)

// Service errors.
var (
	ErrEmptyEmployeeName = apperror.New(
		apperror.CodeInvalidInput,
		"employee name cannot be empty",
		http.StatusBadRequest,
	)
	ErrNonPositiveSalary = apperror.New(
		apperror.CodeInvalidInput,
		"annual salary must be a positive number",
		http.StatusBadRequest,
	)
	ErrInvalidCurrencyCode = apperror.New(
		apperror.CodeInvalidInput,
		"currency code must be 3 letters",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be before or equal to to",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidStrategyKind = apperror.New(
		apperror.CodeInvalidInput,
		"kind must be one of [default alternative custom flat]",
		http.StatusBadRequest,
	)
	ErrFlatRateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rate is required for a flat tax strategy",
		http.StatusBadRequest,
	)
	ErrInvalidPayslipRecord = apperror.New(
		apperror.CodeInvalidInput,
		"payslip record violates a database constraint",
		http.StatusBadRequest,
	)
)
