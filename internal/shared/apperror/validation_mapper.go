package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns employee_name into "Employee Name".
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError converts the first validator failure into an AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return Wrap(err, CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "gt", "gte":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be greater than %s", field, e.Param()), http.StatusBadRequest)
	case "len":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be %s characters long", field, e.Param()), http.StatusBadRequest)
	case "oneof":
		return New(CodeInvalidInput, fmt.Sprintf("%s must be one of [%s]", field, e.Param()), http.StatusBadRequest)
	default:
		return InvalidField(field)
	}
}
