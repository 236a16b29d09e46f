package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to the response shape used by handlers.
// Errors that are not AppErrors are reported as internal errors without
// leaking their text.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    ErrInternal.Code,
			Message: ErrInternal.Message,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	msg := appErr.Message
	var cause *AppError
	if errors.As(appErr.Err, &cause) {
		// Both layers are user-facing, keep the full chain.
		msg = appErr.Error()
	}

	return HTTPError{
		Status:  status,
		Code:    appErr.Code,
		Message: msg,
	}
}
