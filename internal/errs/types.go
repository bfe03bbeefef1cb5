package errs

import (
	"net/http"
)

const (
	// CodeValidationFailed marks 400s produced by input validation.
	CodeValidationFailed = "VALIDATION_FAILED"

	// CodeDataAccess marks 500s produced by storage failures.
	CodeDataAccess = "DATA_ACCESS_ERROR"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional (nil keeps "BAD_REQUEST"); errors and action carry the
// field-level details and the client hint.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a generic 500. The message is the status
// text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewValidationError creates a 400 carrying field errors, with code VALIDATION_FAILED.
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	code := CodeValidationFailed
	return NewBadRequestError("Validation failed", true, &code, fieldErrors, nil)
}
