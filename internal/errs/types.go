package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional: nil means "BAD_REQUEST".
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
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

// NewUnprocessableEntityError creates a 422 HTTPError for submissions that
// were parsed but do not satisfy the request schema.
func NewUnprocessableEntityError(message string, override bool, errors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnprocessableEntity),
		Message:  message,
		Status:   http.StatusUnprocessableEntity,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
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

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError with a retry hint.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "Too many submissions, try again shortly",
		},
	}
}

// NewBadGatewayError creates a 502 HTTPError. message must not contain anything
// the upstream returned beyond its status code.
func NewBadGatewayError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusBadGateway),
		Message:  message,
		Status:   http.StatusBadGateway,
		Override: false,
	}
}

// NewInternalServerError creates a generic 500 HTTPError.
//
// The message is the status text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return NewInternalServerErrorWithMessage(http.StatusText(http.StatusInternalServerError))
}

// NewInternalServerErrorWithMessage creates a 500 HTTPError with a fixed,
// non-descriptive message.
func NewInternalServerErrorWithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  message,
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
