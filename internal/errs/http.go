package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	// Field is the json name of the offending field (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRetry tells the client the request may be submitted again later.
	// The service itself never retries.
	ActionTypeRetry ActionType = "retry"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	// Type is the kind of action (e.g. "retry").
	Type ActionType `json:"type"`

	// Message is human-readable guidance for the client/UI.
	Message string `json:"message"`

	// Value is the payload for the action.
	Value string `json:"value"`
}

// HTTPError is the single error type written to API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_GATEWAY").
//   - Message: human-friendly message, safe to show to the caller.
//   - Status: HTTP status code.
//   - Override: whether the frontend may show Message verbatim.
//   - Errors: per-field validation errors.
//   - Action: client instruction (optional).
//
// The cause is kept for logging only and is never serialized.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors for the submitted form.
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction.
	Action *Action `json:"action"`

	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// Unwrap exposes the internal cause so errors.Is/As can reach it in logs.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Cause returns the internal error this HTTPError was built from, if any.
func (e *HTTPError) Cause() error {
	return e.cause
}

// WithCause returns a copy of this HTTPError carrying cause for logging.
// The cause never reaches the response body.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  e.Message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		cause:    cause,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Gateway" -> "BAD_GATEWAY"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
