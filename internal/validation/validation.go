// Package validation binds request bodies and turns validation failures into
// field-level 422 errors.
//
// Struct rules live on the request types as `validate:"..."` tags and run
// through go-playground/validator; anything tags cannot express is returned
// as CustomValidationErrors.
package validation
