package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/lead-intake/internal/errs"
)

type signupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Plan  string `json:"plan"`
}

func (r *signupRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if r.Plan == "legacy" {
		return CustomValidationErrors{{Field: "plan", Message: "is no longer offered"}}
	}
	return nil
}

func bind(t *testing.T, body string) error {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	return BindAndValidate(c, &signupRequest{})
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidateOK(t *testing.T) {
	require.NoError(t, bind(t, `{"email":"a@b.co"}`))
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	httpErr := requireHTTPError(t, bind(t, `{"email":"not-an-email"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "email", Error: "must be a valid email address"}, httpErr.Errors[0])
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, bind(t, `{"email":"a@b.co","plan":"legacy"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "plan", Error: "is no longer offered"}}, httpErr.Errors)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	httpErr := requireHTTPError(t, bind(t, `{"email":`))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "body", Error: "is not valid JSON"}}, httpErr.Errors)
}

func TestBindAndValidateTypeMismatch(t *testing.T) {
	httpErr := requireHTTPError(t, bind(t, `{"email":42}`))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "has the wrong type"}}, httpErr.Errors)
	assert.NotContains(t, httpErr.Message, "offset")
	assert.NotContains(t, httpErr.Message, "Unmarshal")
}

func TestBindAndValidateNonObjectBody(t *testing.T) {
	httpErr := requireHTTPError(t, bind(t, `["a@b.co"]`))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, []errs.FieldError{{Field: "body", Error: "must be a JSON object"}}, httpErr.Errors)
}
