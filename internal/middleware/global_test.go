package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/lead-intake/internal/config"
	"github.com/deppfellow/lead-intake/internal/errs"
	"github.com/deppfellow/lead-intake/internal/server"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: config.DefaultConfig(),
		Logger: &logger,
	}
}

func handleError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/api/lead", nil), rec)

	NewGlobalMiddlewares(newTestServer()).GlobalErrorHandler(err, c)

	if method == http.MethodHead {
		return rec, nil
	}

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Run("http error passes through", func(t *testing.T) {
		rec, body := handleError(t, http.MethodPost, errs.NewBadGatewayError("lead write failed: 503"))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "lead write failed: 503", body["message"])
		assert.Equal(t, "BAD_GATEWAY", body["code"])
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec, body := handleError(t, http.MethodPost, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal Server Error", body["message"])
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("echo 5xx is hidden", func(t *testing.T) {
		rec, body := handleError(t, http.MethodPost, echo.NewHTTPError(http.StatusServiceUnavailable, "internal detail"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEqual(t, "internal detail", body["message"])
	})

	t.Run("echo client error keeps status", func(t *testing.T) {
		rec, body := handleError(t, http.MethodPost, echo.ErrMethodNotAllowed)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
	})

	t.Run("cause is not written", func(t *testing.T) {
		err := errs.NewInternalServerErrorWithMessage("lead write failed").
			WithCause(errors.New("dial tcp: lookup project.supabase.co"))
		rec, body := handleError(t, http.MethodPost, err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "lead write failed", body["message"])
		assert.NotContains(t, rec.Body.String(), "supabase")
	})

	t.Run("head has no body", func(t *testing.T) {
		rec, _ := handleError(t, http.MethodHead, errs.NewNotFoundError("Route not found", false, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	mw := RequestID()

	var seen string
	h := mw(func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, h(c))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h(c))
		assert.Equal(t, "abc-123", seen)
	})
}

func TestContextEnhancer_StoresLoggerInRequestContext(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/lead", nil), rec)

	h := NewContextEnhancer(newTestServer()).EnhanceContext()(func(c echo.Context) error {
		assert.NotNil(t, zerolog.Ctx(c.Request().Context()))
		assert.NotNil(t, GetLogger(c))
		return nil
	})

	require.NoError(t, h(c))
}

func TestGetLogger_Fallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
}
