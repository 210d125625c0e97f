// Package router builds the echo instance: error handler, IP extraction,
// middleware chain and route groups.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/lead-intake/internal/handler"
	"github.com/deppfellow/lead-intake/internal/middleware"
	"github.com/deppfellow/lead-intake/internal/model"
	"github.com/deppfellow/lead-intake/internal/server"
)

// maxBodySize caps inbound JSON bodies. A lead form is a few hundred bytes.
const maxBodySize = "64K"

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// The client address feeds p_ip_trunc and the rate limiter, so forwarded
	// headers are only honored when explicitly trusted.
	if s.Config.Server.TrustProxyHeaders {
		router.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		router.IPExtractor = echo.ExtractIPDirect()
	}

	router.Use(
		middlewares.Global.Recover(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.BodyLimit(maxBodySize),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", middlewares.RateLimit.Limit())
	api.POST("/lead", handler.Handle(
		h.Lead.Handler,
		h.Lead.SubmitLead,
		http.StatusOK,
		&model.SubmitLeadRequest{},
	))

	return router
}
