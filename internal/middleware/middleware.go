// Package middleware holds global and route-specific echo middleware.
//
// These handle cross-cutting concerns such as request ids, request logging,
// New Relic tracing, CORS, rate limiting, panic recovery and the global
// error handler.
package middleware
