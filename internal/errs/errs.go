// Package errs defines the error shapes the service returns to API clients.
//
// Every failure that leaves the HTTP layer is an *HTTPError so callers of
// POST /api/lead always receive the same JSON envelope, whether the submission
// failed validation or the upstream procedure call failed.
package errs
