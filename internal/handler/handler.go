// Package handler is the HTTP layer that sits right behind the router.
//
// Handlers bind and validate payloads through the validation package, then
// call into the service layer and write its result.
package handler
