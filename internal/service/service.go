// Package service contains the business logic.
//
// It sits between the handler layer and the RPC client. It receives
// validated submissions from handlers, normalizes them and forwards them
// upstream, translating upstream outcomes into errs.HTTPError values.
package service
