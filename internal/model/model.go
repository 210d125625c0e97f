// Package model defines the request, response and outbound payload types
// shared by the handler and service layers.
package model
