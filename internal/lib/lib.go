// Package lib holds integrations that do not belong to a single layer.
//
// rpc is the client for the remote procedure-call endpoint that persists
// leads; utils holds small shared helpers.
package lib
