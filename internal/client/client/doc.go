// Package client contains the client side of the user REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the five user endpoints: List, Get, Create, Update, Delete.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that joins paths
//     onto an injected base URL, tags every request with an X-Request-ID, and
//     maps failures onto the error types below.
//
// # Error Handling
//
// Any non-2xx status becomes a *ServerError regardless of the code. A
// request that could not complete (dial failure, timeout, reset) becomes a
// *NetworkError, which also matches ErrUnavailable with errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; the underlying http.Client also
// applies its own timeout.
package client
