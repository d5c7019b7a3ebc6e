// Package client talks to the PDF notes REST API.
//
// The Client interface is the contract the CLI depends on; HTTPClient is its
// implementation. Transport failures are reported as ErrUnavailable and a 401
// from the server matches ErrUnauthorized, so callers can use errors.Is.
// Every other non-2xx response is an *APIError carrying the server's
// "error" message.
package client
