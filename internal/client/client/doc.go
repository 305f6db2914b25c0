// Package client talks to the KrishiSahayak HTTP API on behalf of the
// terminal client.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services layer;
// HTTPClient implements it over net/http with JSON bodies and a bearer
// token set through SetToken.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Any non-2xx response becomes an
// *APIError carrying the server's {message, details} body; a 401 also
// matches ErrUnauthorized with errors.Is.
package client
