// Package http implements the HTTP/1.0 transaction engine used by httpc.
//
// Requests are assembled by hand and written to a raw TCP connection:
//   - URL decomposition into host, port and path
//   - Request-line and header construction (GET and POST)
//   - Response accumulation until the peer closes or the idle deadline expires
//   - Half-close of the connection once the deadline fires
//
// One connection is opened per transaction and never reused.
package http
