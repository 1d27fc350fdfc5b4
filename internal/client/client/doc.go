// Package client talks to the certifier server on behalf of the CLI.
//
// GRPCClient wraps the JSON-over-gRPC CertifierService stub. It attaches the
// stored access token to protected calls, transparently rotates an expired
// token with the refresh token, and maps gRPC status codes to sentinel
// errors callers can match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrNotLoggedIn, ErrNotFound and ErrRejected.
package client
