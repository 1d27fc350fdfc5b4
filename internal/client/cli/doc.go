// Package cli implements the certifier operator console on top of cobra.
//
// Each invocation loads configuration, opens the local session file and a
// gRPC connection, runs one command and exits. Credentials are prompted for
// interactively (without echo on a terminal) and the resulting token pair is
// kept in the session file so later commands run as the same operator.
//
// Commands: register, login, logout, whoami, ping, settings show|set|upload,
// interns add|import|list|get, domains, stats and verify.
package cli
