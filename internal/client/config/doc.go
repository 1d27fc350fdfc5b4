// Package config loads runtime configuration for the certifier CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. CERTIFIER_CLI_SERVER_ADDR, CERTIFIER_CLI_SESSION_FILE and
//     CERTIFIER_CLI_TIMEOUT environment variables.
//  4. Command flags (--server, --session, --timeout), applied by package cli.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_file": "certifier-session.db",
//	  "request_timeout": "15s"
//	}
package config
