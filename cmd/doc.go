// Package cmd implements the command-line interface for the clixon-kv
// configuration datastore. It provides a hierarchical command structure for
// inspecting and managing the database files backing a configuration system.
//
// The package is organized into several subpackages:
//
//   - db: Commands for database operations (get, dump, init, rm, exists, copy)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See clixon-kv -help for a list of all commands.
package cmd
