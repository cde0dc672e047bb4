// Package db provides a standardized interface for sorted key-value database
// implementations. It defines the KVDB interface that allows for consistent
// interaction with various database backends while abstracting implementation
// details.
//
// The package focuses on:
//   - A unified interface for key-value operations
//   - Ordered enumeration of keys through prefix scans
//   - Feature discovery through capability flags
//   - A structured error system with typed return codes
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must
//     satisfy. It provides methods for basic operations (Set, Get, Has, Delete),
//     ordered enumeration (Scan), metadata retrieval (GetInfo), and lifecycle
//     management (Close).
//
//   - Entry: The stored unit. An entry may carry a value or may exist as a key
//     only; the HasValue flag preserves that distinction across all backends.
//     This matters to consumers that encode structure into keys and cannot
//     treat "no value" and "empty value" as the same thing.
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations can advertise through the SupportsFeature method. This
//     allows clients to discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string
//     constants for the available database backends ("bolt", "mem").
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages, allowing callers to make decisions based
//     on specific error conditions rather than generic errors.
//
// Note on Ordering:
//
//	Scan must return entries in ascending lexicographic key order regardless
//	of backend. Consumers rely on this for deterministic full-database dumps
//	and anchored prefix deletion.
//
// This interface-driven approach allows applications to:
//   - Swap database implementations without code changes
//   - Gracefully handle operations not supported by specific implementations
//   - Maintain consistent behavior across different storage backends
package db
