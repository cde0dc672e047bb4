// Package mem implements an in-memory key-value database (KVDB) backed by a
// concurrent map. It provides a db.KVDB implementation without persistence,
// intended for tests and throwaway scratch databases.
//
// The package focuses on:
//   - Thread-safe access through a lock-free concurrent map
//   - Full Scan support (snapshot and sort) so it is interchangeable with
//     the file-backed engines in consumers that rely on ordered enumeration
//
// Data does not survive Close; the engine does not advertise
// db.FeaturePersist.
package mem
