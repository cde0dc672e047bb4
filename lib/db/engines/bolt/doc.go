// Package bolt implements a file-backed sorted key-value database (KVDB) on
// top of bbolt. It provides a complete implementation of the db.KVDB
// interface with one database file per store and durable writes.
//
// The package focuses on:
//   - One self-contained file per database, created on demand
//   - Ordered key storage, making prefix scans a single cursor walk
//   - A msgpack value record that preserves the value/no-value distinction
//   - Lifecycle helpers (Init, Destroy, CopyFile) for whole-database
//     management by higher layers
//
// Key Components:
//
//   - boltImpl: The database structure implementing db.KVDB. All entries live
//     in a single "data" bucket; bbolt's B+tree keeps keys in byte order.
//
//   - record: The on-disk value encoding. Entries are wrapped in a small
//     msgpack record carrying the value bytes and a HasValue flag, since a
//     key stored without a value must stay distinguishable from a key with
//     an empty value.
//
// Concurrency:
//
//	bbolt takes an exclusive lock on the database file. The intended usage
//	pattern is open-operate-close per logical operation, which also keeps
//	the file free for byte-copies between operations.
package bolt
