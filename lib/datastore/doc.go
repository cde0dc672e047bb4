// Package datastore implements a configuration datastore backend that maps
// schema-typed configuration trees onto flat, sorted key-value stores and
// back. It is the Go rendition of the classic keyvalue XML datastore
// plugin: a fixed set of named databases (running, candidate, startup,
// tmp), one store file per database, with schema-driven encoding of tree
// paths into canonical keys.
//
// The package focuses on:
//
//   - Handle management: Connect/Disconnect plus the yangspec and dbdir
//     options; every operation is a method on a Handle and is addressed by
//     a symbolic database name which a resolver maps to <dbdir>/<name>_db.
//
//   - The key path codec: a tree path encodes to a /-separated key string;
//     keyed-list segments carry "=" plus percent-encoded key values joined
//     by "," in declared key order, leaf-list segments carry their encoded
//     body. The encoding is injective and percent-encoding round-trips
//     every value, including ones containing the structural characters.
//
//   - The read engine (Get): the whole store is scanned and replayed into
//     one tree, the query path marks matching subtrees, everything else is
//     pruned (the root is always retained), schema defaults are injected
//     and children are ordered by schema declaration. Stored list keys
//     whose key-value count does not match the schema are skipped, not
//     errors, so legacy data stays readable.
//
//   - The write engine (Put): a recursive walk applying one operation per
//     node (create, merge, replace, delete, remove, none), dispatched over
//     an explicit table of existence preconditions and store effects. A
//     per-node "operation" attribute overrides the ambient operation for
//     its subtree. Replace wipes the database first; remove deletes by
//     anchored prefix scan and skips descending. There is no transaction
//     boundary: writes already applied before a failure remain.
//
//   - The lock registry: advisory, last-writer-wins locks on running,
//     candidate and startup for cross-session coordination. The registry
//     is an explicit value shared between handles, owned by the caller.
//
// Error reporting uses typed codes (RetCode) so callers can distinguish
// naming, configuration, schema-lookup, key-format, existence-conflict and
// storage failures.
//
// Concurrency: operations are synchronous and run to completion. The lock
// registry serializes its own bookkeeping; everything else assumes one
// operation at a time per database, which the underlying store's exclusive
// file lock enforces for mutations.
package datastore
