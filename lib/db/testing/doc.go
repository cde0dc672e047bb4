// Package testing provides a reusable test suite for db.KVDB
// implementations. Engine packages call RunKVDBTests (and, for file-backed
// engines, RunPersistenceTests) from their own tests so every backend is
// held to the same contract: ordered scans, prefix filtering, and the
// value/no-value distinction.
package testing
