package datastore

import (
	"errors"
	"os"

	"github.com/loeliger/clixon/lib/db/engines/bolt"
)

// --------------------------------------------------------------------------
// Database Lifecycle
// --------------------------------------------------------------------------

// Exists reports whether the database has been created.
func (h *Handle) Exists(db string) (bool, error) {
	file, err := h.dbFile(db)
	if err != nil {
		return false, err
	}
	if _, err := os.Lstat(file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, NewError(RetCStorage, "stat database %s: %v", db, err)
	}
	return true, nil
}

// Create initializes an empty database, replacing any previous content.
func (h *Handle) Create(db string) error {
	file, err := h.dbFile(db)
	if err != nil {
		return err
	}
	if err := bolt.Init(file); err != nil {
		return NewError(RetCStorage, "create database %s: %v", db, err)
	}
	return nil
}

// Delete destroys the database. Deleting a database never created is not
// an error.
func (h *Handle) Delete(db string) error {
	file, err := h.dbFile(db)
	if err != nil {
		return err
	}
	if err := bolt.Destroy(file); err != nil {
		return NewError(RetCStorage, "delete database %s: %v", db, err)
	}
	return nil
}

// Copy byte-copies database from over database to. The copy itself takes no
// lock on either database; callers coordinating sessions must guard it with
// the lock registry.
func (h *Handle) Copy(from, to string) error {
	fromFile, err := h.dbFile(from)
	if err != nil {
		return err
	}
	toFile, err := h.dbFile(to)
	if err != nil {
		return err
	}
	countOp("copy", to)
	if err := bolt.CopyFile(fromFile, toFile); err != nil {
		return NewError(RetCStorage, "copy %s to %s: %v", from, to, err)
	}
	return nil
}

// Dump returns the raw stored entries of a database whose keys start with
// prefix, in key order. An empty prefix dumps everything. This bypasses
// tree reconstruction and exists for inspection tooling.
func (h *Handle) Dump(db, prefix string) ([]RawEntry, error) {
	file, err := h.dbFile(db)
	if err != nil {
		return nil, err
	}
	store, err := bolt.Open(file)
	if err != nil {
		return nil, NewError(RetCStorage, "open database %s: %v", db, err)
	}
	defer store.Close()

	entries, err := store.Scan(prefix)
	if err != nil {
		return nil, NewError(RetCStorage, "scan database %s: %v", db, err)
	}
	out := make([]RawEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, RawEntry{Key: e.Key, Value: string(e.Value), HasValue: e.HasValue})
	}
	return out, nil
}

// RawEntry is one stored key-value pair as returned by Dump.
type RawEntry struct {
	Key      string
	Value    string
	HasValue bool
}
