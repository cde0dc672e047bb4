package datastore

import "sync"

// --------------------------------------------------------------------------
// Lock Registry
// --------------------------------------------------------------------------

// LockRegistry records which session owns the advisory lock on each
// lockable database. It is advisory bookkeeping for higher-level session
// coordination: Lock is last-writer-wins and callers wanting mutual
// exclusion must check IsLocked first. The registry is process-wide state,
// owned by the surrounding session context and shared between handles; it
// is not persisted and resets with the process.
//
// Only running, candidate and startup are lockable; tmp never is.
type LockRegistry struct {
	mu     sync.Mutex
	owners map[string]uint32
}

// NewLockRegistry creates a registry with all databases unlocked.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{
		owners: map[string]uint32{
			DBRunning:   0,
			DBCandidate: 0,
			DBStartup:   0,
		},
	}
}

// Lock records owner as the holder of db. It unconditionally overwrites a
// previous holder.
func (r *LockRegistry) Lock(db string, owner uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[db]; !ok {
		return NewError(RetCNaming, "no such lockable database: %s", db)
	}
	r.owners[db] = owner
	return nil
}

// Unlock clears the lock on db regardless of holder.
func (r *LockRegistry) Unlock(db string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[db]; !ok {
		return NewError(RetCNaming, "no such lockable database: %s", db)
	}
	r.owners[db] = 0
	return nil
}

// UnlockAll clears every lock held by owner, e.g. when its session ends.
func (r *LockRegistry) UnlockAll(owner uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for db, holder := range r.owners {
		if holder == owner {
			r.owners[db] = 0
		}
	}
}

// IsLocked returns the owner holding db, or 0 if it is unlocked.
func (r *LockRegistry) IsLocked(db string) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[db]
	if !ok {
		return 0, NewError(RetCNaming, "no such lockable database: %s", db)
	}
	return owner, nil
}

// --------------------------------------------------------------------------
// Handle lock surface
// --------------------------------------------------------------------------

// Lock records owner as holding db. See LockRegistry.Lock.
func (h *Handle) Lock(db string, owner uint32) error {
	return h.locks.Lock(db, owner)
}

// Unlock releases the lock on db. See LockRegistry.Unlock.
func (h *Handle) Unlock(db string) error {
	return h.locks.Unlock(db)
}

// UnlockAll releases every lock held by owner.
func (h *Handle) UnlockAll(owner uint32) {
	h.locks.UnlockAll(owner)
}

// IsLocked returns the owner holding db, or 0 if unlocked.
func (h *Handle) IsLocked(db string) (uint32, error) {
	return h.locks.IsLocked(db)
}
