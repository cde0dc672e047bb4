package datastore

import (
	"path/filepath"

	"github.com/loeliger/clixon/lib/yang"
)

// --------------------------------------------------------------------------
// Databases
// --------------------------------------------------------------------------

// The fixed set of symbolic database names. Each maps to one store file
// named <dbdir>/<name>_db.
const (
	DBRunning   = "running"
	DBCandidate = "candidate"
	DBStartup   = "startup"
	DBTmp       = "tmp"
)

var validDBs = map[string]bool{
	DBRunning:   true,
	DBCandidate: true,
	DBStartup:   true,
	DBTmp:       true,
}

// --------------------------------------------------------------------------
// Handle
// --------------------------------------------------------------------------

// Option names recognized by GetOption/SetOption.
const (
	OptYangSpec = "yangspec" // *yang.Spec, shared, not owned by the handle
	OptDbDir    = "dbdir"    // string, directory holding the database files
)

// Handle is a per-connection datastore context. It carries the schema root
// and the database directory; every datastore operation goes through one.
// Multiple handles may reference the same schema and directory. Lock state
// lives in the LockRegistry, which handles share, not in the handle itself.
type Handle struct {
	yangspec *yang.Spec
	dbdir    string
	locks    *LockRegistry
}

// Connect creates a new handle. The registry holds process-wide lock state
// and is owned by the caller so several handles can share it; passing nil
// gives the handle a private registry.
func Connect(locks *LockRegistry) *Handle {
	if locks == nil {
		locks = NewLockRegistry()
	}
	return &Handle{locks: locks}
}

// Disconnect releases the handle's owned state. The schema is shared and
// stays untouched. Idempotent.
func (h *Handle) Disconnect() {
	h.yangspec = nil
	h.dbdir = ""
}

// SetOption sets a recognized handle option.
func (h *Handle) SetOption(name string, value interface{}) error {
	switch name {
	case OptYangSpec:
		spec, ok := value.(*yang.Spec)
		if !ok {
			return NewError(RetCNaming, "option %s requires a *yang.Spec value", name)
		}
		h.yangspec = spec
	case OptDbDir:
		dir, ok := value.(string)
		if !ok {
			return NewError(RetCNaming, "option %s requires a string value", name)
		}
		h.dbdir = dir
	default:
		return NewError(RetCNaming, "option %s not implemented", name)
	}
	return nil
}

// GetOption returns the value of a recognized handle option.
func (h *Handle) GetOption(name string) (interface{}, error) {
	switch name {
	case OptYangSpec:
		return h.yangspec, nil
	case OptDbDir:
		return h.dbdir, nil
	default:
		return nil, NewError(RetCNaming, "option %s not implemented", name)
	}
}

// --------------------------------------------------------------------------
// Database File Resolver
// --------------------------------------------------------------------------

// dbFile translates a symbolic database name to the database file path.
func (h *Handle) dbFile(db string) (string, error) {
	if !validDBs[db] {
		return "", NewError(RetCNaming, "no such database: %s", db)
	}
	if h.dbdir == "" {
		return "", NewError(RetCConfiguration, "dbdir not set")
	}
	return filepath.Join(h.dbdir, db+"_db"), nil
}
