package db

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplBolt Implementation = "bolt"
	ImplMem  Implementation = "mem"
)

// Feature represents database features as bit flags
type Feature uint64

const (
	FeatureSet     Feature = 1 << iota // Support for Set operations
	FeatureGet                         // Support for Get operations
	FeatureHas                         // Support for Has operations
	FeatureDelete                      // Support for Delete operations
	FeatureScan                        // Support for ordered prefix scans
	FeaturePersist                     // Data survives Close/reopen cycles
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureHas:
		return "Has"
	case FeatureDelete:
		return "Delete"
	case FeatureScan:
		return "Scan"
	case FeaturePersist:
		return "Persist"
	default:
		return "Unknown"
	}
}

// Entry is a single stored key-value pair. HasValue distinguishes a key
// stored without a value (a purely structural key) from a key whose value
// is the empty string.
type Entry struct {
	Key      string
	Value    []byte
	HasValue bool
}

type DatabaseInfo struct {
	Path              string         `json:"path,omitempty"`
	NumEntries        int            `json:"num_entries"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
}

// DBFactory is a function type that opens a database at the given location.
// This is used to abstract the creation of the db from its consumers.
type DBFactory func(path string) (KVDB, error)

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines an interface for sorted key-value database implementations.
// Keys are unique, non-empty strings; Scan enumerates entries in ascending
// key order. Implementations can vary in their feature support, which can
// be queried with SupportsFeature.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates an entry. The key must be non-empty. If
	// hasValue is false the key is stored without a value; a later Get
	// must report HasValue == false for it. If the key already exists the
	// old entry is overwritten.
	Set(key string, value []byte, hasValue bool) error

	// Delete removes the entry with the specified key.
	// Deleting an absent key is not an error.
	Delete(key string) error

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the entry for an exact key.
	// The boolean return value indicates whether the key was found.
	Get(key string) (entry Entry, loaded bool, err error)

	// Has checks whether a key exists in the database.
	Has(key string) (loaded bool, err error)

	// Scan returns every entry whose key starts with prefix, in ascending
	// key order. An empty prefix enumerates the whole database.
	Scan(prefix string) (entries []Entry, err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the database implementation supports the
	// specified feature. Multiple features can be checked at once using
	// the bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close closes the database and releases any file locks.
	Close() (err error)
}
