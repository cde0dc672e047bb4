package mem

import (
	"sort"
	"strings"

	"github.com/loeliger/clixon/lib/db"
	"github.com/puzpuzpuz/xsync/v3"
)

const supportedFeatures = db.FeatureSet |
	db.FeatureGet |
	db.FeatureHas |
	db.FeatureDelete |
	db.FeatureScan

// --------------------------------------------------------------------------
// Core mem database structure
// --------------------------------------------------------------------------

// memImpl implements db.KVDB with a concurrent in-memory map. Keys are kept
// unordered internally; Scan snapshots and sorts, which is acceptable for
// the modest database sizes this engine is meant for.
type memImpl struct {
	data *xsync.MapOf[string, db.Entry]
}

// New creates a new empty in-memory database.
func New() db.KVDB {
	return &memImpl{data: xsync.NewMapOf[string, db.Entry]()}
}

// Open creates a new empty in-memory database. The path is ignored; it
// exists so the engine satisfies db.DBFactory.
func Open(_ string) (db.KVDB, error) {
	return New(), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db/db.go)
// --------------------------------------------------------------------------

func (d *memImpl) Set(key string, value []byte, hasValue bool) error {
	v := make([]byte, len(value))
	copy(v, value)
	d.data.Store(key, db.Entry{Key: key, Value: v, HasValue: hasValue})
	return nil
}

func (d *memImpl) Delete(key string) error {
	d.data.Delete(key)
	return nil
}

// copyEntry detaches the returned value from the stored one so callers
// cannot mutate the store through it.
func copyEntry(entry db.Entry) db.Entry {
	if entry.Value != nil {
		v := make([]byte, len(entry.Value))
		copy(v, entry.Value)
		entry.Value = v
	}
	return entry
}

func (d *memImpl) Get(key string) (db.Entry, bool, error) {
	entry, loaded := d.data.Load(key)
	if !loaded {
		return db.Entry{}, false, nil
	}
	return copyEntry(entry), true, nil
}

func (d *memImpl) Has(key string) (bool, error) {
	_, loaded := d.data.Load(key)
	return loaded, nil
}

func (d *memImpl) Scan(prefix string) ([]db.Entry, error) {
	var entries []db.Entry
	d.data.Range(func(key string, entry db.Entry) bool {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, copyEntry(entry))
		}
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (d *memImpl) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

func (d *memImpl) GetInfo() db.DatabaseInfo {
	return db.DatabaseInfo{
		NumEntries: d.data.Size(),
		DbType:     db.ImplMem,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureHas,
			db.FeatureDelete, db.FeatureScan,
		},
	}
}

func (d *memImpl) Close() error {
	return nil
}
