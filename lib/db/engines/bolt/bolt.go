package bolt

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/loeliger/clixon/lib/db"
	"github.com/vmihailenco/msgpack/v5"
	bbolt "go.etcd.io/bbolt"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

var dataBucket = []byte("data") // Single bucket holding all entries

const supportedFeatures = db.FeatureSet |
	db.FeatureGet |
	db.FeatureHas |
	db.FeatureDelete |
	db.FeatureScan |
	db.FeaturePersist

// --------------------------------------------------------------------------
// Core bolt database structure
// --------------------------------------------------------------------------

// boltImpl implements db.KVDB on top of a single-file bbolt database.
// bbolt stores keys in byte order, so Scan is a plain cursor walk.
type boltImpl struct {
	path string
	bdb  *bbolt.DB
}

// record is the on-disk value encoding. A stored key without a value must
// remain distinguishable from a key with an empty value, which raw bbolt
// values cannot express, so every value is wrapped in this msgpack record.
type record struct {
	Value    []byte `msgpack:"v"`
	HasValue bool   `msgpack:"h"`
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Open opens the database file at path, creating it (and the data bucket)
// if it does not exist.
//
// Thread-safety: bbolt takes an exclusive file lock, so a database file can
// only be open in one place at a time. Callers are expected to Close() the
// returned instance before the file is copied or destroyed.
func Open(path string) (db.KVDB, error) {
	bdb, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, db.NewError(db.RetCInternalError, "open %s: %v", path, err)
	}
	if err := bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(dataBucket)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, db.NewError(db.RetCInternalError, "init bucket in %s: %v", path, err)
	}
	return &boltImpl{path: path, bdb: bdb}, nil
}

// Init creates a fresh, empty database file at path. Any existing file is
// replaced.
func Init(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return db.NewError(db.RetCInternalError, "init %s: %v", path, err)
	}
	d, err := Open(path)
	if err != nil {
		return err
	}
	return d.Close()
}

// Destroy removes the database file at path. A missing file is not an error
// so that re-initialization sequences work on databases never created.
func Destroy(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return db.NewError(db.RetCInternalError, "destroy %s: %v", path, err)
	}
	return nil
}

// CopyFile byte-copies the database file at from over the file at to.
// Neither database may be open.
func CopyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return db.NewError(db.RetCInternalError, "copy %s: %v", from, err)
	}
	defer src.Close()
	dst, err := os.Create(to)
	if err != nil {
		return db.NewError(db.RetCInternalError, "copy to %s: %v", to, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return db.NewError(db.RetCInternalError, "copy %s to %s: %v", from, to, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db/db.go)
// --------------------------------------------------------------------------

func (d *boltImpl) Set(key string, value []byte, hasValue bool) error {
	buf, err := msgpack.Marshal(record{Value: value, HasValue: hasValue})
	if err != nil {
		return db.NewError(db.RetCInternalError, "encode value for %s: %v", key, err)
	}
	err = d.bdb.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(dataBucket).Put([]byte(key), buf)
	})
	if err != nil {
		return db.NewError(db.RetCInternalError, "set %s: %v", key, err)
	}
	return nil
}

func (d *boltImpl) Delete(key string) error {
	err := d.bdb.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(dataBucket).Delete([]byte(key))
	})
	if err != nil {
		return db.NewError(db.RetCInternalError, "delete %s: %v", key, err)
	}
	return nil
}

func (d *boltImpl) Get(key string) (db.Entry, bool, error) {
	var entry db.Entry
	var loaded bool
	err := d.bdb.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(dataBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		e, err := decodeEntry(key, raw)
		if err != nil {
			return err
		}
		entry, loaded = e, true
		return nil
	})
	if err != nil {
		return db.Entry{}, false, db.NewError(db.RetCInternalError, "get %s: %v", key, err)
	}
	return entry, loaded, nil
}

func (d *boltImpl) Has(key string) (bool, error) {
	var loaded bool
	err := d.bdb.View(func(tx *bbolt.Tx) error {
		loaded = tx.Bucket(dataBucket).Get([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, db.NewError(db.RetCInternalError, "has %s: %v", key, err)
	}
	return loaded, nil
}

func (d *boltImpl) Scan(prefix string) ([]db.Entry, error) {
	var entries []db.Entry
	p := []byte(prefix)
	err := d.bdb.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(dataBucket).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			e, err := decodeEntry(string(k), v)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, db.NewError(db.RetCInternalError, "scan %q: %v", prefix, err)
	}
	return entries, nil
}

func (d *boltImpl) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

func (d *boltImpl) GetInfo() db.DatabaseInfo {
	n := 0
	_ = d.bdb.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(dataBucket).Stats().KeyN
		return nil
	})
	return db.DatabaseInfo{
		Path:       d.path,
		NumEntries: n,
		DbType:     db.ImplBolt,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureHas,
			db.FeatureDelete, db.FeatureScan, db.FeaturePersist,
		},
	}
}

func (d *boltImpl) Close() error {
	if err := d.bdb.Close(); err != nil {
		return db.NewError(db.RetCInternalError, "close %s: %v", d.path, err)
	}
	return nil
}

// decodeEntry unpacks a stored record into a db.Entry.
func decodeEntry(key string, raw []byte) (db.Entry, error) {
	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return db.Entry{}, err
	}
	return db.Entry{Key: key, Value: rec.Value, HasValue: rec.HasValue}, nil
}
