package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/loeliger/clixon/lib/db"
)

// DBFactory is a function that creates a new, empty instance of a KVDB
// implementation. Implementations needing a file location should allocate
// one via t.TempDir().
type DBFactory func(t testing.TB) db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("NoValueEntries", func(t *testing.T) {
			testNoValueEntries(t, factory(t))
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("ScanOrdering", func(t *testing.T) {
			testScanOrdering(t, factory(t))
		})

		t.Run("PrefixScan", func(t *testing.T) {
			testPrefixScan(t, factory(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(t))
		})
	})
}

// RunPersistenceTests verifies that data survives a Close/reopen cycle.
// The open factory must return a database at the same location on every
// call. Skipped for engines that do not advertise db.FeaturePersist.
func RunPersistenceTests(t *testing.T, name string, open DBFactory) {
	t.Run(name+"/Persistence", func(t *testing.T) {
		database := open(t)
		requireFeature(t, database, db.FeaturePersist)

		if err := database.Set("persist-key", []byte("persist-value"), true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := database.Set("structural-key", nil, false); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := database.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		database = open(t)
		defer database.Close()

		entry, loaded, err := database.Get("persist-key")
		if err != nil {
			t.Fatalf("Get after reopen failed: %v", err)
		}
		if !loaded {
			t.Errorf("Expected persist-key to survive reopen")
		}
		if !bytes.Equal(entry.Value, []byte("persist-value")) {
			t.Errorf("Expected persist-value after reopen, got %s", entry.Value)
		}

		entry, loaded, err = database.Get("structural-key")
		if err != nil {
			t.Fatalf("Get after reopen failed: %v", err)
		}
		if !loaded {
			t.Errorf("Expected structural-key to survive reopen")
		}
		if entry.HasValue {
			t.Errorf("Expected structural-key to stay value-less after reopen")
		}
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

func mustSet(t testing.TB, database db.KVDB, key string, value []byte, hasValue bool) {
	t.Helper()
	if err := database.Set(key, value, hasValue); err != nil {
		t.Fatalf("Set(%s) failed: %v", key, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	mustSet(t, database, testKey, testValue1, true)

	entry, exists, err := database.Get(testKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !entry.HasValue {
		t.Errorf("Expected key %s to carry a value", testKey)
	}
	if !bytes.Equal(entry.Value, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, entry.Value)
	}

	mustSet(t, database, testKey, testValue2, true)

	entry, exists, _ = database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}
	if !bytes.Equal(entry.Value, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, entry.Value)
	}

	_, exists, _ = database.Get("nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrieved, _, _ := database.Get(testKey)
	if len(retrieved.Value) > 0 {
		retrieved.Value[0] = 'X'
		original, _, _ := database.Get(testKey)
		if bytes.Equal(retrieved.Value, original.Value) {
			t.Errorf("Get should return a copy, not a reference to the stored value")
		}
	}
}

func testNoValueEntries(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	mustSet(t, database, "structural", nil, false)
	mustSet(t, database, "empty", []byte{}, true)

	entry, exists, _ := database.Get("structural")
	if !exists {
		t.Errorf("Expected structural key to exist")
	}
	if entry.HasValue {
		t.Errorf("Expected structural key to report HasValue=false")
	}

	entry, exists, _ = database.Get("empty")
	if !exists {
		t.Errorf("Expected empty-value key to exist")
	}
	if !entry.HasValue {
		t.Errorf("Expected empty-value key to report HasValue=true")
	}
	if len(entry.Value) != 0 {
		t.Errorf("Expected empty value, got %q", entry.Value)
	}

	// Overwriting a value entry with a value-less one must drop the value
	mustSet(t, database, "structural", []byte("temp"), true)
	mustSet(t, database, "structural", nil, false)
	entry, _, _ = database.Get("structural")
	if entry.HasValue {
		t.Errorf("Expected HasValue=false after value-less overwrite")
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureHas)

	mustSet(t, database, "present", []byte("value"), true)

	has, err := database.Has("present")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Errorf("Expected Has to return true for present key")
	}

	has, _ = database.Has("absent")
	if has {
		t.Errorf("Expected Has to return false for absent key")
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	mustSet(t, database, "doomed", []byte("value"), true)

	if err := database.Delete("doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, exists, _ := database.Get("doomed")
	if exists {
		t.Errorf("Expected key to be gone after Delete")
	}

	// Deleting an absent key is not an error
	if err := database.Delete("never-existed"); err != nil {
		t.Errorf("Expected Delete of absent key to succeed, got %v", err)
	}
}

func testScanOrdering(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureScan)

	// Insert out of order on purpose
	keys := []string{"/z", "/a", "/m/x", "/m", "/a/b"}
	for _, k := range keys {
		mustSet(t, database, k, []byte(k), true)
	}

	entries, err := database.Scan("")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != len(keys) {
		t.Fatalf("Expected %d entries, got %d", len(keys), len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Errorf("Scan not in ascending order: %s before %s", entries[i-1].Key, entries[i].Key)
		}
	}

	// Like Get, Scan must hand out copies of the stored values
	if len(entries[0].Value) > 0 {
		entries[0].Value[0] = 'X'
		fresh, err := database.Scan("")
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if bytes.Equal(entries[0].Value, fresh[0].Value) {
			t.Errorf("Scan should return copies, not references to the stored values")
		}
	}
}

func testPrefixScan(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureScan)

	for _, k := range []string{"/servers", "/servers/one", "/servers/two", "/services", "/other"} {
		mustSet(t, database, k, nil, false)
	}

	entries, err := database.Scan("/servers")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries for prefix /servers, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Key != "/servers" && e.Key != "/servers/one" && e.Key != "/servers/two" {
			t.Errorf("Unexpected key %s in prefix scan", e.Key)
		}
	}

	entries, _ = database.Scan("/nothing")
	if len(entries) != 0 {
		t.Errorf("Expected empty scan result, got %d entries", len(entries))
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	// Keys with characters that higher layers percent-encode must still be
	// stored verbatim at this layer.
	oddKeys := []string{"/list=a%2Cb", "/x=%25", "key with spaces"}
	for i, k := range oddKeys {
		mustSet(t, database, k, []byte(fmt.Sprintf("v%d", i)), true)
	}
	for i, k := range oddKeys {
		entry, exists, _ := database.Get(k)
		if !exists {
			t.Errorf("Expected key %q to exist", k)
			continue
		}
		want := fmt.Sprintf("v%d", i)
		if string(entry.Value) != want {
			t.Errorf("Expected %s for key %q, got %s", want, k, entry.Value)
		}
	}

	// Large value
	large := bytes.Repeat([]byte("x"), 1<<16)
	mustSet(t, database, "large", large, true)
	entry, exists, _ := database.Get("large")
	if !exists || !bytes.Equal(entry.Value, large) {
		t.Errorf("Large value did not round-trip")
	}
}
