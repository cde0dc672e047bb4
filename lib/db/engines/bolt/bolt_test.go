package bolt

import (
	"path/filepath"
	"testing"

	"github.com/loeliger/clixon/lib/db"
	dbtesting "github.com/loeliger/clixon/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BoltDB", func(t testing.TB) db.KVDB {
		d, err := Open(filepath.Join(t.TempDir(), "test_db"))
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		return d
	})
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist_db")
	dbtesting.RunPersistenceTests(t, "BoltDB", func(t testing.TB) db.KVDB {
		d, err := Open(path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		return d
	})
}

func TestInitTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init_db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := d.Set("key", []byte("value"), true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	d, err = Open(path)
	if err != nil {
		t.Fatalf("Open after Init failed: %v", err)
	}
	defer d.Close()
	entries, err := d.Scan("")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty database after Init, got %d entries", len(entries))
	}
}

func TestDestroyMissingFile(t *testing.T) {
	if err := Destroy(filepath.Join(t.TempDir(), "never_created_db")); err != nil {
		t.Errorf("Expected Destroy of missing file to succeed, got %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "from_db")
	to := filepath.Join(dir, "to_db")

	d, err := Open(from)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := d.Set("copied", []byte("yes"), true); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := CopyFile(from, to); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	d, err = Open(to)
	if err != nil {
		t.Fatalf("Open of copy failed: %v", err)
	}
	defer d.Close()
	entry, loaded, err := d.Get("copied")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded || string(entry.Value) != "yes" {
		t.Errorf("Expected copied entry in destination database")
	}
}
