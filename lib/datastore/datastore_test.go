package datastore

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/loeliger/clixon/lib/db/engines/bolt"
	"github.com/loeliger/clixon/lib/xml"
	"github.com/loeliger/clixon/lib/yang"
)

func testSpec() *yang.Spec {
	return yang.NewSpec(
		yang.NewList("server", []string{"name"},
			yang.NewLeaf("name"),
			yang.NewLeaf("port"),
			yang.NewLeafList("alias"),
		),
		yang.NewList("route", []string{"dest", "via"},
			yang.NewLeaf("dest"),
			yang.NewLeaf("via"),
			yang.NewLeaf("metric"),
		),
		yang.NewContainer("system",
			yang.NewLeaf("hostname"),
			yang.NewStateLeaf("uptime"),
		),
	)
}

// newTestHandle returns a connected handle with a schema and a fresh dbdir.
func newTestHandle(t *testing.T) (*Handle, string) {
	t.Helper()
	dir := t.TempDir()
	h := Connect(nil)
	if err := h.SetOption(OptDbDir, dir); err != nil {
		t.Fatalf("SetOption dbdir failed: %v", err)
	}
	if err := h.SetOption(OptYangSpec, testSpec()); err != nil {
		t.Fatalf("SetOption yangspec failed: %v", err)
	}
	t.Cleanup(h.Disconnect)
	return h, dir
}

// serverTree builds {server: [{name, port}]} under a fresh input tree root.
func serverTree(name, port string) *xml.Node {
	root := xml.New("config", nil)
	s := xml.New("server", root)
	xml.New("name", s).SetBody(name)
	if port != "" {
		xml.New("port", s).SetBody(port)
	}
	return root
}

func TestOptions(t *testing.T) {
	h := Connect(nil)
	defer h.Disconnect()

	if err := h.SetOption(OptDbDir, "/var/db"); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	v, err := h.GetOption(OptDbDir)
	if err != nil || v.(string) != "/var/db" {
		t.Errorf("Expected dbdir /var/db, got %v (%v)", v, err)
	}

	spec := testSpec()
	if err := h.SetOption(OptYangSpec, spec); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	v, err = h.GetOption(OptYangSpec)
	if err != nil || v.(*yang.Spec) != spec {
		t.Errorf("Expected the schema back, got %v (%v)", v, err)
	}

	if err := h.SetOption("bogus", "x"); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error for unknown option, got %v", err)
	}
	if _, err := h.GetOption("bogus"); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error for unknown option, got %v", err)
	}
	if err := h.SetOption(OptDbDir, 42); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error for wrong value type, got %v", err)
	}

	// Disconnect is idempotent.
	h.Disconnect()
	h.Disconnect()
}

func TestResolver(t *testing.T) {
	h, _ := newTestHandle(t)

	if _, err := h.Exists("nosuchdb"); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error for unknown database, got %v", err)
	}

	bare := Connect(nil)
	defer bare.Disconnect()
	if _, err := bare.Exists(DBRunning); CodeOf(err) != RetCConfiguration {
		t.Errorf("Expected Configuration error without dbdir, got %v", err)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Canonical keys as stored.
	entries, err := h.Dump(DBCandidate, "")
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	keys := map[string]RawEntry{}
	for _, e := range entries {
		keys[e.Key] = e
	}
	if _, ok := keys["/server=a"]; !ok {
		t.Errorf("Expected stored key /server=a, got %v", keys)
	}
	if e, ok := keys["/server=a/port"]; !ok || !e.HasValue || e.Value != "22" {
		t.Errorf("Expected /server=a/port -> 22, got %+v", e)
	}

	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{"name": "a", "port": "22"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetFilter(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := h.Put(DBCandidate, OpMerge, serverTree("b", "2222")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := h.Get(DBCandidate, "/server[name='b']", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{"name": "b", "port": "2222"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Filtered result mismatch (-want +got):\n%s", diff)
	}

	// No match: an empty but well-formed root comes back.
	got, err = h.Get(DBCandidate, "/server[name='zzz']", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Children) != 0 {
		t.Errorf("Expected empty result tree, got %v", got.Export())
	}

	if _, err := h.Get(DBCandidate, "/server[", false); CodeOf(err) != RetCKeyFormat {
		t.Errorf("Expected KeyFormat error for malformed query, got %v", err)
	}
}

func TestCreateConflict(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpCreate, serverTree("a", "")); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	err := h.Put(DBCandidate, OpCreate, serverTree("a", ""))
	if CodeOf(err) != RetCExistence {
		t.Errorf("Expected ExistenceConflict on second create, got %v", err)
	}
}

func TestDeleteAbsent(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Create(DBCandidate); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := h.Put(DBCandidate, OpDelete, serverTree("ghost", ""))
	if CodeOf(err) != RetCExistence {
		t.Errorf("Expected ExistenceConflict deleting absent key, got %v", err)
	}

	// Remove and merge never fail on absence.
	if err := h.Put(DBCandidate, OpRemove, serverTree("ghost", "")); err != nil {
		t.Errorf("Expected Remove of absent key to succeed, got %v", err)
	}
	if err := h.Put(DBCandidate, OpMerge, serverTree("ghost", "")); err != nil {
		t.Errorf("Expected Merge to succeed, got %v", err)
	}
}

func TestRemoveSubtreeScope(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := h.Put(DBCandidate, OpMerge, serverTree("b", "2222")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := h.Put(DBCandidate, OpRemove, serverTree("a", "")); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	entries, err := h.Dump(DBCandidate, "")
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	for _, e := range entries {
		if e.Key == "/server=a" || e.Key == "/server=a/name" || e.Key == "/server=a/port" {
			t.Errorf("Expected subtree of a to be gone, found %s", e.Key)
		}
	}
	found := false
	for _, e := range entries {
		if e.Key == "/server=b/port" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected server b to survive the removal")
	}
}

func TestReplaceWipes(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("old", "1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := h.Put(DBCandidate, OpReplace, serverTree("new", "2")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{"name": "new", "port": "2"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Expected replace to wipe prior content (-want +got):\n%s", diff)
	}
}

func TestOperationAttributeOverride(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Ambient none, node-level remove: only the flagged subtree changes.
	tree := serverTree("a", "")
	tree.Find("server").SetAttr("operation", "remove")
	if err := h.Put(DBCandidate, OpNone, tree); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, _ := h.Dump(DBCandidate, "")
	if len(entries) != 0 {
		t.Errorf("Expected database emptied via operation attribute, got %v", entries)
	}

	// Unknown attribute values are naming errors.
	tree = serverTree("x", "")
	tree.Find("server").SetAttr("operation", "explode")
	if err := h.Put(DBCandidate, OpMerge, tree); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error for unknown operation, got %v", err)
	}
}

func TestMalformedStoredKeySkipped(t *testing.T) {
	h, dir := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Plant a key whose list value count does not match the schema, as
	// legacy or foreign writers might.
	store, err := bolt.Open(filepath.Join(dir, "candidate_db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Set("/server=a,b,c", nil, false); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Expected malformed key to be skipped, got %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{"name": "a", "port": "22"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Skipped key leaked into result (-want +got):\n%s", diff)
	}
}

func TestLeafListRoundTrip(t *testing.T) {
	h, _ := newTestHandle(t)

	root := xml.New("config", nil)
	s := xml.New("server", root)
	xml.New("name", s).SetBody("a")
	xml.New("alias", s).SetBody("web")
	xml.New("alias", s).SetBody("mail")

	if err := h.Put(DBCandidate, OpMerge, root); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{
			"name":  "a",
			"alias": []interface{}{"mail", "web"}, // store order is key order
		},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Leaf-list round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiKeyRoundTrip(t *testing.T) {
	h, _ := newTestHandle(t)

	root := xml.New("config", nil)
	r := xml.New("route", root)
	xml.New("dest", r).SetBody("10.0.0.0/8")
	xml.New("via", r).SetBody("eth0")
	xml.New("metric", r).SetBody("5")

	if err := h.Put(DBCandidate, OpMerge, root); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, _ := h.Dump(DBCandidate, "")
	foundKey := false
	for _, e := range entries {
		if e.Key == "/route=10.0.0.0%2F8,eth0" {
			foundKey = true
		}
	}
	if !foundKey {
		t.Errorf("Expected percent-encoded multi-key entry, got %v", entries)
	}

	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"route": map[string]interface{}{
			"dest":   "10.0.0.0/8",
			"via":    "eth0",
			"metric": "5",
		},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Multi-key round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigOnly(t *testing.T) {
	h, _ := newTestHandle(t)

	root := xml.New("config", nil)
	sys := xml.New("system", root)
	xml.New("hostname", sys).SetBody("host1")
	xml.New("uptime", sys).SetBody("42")

	if err := h.Put(DBCandidate, OpMerge, root); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := h.Get(DBCandidate, "/", true)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"system": map[string]interface{}{"hostname": "host1"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Expected state data pruned (-want +got):\n%s", diff)
	}

	got, err = h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Find("system").Find("uptime") == nil {
		t.Errorf("Expected state data retained without configOnly")
	}
}

func TestDefaultsInjected(t *testing.T) {
	spec := yang.NewSpec(
		yang.NewList("server", []string{"name"},
			yang.NewLeaf("name"),
			yang.NewLeafDefault("port", "22"),
		),
	)
	dir := t.TempDir()
	h := Connect(nil)
	defer h.Disconnect()
	if err := h.SetOption(OptDbDir, dir); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	if err := h.SetOption(OptYangSpec, spec); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := h.Get(DBCandidate, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v, _ := got.Find("server").FindValue("port"); v != "22" {
		t.Errorf("Expected schema default injected, got %q", v)
	}
}

func TestCopy(t *testing.T) {
	h, _ := newTestHandle(t)

	if err := h.Put(DBCandidate, OpMerge, serverTree("a", "22")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := h.Copy(DBCandidate, DBRunning); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	got, err := h.Get(DBRunning, "/", false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := map[string]interface{}{
		"server": map[string]interface{}{"name": "a", "port": "22"},
	}
	if diff := cmp.Diff(want, got.Export()); diff != "" {
		t.Errorf("Copy mismatch (-want +got):\n%s", diff)
	}

	if err := h.Copy("nosuchdb", DBRunning); CodeOf(err) != RetCNaming {
		t.Errorf("Expected Naming error, got %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	h, _ := newTestHandle(t)

	exists, err := h.Exists(DBStartup)
	if err != nil || exists {
		t.Errorf("Expected startup to not exist yet, got %v (%v)", exists, err)
	}

	if err := h.Create(DBStartup); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	exists, _ = h.Exists(DBStartup)
	if !exists {
		t.Errorf("Expected startup to exist after Create")
	}

	if err := h.Delete(DBStartup); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	exists, _ = h.Exists(DBStartup)
	if exists {
		t.Errorf("Expected startup gone after Delete")
	}
}

func TestMissingSchema(t *testing.T) {
	dir := t.TempDir()
	h := Connect(nil)
	defer h.Disconnect()
	if err := h.SetOption(OptDbDir, dir); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}

	if _, err := h.Get(DBRunning, "/", false); CodeOf(err) != RetCConfiguration {
		t.Errorf("Expected Configuration error without schema, got %v", err)
	}
	if err := h.Put(DBRunning, OpMerge, xml.New("config", nil)); CodeOf(err) != RetCConfiguration {
		t.Errorf("Expected Configuration error without schema, got %v", err)
	}
}

func TestPutUnknownNode(t *testing.T) {
	h, _ := newTestHandle(t)

	root := xml.New("config", nil)
	xml.New("bogus", root)
	if err := h.Put(DBCandidate, OpMerge, root); CodeOf(err) != RetCSchemaLookup {
		t.Errorf("Expected SchemaLookup error for unknown top node")
	}

	root = serverTree("a", "")
	xml.New("bogus", root.Find("server"))
	if err := h.Put(DBCandidate, OpMerge, root); CodeOf(err) != RetCSchemaLookup {
		t.Errorf("Expected SchemaLookup error for unknown child node")
	}
}
