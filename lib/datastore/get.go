package datastore

import (
	"github.com/loeliger/clixon/lib/db/engines/bolt"
	"github.com/loeliger/clixon/lib/xml"
)

// Get reads the content of a database filtered by a path query and returns
// a minimal tree that includes all matching subtrees. The whole store is
// read and replayed into one tree, then filtered; this full-dump strategy
// is linear in the database size, which is acceptable for configuration
// data read as whole documents.
//
// The empty query and "/" are unrestricted. With configOnly set, state
// (config false) subtrees are pruned from the result. Schema defaults are
// injected for unset leaves and children are returned in schema
// declaration order.
func (h *Handle) Get(dbName, query string, configOnly bool) (*xml.Node, error) {
	file, err := h.dbFile(dbName)
	if err != nil {
		return nil, err
	}
	if h.yangspec == nil {
		return nil, NewError(RetCConfiguration, "no yang spec set")
	}
	countOp("get", dbName)

	store, err := bolt.Open(file)
	if err != nil {
		return nil, NewError(RetCStorage, "open database %s: %v", dbName, err)
	}
	defer store.Close()

	// Read in the complete database and replay it into one tree.
	entries, err := store.Scan("")
	if err != nil {
		return nil, NewError(RetCStorage, "scan database %s: %v", dbName, err)
	}
	root := xml.NewRoot("config", h.yangspec)
	for _, e := range entries {
		if err := decodeInto(root, h.yangspec, e.Key, e.Value, e.HasValue); err != nil {
			return nil, err
		}
	}

	// Mark query matches, then prune everything else. The root is a special
	// case: when it matched, the whole tree is the result.
	if query == "" {
		query = "/"
	}
	matches, err := root.Query(query)
	if err != nil {
		return nil, NewError(RetCKeyFormat, "query %q: %v", query, err)
	}
	for _, m := range matches {
		m.SetFlag(xml.FlagMark)
	}
	if !root.HasFlag(xml.FlagMark) {
		root.PruneUnmarked()
	}
	root.ClearFlags(xml.FlagMark)

	if configOnly {
		root.PruneState()
	}
	root.ApplyDefaults()
	root.SortChildren()
	if err := root.Sanity(); err != nil {
		return nil, NewError(RetCInternal, "sanity: %v", err)
	}
	return root, nil
}
