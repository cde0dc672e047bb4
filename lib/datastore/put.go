package datastore

import (
	"github.com/loeliger/clixon/lib/db"
	"github.com/loeliger/clixon/lib/db/engines/bolt"
	"github.com/loeliger/clixon/lib/xml"
	"github.com/loeliger/clixon/lib/yang"
)

// --------------------------------------------------------------------------
// Operation types
// --------------------------------------------------------------------------

// Op is the mutation semantics applied to a subtree during a write. A
// per-node "operation" attribute on the input tree overrides the ambient
// operation for that node and its subtree.
type Op int

const (
	OpMerge   Op = iota // upsert
	OpReplace           // wipe the database, then upsert
	OpCreate            // fail if the key already exists
	OpDelete            // fail if the key is absent, then remove the subtree
	OpRemove            // remove the subtree, no existence check
	OpNone              // no store write, recurse only
)

var opNames = map[Op]string{
	OpMerge:   "merge",
	OpReplace: "replace",
	OpCreate:  "create",
	OpDelete:  "delete",
	OpRemove:  "remove",
	OpNone:    "none",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "unknown"
}

// ParseOp translates an operation attribute value into an Op.
func ParseOp(s string) (Op, error) {
	for op, name := range opNames {
		if name == s {
			return op, nil
		}
	}
	return OpNone, NewError(RetCNaming, "unknown operation: %s", s)
}

// opEffect describes what one operation does at a node: its existence
// precondition and its store effect. Dispatching over this table keeps the
// create/merge/replace and delete/remove relationships explicit.
type opEffect struct {
	requireAbsent  bool // fail if the key exists
	requirePresent bool // fail if the key is absent
	write          bool // upsert the node's body at its key
	remove         bool // remove the stored subtree
}

var opTable = map[Op]opEffect{
	OpCreate:  {requireAbsent: true, write: true},
	OpMerge:   {write: true},
	OpReplace: {write: true},
	OpDelete:  {requirePresent: true, remove: true},
	OpRemove:  {remove: true},
	OpNone:    {},
}

// --------------------------------------------------------------------------
// Write engine
// --------------------------------------------------------------------------

// Put modifies a database from an input tree and an operation. OpReplace
// destroys and reinitializes the store before the walk. Each top-level
// child of the tree is resolved against the schema and applied recursively.
//
// There is no transaction boundary: a failure partway through leaves the
// writes already applied in place.
func (h *Handle) Put(dbName string, op Op, tree *xml.Node) error {
	if h.yangspec == nil {
		return NewError(RetCConfiguration, "no yang spec set")
	}
	file, err := h.dbFile(dbName)
	if err != nil {
		return err
	}
	countOp("put", dbName)

	if op == OpReplace {
		if err := bolt.Destroy(file); err != nil {
			return NewError(RetCStorage, "replace database %s: %v", dbName, err)
		}
		if err := bolt.Init(file); err != nil {
			return NewError(RetCStorage, "replace database %s: %v", dbName, err)
		}
	}

	store, err := bolt.Open(file)
	if err != nil {
		return NewError(RetCStorage, "open database %s: %v", dbName, err)
	}
	defer store.Close()

	for _, x := range tree.Children {
		ys := h.yangspec.FindTopNode(x.Name)
		if ys == nil {
			return NewError(RetCSchemaLookup, "no yang node found: %s", x.Name)
		}
		if err := apply(store, x, ys, op, ""); err != nil {
			return err
		}
	}
	return nil
}

// apply writes one tree node and recurses into its children. keyPrefix is
// the canonical key of the parent node.
func apply(store db.KVDB, x *xml.Node, ys *yang.Node, op Op, keyPrefix string) error {
	// A node-level operation attribute overrides the ambient operation.
	if opstr, ok := x.Attr("operation"); ok {
		var err error
		if op, err = ParseOp(opstr); err != nil {
			return err
		}
	}

	key, err := encodeKey(keyPrefix, ys, x)
	if err != nil {
		return err
	}
	effect, ok := opTable[op]
	if !ok {
		return NewError(RetCNaming, "unknown operation: %d", int(op))
	}

	if effect.requireAbsent || effect.requirePresent {
		exists, err := store.Has(key)
		if err != nil {
			return NewError(RetCStorage, "check %s: %v", key, err)
		}
		if effect.requireAbsent && exists {
			return NewError(RetCExistence, "create: %s already exists in database", key)
		}
		if effect.requirePresent && !exists {
			return NewError(RetCExistence, "delete: %s does not exist in database", key)
		}
	}

	if effect.write {
		body, hasBody := x.Body()
		if err := store.Set(key, []byte(body), hasBody); err != nil {
			return NewError(RetCStorage, "set %s: %v", key, err)
		}
	}

	if effect.remove {
		switch ys.Kind {
		case yang.List, yang.Container:
			// Remove every key anchored at this instance, then skip
			// recursion: the whole subtree is already gone.
			entries, err := store.Scan(key)
			if err != nil {
				return NewError(RetCStorage, "scan %s: %v", key, err)
			}
			for _, e := range entries {
				if err := store.Delete(e.Key); err != nil {
					return NewError(RetCStorage, "delete %s: %v", e.Key, err)
				}
			}
			return nil
		default:
			if err := store.Delete(key); err != nil {
				return NewError(RetCStorage, "delete %s: %v", key, err)
			}
		}
	}

	for _, c := range x.Children {
		cys := ys.FindDataNode(c.Name)
		if cys == nil {
			return NewError(RetCSchemaLookup, "no yang node found: %s", c.Name)
		}
		if err := apply(store, c, cys, op, key); err != nil {
			return err
		}
	}
	return nil
}
