// Package yang models the schema that types configuration trees: a tree of
// nodes of four kinds (container, leaf, leaf-list, keyed list), with list
// key declarations, leaf defaults and config/state classification.
//
// The package provides only what the datastore needs from a schema language:
//   - Top-level node lookup (Spec.FindTopNode) and child data node lookup
//     (Node.FindDataNode)
//   - Ordered list key declarations (Node.ListKeys); the declared order is
//     load-bearing, it fixes the canonical encoding of list instances
//   - Leaf defaults (Node.DefaultValue) and the config flag (Node.IsConfig)
//
// Specs are built programmatically with the New* builders or parsed from
// huJSON documents with Parse/ParseFile. The YANG grammar itself is out of
// scope; the spec document format is a plain node tree.
package yang
