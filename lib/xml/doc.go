// Package xml provides the in-memory configuration tree the datastore
// reads and writes: named nodes with optional text bodies, attributes,
// schema typing and marker flags.
//
// The package focuses on:
//   - Tree construction and lookup (New, Find, FindOrCreate,
//     FindLeafListInstance)
//   - A small path-query evaluator (Query) with key-equality predicates,
//     used both to filter read results and to locate list instances
//   - Schema-driven passes: default injection (ApplyDefaults), declaration
//     ordering (SortChildren), structural checking (Sanity), state-data
//     pruning (PruneState)
//   - Mark-and-prune filtering (FlagMark, PruneUnmarked) where the root is
//     always retained so results stay single well-formed trees
//
// Nodes carry parent pointers and are not safe for concurrent mutation;
// each tree belongs to one operation at a time.
package xml
