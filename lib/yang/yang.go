package yang

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Node Kinds
// --------------------------------------------------------------------------

// Kind classifies a schema node the way YANG data nodes are classified.
type Kind int

const (
	Container Kind = iota // interior node without keys
	Leaf                  // single value
	LeafList              // multiple values, each its own instance
	List                  // keyed list of interior instances
)

var kindNames = map[Kind]string{
	Container: "container",
	Leaf:      "leaf",
	LeafList:  "leaf-list",
	List:      "list",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("yang: unknown kind %d", int(k))
	}
	return json.Marshal(s)
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("yang: unknown kind %q", s)
}

// --------------------------------------------------------------------------
// Schema Nodes
// --------------------------------------------------------------------------

// Node is one element of the schema tree. For List nodes, Keys holds the
// declared key leaf names in order; that order defines the canonical
// encoding of list instances and must never be reordered.
type Node struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Keys     []string `json:"keys,omitempty"`
	Default  *string  `json:"default,omitempty"`
	Config   *bool    `json:"config,omitempty"` // nil means config true
	Children []*Node  `json:"children,omitempty"`

	parent *Node
}

// Parent returns the enclosing schema node, or nil for a top-level node.
func (y *Node) Parent() *Node {
	return y.parent
}

// FindDataNode returns the child data node with the given name, or nil.
func (y *Node) FindDataNode(name string) *Node {
	for _, c := range y.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ListKeys returns the declared key names of a list node, in declared order.
func (y *Node) ListKeys() ([]string, error) {
	if y.Kind != List {
		return nil, fmt.Errorf("yang: %s is not a list", y.Name)
	}
	if len(y.Keys) == 0 {
		return nil, fmt.Errorf("yang: list %q has no key", y.Name)
	}
	return y.Keys, nil
}

// DefaultValue returns the declared default of a leaf and whether one exists.
func (y *Node) DefaultValue() (string, bool) {
	if y.Default == nil {
		return "", false
	}
	return *y.Default, true
}

// IsConfig reports whether the node holds configuration (as opposed to
// state) data. Unset means configuration, matching YANG's default.
func (y *Node) IsConfig() bool {
	return y.Config == nil || *y.Config
}

// --------------------------------------------------------------------------
// Spec
// --------------------------------------------------------------------------

// Spec is the schema root: the set of top-level data nodes across all
// modules, flattened.
type Spec struct {
	Nodes []*Node `json:"nodes"`
}

// FindTopNode returns the top-level data node with the given name, or nil.
func (s *Spec) FindTopNode(name string) *Node {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// link sets parent pointers throughout the spec. Called after parsing and
// by the builders.
func (s *Spec) link() {
	for _, n := range s.Nodes {
		linkNode(n, nil)
	}
}

func linkNode(y *Node, parent *Node) {
	y.parent = parent
	for _, c := range y.Children {
		linkNode(c, y)
	}
}

// validate checks structural schema rules.
func (s *Spec) validate() error {
	var walk func(y *Node) error
	walk = func(y *Node) error {
		if y.Name == "" {
			return fmt.Errorf("yang: node without a name")
		}
		if y.Kind == List && len(y.Keys) == 0 {
			return fmt.Errorf("yang: list %q has no key", y.Name)
		}
		for _, key := range y.Keys {
			k := y.FindDataNode(key)
			if k == nil {
				return fmt.Errorf("yang: list %q declares key %q but has no such child", y.Name, key)
			}
			if k.Kind != Leaf {
				return fmt.Errorf("yang: list %q key %q is not a leaf", y.Name, key)
			}
		}
		if (y.Kind == Leaf || y.Kind == LeafList) && len(y.Children) > 0 {
			return fmt.Errorf("yang: %s %q cannot have children", y.Kind, y.Name)
		}
		for _, c := range y.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range s.Nodes {
		if err := walk(n); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Builders (mainly for tests and embedded specs)
// --------------------------------------------------------------------------

// NewSpec assembles a spec from top-level nodes and links parent pointers.
func NewSpec(nodes ...*Node) *Spec {
	s := &Spec{Nodes: nodes}
	s.link()
	return s
}

// NewContainer creates a container node with the given children.
func NewContainer(name string, children ...*Node) *Node {
	return &Node{Name: name, Kind: Container, Children: children}
}

// NewLeaf creates a leaf node.
func NewLeaf(name string) *Node {
	return &Node{Name: name, Kind: Leaf}
}

// NewLeafDefault creates a leaf node with a declared default value.
func NewLeafDefault(name, def string) *Node {
	return &Node{Name: name, Kind: Leaf, Default: &def}
}

// NewLeafList creates a leaf-list node.
func NewLeafList(name string) *Node {
	return &Node{Name: name, Kind: LeafList}
}

// NewList creates a keyed list node. Key order is preserved as given.
func NewList(name string, keys []string, children ...*Node) *Node {
	return &Node{Name: name, Kind: List, Keys: keys, Children: children}
}

// NewStateLeaf creates a leaf node carrying state (config false) data.
func NewStateLeaf(name string) *Node {
	f := false
	return &Node{Name: name, Kind: Leaf, Config: &f}
}
