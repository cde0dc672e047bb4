package xml

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/loeliger/clixon/lib/yang"
)

// --------------------------------------------------------------------------
// Flags
// --------------------------------------------------------------------------

// Flag holds per-node marker bits used by tree passes.
type Flag uint8

const (
	FlagMark Flag = 1 << iota // set on query matches during filtering
)

// --------------------------------------------------------------------------
// Tree Nodes
// --------------------------------------------------------------------------

// Node is one element of a configuration tree. A node may carry a body (a
// text value), attributes (e.g. a per-node "operation" override) and child
// elements. Yang points at the schema node typing this element; Spec is set
// on a schema-typed root instead.
type Node struct {
	Name     string
	Parent   *Node
	Children []*Node

	Yang *yang.Node
	Spec *yang.Spec

	attrs   map[string]string
	body    string
	hasBody bool
	flags   Flag
}

// New creates a node and appends it to parent (which may be nil).
func New(name string, parent *Node) *Node {
	n := &Node{Name: name, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, n)
	}
	return n
}

// NewWithSpec creates a node typed by a schema node and appends it to parent.
func NewWithSpec(name string, parent *Node, ys *yang.Node) *Node {
	n := New(name, parent)
	n.Yang = ys
	return n
}

// NewRoot creates a root node typed by a whole schema spec.
func NewRoot(name string, spec *yang.Spec) *Node {
	n := New(name, nil)
	n.Spec = spec
	return n
}

// --------------------------------------------------------------------------
// Body and Attributes
// --------------------------------------------------------------------------

// Body returns the node's text value and whether one is set.
func (n *Node) Body() (string, bool) {
	return n.body, n.hasBody
}

// SetBody attaches a text value to the node.
func (n *Node) SetBody(value string) {
	n.body = value
	n.hasBody = true
}

// Attr returns the value of an attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttr sets an attribute on the node.
func (n *Node) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[name] = value
}

// --------------------------------------------------------------------------
// Lookup and Creation
// --------------------------------------------------------------------------

// Find returns the first child element with the given name, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindValue returns the body of the child with the given name.
func (n *Node) FindValue(name string) (string, bool) {
	c := n.Find(name)
	if c == nil {
		return "", false
	}
	return c.Body()
}

// FindOrCreate returns the first child with the given name, creating it
// (typed by ys) if absent.
func (n *Node) FindOrCreate(name string, ys *yang.Node) *Node {
	if c := n.Find(name); c != nil {
		return c
	}
	return NewWithSpec(name, n, ys)
}

// FindListInstance returns the child list instance with the given name
// whose key children match values pairwise, or nil. Values are compared
// literally, so key values the query language cannot express (ones
// containing a single quote) still resolve.
func (n *Node) FindListInstance(name string, keys, values []string) *Node {
	for _, c := range n.Children {
		if c.Name != name {
			continue
		}
		match := true
		for i, key := range keys {
			if v, ok := c.FindValue(key); !ok || v != values[i] {
				match = false
				break
			}
		}
		if match {
			return c
		}
	}
	return nil
}

// FindLeafListInstance returns the child with the given name whose body
// equals value, or nil. Leaf-list instances are discriminated by body.
func (n *Node) FindLeafListInstance(name, value string) *Node {
	for _, c := range n.Children {
		if c.Name != name {
			continue
		}
		if b, ok := c.Body(); ok && b == value {
			return c
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Flags and Traversal
// --------------------------------------------------------------------------

func (n *Node) SetFlag(f Flag)      { n.flags |= f }
func (n *Node) HasFlag(f Flag) bool { return n.flags&f != 0 }
func (n *Node) ClearFlag(f Flag)    { n.flags &^= f }

// Walk applies fn to the node and every descendant, in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ClearFlags removes the given flag bits from the whole subtree.
func (n *Node) ClearFlags(f Flag) {
	n.Walk(func(x *Node) { x.ClearFlag(f) })
}

// removeChild unlinks a direct child.
func (n *Node) removeChild(c *Node) {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// --------------------------------------------------------------------------
// Schema-driven passes
// --------------------------------------------------------------------------

// PruneUnmarked removes every node that is not marked, has no marked
// ancestor and no marked descendant. The root itself is always retained so
// the result stays a single well-formed tree.
func (n *Node) PruneUnmarked() {
	n.pruneUnmarked(false)
}

// pruneUnmarked reports whether this subtree is retained.
func (n *Node) pruneUnmarked(ancestorMarked bool) bool {
	marked := ancestorMarked || n.HasFlag(FlagMark)
	keep := marked
	for _, c := range append([]*Node(nil), n.Children...) {
		if c.pruneUnmarked(marked) {
			keep = true
		} else {
			n.removeChild(c)
		}
	}
	return keep
}

// ApplyDefaults injects schema-declared default values for leaves left
// unset, throughout the subtree.
func (n *Node) ApplyDefaults() {
	for _, ys := range n.schemaChildren() {
		def, ok := ys.DefaultValue()
		if !ok || ys.Kind != yang.Leaf {
			continue
		}
		if n.Find(ys.Name) == nil {
			NewWithSpec(ys.Name, n, ys).SetBody(def)
		}
	}
	for _, c := range n.Children {
		c.ApplyDefaults()
	}
}

// SortChildren reorders each node's children to schema declaration order.
// Children without a schema position keep their relative order at the end.
// List and leaf-list siblings share one declaration position, so their
// instance order is preserved.
func (n *Node) SortChildren() {
	order := map[string]int{}
	for i, ys := range n.schemaChildren() {
		order[ys.Name] = i
	}
	if len(order) > 0 {
		pos := func(c *Node) int {
			if i, ok := order[c.Name]; ok {
				return i
			}
			return len(order)
		}
		sort.SliceStable(n.Children, func(i, j int) bool {
			return pos(n.Children[i]) < pos(n.Children[j])
		})
	}
	for _, c := range n.Children {
		c.SortChildren()
	}
}

// Sanity verifies the tree's structure against its schema typing. It must
// not fail on trees this package's own passes produce.
func (n *Node) Sanity() error {
	if n.Yang != nil {
		if n.Yang.Name != n.Name {
			return fmt.Errorf("xml: node %q typed by schema node %q", n.Name, n.Yang.Name)
		}
		if n.Yang.Kind == yang.List {
			keys, err := n.Yang.ListKeys()
			if err != nil {
				return err
			}
			for _, key := range keys {
				if n.Find(key) == nil {
					return fmt.Errorf("xml: list instance %q lacks key child %q", n.Name, key)
				}
			}
		}
	}
	for _, c := range n.Children {
		if err := c.Sanity(); err != nil {
			return err
		}
	}
	return nil
}

// PruneState removes subtrees whose schema declares config false, leaving
// only configuration data.
func (n *Node) PruneState() {
	for _, c := range append([]*Node(nil), n.Children...) {
		if c.Yang != nil && !c.Yang.IsConfig() {
			n.removeChild(c)
			continue
		}
		c.PruneState()
	}
}

// schemaChildren returns the schema nodes typing this node's children: the
// spec's top-level nodes for a spec-typed root, the yang node's children
// otherwise.
func (n *Node) schemaChildren() []*yang.Node {
	if n.Spec != nil {
		return n.Spec.Nodes
	}
	if n.Yang != nil {
		return n.Yang.Children
	}
	return nil
}

// --------------------------------------------------------------------------
// Output
// --------------------------------------------------------------------------

// Dump writes an indented XML-style rendering of the subtree, for debugging
// and CLI output.
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	body, hasBody := n.Body()
	switch {
	case len(n.Children) == 0 && hasBody:
		fmt.Fprintf(w, "%s<%s>%s</%s>\n", indent, n.Name, body, n.Name)
	case len(n.Children) == 0:
		fmt.Fprintf(w, "%s<%s/>\n", indent, n.Name)
	default:
		fmt.Fprintf(w, "%s<%s>\n", indent, n.Name)
		if hasBody {
			fmt.Fprintf(w, "%s  %s\n", indent, body)
		}
		for _, c := range n.Children {
			c.dump(w, depth+1)
		}
		fmt.Fprintf(w, "%s</%s>\n", indent, n.Name)
	}
}

// Export converts the subtree into plain maps/slices/strings, convenient
// for structural comparison and JSON output. A leaf becomes its body
// string; repeated children (list and leaf-list instances) become slices.
func (n *Node) Export() interface{} {
	body, hasBody := n.Body()
	if len(n.Children) == 0 {
		if hasBody {
			return body
		}
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	for _, c := range n.Children {
		v := c.Export()
		switch prev := out[c.Name].(type) {
		case nil:
			out[c.Name] = v
		case []interface{}:
			out[c.Name] = append(prev, v)
		default:
			out[c.Name] = []interface{}{prev, v}
		}
	}
	if hasBody {
		out["#text"] = body
	}
	return out
}
