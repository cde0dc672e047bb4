package yang

import (
	"testing"
)

const testSpecDoc = `
{
    // minimal server schema
    "nodes": [
        {"name": "server", "kind": "list", "keys": ["name"], "children": [
            {"name": "name", "kind": "leaf"},
            {"name": "port", "kind": "leaf", "default": "22"},
            {"name": "alias", "kind": "leaf-list"},
        ]},
        {"name": "system", "kind": "container", "children": [
            {"name": "hostname", "kind": "leaf"},
            {"name": "uptime", "kind": "leaf", "config": false},
        ]},
    ],
}
`

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(testSpecDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	server := spec.FindTopNode("server")
	if server == nil {
		t.Fatalf("Expected top node server")
	}
	if server.Kind != List {
		t.Errorf("Expected server to be a list, got %s", server.Kind)
	}

	keys, err := server.ListKeys()
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "name" {
		t.Errorf("Expected keys [name], got %v", keys)
	}

	port := server.FindDataNode("port")
	if port == nil {
		t.Fatalf("Expected child port")
	}
	def, ok := port.DefaultValue()
	if !ok || def != "22" {
		t.Errorf("Expected default 22, got %q (ok=%v)", def, ok)
	}
	if port.Parent() != server {
		t.Errorf("Expected port parent to be server")
	}

	alias := server.FindDataNode("alias")
	if alias == nil || alias.Kind != LeafList {
		t.Errorf("Expected alias to be a leaf-list")
	}

	system := spec.FindTopNode("system")
	if system == nil || system.Kind != Container {
		t.Fatalf("Expected container system")
	}
	if !system.FindDataNode("hostname").IsConfig() {
		t.Errorf("Expected hostname to default to config true")
	}
	if system.FindDataNode("uptime").IsConfig() {
		t.Errorf("Expected uptime to be config false")
	}

	if spec.FindTopNode("nonexistent") != nil {
		t.Errorf("Expected nil for unknown top node")
	}
	if server.FindDataNode("nonexistent") != nil {
		t.Errorf("Expected nil for unknown data node")
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"BadJSON":         `{"nodes": [`,
		"UnknownKind":     `{"nodes": [{"name": "x", "kind": "choice"}]}`,
		"ListNoKey":       `{"nodes": [{"name": "x", "kind": "list"}]}`,
		"MissingKey":      `{"nodes": [{"name": "x", "kind": "list", "keys": ["k"]}]}`,
		"NonLeafKey":      `{"nodes": [{"name": "x", "kind": "list", "keys": ["k"], "children": [{"name": "k", "kind": "container"}]}]}`,
		"LeafChildren":    `{"nodes": [{"name": "x", "kind": "leaf", "children": [{"name": "y", "kind": "leaf"}]}]}`,
		"NodeWithoutName": `{"nodes": [{"kind": "leaf"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Errorf("Expected parse error for %s", name)
			}
		})
	}
}

func TestBuilders(t *testing.T) {
	spec := NewSpec(
		NewList("server", []string{"name"},
			NewLeaf("name"),
			NewLeafDefault("port", "22"),
		),
		NewContainer("system", NewLeaf("hostname"), NewStateLeaf("uptime")),
	)

	server := spec.FindTopNode("server")
	if server == nil {
		t.Fatalf("Expected top node server")
	}
	if server.FindDataNode("name").Parent() != server {
		t.Errorf("Expected builder to link parents")
	}
	if _, err := NewLeaf("x").ListKeys(); err == nil {
		t.Errorf("Expected ListKeys on a leaf to fail")
	}
	if spec.FindTopNode("system").FindDataNode("uptime").IsConfig() {
		t.Errorf("Expected state leaf to be config false")
	}
}
