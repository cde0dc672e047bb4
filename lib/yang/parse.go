package yang

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Parse reads a schema spec document. Documents are huJSON (JSON with
// comments and trailing commas), so spec files can be annotated:
//
//	{
//	    "nodes": [
//	        // servers keyed by name
//	        {"name": "server", "kind": "list", "keys": ["name"], "children": [
//	            {"name": "name", "kind": "leaf"},
//	            {"name": "port", "kind": "leaf", "default": "22"},
//	        ]},
//	    ],
//	}
func Parse(data []byte) (*Spec, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("yang: malformed spec document: %w", err)
	}
	var s Spec
	if err := json.Unmarshal(std, &s); err != nil {
		return nil, fmt.Errorf("yang: malformed spec document: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.link()
	return &s, nil
}

// ParseFile reads and parses a schema spec file.
func ParseFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yang: read spec file: %w", err)
	}
	return Parse(data)
}
