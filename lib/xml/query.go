package xml

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Path queries
// --------------------------------------------------------------------------

// step is one parsed path segment: a child name plus zero or more
// key-equality predicates.
type step struct {
	name  string
	preds []pred
}

// pred matches a child whose key child has an exact body value.
type pred struct {
	key   string
	value string
}

// Query evaluates a path query against the subtree rooted at n and returns
// all matching nodes. The language is the fragment the datastore needs:
//
//	/                           the root itself
//	/server/port                absolute name steps
//	server[name='a']            relative steps with key predicates
//	/a/b[k1='x'][k2='y']/c      multiple predicates per step
//
// Predicate values are matched literally against the body of the named
// child. Values containing a single quote cannot be expressed.
func (n *Node) Query(expr string) ([]*Node, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "/" {
		return []*Node{n}, nil
	}
	expr = strings.TrimPrefix(expr, "/")
	expr = strings.TrimSuffix(expr, "/")

	rawSteps, err := splitSteps(expr)
	if err != nil {
		return nil, err
	}

	current := []*Node{n}
	for _, raw := range rawSteps {
		st, err := parseStep(raw)
		if err != nil {
			return nil, err
		}
		var next []*Node
		for _, ctx := range current {
			for _, c := range ctx.Children {
				if c.Name != st.name {
					continue
				}
				if matchPreds(c, st.preds) {
					next = append(next, c)
				}
			}
		}
		current = next
	}
	return current, nil
}

// QueryFirst returns the first match of expr, or nil.
func (n *Node) QueryFirst(expr string) (*Node, error) {
	matches, err := n.Query(expr)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// splitSteps splits a path on '/' while respecting predicate brackets and
// quoted values, so key values containing '/' survive.
func splitSteps(expr string) ([]string, error) {
	var steps []string
	var sb strings.Builder
	inQuote := false
	depth := 0
	for _, r := range expr {
		switch {
		case r == '\'' && depth > 0:
			inQuote = !inQuote
		case r == '[' && !inQuote:
			depth++
		case r == ']' && !inQuote:
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("xml: unbalanced ']' in query %q", expr)
			}
		case r == '/' && !inQuote && depth == 0:
			steps = append(steps, sb.String())
			sb.Reset()
			continue
		}
		sb.WriteRune(r)
	}
	if inQuote || depth != 0 {
		return nil, fmt.Errorf("xml: unterminated predicate in query %q", expr)
	}
	steps = append(steps, sb.String())
	for _, s := range steps {
		if s == "" {
			return nil, fmt.Errorf("xml: empty step in query %q", expr)
		}
	}
	return steps, nil
}

// parseStep parses "name[k1='v1'][k2='v2']".
func parseStep(s string) (step, error) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		return step{name: s}, nil
	}
	st := step{name: s[:i]}
	rest := s[i:]
	for rest != "" {
		if rest[0] != '[' {
			return step{}, fmt.Errorf("xml: malformed predicate in step %q", s)
		}
		eq := strings.Index(rest, "='")
		if eq < 0 {
			return step{}, fmt.Errorf("xml: malformed predicate in step %q", s)
		}
		key := rest[1:eq]
		tail := rest[eq+2:]
		end := strings.IndexByte(tail, '\'')
		if end < 0 || len(tail) < end+2 || tail[end+1] != ']' {
			return step{}, fmt.Errorf("xml: malformed predicate in step %q", s)
		}
		st.preds = append(st.preds, pred{key: key, value: tail[:end]})
		rest = tail[end+2:]
	}
	if st.name == "" {
		return step{}, fmt.Errorf("xml: predicate without node name in step %q", s)
	}
	return st, nil
}

func matchPreds(n *Node, preds []pred) bool {
	for _, p := range preds {
		v, ok := n.FindValue(p.key)
		if !ok || v != p.value {
			return false
		}
	}
	return true
}
