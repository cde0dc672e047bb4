package datastore

import (
	"strings"

	"github.com/loeliger/clixon/lib/xml"
	"github.com/loeliger/clixon/lib/yang"
)

// Canonical keys are /-separated paths of schema node names. A keyed-list
// segment carries "=" plus the percent-encoded key values joined by "," in
// declared key order; a leaf-list segment carries "=" plus its encoded
// body. Key values are percent-encoded so the structural characters cannot
// be confused with path structure, which keeps the encoding injective.

const hexDigits = "0123456789ABCDEF"

// reservedKeyChar reports whether c carries structure in canonical keys.
func reservedKeyChar(c byte) bool {
	return c == '%' || c == '/' || c == '=' || c == ','
}

// percentEncode escapes the reserved key characters in a key value.
func percentEncode(s string) string {
	if !strings.ContainsAny(s, "%/=,") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if reservedKeyChar(c) {
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0F])
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// percentDecode reverses percentEncode. It accepts any %XX escape so keys
// encoded by other writers stay readable.
func percentDecode(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", NewError(RetCKeyFormat, "truncated percent escape in %q", s)
		}
		hi := hexVal(s[i+1])
		lo := hexVal(s[i+2])
		if hi < 0 || lo < 0 {
			return "", NewError(RetCKeyFormat, "invalid percent escape in %q", s)
		}
		sb.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return sb.String(), nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// --------------------------------------------------------------------------
// Encoding (write path)
// --------------------------------------------------------------------------

// encodeKey appends one tree node's segment to an accumulated key prefix:
// "/" + name, plus the list or leaf-list suffix where the schema calls for
// one.
func encodeKey(prefix string, ys *yang.Node, x *xml.Node) (string, error) {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('/')
	sb.WriteString(x.Name)

	switch ys.Kind {
	case yang.List:
		keys, err := ys.ListKeys()
		if err != nil {
			return "", NewError(RetCSchemaLookup, "%v", err)
		}
		for i, key := range keys {
			v, ok := x.FindValue(key)
			if !ok {
				return "", NewError(RetCKeyFormat,
					"list node %q does not have key %q child", x.Name, key)
			}
			if i == 0 {
				sb.WriteByte('=')
			} else {
				sb.WriteByte(',')
			}
			sb.WriteString(percentEncode(v))
		}
	case yang.LeafList:
		body, ok := x.Body()
		if !ok {
			return "", NewError(RetCKeyFormat, "leaf-list node %q has no value", x.Name)
		}
		sb.WriteByte('=')
		sb.WriteString(percentEncode(body))
	}
	return sb.String(), nil
}

// --------------------------------------------------------------------------
// Decoding (read path)
// --------------------------------------------------------------------------

// decodeInto replays one stored entry into the tree under root, creating
// intermediate nodes as needed. A list segment whose key-value count does
// not match the schema's declared keys marks a structurally invalid key;
// the entry is skipped silently to tolerate legacy or foreign data. All
// other decode failures are errors.
func decodeInto(root *xml.Node, spec *yang.Spec, key string, value []byte, hasValue bool) error {
	if !strings.HasPrefix(key, "/") {
		return NewError(RetCKeyFormat, "invalid key: %s", key)
	}
	segments := strings.Split(key, "/")[1:]
	if len(segments) == 0 || segments[0] == "" {
		return NewError(RetCKeyFormat, "malformed key: %s", key)
	}

	x := root
	var y *yang.Node
	for i, segment := range segments {
		name := segment
		restval := ""
		if j := strings.IndexByte(segment, '='); j >= 0 {
			name, restval = segment[:j], segment[j+1:]
		}

		if i == 0 {
			y = spec.FindTopNode(name)
		} else {
			y = y.FindDataNode(name)
		}
		if y == nil {
			return NewError(RetCSchemaLookup, "no yang node found: %s", name)
		}

		switch y.Kind {
		case yang.LeafList:
			arg, err := percentDecode(restval)
			if err != nil {
				return err
			}
			xc := x.FindLeafListInstance(name, arg)
			if xc == nil {
				xc = xml.NewWithSpec(name, x, y)
				xc.SetBody(arg)
			}
			x = xc

		case yang.List:
			keys, err := y.ListKeys()
			if err != nil {
				return NewError(RetCSchemaLookup, "%v", err)
			}
			vals := strings.Split(restval, ",")
			if len(vals) != len(keys) {
				// Structurally invalid for this schema: skip the entry.
				return nil
			}
			decoded := make([]string, len(vals))
			for j, v := range vals {
				arg, err := percentDecode(v)
				if err != nil {
					return err
				}
				decoded[j] = arg
			}
			xc := x.FindListInstance(name, keys, decoded)
			if xc == nil {
				xc = xml.NewWithSpec(name, x, y)
				for j, keyName := range keys {
					xk := xml.NewWithSpec(keyName, xc, y.FindDataNode(keyName))
					xk.SetBody(decoded[j])
				}
			}
			x = xc

		default: // leaf and container
			x = x.FindOrCreate(name, y)
		}
	}

	if hasValue {
		if _, ok := x.Body(); !ok {
			x.SetBody(string(value))
		}
	}
	return nil
}
