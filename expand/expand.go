// Package expand implements the variable expander from §4.I: given a
// raw word and a lookup of variable values, produce the string with
// every $VAR or ${VAR} reference substituted. It is grounded on the
// donor's expand.paramExp (expand/param.go) in spirit — look the name
// up, substitute, continue — simplified to this shell's scope, which
// has no arrays, no indirection, and no unset-is-an-error mode.
package expand

import "strings"

// Lookup resolves a variable name to its value. The interpreter's
// variable store implements this directly.
type Lookup interface {
	Get(name string) (string, bool)
}

// MapLookup adapts a plain map to Lookup, for tests and for seeding
// expansion from a config's parsed variables.
type MapLookup map[string]string

func (m MapLookup) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Expand scans raw left to right, substituting every $VAR or ${VAR}
// reference with its value from vars. An unset name expands to the
// empty string (quiet, per §7: ExpansionError has no defined kinds).
// A lone trailing '$' with nothing recognizable after it is passed
// through verbatim.
func Expand(raw string, vars Lookup) string {
	var out strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '$' {
			out.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			out.WriteByte('$')
			break
		}
		if raw[i] == '{' {
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				out.WriteByte('$')
				continue
			}
			name := raw[i+1 : i+1+end]
			i += end + 2
			appendValue(&out, name, vars)
			continue
		}
		start := i
		for i < len(raw) && isNameByte(raw[i]) {
			i++
		}
		name := raw[start:i]
		if name == "" {
			out.WriteByte('$')
			continue
		}
		appendValue(&out, name, vars)
	}
	return out.String()
}

func appendValue(out *strings.Builder, name string, vars Lookup) {
	if v, ok := vars.Get(name); ok {
		out.WriteString(v)
	}
}

func isNameByte(b byte) bool {
	return b == '_' ||
		('A' <= b && b <= 'Z') ||
		('a' <= b && b <= 'z') ||
		('0' <= b && b <= '9')
}
