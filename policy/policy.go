// Package policy holds the size and naming limits shared by the config
// loader and the interpreter's variable store.
package policy

// Policy bundles the limits that loaders and setters must consult before
// accepting new content, variables, or names. The zero value is not
// usable; build one with Default or Strict.
type Policy struct {
	MaxContentSize   int
	MaxLineLength    int
	MaxVariableCount int
	MaxNameLength    int
	MaxValueLength   int
}

// Default returns the relaxed limits used for everyday interactive use.
func Default() *Policy {
	return &Policy{
		MaxContentSize:   1 << 20, // 1 MiB
		MaxLineLength:    10_000,
		MaxVariableCount: 10_000,
		MaxNameLength:    1_000,
		MaxValueLength:   100_000,
	}
}

// Strict returns tighter limits suited to parsing input from untrusted
// sources, such as a config file dropped into a shared directory.
func Strict() *Policy {
	return &Policy{
		MaxContentSize:   100 << 10, // 100 KiB
		MaxLineLength:    1_000,
		MaxVariableCount: 1_000,
		MaxNameLength:    100,
		MaxValueLength:   10_000,
	}
}

// IsValidName reports whether s is a valid identifier under this policy:
// non-empty, starting with a letter or underscore, continuing with
// letters, digits, or underscores, and no longer than MaxNameLength.
func (p *Policy) IsValidName(s string) bool {
	if s == "" || len(s) > p.MaxNameLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '_', 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z':
		case '0' <= b && b <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
