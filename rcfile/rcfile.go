// Package rcfile loads the per-user startup configuration file
// (~/.wshellrc, or %USERPROFILE%\.wshellrc on Windows) into a plain
// name/value map that the interpreter merges into its variable store
// at session start. Its line grammar and error taxonomy mirror the
// donor's expand.Environ construction style (expand/environ.go), but
// the parsing itself is grounded directly on §4.D/§6 of the shell's
// own configuration grammar.
package rcfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wsollers/wshell/iostreams"
	"github.com/wsollers/wshell/policy"
)

// ErrorKind classifies why a config file could not be fully loaded.
type ErrorKind int

const (
	FileNotFound ErrorKind = iota
	PermissionDenied
	TooLarge
	ParseError
	InvalidName
	TooMany
	IoError
)

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case PermissionDenied:
		return "permission denied"
	case TooLarge:
		return "too large"
	case ParseError:
		return "parse error"
	case InvalidName:
		return "invalid name"
	case TooMany:
		return "too many variables"
	case IoError:
		return "I/O error"
	default:
		return "unknown error"
	}
}

// ConfigError reports a problem loading or parsing an RC file. Line is
// zero when the error is not tied to a specific line (e.g.
// FileNotFound).
type ConfigError struct {
	Source string
	Line   int
	Kind   ErrorKind
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DefaultPath returns the platform default RC file path: the user's
// home directory (from HOME, or USERPROFILE on Windows) joined with
// ".wshellrc". Returns an error if no home directory can be
// determined.
func DefaultPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}
	if home == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			home = dir
		}
	}
	if home == "" {
		return "", &ConfigError{Source: "<rcfile>", Kind: IoError,
			Err: fmt.Errorf("could not determine a home directory")}
	}
	return joinPath(home, ".wshellrc"), nil
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}

// Load reads and parses the RC file at path under pol, returning the
// name/value pairs it defines. A missing file is reported as
// ConfigError{Kind: FileNotFound}; callers that want to treat a
// missing RC file as "no variables" should check for that kind and
// fall back to an empty map, per §7's startup propagation policy.
func Load(path string, pol *policy.Policy) (map[string]string, error) {
	src := iostreams.NewFileSource(path, pol)
	content, err := src.Read()
	if err != nil {
		return nil, classifyReadError(path, err)
	}
	return Parse(path, content, pol)
}

func classifyReadError(path string, err error) error {
	cause := err
	var ioErr *iostreams.IOError
	if errors.As(err, &ioErr) {
		cause = ioErr.Err
	}
	switch {
	case os.IsNotExist(cause):
		return &ConfigError{Source: path, Kind: FileNotFound, Err: err}
	case os.IsPermission(cause):
		return &ConfigError{Source: path, Kind: PermissionDenied, Err: err}
	case errors.Is(cause, iostreams.ErrTooLarge):
		return &ConfigError{Source: path, Kind: TooLarge, Err: err}
	default:
		return &ConfigError{Source: path, Kind: IoError, Err: err}
	}
}

// Parse parses the RC-file grammar out of content: LF-separated
// lines, each blank, a '#' comment, or "NAME = VALUE" with optional
// surrounding whitespace. Lines without '=' are silently ignored
// (the bash-compatibility quirk named in §6). Duplicate names keep
// the last occurrence.
func Parse(source string, content []byte, pol *policy.Policy) (map[string]string, error) {
	vars := make(map[string]string)
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq < 0 {
			continue
		}
		name := strings.TrimSpace(trimmed[:eq])
		value := strings.TrimSpace(trimmed[eq+1:])
		if name == "" {
			continue
		}
		if !pol.IsValidName(name) {
			return nil, &ConfigError{Source: source, Line: lineNo, Kind: InvalidName,
				Err: fmt.Errorf("%q is not a valid variable name", name)}
		}
		value = stripOuterQuotes(value)
		if len(value) > pol.MaxValueLength {
			return nil, &ConfigError{Source: source, Line: lineNo, Kind: TooLarge,
				Err: fmt.Errorf("value for %q exceeds the maximum length", name)}
		}
		if _, exists := vars[name]; !exists && len(vars) >= pol.MaxVariableCount {
			return nil, &ConfigError{Source: source, Line: lineNo, Kind: TooMany,
				Err: fmt.Errorf("exceeded the maximum of %d variables", pol.MaxVariableCount)}
		}
		vars[name] = value
	}
	return vars, nil
}

func stripOuterQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}
