package parser

import (
	"errors"
	"fmt"

	"github.com/wsollers/wshell/lexer"
)

// ErrorKind distinguishes a definite mistake from a prefix that could
// still be completed by more input.
type ErrorKind int

const (
	// SyntaxError is an unambiguous mistake: no amount of additional
	// input would make it valid.
	SyntaxError ErrorKind = iota
	// IncompleteInput means the input parsed so far is a valid prefix
	// that a REPL host may complete by reading another line. It is not
	// an error condition by itself; see IsIncomplete.
	IncompleteInput
)

func (k ErrorKind) String() string {
	if k == IncompleteInput {
		return "incomplete input"
	}
	return "syntax error"
}

// ParseError reports a problem found while parsing, carrying the
// 1-based position of the offending token. Its Error method renders
// "<source>:<line>:<column>: <message>", per the shell's diagnostic
// format.
type ParseError struct {
	Source  string
	Line    int
	Col     int
	Kind    ErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Col, e.Message)
}

// IsIncomplete reports whether err is a *ParseError describing
// incomplete, rather than invalid, input. A REPL host can use this to
// decide whether to read another line and retry instead of reporting a
// failure.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == IncompleteInput
	}
	return false
}

func describeTok(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.EOF:
		return "end of input"
	case lexer.Newline:
		return "newline"
	case lexer.Pipe:
		return "'|'"
	case lexer.Semicolon:
		return "';'"
	case lexer.Background:
		return "'&'"
	case lexer.Equals:
		return "'='"
	case lexer.Redirect:
		return fmt.Sprintf("%q", tok.Value)
	case lexer.Let:
		return "'let'"
	case lexer.Comment:
		return "a comment"
	default:
		return fmt.Sprintf("%q", tok.Value)
	}
}
