// Package parser turns a token stream from package lexer into the
// flat ast.Program tagged union, by recursive descent with one token
// of lookahead. It distinguishes a definite SyntaxError from
// IncompleteInput so a REPL host can ask for another line before
// giving up, mirroring the donor's Parser.Incomplete (syntax/parser.go)
// without needing the donor's continuation-line heuristics — our
// grammar is small enough that only two productions can ever be
// incomplete (a pipe at end of input, and a redirection with no
// target), and both are off by default per the grammar's literal
// error table.
package parser

import (
	"fmt"
	"strings"

	"github.com/wsollers/wshell/ast"
	"github.com/wsollers/wshell/iostreams"
	"github.com/wsollers/wshell/lexer"
	"github.com/wsollers/wshell/policy"
)

type config struct {
	pol                       *policy.Policy
	allowTrailingPipeContinue bool
	allowRedirectEOFContinue  bool
}

func defaultConfig() config {
	return config{pol: policy.Default()}
}

// Option configures optional parser behavior.
type Option func(*config)

// WithPolicy overrides the policy used to validate assignment names.
// The default is policy.Default().
func WithPolicy(pol *policy.Policy) Option {
	return func(c *config) { c.pol = pol }
}

// AllowTrailingPipeContinuation makes a pipeline ending in "|" at end
// of input report IncompleteInput instead of SyntaxError, so a REPL
// host can read another line and retry. Off by default: spec.md's
// literal error table treats this case as a SyntaxError, and this
// option exists only for hosts that want the friendlier behavior.
func AllowTrailingPipeContinuation(enabled bool) Option {
	return func(c *config) { c.allowTrailingPipeContinue = enabled }
}

// AllowRedirectMissingTargetContinuation does the same for a
// redirection operator immediately followed by end of input.
func AllowRedirectMissingTargetContinuation(enabled bool) Option {
	return func(c *config) { c.allowRedirectEOFContinue = enabled }
}

type parser struct {
	source string
	lex    *lexer.Lexer
	tok    lexer.Token
	cfg    config
	err    *ParseError
}

func newParser(source string, src []byte, opts []Option) *parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &parser{source: source, lex: lexer.New(src), cfg: cfg}
	p.advance()
	return p
}

// advance consumes the current token. Once an error has been recorded
// it keeps returning EOF, so the rest of a half-finished parse unwinds
// without cascading further diagnostics — the same discipline as the
// donor's errPass (syntax/parser.go).
func (p *parser) advance() {
	if p.err != nil {
		p.tok = lexer.Token{Kind: lexer.EOF}
		return
	}
	p.tok = p.lex.Next()
}

func (p *parser) fail(tok lexer.Token, kind ErrorKind, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = &ParseError{
		Source:  p.source,
		Line:    tok.Line,
		Col:     tok.Col,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	p.tok = lexer.Token{Kind: lexer.EOF}
}

// ParseProgram reads all of src and parses it as a complete program:
// zero or more newline-separated statements, with blank lines allowed
// anywhere. Returns the first error encountered, if any.
func ParseProgram(src iostreams.Source, opts ...Option) (*ast.Program, error) {
	content, err := src.Read()
	if err != nil {
		return nil, err
	}
	p := newParser(src.Name(), content, opts)
	return p.parseProgram()
}

func (p *parser) parseProgram() (*ast.Program, error) {
	var stmts []ast.Statement
	for p.tok.Kind != lexer.EOF {
		if p.tok.Kind == lexer.Newline {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		stmts = append(stmts, stmt)
		if p.tok.Kind != lexer.Newline && p.tok.Kind != lexer.EOF {
			p.fail(p.tok, SyntaxError, "unexpected %s after statement", describeTok(p.tok))
			return nil, p.err
		}
	}
	return &ast.Program{Statements: stmts}, nil
}

// ParseLine parses a single line of interactive input: at most one
// statement, optionally followed by a trailing newline. A blank line
// parses successfully to a nil Statement, which callers should treat
// as a no-op rather than an empty command.
func ParseLine(line string, opts ...Option) (ast.Statement, error) {
	p := newParser("<input>", []byte(line), opts)
	if p.tok.Kind == lexer.Newline {
		p.advance()
	}
	if p.tok.Kind == lexer.EOF {
		return nil, nil
	}
	stmt := p.parseStatement()
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.Kind != lexer.Newline && p.tok.Kind != lexer.EOF {
		p.fail(p.tok, SyntaxError, "unexpected %s after statement", describeTok(p.tok))
		return nil, p.err
	}
	return stmt, nil
}

func (p *parser) parseStatement() ast.Statement {
	switch p.tok.Kind {
	case lexer.Comment:
		text := p.tok.Value
		p.advance()
		return ast.Comment{Text: text}
	case lexer.Let:
		return p.parseAssignment()
	default:
		return p.parseList()
	}
}

// parseAssignment parses `let NAME = value_tail`, stopping the value
// at the first SEMI, newline, or end of input, then stripping one
// layer of matching outer quotes per §6's quoting rule.
func (p *parser) parseAssignment() ast.Statement {
	p.advance() // consume 'let'
	if p.tok.Kind != lexer.Identifier {
		p.fail(p.tok, SyntaxError, "expected a name after 'let', found %s", describeTok(p.tok))
		return ast.Assignment{}
	}
	nameTok := p.tok
	name := p.tok.Value
	if !p.cfg.pol.IsValidName(name) {
		p.fail(nameTok, SyntaxError, "%q is not a valid variable name", name)
		return ast.Assignment{}
	}
	p.advance()
	if p.tok.Kind != lexer.Equals {
		p.fail(p.tok, SyntaxError, "expected '=' after %q, found %s", name, describeTok(p.tok))
		return ast.Assignment{}
	}
	p.advance()

	var parts []string
	for p.tok.Kind != lexer.Semicolon && p.tok.Kind != lexer.Newline && p.tok.Kind != lexer.EOF {
		if p.tok.Kind == lexer.Equals {
			parts = append(parts, "=")
		} else {
			parts = append(parts, p.tok.Value)
		}
		p.advance()
	}
	value := stripOuterQuotes(strings.Join(parts, " "))
	p.absorbTrailingSemicolon()
	if p.err != nil {
		return ast.Assignment{}
	}
	return ast.Assignment{Name: name, Value: value}
}

// absorbTrailingSemicolon consumes a single trailing ';' left
// unconsumed by a production (assignment's value_tail stops before
// it), reporting ";;" as a syntax error the same way parseList does.
func (p *parser) absorbTrailingSemicolon() {
	if p.tok.Kind != lexer.Semicolon {
		return
	}
	semi := p.tok
	p.advance()
	if p.tok.Kind == lexer.Semicolon {
		p.fail(semi, SyntaxError, "unexpected ';;'")
	}
}

// parseList parses `pipeline { ';' pipeline }`, collapsing to a single
// Statement when only one pipeline was found and otherwise wrapping
// the pipelines in an ast.Sequence. A trailing ';' with nothing after
// it (but a newline or end of input) is accepted and simply absorbed.
func (p *parser) parseList() ast.Statement {
	first := p.parsePipeline()
	if p.err != nil {
		return nil
	}
	stmts := []ast.Statement{first}
	for p.tok.Kind == lexer.Semicolon {
		p.advance()
		if p.tok.Kind == lexer.Semicolon {
			p.fail(p.tok, SyntaxError, "unexpected ';;'")
			return nil
		}
		if p.tok.Kind == lexer.Newline || p.tok.Kind == lexer.EOF {
			break
		}
		next := p.parsePipeline()
		if p.err != nil {
			return nil
		}
		stmts = append(stmts, next)
	}
	if len(stmts) == 1 {
		return stmts[0]
	}
	return ast.NewSequence(stmts)
}

// parsePipeline parses `command { '|' command }`, collapsing to the
// bare Command when there is only one.
func (p *parser) parsePipeline() ast.Statement {
	first := p.parseCommand()
	if p.err != nil {
		return nil
	}
	cmds := []ast.Command{first}
	for p.tok.Kind == lexer.Pipe {
		pipeTok := p.tok
		if cmds[len(cmds)-1].Background {
			p.fail(pipeTok, SyntaxError, "unexpected '|' after '&'")
			return nil
		}
		p.advance()
		switch p.tok.Kind {
		case lexer.Pipe:
			p.fail(pipeTok, SyntaxError, "unexpected '|' after '|'")
			return nil
		case lexer.Semicolon:
			p.fail(pipeTok, SyntaxError, "unexpected ';' after '|'")
			return nil
		case lexer.Newline, lexer.EOF:
			if p.cfg.allowTrailingPipeContinue {
				p.fail(pipeTok, IncompleteInput, "expected a command after '|'")
			} else {
				p.fail(pipeTok, SyntaxError, "expected a command after '|'")
			}
			return nil
		}
		next := p.parseCommand()
		if p.err != nil {
			return nil
		}
		cmds = append(cmds, next)
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return ast.NewPipeline(cmds)
}

// parseCommand parses `IDENT { word_arg } { redirection } [ '&' ]`.
func (p *parser) parseCommand() ast.Command {
	if p.tok.Kind != lexer.Identifier {
		p.fail(p.tok, SyntaxError, "unexpected %s", describeTok(p.tok))
		return ast.Command{}
	}
	nameTok := p.tok
	name := p.readWord()
	if name.Text == "" {
		p.fail(nameTok, SyntaxError, "empty command name")
		return ast.Command{}
	}
	var args []ast.Word
	for p.tok.Kind == lexer.Identifier || p.tok.Kind == lexer.Equals {
		args = append(args, p.readWord())
		if p.err != nil {
			return ast.Command{}
		}
	}
	var redirs []ast.Redirection
	for p.tok.Kind == lexer.Redirect {
		redirs = append(redirs, p.readRedirection())
		if p.err != nil {
			return ast.Command{}
		}
	}
	background := false
	if p.tok.Kind == lexer.Background {
		background = true
		p.advance()
	}
	if p.err != nil {
		return ast.Command{}
	}
	return ast.NewCommand(name, args, redirs, background)
}

func (p *parser) readRedirection() ast.Redirection {
	op := p.tok
	var kind ast.RedirKind
	switch op.Value {
	case "<":
		kind = ast.Input
	case ">":
		kind = ast.OutputTruncate
	case ">>":
		kind = ast.OutputAppend
	}
	p.advance()
	if p.tok.Kind != lexer.Identifier && p.tok.Kind != lexer.Equals {
		if (p.tok.Kind == lexer.Newline || p.tok.Kind == lexer.EOF) && p.cfg.allowRedirectEOFContinue {
			p.fail(op, IncompleteInput, "redirection %q is missing a target", op.Value)
		} else {
			p.fail(op, SyntaxError, "redirection %q is missing a target", op.Value)
		}
		return ast.Redirection{}
	}
	target := p.readWord()
	return ast.Redirection{Kind: kind, Target: target}
}

// readWord consumes one word-shaped token (Identifier, or Equals read
// back as a literal "="). When the token's value opens with a double
// quote, it keeps consuming further word tokens — rejoined with a
// single space each, exactly as the source separated them — until one
// closes with a matching quote, then strips the outer pair and marks
// the resulting Word as Quoted. An input that ends before the closing
// quote is not an error: the opening quote is dropped and the words
// read so far form the Word.
func (p *parser) readWord() ast.Word {
	var raw string
	if p.tok.Kind == lexer.Equals {
		raw = "="
		p.advance()
		return ast.Word{Text: raw, NeedsExpansion: strings.Contains(raw, "$")}
	}

	first := p.tok.Value
	p.advance()
	if !strings.HasPrefix(first, `"`) {
		return ast.Word{Text: first, NeedsExpansion: strings.Contains(first, "$")}
	}

	parts := []string{first}
	closed := len(first) > 1 && strings.HasSuffix(first, `"`)
	for !closed {
		if p.tok.Kind != lexer.Identifier && p.tok.Kind != lexer.Equals {
			break
		}
		var next string
		if p.tok.Kind == lexer.Equals {
			next = "="
		} else {
			next = p.tok.Value
		}
		p.advance()
		parts = append(parts, next)
		if strings.HasSuffix(next, `"`) {
			closed = true
		}
	}
	joined := strings.Join(parts, " ")
	var text string
	if closed {
		text = stripOuterQuotes(joined)
	} else {
		text = strings.TrimPrefix(joined, `"`)
	}
	return ast.Word{Text: text, Quoted: true, NeedsExpansion: strings.Contains(text, "$")}
}

// stripOuterQuotes removes one matching layer of leading/trailing
// quote characters (' or ") from s, with no escape processing, per
// §6's quoting rule shared by assignment values and config values.
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
