// Package parser implements a recursive-descent parser producing a pkg/ast
// tree from a lexer.Lexer token stream. Grounded on the teacher's
// internal/parser package shape — a Parser struct holding cur/peek tokens
// with advance()/expect() helpers (internal/parser/parser.go,
// internal/parser/cursor.go) — generalised from DWScript's Pascal grammar
// to this engine's expression-precedence-climbing ECMAScript subset
// (internal/parser/expressions.go's migration_* Pratt-parser tests show
// the teacher itself moved toward precedence climbing; ecmax's expression
// parser follows that approach directly rather than the older
// combinator-based internal/parser/combinators.go path).
//
// This is the frontend SPEC_FULL.md's SUPPLEMENTED FEATURES section calls
// "deliberately thin": it covers variable/function/class declarations,
// control flow, destructuring in binding positions, generators/async
// syntax, template literals, and ES module import/export — but not regex
// literals, tagged templates, decorators, or TypeScript-style type syntax
// (see SPEC_FULL.md's frontend Non-goals).
package parser

import (
	"fmt"

	"github.com/ecmax-lang/ecmax/internal/lexer"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

type ParseError struct {
	Message string
	Pos     lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type Parser struct {
	l         *lexer.Lexer
	cur, peek lexer.Token
	errors    []*ParseError
}

func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.cur.Pos.Line, Column: p.cur.Pos.Column}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Message: fmt.Sprintf(format, args...), Pos: p.cur.Pos})
}

func (p *Parser) Errors() []*ParseError { return p.errors }

// expect asserts the current token's type, advances past it, and records a
// parse error otherwise (returning the zero token so the caller can keep
// going best-effort — ecmax's embedder surface always checks Errors()
// after Parse returns rather than relying on a panic/recover per call).
func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	tok := p.cur
	if p.cur.Type != t {
		p.errorf("expected %s, got %q", what, p.cur.Literal)
		return tok
	}
	p.advance()
	return tok
}

// consumeSemicolon implements just enough automatic semicolon insertion
// (ASI) to accept a newline or `}` or EOF in place of an explicit `;` —
// full ASI (including the restricted-token rules for `return`/`break`/
// `continue`/postfix `++`/`--`) is handled ad hoc at those specific call
// sites instead of here.
func (p *Parser) consumeSemicolon() {
	if p.curIs(lexer.SEMICOLON) {
		p.advance()
		return
	}
	if p.curIs(lexer.RBRACE) || p.curIs(lexer.EOF) || p.cur.NewlineBefore {
		return
	}
	p.errorf("expected ';', got %q", p.cur.Literal)
}

// Parse parses a complete script or module. asModule enables import/export
// statement parsing (spec.md §4.8's module grammar).
func Parse(src string, asModule bool) (*ast.Program, []*ParseError) {
	p := New(src)
	prog := &ast.Program{IsModule: asModule}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		if len(p.errors) > 200 {
			break // runaway parse; bail rather than looping forever on malformed input
		}
	}
	return prog, p.errors
}
