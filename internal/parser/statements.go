package parser

import (
	"github.com/ecmax-lang/ecmax/internal/lexer"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.VAR, lexer.LET, lexer.CONST:
		stmt := p.parseVariableDeclaration()
		p.consumeSemicolon()
		return stmt
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.ASYNC:
		if p.peekIs(lexer.FUNCTION) {
			p.advance()
			return p.parseFunctionDeclaration(true)
		}
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.SEMICOLON:
		pos := p.pos()
		p.advance()
		return &ast.EmptyStatement{StmtBase: ast.StmtAt(pos)}
	case lexer.IMPORT:
		return p.parseImportDeclaration()
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	}
	// `label: statement`
	if p.curIs(lexer.IDENT) && p.peekIs(lexer.COLON) {
		pos := p.pos()
		label := p.cur.Literal
		p.advance()
		p.advance()
		body := p.parseStatement()
		return &ast.LabeledStatement{StmtBase: ast.StmtAt(pos), Label: label, Body: body}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	pos := p.pos()
	p.expect(lexer.LBRACE, "{")
	var body []ast.Statement
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		body = append(body, p.parseStatement())
	}
	p.expect(lexer.RBRACE, "}")
	return &ast.BlockStatement{StmtBase: ast.StmtAt(pos), Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.pos()
	expr := p.parseExpression(precLowest)
	p.consumeSemicolon()
	return &ast.ExpressionStatement{StmtBase: ast.StmtAt(pos), Expression: expr}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	pos := p.pos()
	var kind ast.VariableKind
	switch p.cur.Type {
	case lexer.VAR:
		kind = ast.Var
	case lexer.LET:
		kind = ast.Let
	case lexer.CONST:
		kind = ast.Const
	}
	p.advance()
	decl := &ast.VariableDeclaration{StmtBase: ast.StmtAt(pos), Kind: kind}
	for {
		d := &ast.VariableDeclarator{Base: ast.At(p.pos())}
		d.ID = p.parseBindingTarget()
		if p.curIs(lexer.ASSIGN) {
			p.advance()
			d.Init = p.parseAssignmentExpression()
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.curIs(lexer.COMMA) {
			break
		}
		p.advance()
	}
	return decl
}

// parseBindingTarget parses an identifier or a destructuring pattern,
// including default values (`= expr`) wrapped as an AssignmentPattern.
func (p *Parser) parseBindingTarget() ast.Pattern {
	var target ast.Pattern
	switch {
	case p.curIs(lexer.LBRACKET):
		target = p.parseArrayPattern()
	case p.curIs(lexer.LBRACE):
		target = p.parseObjectPattern()
	default:
		pos := p.pos()
		name := p.cur.Literal
		p.expect(lexer.IDENT, "identifier")
		target = &ast.Identifier{PatternBase: ast.PatternAt(pos), Name: name}
	}
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		def := p.parseAssignmentExpression()
		return &ast.AssignmentPattern{PatternBase: ast.PatternAt(target.Pos()), Left: target, Default: def}
	}
	return target
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	pos := p.pos()
	p.expect(lexer.LBRACKET, "[")
	pat := &ast.ArrayPattern{PatternBase: ast.PatternAt(pos)}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			pat.Elements = append(pat.Elements, nil)
			p.advance()
			continue
		}
		if p.curIs(lexer.DOTDOTDOT) {
			p.advance()
			rest := p.parseBindingTarget()
			pat.Elements = append(pat.Elements, &ast.RestElement{PatternBase: ast.PatternAt(rest.Pos()), Argument: rest})
		} else {
			pat.Elements = append(pat.Elements, p.parseBindingTarget())
		}
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACKET, "]")
	return pat
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	pos := p.pos()
	p.expect(lexer.LBRACE, "{")
	pat := &ast.ObjectPattern{PatternBase: ast.PatternAt(pos)}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DOTDOTDOT) {
			p.advance()
			rest := p.parseBindingTarget()
			pat.Rest = rest
			break
		}
		propPos := p.pos()
		computed := false
		var key ast.Expression
		if p.curIs(lexer.LBRACKET) {
			p.advance()
			key = p.parseAssignmentExpression()
			p.expect(lexer.RBRACKET, "]")
			computed = true
		} else {
			name := p.cur.Literal
			p.advance()
			key = &ast.IdentifierExpression{ExprBase: ast.ExprAt(propPos), Name: name}
		}
		var value ast.Pattern
		if p.curIs(lexer.COLON) {
			p.advance()
			value = p.parseBindingTarget()
		} else {
			ident := key.(*ast.IdentifierExpression)
			value = p.bindingFromShorthand(ident)
		}
		pat.Properties = append(pat.Properties, &ast.ObjectPatternProperty{
			Base: ast.At(propPos), Key: key, Computed: computed, Value: value,
		})
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE, "}")
	return pat
}

func (p *Parser) bindingFromShorthand(ident *ast.IdentifierExpression) ast.Pattern {
	target := ast.Pattern(&ast.Identifier{PatternBase: ast.PatternAt(ident.Pos()), Name: ident.Name})
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		def := p.parseAssignmentExpression()
		return &ast.AssignmentPattern{PatternBase: ast.PatternAt(ident.Pos()), Left: target, Default: def}
	}
	return target
}

func (p *Parser) parseParamList() []ast.Pattern {
	p.expect(lexer.LPAREN, "(")
	var params []ast.Pattern
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DOTDOTDOT) {
			p.advance()
			rest := p.parseBindingTarget()
			params = append(params, &ast.RestElement{PatternBase: ast.PatternAt(rest.Pos()), Argument: rest})
		} else {
			params = append(params, p.parseBindingTarget())
		}
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, ")")
	return params
}

func (p *Parser) parseFunctionDeclaration(async bool) *ast.FunctionDeclaration {
	pos := p.pos()
	p.expect(lexer.FUNCTION, "function")
	generator := false
	if p.curIs(lexer.STAR) {
		generator = true
		p.advance()
	}
	namePos := p.pos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, "identifier")
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionDeclaration{
		StmtBase: ast.StmtAt(pos),
		ID:       &ast.Identifier{PatternBase: ast.PatternAt(namePos), Name: name},
		Params:   params, Body: body, Generator: generator, Async: async,
	}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	var arg ast.Expression
	if !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) && !p.cur.NewlineBefore {
		arg = p.parseExpression(precLowest)
	}
	p.consumeSemicolon()
	return &ast.ReturnStatement{StmtBase: ast.StmtAt(pos), Argument: arg}
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	p.expect(lexer.LPAREN, "(")
	test := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN, ")")
	cons := p.parseStatement()
	var alt ast.Statement
	if p.curIs(lexer.ELSE) {
		p.advance()
		alt = p.parseStatement()
	}
	return &ast.IfStatement{StmtBase: ast.StmtAt(pos), Test: test, Consequent: cons, Alternate: alt}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	p.expect(lexer.LPAREN, "(")
	test := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN, ")")
	body := p.parseStatement()
	return &ast.WhileStatement{StmtBase: ast.StmtAt(pos), Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	body := p.parseStatement()
	p.expect(lexer.WHILE, "while")
	p.expect(lexer.LPAREN, "(")
	test := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN, ")")
	p.consumeSemicolon()
	return &ast.DoWhileStatement{StmtBase: ast.StmtAt(pos), Body: body, Test: test}
}

// parseForStatement disambiguates the four `for` forms (C-style,
// for-in, for-of, and for-await-of) by parsing the init clause first and
// checking what follows it, the standard single-pass approach.
func (p *Parser) parseForStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	isAwait := false
	if p.curIs(lexer.AWAIT) {
		isAwait = true
		p.advance()
	}
	p.expect(lexer.LPAREN, "(")

	var init ast.Node
	if p.curIs(lexer.VAR) || p.curIs(lexer.LET) || p.curIs(lexer.CONST) {
		init = p.parseVariableDeclaration()
	} else if !p.curIs(lexer.SEMICOLON) {
		init = p.parseExpression(precLowest)
	}

	if p.curIs(lexer.IN) {
		p.advance()
		right := p.parseExpression(precLowest)
		p.expect(lexer.RPAREN, ")")
		body := p.parseStatement()
		return &ast.ForInStatement{StmtBase: ast.StmtAt(pos), Left: init, Right: right, Body: body}
	}
	if p.curIs(lexer.OF) {
		p.advance()
		right := p.parseAssignmentExpression()
		p.expect(lexer.RPAREN, ")")
		body := p.parseStatement()
		return &ast.ForOfStatement{StmtBase: ast.StmtAt(pos), Left: init, Right: right, Body: body, Await: isAwait}
	}

	p.expect(lexer.SEMICOLON, ";")
	var test ast.Expression
	if !p.curIs(lexer.SEMICOLON) {
		test = p.parseExpression(precLowest)
	}
	p.expect(lexer.SEMICOLON, ";")
	var update ast.Expression
	if !p.curIs(lexer.RPAREN) {
		update = p.parseExpression(precLowest)
	}
	p.expect(lexer.RPAREN, ")")
	body := p.parseStatement()
	return &ast.ForStatement{StmtBase: ast.StmtAt(pos), Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	label := ""
	if p.curIs(lexer.IDENT) && !p.cur.NewlineBefore {
		label = p.cur.Literal
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.BreakStatement{StmtBase: ast.StmtAt(pos), Label: label}
}

func (p *Parser) parseContinueStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	label := ""
	if p.curIs(lexer.IDENT) && !p.cur.NewlineBefore {
		label = p.cur.Literal
		p.advance()
	}
	p.consumeSemicolon()
	return &ast.ContinueStatement{StmtBase: ast.StmtAt(pos), Label: label}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	arg := p.parseExpression(precLowest)
	p.consumeSemicolon()
	return &ast.ThrowStatement{StmtBase: ast.StmtAt(pos), Argument: arg}
}

func (p *Parser) parseTryStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	block := p.parseBlockStatement()
	var handler *ast.CatchClause
	var finalizer *ast.BlockStatement
	if p.curIs(lexer.CATCH) {
		cpos := p.pos()
		p.advance()
		var param ast.Pattern
		if p.curIs(lexer.LPAREN) {
			p.advance()
			param = p.parseBindingTarget()
			p.expect(lexer.RPAREN, ")")
		}
		body := p.parseBlockStatement()
		handler = &ast.CatchClause{Base: ast.At(cpos), Param: param, Body: body}
	}
	if p.curIs(lexer.FINALLY) {
		p.advance()
		finalizer = p.parseBlockStatement()
	}
	return &ast.TryStatement{StmtBase: ast.StmtAt(pos), Block: block, Handler: handler, Finalizer: finalizer}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	pos := p.pos()
	p.advance()
	p.expect(lexer.LPAREN, "(")
	disc := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN, ")")
	p.expect(lexer.LBRACE, "{")
	var cases []*ast.SwitchCase
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		cpos := p.pos()
		var test ast.Expression
		if p.curIs(lexer.CASE) {
			p.advance()
			test = p.parseExpression(precLowest)
		} else {
			p.expect(lexer.DEFAULT, "default")
		}
		p.expect(lexer.COLON, ":")
		var body []ast.Statement
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, &ast.SwitchCase{Base: ast.At(cpos), Test: test, Consequent: body})
	}
	p.expect(lexer.RBRACE, "}")
	return &ast.SwitchStatement{StmtBase: ast.StmtAt(pos), Discriminant: disc, Cases: cases}
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	pos := p.pos()
	p.advance()
	var id *ast.Identifier
	if p.curIs(lexer.IDENT) {
		namePos := p.pos()
		name := p.cur.Literal
		p.advance()
		id = &ast.Identifier{PatternBase: ast.PatternAt(namePos), Name: name}
	}
	var super ast.Expression
	if p.curIs(lexer.EXTENDS) {
		p.advance()
		super = p.parseExpression(precCall)
	}
	body := p.parseClassBody()
	return &ast.ClassDeclaration{StmtBase: ast.StmtAt(pos), ID: id, SuperClass: super, Body: body}
}

// parseClassExpression reuses ast.ClassDeclaration as the node type (see
// its doc comment: "nil ID for an anonymous class expression") rather than
// a separate ClassExpression node — ClassDeclaration satisfies both
// Statement and Expression.
func (p *Parser) parseClassExpression() ast.Expression {
	return p.parseClassDeclaration().(*ast.ClassDeclaration)
}

// parseClassBody parses the brace-delimited member list: methods,
// getters/setters, and a constructor, static or instance, each a
// function-shaped member (SPEC_FULL.md's frontend Non-goals exclude field
// declarations, private names, and static blocks).
func (p *Parser) parseClassBody() []*ast.ClassMember {
	p.expect(lexer.LBRACE, "{")
	var members []*ast.ClassMember
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.advance()
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expect(lexer.RBRACE, "}")
	return members
}

func (p *Parser) parseClassMember() *ast.ClassMember {
	mpos := p.pos()
	static := false
	if p.curIs(lexer.STATIC) && !p.peekIs(lexer.LPAREN) {
		static = true
		p.advance()
	}
	async := false
	if p.curIs(lexer.ASYNC) && !p.peekIs(lexer.LPAREN) {
		async = true
		p.advance()
	}
	generator := false
	if p.curIs(lexer.STAR) {
		generator = true
		p.advance()
	}
	kind := "method"
	if (p.curIs(lexer.GET) || p.curIs(lexer.SET)) && !p.peekIs(lexer.LPAREN) {
		if p.curIs(lexer.GET) {
			kind = "get"
		} else {
			kind = "set"
		}
		p.advance()
	}

	computed := false
	var key ast.Expression
	if p.curIs(lexer.LBRACKET) {
		p.advance()
		key = p.parseAssignmentExpression()
		p.expect(lexer.RBRACKET, "]")
		computed = true
	} else {
		keyPos := p.pos()
		name := p.cur.Literal
		if p.curIs(lexer.STRING) {
			key = &ast.StringLiteral{ExprBase: ast.ExprAt(keyPos), Value: name}
		} else {
			key = &ast.IdentifierExpression{ExprBase: ast.ExprAt(keyPos), Name: name}
		}
		p.advance()
	}
	if !static && !computed && kind == "method" {
		if id, ok := key.(*ast.IdentifierExpression); ok && id.Name == "constructor" {
			kind = "constructor"
		}
	}

	params := p.parseParamList()
	fnBody := p.parseBlockStatement()
	fn := &ast.FunctionExpression{ExprBase: ast.ExprAt(mpos), Params: params, Body: fnBody, Generator: generator, Async: async}
	return &ast.ClassMember{Base: ast.At(mpos), Key: key, Computed: computed, Kind: kind, Static: static, Value: fn}
}

// parseImportDeclaration covers every import form spec.md §6 routes through
// a Module Record's [[ImportEntries]]: a default binding, a namespace
// binding, a named list (each possibly renamed), a default binding followed
// by either a namespace binding or a named list, and the side-effect-only
// `import "mod"`.
func (p *Parser) parseImportDeclaration() ast.Statement {
	pos := p.pos()
	p.advance()
	var specs []*ast.ImportSpecifier
	if p.curIs(lexer.STRING) {
		source := p.cur.Literal
		p.advance()
		p.consumeSemicolon()
		return &ast.ImportDeclaration{StmtBase: ast.StmtAt(pos), Source: source}
	}
	if p.curIs(lexer.IDENT) {
		namePos := p.pos()
		name := p.cur.Literal
		p.advance()
		specs = append(specs, &ast.ImportSpecifier{Base: ast.At(namePos), Local: name, Default: true})
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	if p.curIs(lexer.STAR) {
		starPos := p.pos()
		p.advance()
		p.expect(lexer.AS, "as")
		name := p.cur.Literal
		p.expect(lexer.IDENT, "identifier")
		specs = append(specs, &ast.ImportSpecifier{Base: ast.At(starPos), Local: name, Namespace: true})
	} else if p.curIs(lexer.LBRACE) {
		p.advance()
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			specPos := p.pos()
			imported := p.cur.Literal
			p.advance()
			local := imported
			if p.curIs(lexer.AS) {
				p.advance()
				local = p.cur.Literal
				p.advance()
			}
			specs = append(specs, &ast.ImportSpecifier{Base: ast.At(specPos), Local: local, Imported: imported})
			if p.curIs(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACE, "}")
	}
	p.expect(lexer.FROM, "from")
	source := p.cur.Literal
	p.expect(lexer.STRING, "string")
	p.consumeSemicolon()
	return &ast.ImportDeclaration{StmtBase: ast.StmtAt(pos), Specifiers: specs, Source: source}
}

// parseExportDeclaration covers spec.md §6's [[ExportEntries]] shapes:
// `export default`, a named list (with an optional re-export source),
// `export <declaration>`, and `export * [as ns] from "mod"`.
func (p *Parser) parseExportDeclaration() ast.Statement {
	pos := p.pos()
	p.advance()
	if p.curIs(lexer.DEFAULT) {
		p.advance()
		var decl ast.Node
		switch {
		case p.curIs(lexer.FUNCTION):
			decl = p.parseFunctionDeclaration(false)
		case p.curIs(lexer.ASYNC) && p.peekIs(lexer.FUNCTION):
			p.advance()
			decl = p.parseFunctionDeclaration(true)
		case p.curIs(lexer.CLASS):
			decl = p.parseClassDeclaration()
		default:
			decl = p.parseAssignmentExpression()
			p.consumeSemicolon()
		}
		return &ast.ExportDefaultDeclaration{StmtBase: ast.StmtAt(pos), Declaration: decl}
	}
	if p.curIs(lexer.STAR) {
		p.advance()
		var as string
		if p.curIs(lexer.AS) {
			p.advance()
			as = p.cur.Literal
			p.expect(lexer.IDENT, "identifier")
		}
		p.expect(lexer.FROM, "from")
		source := p.cur.Literal
		p.expect(lexer.STRING, "string")
		p.consumeSemicolon()
		return &ast.ExportAllDeclaration{StmtBase: ast.StmtAt(pos), Source: source, As: as}
	}
	if p.curIs(lexer.LBRACE) {
		p.advance()
		var specs []*ast.ExportSpecifier
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			specPos := p.pos()
			local := p.cur.Literal
			p.advance()
			exported := local
			if p.curIs(lexer.AS) {
				p.advance()
				exported = p.cur.Literal
				p.advance()
			}
			specs = append(specs, &ast.ExportSpecifier{Base: ast.At(specPos), Local: local, Exported: exported})
			if p.curIs(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACE, "}")
		var source string
		if p.curIs(lexer.FROM) {
			p.advance()
			source = p.cur.Literal
			p.expect(lexer.STRING, "string")
		}
		p.consumeSemicolon()
		return &ast.ExportNamedDeclaration{StmtBase: ast.StmtAt(pos), Specifiers: specs, Source: source}
	}
	decl := p.parseStatement()
	return &ast.ExportNamedDeclaration{StmtBase: ast.StmtAt(pos), Declaration: decl}
}
