package parser

import (
	"strconv"
	"strings"

	"github.com/ecmax-lang/ecmax/internal/lexer"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// parseNumericLiteral converts a lexed numeric literal (decimal, with
// optional fraction/exponent, or 0x/0X hex) into its float64 value.
func parseNumericLiteral(lit string) float64 {
	if len(lit) > 1 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		n, err := strconv.ParseUint(strings.ToLower(lit[2:]), 16, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0
	}
	return f
}

// Operator precedence levels, lowest to highest. Grounded on the
// teacher's expression-parsing migration toward precedence climbing
// (see parser.go's doc comment) — ecmax skips straight to a single
// Pratt-style parseExpression rather than keeping the older per-level
// grammar-rule functions the teacher's combinator parser used.
const (
	precLowest     = iota
	precComma      // ,
	precAssign     // = += -= ... ??=
	precConditional // ?:
	precNullish    // ??
	precLogicalOr  // ||
	precLogicalAnd // &&
	precBitOr      // |
	precBitXor     // ^
	precBitAnd     // &
	precEquality   // == != === !==
	precRelational // < > <= >= instanceof in
	precShift      // << >> >>>
	precAdditive   // + -
	precMultiplicative // * / %
	precExponent   // **
	precUnary      // ! ~ + - typeof void delete await
	precPostfix    // ++ -- (postfix)
	precCall       // calls, member access, new with args
	precPrimary
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.OR_OR:       precLogicalOr,
	lexer.AND_AND:     precLogicalAnd,
	lexer.QUESTION_QUESTION: precNullish,
	lexer.BIT_OR:      precBitOr,
	lexer.BIT_XOR:     precBitXor,
	lexer.BIT_AND:     precBitAnd,
	lexer.EQ:          precEquality,
	lexer.NEQ:         precEquality,
	lexer.STRICT_EQ:   precEquality,
	lexer.STRICT_NEQ:  precEquality,
	lexer.LT:          precRelational,
	lexer.GT:          precRelational,
	lexer.LTE:         precRelational,
	lexer.GTE:         precRelational,
	lexer.INSTANCEOF:  precRelational,
	lexer.IN:          precRelational,
	lexer.SHL:         precShift,
	lexer.SHR:         precShift,
	lexer.USHR:        precShift,
	lexer.PLUS:        precAdditive,
	lexer.MINUS:       precAdditive,
	lexer.STAR:        precMultiplicative,
	lexer.SLASH:       precMultiplicative,
	lexer.PERCENT:     precMultiplicative,
	lexer.STAR_STAR:   precExponent,
}

var assignmentOps = map[lexer.TokenType]string{
	lexer.ASSIGN:           "=",
	lexer.PLUS_ASSIGN:      "+=",
	lexer.MINUS_ASSIGN:     "-=",
	lexer.STAR_ASSIGN:      "*=",
	lexer.SLASH_ASSIGN:     "/=",
	lexer.PERCENT_ASSIGN:   "%=",
	lexer.STAR_STAR_ASSIGN: "**=",
	lexer.AND_ASSIGN:       "&&=",
	lexer.OR_ASSIGN:        "||=",
	lexer.NULLISH_ASSIGN:   "??=",
}

// parseExpression parses a full expression, including the comma operator,
// at or above minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	expr := p.parseAssignmentExpression()
	if minPrec <= precComma {
		for p.curIs(lexer.COMMA) {
			pos := expr.Pos()
			exprs := []ast.Expression{expr}
			for p.curIs(lexer.COMMA) {
				p.advance()
				exprs = append(exprs, p.parseAssignmentExpression())
			}
			expr = &ast.SequenceExpression{ExprBase: ast.ExprAt(pos), Expressions: exprs}
		}
	}
	return expr
}

// parseAssignmentExpression handles `=` and compound assignment, which
// are right-associative and sit just above the conditional expression,
// plus arrow functions (disambiguated by lookahead) and yield/await.
func (p *Parser) parseAssignmentExpression() ast.Expression {
	if p.curIs(lexer.YIELD) {
		return p.parseYieldExpression()
	}
	if arrow := p.tryParseArrowFunction(); arrow != nil {
		return arrow
	}

	left := p.parseConditionalExpression()

	if op, ok := assignmentOps[p.cur.Type]; ok {
		pos := left.Pos()
		p.advance()
		right := p.parseAssignmentExpression()
		var target ast.Node = left
		if op == "=" {
			target = exprToPattern(left)
		}
		return &ast.AssignmentExpression{ExprBase: ast.ExprAt(pos), Operator: op, Left: target, Right: right}
	}
	return left
}

// exprToPattern reinterprets an already-parsed expression as an
// assignment target pattern, needed because `[a, b] = x` and `{a} = x`
// parse their left side as ordinary array/object expressions until the
// `=` disambiguates them (the standard single-pass destructuring-target
// recovery technique).
func exprToPattern(e ast.Expression) ast.Pattern {
	switch v := e.(type) {
	case *ast.IdentifierExpression:
		return &ast.Identifier{PatternBase: ast.PatternAt(v.Pos()), Name: v.Name}
	case *ast.ArrayExpression:
		pat := &ast.ArrayPattern{PatternBase: ast.PatternAt(v.Pos())}
		for _, el := range v.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				pat.Elements = append(pat.Elements, &ast.RestElement{
					PatternBase: ast.PatternAt(spread.Pos()), Argument: exprToPattern(spread.Argument),
				})
				continue
			}
			pat.Elements = append(pat.Elements, exprToPattern(el))
		}
		return pat
	case *ast.ObjectExpression:
		pat := &ast.ObjectPattern{PatternBase: ast.PatternAt(v.Pos())}
		for _, prop := range v.Properties {
			if prop.Kind == "spread" {
				pat.Rest = exprToPattern(prop.Value)
				continue
			}
			pat.Properties = append(pat.Properties, &ast.ObjectPatternProperty{
				Base: ast.At(prop.Pos()), Key: prop.Key, Computed: prop.Computed, Value: exprToPattern(prop.Value),
			})
		}
		return pat
	case *ast.AssignmentExpression:
		if v.Operator == "=" {
			if lhs, ok := v.Left.(ast.Pattern); ok {
				return &ast.AssignmentPattern{PatternBase: ast.PatternAt(v.Pos()), Left: lhs, Default: v.Right}
			}
		}
	}
	// Member expressions and other non-destructurable lvalues pass
	// through as themselves; the evaluator rejects non-Reference
	// targets at assignment time (spec.md's PutValue path).
	if pat, ok := e.(ast.Pattern); ok {
		return pat
	}
	return &exprPatternAdapter{e}
}

// exprPatternAdapter lets a plain Expression (e.g. a MemberExpression
// assignment target `obj.x = 1`) satisfy ast.Pattern so
// AssignmentExpression.Left can stay uniformly typed as ast.Node; the
// evaluator type-switches back to the wrapped Expression for simple
// (non-destructuring) assignment targets.
type exprPatternAdapter struct{ ast.Expression }

func (exprPatternAdapter) pattern() {}

// Unwrap satisfies ast.PatternExpr, recovering the wrapped Expression.
func (p exprPatternAdapter) Unwrap() ast.Expression { return p.Expression }

func (p *Parser) parseYieldExpression() ast.Expression {
	pos := p.pos()
	p.advance()
	delegate := false
	if p.curIs(lexer.STAR) {
		delegate = true
		p.advance()
	}
	var arg ast.Expression
	if !p.curIs(lexer.SEMICOLON) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.RPAREN) &&
		!p.curIs(lexer.RBRACKET) && !p.curIs(lexer.COMMA) && !p.curIs(lexer.EOF) && !p.cur.NewlineBefore {
		arg = p.parseAssignmentExpression()
	}
	return &ast.YieldExpression{ExprBase: ast.ExprAt(pos), Argument: arg, Delegate: delegate}
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	test := p.parseBinaryExpression(precNullish)
	if p.curIs(lexer.QUESTION) {
		pos := test.Pos()
		p.advance()
		cons := p.parseAssignmentExpression()
		p.expect(lexer.COLON, ":")
		alt := p.parseAssignmentExpression()
		return &ast.ConditionalExpression{ExprBase: ast.ExprAt(pos), Test: test, Consequent: cons, Alternate: alt}
	}
	return test
}

// parseBinaryExpression is the precedence-climbing core: it parses a
// unary expression then repeatedly consumes binary/logical operators
// whose precedence is >= minPrec, recursing for the right operand at
// one precedence level higher (left-associative) except for `**`, which
// is right-associative.
func (p *Parser) parseBinaryExpression(minPrec int) ast.Expression {
	left := p.parseUnaryExpression()
	for {
		prec, ok := binaryPrecedence[p.cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur
		nextMin := prec + 1
		if op.Type == lexer.STAR_STAR {
			nextMin = prec // right-associative
		}
		p.advance()
		right := p.parseBinaryExpression(nextMin)
		pos := left.Pos()
		switch op.Type {
		case lexer.AND_AND, lexer.OR_OR, lexer.QUESTION_QUESTION:
			left = &ast.LogicalExpression{ExprBase: ast.ExprAt(pos), Operator: tokenOperatorText(op.Type), Left: left, Right: right}
		default:
			left = &ast.BinaryExpression{ExprBase: ast.ExprAt(pos), Operator: tokenOperatorText(op.Type), Left: left, Right: right}
		}
	}
}

func tokenOperatorText(t lexer.TokenType) string {
	switch t {
	case lexer.OR_OR:
		return "||"
	case lexer.AND_AND:
		return "&&"
	case lexer.QUESTION_QUESTION:
		return "??"
	case lexer.BIT_OR:
		return "|"
	case lexer.BIT_XOR:
		return "^"
	case lexer.BIT_AND:
		return "&"
	case lexer.EQ:
		return "=="
	case lexer.NEQ:
		return "!="
	case lexer.STRICT_EQ:
		return "==="
	case lexer.STRICT_NEQ:
		return "!=="
	case lexer.LT:
		return "<"
	case lexer.GT:
		return ">"
	case lexer.LTE:
		return "<="
	case lexer.GTE:
		return ">="
	case lexer.INSTANCEOF:
		return "instanceof"
	case lexer.IN:
		return "in"
	case lexer.SHL:
		return "<<"
	case lexer.SHR:
		return ">>"
	case lexer.USHR:
		return ">>>"
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.PERCENT:
		return "%"
	case lexer.STAR_STAR:
		return "**"
	}
	return "?"
}

var unaryTokens = map[lexer.TokenType]ast.UnaryOperator{
	lexer.MINUS:   ast.OpMinus,
	lexer.PLUS:    ast.OpPlus,
	lexer.NOT:     ast.OpNot,
	lexer.BIT_NOT: ast.OpBitNot,
	lexer.TYPEOF:  ast.OpTypeof,
	lexer.VOID:    ast.OpVoid,
	lexer.DELETE:  ast.OpDelete,
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	if op, ok := unaryTokens[p.cur.Type]; ok {
		pos := p.pos()
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.UnaryExpression{ExprBase: ast.ExprAt(pos), Operator: op, Argument: arg}
	}
	if p.curIs(lexer.AWAIT) {
		pos := p.pos()
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.AwaitExpression{ExprBase: ast.ExprAt(pos), Argument: arg}
	}
	if p.curIs(lexer.INC) || p.curIs(lexer.DEC) {
		pos := p.pos()
		op := "++"
		if p.curIs(lexer.DEC) {
			op = "--"
		}
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.UpdateExpression{ExprBase: ast.ExprAt(pos), Operator: op, Argument: arg, Prefix: true}
	}
	return p.parsePostfixExpression()
}

func (p *Parser) parsePostfixExpression() ast.Expression {
	expr := p.parseCallExpression(p.parsePrimaryExpression())
	if (p.curIs(lexer.INC) || p.curIs(lexer.DEC)) && !p.cur.NewlineBefore {
		op := "++"
		if p.curIs(lexer.DEC) {
			op = "--"
		}
		pos := expr.Pos()
		p.advance()
		expr = &ast.UpdateExpression{ExprBase: ast.ExprAt(pos), Operator: op, Argument: expr, Prefix: false}
	}
	return expr
}

// parseCallExpression parses the left-recursive chain of member access,
// calls, and optional-chaining suffixes following a primary expression.
func (p *Parser) parseCallExpression(expr ast.Expression) ast.Expression {
	for {
		pos := expr.Pos()
		switch {
		case p.curIs(lexer.DOT):
			p.advance()
			namePos := p.pos()
			name := p.cur.Literal
			p.advance()
			prop := &ast.IdentifierExpression{ExprBase: ast.ExprAt(namePos), Name: name}
			expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: prop, Computed: false}
		case p.curIs(lexer.QUESTION_DOT):
			p.advance()
			if p.curIs(lexer.LPAREN) {
				args := p.parseArguments()
				expr = &ast.CallExpression{ExprBase: ast.ExprAt(pos), Callee: expr, Arguments: args, Optional: true}
				continue
			}
			if p.curIs(lexer.LBRACKET) {
				p.advance()
				key := p.parseExpression(precLowest)
				p.expect(lexer.RBRACKET, "]")
				expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: key, Computed: true, Optional: true}
				continue
			}
			namePos := p.pos()
			name := p.cur.Literal
			p.advance()
			prop := &ast.IdentifierExpression{ExprBase: ast.ExprAt(namePos), Name: name}
			expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: prop, Computed: false, Optional: true}
		case p.curIs(lexer.LBRACKET):
			p.advance()
			key := p.parseExpression(precLowest)
			p.expect(lexer.RBRACKET, "]")
			expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: key, Computed: true}
		case p.curIs(lexer.LPAREN):
			args := p.parseArguments()
			expr = &ast.CallExpression{ExprBase: ast.ExprAt(pos), Callee: expr, Arguments: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(lexer.LPAREN, "(")
	var args []ast.Expression
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DOTDOTDOT) {
			pos := p.pos()
			p.advance()
			arg := p.parseAssignmentExpression()
			args = append(args, &ast.SpreadElement{ExprBase: ast.ExprAt(pos), Argument: arg})
		} else {
			args = append(args, p.parseAssignmentExpression())
		}
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN, ")")
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.NUMBER:
		lit := p.cur.Literal
		p.advance()
		return &ast.NumberLiteral{ExprBase: ast.ExprAt(pos), Value: parseNumericLiteral(lit)}
	case lexer.BIGINT:
		lit := p.cur.Literal
		p.advance()
		return &ast.BigIntLiteral{ExprBase: ast.ExprAt(pos), Value: lit}
	case lexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return &ast.StringLiteral{ExprBase: ast.ExprAt(pos), Value: lit}
	case lexer.TRUE, lexer.FALSE:
		v := p.curIs(lexer.TRUE)
		p.advance()
		return &ast.BooleanLiteral{ExprBase: ast.ExprAt(pos), Value: v}
	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{ExprBase: ast.ExprAt(pos)}
	case lexer.UNDEFINED:
		p.advance()
		return &ast.UndefinedLiteral{ExprBase: ast.ExprAt(pos)}
	case lexer.THIS:
		p.advance()
		return &ast.ThisExpression{ExprBase: ast.ExprAt(pos)}
	case lexer.SUPER:
		p.advance()
		return &ast.SuperExpression{ExprBase: ast.ExprAt(pos)}
	case lexer.IDENT, lexer.GET, lexer.SET, lexer.STATIC, lexer.OF, lexer.AS, lexer.FROM:
		name := p.cur.Literal
		p.advance()
		return &ast.IdentifierExpression{ExprBase: ast.ExprAt(pos), Name: name}
	case lexer.ASYNC:
		if p.peekIs(lexer.FUNCTION) {
			p.advance()
			return p.parseFunctionExpression(true)
		}
		name := p.cur.Literal
		p.advance()
		return &ast.IdentifierExpression{ExprBase: ast.ExprAt(pos), Name: name}
	case lexer.FUNCTION:
		return p.parseFunctionExpression(false)
	case lexer.CLASS:
		return p.parseClassExpression()
	case lexer.NEW:
		return p.parseNewExpression()
	case lexer.IMPORT:
		p.advance()
		p.expect(lexer.LPAREN, "(")
		source := p.parseAssignmentExpression()
		p.expect(lexer.RPAREN, ")")
		return &ast.ImportExpression{ExprBase: ast.ExprAt(pos), Source: source}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression(precLowest)
		p.expect(lexer.RPAREN, ")")
		return expr
	case lexer.LBRACKET:
		return p.parseArrayExpression()
	case lexer.LBRACE:
		return p.parseObjectExpression()
	case lexer.BACKTICK:
		return p.parseTemplateLiteral()
	}
	p.errorf("unexpected token %q in expression", p.cur.Literal)
	p.advance()
	return &ast.UndefinedLiteral{ExprBase: ast.ExprAt(pos)}
}

func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.pos()
	p.advance()
	callee := p.parseCallExpressionNoCall(p.parsePrimaryExpression())
	var args []ast.Expression
	if p.curIs(lexer.LPAREN) {
		args = p.parseArguments()
	}
	expr := ast.Expression(&ast.NewExpression{ExprBase: ast.ExprAt(pos), Callee: callee, Arguments: args})
	return p.parseCallExpression(expr)
}

// parseCallExpressionNoCall parses only the member-access chain (no
// calls), since `new a.b.c(...)` binds the call to the whole member
// chain rather than to an inner call expression.
func (p *Parser) parseCallExpressionNoCall(expr ast.Expression) ast.Expression {
	for {
		pos := expr.Pos()
		if p.curIs(lexer.DOT) {
			p.advance()
			namePos := p.pos()
			name := p.cur.Literal
			p.advance()
			prop := &ast.IdentifierExpression{ExprBase: ast.ExprAt(namePos), Name: name}
			expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: prop, Computed: false}
			continue
		}
		if p.curIs(lexer.LBRACKET) {
			p.advance()
			key := p.parseExpression(precLowest)
			p.expect(lexer.RBRACKET, "]")
			expr = &ast.MemberExpression{ExprBase: ast.ExprAt(pos), Object: expr, Property: key, Computed: true}
			continue
		}
		return expr
	}
}

func (p *Parser) parseArrayExpression() ast.Expression {
	pos := p.pos()
	p.expect(lexer.LBRACKET, "[")
	arr := &ast.ArrayExpression{ExprBase: ast.ExprAt(pos)}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			p.advance()
			continue
		}
		if p.curIs(lexer.DOTDOTDOT) {
			spos := p.pos()
			p.advance()
			el := p.parseAssignmentExpression()
			arr.Elements = append(arr.Elements, &ast.SpreadElement{ExprBase: ast.ExprAt(spos), Argument: el})
		} else {
			arr.Elements = append(arr.Elements, p.parseAssignmentExpression())
		}
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACKET, "]")
	return arr
}

func (p *Parser) parseObjectExpression() ast.Expression {
	pos := p.pos()
	p.expect(lexer.LBRACE, "{")
	obj := &ast.ObjectExpression{ExprBase: ast.ExprAt(pos)}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DOTDOTDOT) {
			ppos := p.pos()
			p.advance()
			val := p.parseAssignmentExpression()
			obj.Properties = append(obj.Properties, &ast.ObjectProperty{Base: ast.At(ppos), Value: val, Kind: "spread"})
			if p.curIs(lexer.COMMA) {
				p.advance()
			}
			continue
		}
		obj.Properties = append(obj.Properties, p.parseObjectProperty())
		if p.curIs(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE, "}")
	return obj
}

func (p *Parser) parseObjectProperty() *ast.ObjectProperty {
	ppos := p.pos()
	kind := "init"
	if (p.curIs(lexer.GET) || p.curIs(lexer.SET)) && !p.peekIs(lexer.COLON) && !p.peekIs(lexer.COMMA) && !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.LPAREN) {
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
		} else if p.curIs(lexer.NUMBER) {
			key = &ast.NumberLiteral{ExprBase: ast.ExprAt(keyPos), Value: parseNumericLiteral(name)}
		} else {
			key = &ast.IdentifierExpression{ExprBase: ast.ExprAt(keyPos), Name: name}
		}
		p.advance()
	}

	if kind == "get" || kind == "set" {
		params := p.parseParamList()
		body := p.parseBlockStatement()
		fn := &ast.FunctionExpression{ExprBase: ast.ExprAt(ppos), Params: params, Body: body}
		return &ast.ObjectProperty{Base: ast.At(ppos), Key: key, Computed: computed, Value: fn, Kind: kind}
	}

	if p.curIs(lexer.LPAREN) { // method shorthand
		params := p.parseParamList()
		body := p.parseBlockStatement()
		fn := &ast.FunctionExpression{ExprBase: ast.ExprAt(ppos), Params: params, Body: body}
		return &ast.ObjectProperty{Base: ast.At(ppos), Key: key, Computed: computed, Value: fn, Kind: "init"}
	}

	if p.curIs(lexer.COLON) {
		p.advance()
		val := p.parseAssignmentExpression()
		return &ast.ObjectProperty{Base: ast.At(ppos), Key: key, Computed: computed, Value: val, Kind: "init"}
	}

	// Shorthand `{ a }` or `{ a = default }` (the latter only valid in a
	// destructuring pattern, reinterpreted by exprToPattern on `=`).
	ident, _ := key.(*ast.IdentifierExpression)
	var val ast.Expression = ident
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		def := p.parseAssignmentExpression()
		val = &ast.AssignmentExpression{ExprBase: ast.ExprAt(ppos), Operator: "=", Left: ident, Right: def}
	}
	return &ast.ObjectProperty{Base: ast.At(ppos), Key: key, Computed: computed, Value: val, Shorthand: true, Kind: "init"}
}

func (p *Parser) parseFunctionExpression(async bool) ast.Expression {
	pos := p.pos()
	p.expect(lexer.FUNCTION, "function")
	generator := false
	if p.curIs(lexer.STAR) {
		generator = true
		p.advance()
	}
	var id *ast.Identifier
	if p.curIs(lexer.IDENT) {
		namePos := p.pos()
		name := p.cur.Literal
		p.advance()
		id = &ast.Identifier{PatternBase: ast.PatternAt(namePos), Name: name}
	}
	params := p.parseParamList()
	body := p.parseBlockStatement()
	return &ast.FunctionExpression{
		ExprBase: ast.ExprAt(pos), ID: id, Params: params, Body: body, Generator: generator, Async: async,
	}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	pos := p.pos()
	p.advance() // consume BACKTICK
	lit := &ast.TemplateLiteral{ExprBase: ast.ExprAt(pos)}
	for {
		chunk, hasExpr := p.l.ReadTemplateChunk()
		lit.Quasis = append(lit.Quasis, chunk)
		if !hasExpr {
			break
		}
		p.advance()
		p.advance()
		expr := p.parseExpression(precLowest)
		lit.Expressions = append(lit.Expressions, expr)
		p.expect(lexer.RBRACE, "}")
	}
	p.advance()
	return lit
}

// tryParseArrowFunction attempts to parse an arrow function at the
// current position, returning nil (with the parser position
// unmodified... in practice it only commits once it has seen `=>`,
// since lookahead alone can't disambiguate `(a, b)` from `(a, b) => x`
// without backtracking). ecmax sidesteps backtracking by recognizing
// only the two unambiguous lead tokens: a bare identifier followed
// directly by `=>`, or a parenthesized list whose matching close paren
// is immediately followed by `=>`.
func (p *Parser) tryParseArrowFunction() ast.Expression {
	pos := p.pos()
	async := false
	if p.curIs(lexer.ASYNC) && p.peekIs(lexer.IDENT) {
		// handled below via single-param case after advancing
	}
	if p.curIs(lexer.ASYNC) {
		if p.peekIs(lexer.LPAREN) || p.peekIs(lexer.IDENT) {
			save, savedLexer := *p, *p.l
			p.advance()
			if fn := p.tryParseArrowFunction(); fn != nil {
				if arrow, ok := fn.(*ast.ArrowFunctionExpression); ok {
					arrow.Async = true
					arrow.Position = pos
					return arrow
				}
			}
			*p = save
			*p.l = savedLexer
		}
		return nil
	}

	if p.curIs(lexer.IDENT) && p.peekIs(lexer.ARROW) {
		namePos := p.pos()
		name := p.cur.Literal
		p.advance()
		p.advance() // =>
		param := &ast.Identifier{PatternBase: ast.PatternAt(namePos), Name: name}
		return p.finishArrowFunction(pos, []ast.Pattern{param}, async)
	}

	if p.curIs(lexer.LPAREN) {
		if !p.looksLikeArrowParams() {
			return nil
		}
		params := p.parseParamList()
		if !p.curIs(lexer.ARROW) {
			return nil
		}
		p.advance()
		return p.finishArrowFunction(pos, params, async)
	}
	return nil
}

// looksLikeArrowParams scans forward from the current `(` to find its
// matching `)` and checks whether `=>` immediately follows, without
// consuming any tokens (a small manual lookahead using a cloned
// lexer/parser state rather than a full backtracking parse).
func (p *Parser) looksLikeArrowParams() bool {
	save, savedLexer := *p, *p.l
	defer func() { *p = save; *p.l = savedLexer }()

	depth := 0
	for {
		switch p.cur.Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				p.advance()
				return p.curIs(lexer.ARROW)
			}
		case lexer.EOF:
			return false
		}
		p.advance()
	}
}

func (p *Parser) finishArrowFunction(pos ast.Position, params []ast.Pattern, async bool) ast.Expression {
	if p.curIs(lexer.LBRACE) {
		body := p.parseBlockStatement()
		return &ast.ArrowFunctionExpression{ExprBase: ast.ExprAt(pos), Params: params, Body: body, Async: async}
	}
	body := p.parseAssignmentExpression()
	return &ast.ArrowFunctionExpression{ExprBase: ast.ExprAt(pos), Params: params, Body: body, ExpressionBody: true, Async: async}
}
