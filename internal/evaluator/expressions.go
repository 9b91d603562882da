package evaluator

import (
	"math/big"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// EvalExpression evaluates expr to a Value, dereferencing any Reference it
// produces via GetValue (spec's "GetValue and PutValue bridge the two").
func (ec *EvalContext) EvalExpression(expr ast.Expression) completion.Completion {
	switch e := expr.(type) {
	case *ast.IdentifierExpression:
		return ec.GetValue(ec.ResolveBinding(e.Name))
	case *ast.MemberExpression:
		ref, c := ec.evalMemberRef(e)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if ref.ShortCircuited {
			return completion.Ok(values.Undefined)
		}
		return ec.GetValue(ref.Reference)
	default:
		return ec.evalValue(expr)
	}
}

// refResult wraps a Reference plus the optional-chaining short-circuit bit
// (spec's "if the optional-chain base is nullish, the whole chain
// evaluates to undefined without evaluating the rest").
type refResult struct {
	Reference
	ShortCircuited bool
}

// evalRef evaluates expr to a Reference without dereferencing it, used by
// assignment targets, `delete`, `typeof`, and update expressions.
func (ec *EvalContext) evalRef(expr ast.Expression) (refResult, completion.Completion) {
	switch e := expr.(type) {
	case *ast.IdentifierExpression:
		return refResult{Reference: ec.ResolveBinding(e.Name)}, completion.Empty
	case *ast.MemberExpression:
		return ec.evalMemberRef(e)
	default:
		return refResult{}, ec.ThrowReferenceError("invalid assignment target")
	}
}

func (ec *EvalContext) evalMemberRef(e *ast.MemberExpression) (refResult, completion.Completion) {
	if _, ok := e.Object.(*ast.SuperExpression); ok {
		return ec.evalSuperMemberRef(e)
	}
	baseC := ec.EvalExpression(e.Object)
	if ac, bad := ec.abrupt(baseC); bad {
		return refResult{}, ac
	}
	base := baseC.Value.(values.Value)
	if e.Optional && isNullish(base) {
		return refResult{ShortCircuited: true}, completion.Empty
	}
	key, c := ec.evalPropertyKey(e)
	if ac, bad := ec.abrupt(c); bad {
		return refResult{}, ac
	}
	if isNullish(base) {
		return refResult{}, ec.ThrowTypeError("cannot read properties of " + nullishName(base) + " (reading '" + key.String() + "')")
	}
	return refResult{Reference: Reference{Base: base, Key: key, Strict: ec.Strict}}, completion.Empty
}

func (ec *EvalContext) evalSuperMemberRef(e *ast.MemberExpression) (refResult, completion.Completion) {
	fr := ec.functionRecord()
	if fr == nil || !fr.HasSuperBinding() {
		return refResult{}, ec.ThrowSyntaxError("'super' keyword is only valid inside a method with a superclass")
	}
	base := fr.GetSuperBase()
	thisC := fr.GetThisBinding()
	if ac, bad := ec.abrupt(thisC); bad {
		return refResult{}, ac
	}
	key, c := ec.evalPropertyKey(e)
	if ac, bad := ec.abrupt(c); bad {
		return refResult{}, ac
	}
	return refResult{Reference: Reference{Base: base, Key: key, Strict: ec.Strict, IsSuper: true, ThisValue: thisC.Value.(values.Value)}}, completion.Empty
}

func (ec *EvalContext) evalPropertyKey(e *ast.MemberExpression) (values.PropertyKey, completion.Completion) {
	if !e.Computed {
		return values.StringKey(e.Property.(*ast.IdentifierExpression).Name), completion.Empty
	}
	v, c := ops.Q(ec.EvalExpression(e.Property))
	if ac, bad := ec.abrupt(c); bad {
		return values.PropertyKey{}, ac
	}
	key, c := ops.ToPropertyKey(v.(values.Value))
	if ac, bad := ec.abrupt(c); bad {
		return values.PropertyKey{}, ac
	}
	return key, completion.Empty
}

func isNullish(v values.Value) bool {
	return v.Kind() == values.UndefinedKind || v.Kind() == values.NullKind
}

func nullishName(v values.Value) string {
	if v.Kind() == values.NullKind {
		return "null"
	}
	return "undefined"
}

// evalValue evaluates every expression kind that never produces a
// Reference (literals, operators, calls, object/array literals, ...).
func (ec *EvalContext) evalValue(expr ast.Expression) completion.Completion {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return completion.Ok(values.Number(e.Value))
	case *ast.StringLiteral:
		return completion.Ok(values.NewString(e.Value))
	case *ast.BooleanLiteral:
		return completion.Ok(values.BoolValue(e.Value))
	case *ast.NullLiteral:
		return completion.Ok(values.Null)
	case *ast.UndefinedLiteral:
		return completion.Ok(values.Undefined)
	case *ast.BigIntLiteral:
		n, ok := new(big.Int).SetString(e.Value, 10)
		if !ok {
			return ec.ThrowSyntaxError("invalid BigInt literal")
		}
		return completion.Ok(values.NewBigInt(n))
	case *ast.TemplateLiteral:
		return ec.evalTemplateLiteral(e)
	case *ast.ThisExpression:
		return ec.getThisBinding()
	case *ast.ArrayExpression:
		return ec.evalArrayLiteral(e)
	case *ast.ObjectExpression:
		return ec.evalObjectLiteral(e)
	case *ast.FunctionExpression:
		return completion.Ok(ec.makeFunctionExpression(e))
	case *ast.ArrowFunctionExpression:
		return completion.Ok(ec.makeArrowFunction(e))
	case *ast.ClassDeclaration:
		return ec.evalClassExpression(e)
	case *ast.UnaryExpression:
		return ec.evalUnary(e)
	case *ast.UpdateExpression:
		return ec.evalUpdate(e)
	case *ast.BinaryExpression:
		return ec.evalBinary(e)
	case *ast.LogicalExpression:
		return ec.evalLogical(e)
	case *ast.AssignmentExpression:
		return ec.evalAssignment(e)
	case *ast.ConditionalExpression:
		return ec.evalConditional(e)
	case *ast.CallExpression:
		return ec.evalCallExpression(e)
	case *ast.NewExpression:
		return ec.evalNewExpression(e)
	case *ast.SequenceExpression:
		return ec.evalSequence(e)
	case *ast.YieldExpression:
		return ec.evalYield(e)
	case *ast.AwaitExpression:
		return ec.evalAwait(e)
	case *ast.ImportExpression:
		return ec.evalDynamicImport(e)
	case *ast.SuperExpression:
		return ec.ThrowSyntaxError("'super' keyword is only valid inside a method")
	case *ast.SpreadElement:
		return ec.ThrowSyntaxError("unexpected spread element")
	default:
		return ec.ThrowSyntaxError("unsupported expression")
	}
}

func (ec *EvalContext) getThisBinding() completion.Completion {
	for env := ec.Lexical; env != nil; env = env.Outer() {
		if env.HasThisBinding() {
			switch r := env.(type) {
			case *environment.FunctionRecord:
				return r.GetThisBinding()
			case *environment.GlobalRecord:
				return completion.Ok(r.GetThisBinding())
			case *environment.ModuleRecord:
				return completion.Ok(r.GetThisBinding())
			}
		}
	}
	return completion.Ok(values.Undefined)
}

func (ec *EvalContext) evalTemplateLiteral(e *ast.TemplateLiteral) completion.Completion {
	out := values.NewString(e.Quasis[0])
	for i, expr := range e.Expressions {
		v, c := ops.Q(ec.EvalExpression(expr))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		s, c := ops.Q(ops.ToStringValue(v.(values.Value)))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		out = out.Concat(s.(values.Value).(values.String))
		if i+1 < len(e.Quasis) {
			out = out.Concat(values.NewString(e.Quasis[i+1]))
		}
	}
	return completion.Ok(out)
}

func (ec *EvalContext) evalArrayLiteral(e *ast.ArrayExpression) completion.Completion {
	arr := object.NewArrayObject(ec.Realm.Intrinsics.ArrayPrototype, ec.Realm, 0)
	idx := uint32(0)
	for _, el := range e.Elements {
		if el == nil {
			idx++
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, c := ops.Q(ec.EvalExpression(spread.Argument))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			items, c := ops.IterableToList(v.(values.Value))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			for _, item := range items {
				if c := ops.CreateDataProperty(arr, values.StringKey(formatIndex(idx)), item); c.IsAbrupt() {
					return ec.realize(c)
				}
				idx++
			}
			continue
		}
		v, c := ops.Q(ec.EvalExpression(el))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if c := ops.CreateDataProperty(arr, values.StringKey(formatIndex(idx)), v.(values.Value)); c.IsAbrupt() {
			return ec.realize(c)
		}
		idx++
	}
	return completion.Ok(arr)
}

func formatIndex(i uint32) string {
	s, _ := ops.Q(ops.ToStringValue(values.Number(i)))
	return s.(values.Value).(values.String).Go()
}

func (ec *EvalContext) evalObjectLiteral(e *ast.ObjectExpression) completion.Completion {
	obj := object.NewObject(ec.Realm.Intrinsics.ObjectPrototype, ec.Realm)
	for _, p := range e.Properties {
		if p.Kind == "spread" {
			v, c := ops.Q(ec.EvalExpression(p.Value))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			src, isObj := v.(values.Value).(*object.Object)
			if !isObj {
				continue
			}
			for _, k := range src.OwnPropertyKeys() {
				desc, present := src.GetOwnProperty(k)
				if !present || !desc.Enumerable {
					continue
				}
				gv, c := ops.Q(src.Get_(k, src))
				if ac, bad := ec.abrupt(c); bad {
					return ac
				}
				if c := ops.CreateDataProperty(obj, k, gv.(values.Value)); c.IsAbrupt() {
					return ec.realize(c)
				}
			}
			continue
		}
		key, c := ec.evalObjectKey(p)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		switch p.Kind {
		case "get", "set":
			fn := ec.makeFunctionExpression(p.Value.(*ast.FunctionExpression))
			fn.HomeObject = obj
			existing, _ := obj.GetOwnProperty(key)
			desc := property.Descriptor{Enumerable: true, HasEnumerable: true, Configurable: true, HasConfigurable: true}
			if existing.IsAccessorDescriptor() {
				desc.Get, desc.HasGet = existing.Get, true
				desc.Set, desc.HasSet = existing.Set, true
			}
			if p.Kind == "get" {
				desc.Get, desc.HasGet = fn, true
			} else {
				desc.Set, desc.HasSet = fn, true
			}
			obj.DefineOwnProperty(key, desc)
		default:
			v, c := ops.Q(ec.EvalExpression(p.Value))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			if fn, ok := v.(values.Value).(*object.Object); ok && fn.IsCallable() && fn.HomeObject == nil && !key.IsSym {
				fn.HomeObject = obj
			}
			if c := ops.CreateDataProperty(obj, key, v.(values.Value)); c.IsAbrupt() {
				return ec.realize(c)
			}
		}
	}
	return completion.Ok(obj)
}

func (ec *EvalContext) evalObjectKey(p *ast.ObjectProperty) (values.PropertyKey, completion.Completion) {
	if !p.Computed {
		switch k := p.Key.(type) {
		case *ast.IdentifierExpression:
			return values.StringKey(k.Name), completion.Empty
		case *ast.StringLiteral:
			return values.StringKey(k.Value), completion.Empty
		case *ast.NumberLiteral:
			return values.StringKey(formatIndex(uint32(k.Value))), completion.Empty
		}
	}
	v, c := ops.Q(ec.EvalExpression(p.Key))
	if ac, bad := ec.abrupt(c); bad {
		return values.PropertyKey{}, ac
	}
	return ops.Q2(ops.ToPropertyKey(v.(values.Value)))
}

func (ec *EvalContext) evalUnary(e *ast.UnaryExpression) completion.Completion {
	if e.Operator == ast.OpDelete {
		return ec.evalDelete(e.Argument)
	}
	if e.Operator == ast.OpTypeof {
		return ec.evalTypeof(e.Argument)
	}
	v, c := ops.Q(ec.EvalExpression(e.Argument))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	val := v.(values.Value)
	switch e.Operator {
	case ast.OpVoid:
		return completion.Ok(values.Undefined)
	case ast.OpNot:
		return completion.Ok(values.BoolValue(!ops.ToBoolean(val)))
	case ast.OpMinus:
		n, c := ops.Q(ops.ToNumeric(val))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if bi, ok := n.(values.Value).(values.BigInt); ok {
			return completion.Ok(values.NewBigInt(new(bigIntParser).negate(bi.V)))
		}
		return completion.Ok(-n.(values.Value).(values.Number))
	case ast.OpPlus:
		return ec.realize(ops.ToNumber(val))
	case ast.OpBitNot:
		n, c := ops.Q(ops.ToInt32(val))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Ok(values.Number(^int32(n.(values.Value).(values.Number))))
	}
	return ec.ThrowSyntaxError("unsupported unary operator")
}

func (ec *EvalContext) evalDelete(argument ast.Expression) completion.Completion {
	member, ok := argument.(*ast.MemberExpression)
	if !ok {
		return completion.Ok(values.True) // deleting a non-reference is a no-op success
	}
	ref, c := ec.evalMemberRef(member)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if ref.ShortCircuited {
		return completion.Ok(values.True)
	}
	obj, ok := ref.Base.(*object.Object)
	if !ok {
		return completion.Ok(values.True)
	}
	ok2, c := obj.Delete(ref.Key)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if !ok2 && ec.Strict {
		return ec.ThrowTypeError("cannot delete property " + ref.Key.String())
	}
	return completion.Ok(values.BoolValue(ok2))
}

func (ec *EvalContext) evalTypeof(argument ast.Expression) completion.Completion {
	if id, ok := argument.(*ast.IdentifierExpression); ok {
		ref := ec.ResolveBinding(id.Name)
		if ref.Unresolvable {
			return completion.Ok(values.NewString("undefined"))
		}
		v, c := ops.Q(ec.GetValue(ref))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Ok(values.NewString(typeofString(v.(values.Value))))
	}
	v, c := ops.Q(ec.EvalExpression(argument))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	return completion.Ok(values.NewString(typeofString(v.(values.Value))))
}

func typeofString(v values.Value) string {
	switch o := v.(type) {
	case *object.Object:
		if o.IsCallable() {
			return "function"
		}
		return "object"
	default:
		switch v.Kind() {
		case values.UndefinedKind:
			return "undefined"
		case values.NullKind:
			return "object"
		case values.BooleanKind:
			return "boolean"
		case values.StringKind:
			return "string"
		case values.NumberKind:
			return "number"
		case values.BigIntKind:
			return "bigint"
		case values.SymbolKind:
			return "symbol"
		}
	}
	return "undefined"
}

func (ec *EvalContext) evalUpdate(e *ast.UpdateExpression) completion.Completion {
	ref, c := ec.evalRef(e.Argument)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	oldV, c := ops.Q(ec.GetValue(ref.Reference))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	old, c := ops.Q(ops.ToNumeric(oldV.(values.Value)))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	var newV values.Value
	delta := 1
	if e.Operator == "--" {
		delta = -1
	}
	if bi, ok := old.(values.Value).(values.BigInt); ok {
		newV = values.NewBigInt(new(bigIntParser).addInt(bi.V, delta))
	} else {
		newV = old.(values.Value).(values.Number) + values.Number(delta)
	}
	if c := ec.PutValue(ref.Reference, newV); c.IsAbrupt() {
		return ec.realize(c)
	}
	if e.Prefix {
		return completion.Ok(newV)
	}
	return completion.Ok(old.(values.Value))
}

func (ec *EvalContext) evalBinary(e *ast.BinaryExpression) completion.Completion {
	lv, c := ops.Q(ec.EvalExpression(e.Left))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	left := lv.(values.Value)
	if e.Operator == "in" {
		rv, c := ops.Q(ec.EvalExpression(e.Right))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		obj, ok := rv.(values.Value).(*object.Object)
		if !ok {
			return ec.ThrowTypeError("cannot use 'in' operator on a non-object")
		}
		key, c := ops.ToPropertyKey(left)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		has, c := obj.HasProperty(key)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Ok(values.BoolValue(has))
	}
	if e.Operator == "instanceof" {
		rv, c := ops.Q(ec.EvalExpression(e.Right))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return ec.realize(ops.InstanceofOperator(left, rv.(values.Value)))
	}
	rv, c := ops.Q(ec.EvalExpression(e.Right))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	right := rv.(values.Value)
	switch e.Operator {
	case "+":
		return ec.realize(ops.Add(left, right))
	case "-":
		return ec.realize(ops.Subtract(left, right))
	case "*":
		return ec.realize(ops.Multiply(left, right))
	case "/":
		return ec.realize(ops.Divide(left, right))
	case "%":
		return ec.realize(ops.Modulo(left, right))
	case "**":
		return ec.realize(ops.Exponentiate(left, right))
	case "&":
		return ec.realize(ops.BitwiseAnd(left, right))
	case "|":
		return ec.realize(ops.BitwiseOr(left, right))
	case "^":
		return ec.realize(ops.BitwiseXor(left, right))
	case "<<":
		return ec.realize(ops.ShiftLeft(left, right))
	case ">>":
		return ec.realize(ops.ShiftRight(left, right))
	case ">>>":
		return ec.realize(ops.UnsignedShiftRight(left, right))
	case "<":
		return ec.lessThanResult(ops.LessThan(left, right), false)
	case ">":
		return ec.lessThanResult(ops.LessThan(right, left), false)
	case "<=":
		return ec.lessThanResult(ops.LessThan(right, left), true)
	case ">=":
		return ec.lessThanResult(ops.LessThan(left, right), true)
	case "==":
		return ec.realize(ops.LooseEquals(left, right))
	case "!=":
		r, c := ops.Q(ops.LooseEquals(left, right))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Ok(values.BoolValue(!bool(r.(values.Value).(values.Boolean))))
	case "===":
		return completion.Ok(values.BoolValue(ops.StrictEquals(left, right)))
	case "!==":
		return completion.Ok(values.BoolValue(!ops.StrictEquals(left, right)))
	}
	return ec.ThrowSyntaxError("unsupported binary operator " + e.Operator)
}

// lessThanResult interprets AbstractRelationalComparison's Undefined
// result (a NaN comparison) as false, and negates for the ">="/"<=" forms
// which evaluate the flipped "<" and invert it (spec's evaluation rule for
// x <= y being !(y < x), except that NaN must still yield false rather
// than true for either side).
func (ec *EvalContext) lessThanResult(c completion.Completion, negate bool) completion.Completion {
	v, c := ops.Q(c)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	val := v.(values.Value)
	if val.Kind() == values.UndefinedKind {
		return completion.Ok(values.False)
	}
	b := bool(val.(values.Boolean))
	if negate {
		b = !b
	}
	return completion.Ok(values.BoolValue(b))
}

func (ec *EvalContext) evalLogical(e *ast.LogicalExpression) completion.Completion {
	lv, c := ops.Q(ec.EvalExpression(e.Left))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	left := lv.(values.Value)
	switch e.Operator {
	case "&&":
		if !ops.ToBoolean(left) {
			return completion.Ok(left)
		}
	case "||":
		if ops.ToBoolean(left) {
			return completion.Ok(left)
		}
	case "??":
		if !isNullish(left) {
			return completion.Ok(left)
		}
	}
	return ec.EvalExpression(e.Right)
}

func (ec *EvalContext) evalConditional(e *ast.ConditionalExpression) completion.Completion {
	tv, c := ops.Q(ec.EvalExpression(e.Test))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if ops.ToBoolean(tv.(values.Value)) {
		return ec.EvalExpression(e.Consequent)
	}
	return ec.EvalExpression(e.Alternate)
}

func (ec *EvalContext) evalSequence(e *ast.SequenceExpression) completion.Completion {
	var last completion.Completion
	for _, expr := range e.Expressions {
		last = ec.EvalExpression(expr)
		if last.IsAbrupt() {
			return ec.realize(last)
		}
	}
	return last
}

func (ec *EvalContext) evalAssignment(e *ast.AssignmentExpression) completion.Completion {
	if e.Operator == "=" {
		if pat, ok := e.Left.(ast.Pattern); ok {
			if _, isID := pat.(*ast.Identifier); !isID {
				v, c := ops.Q(ec.EvalExpression(e.Right))
				if ac, bad := ec.abrupt(c); bad {
					return ac
				}
				if c := ec.assignPattern(pat, v.(values.Value)); c.IsAbrupt() {
					return ec.realize(c)
				}
				return completion.Ok(v.(values.Value))
			}
		}
	}
	ref, c := ec.evalRef(e.Left.(ast.Expression))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if e.Operator == "&&=" || e.Operator == "||=" || e.Operator == "??=" {
		cur, c := ops.Q(ec.GetValue(ref.Reference))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		curV := cur.(values.Value)
		switch e.Operator {
		case "&&=":
			if !ops.ToBoolean(curV) {
				return completion.Ok(curV)
			}
		case "||=":
			if ops.ToBoolean(curV) {
				return completion.Ok(curV)
			}
		case "??=":
			if !isNullish(curV) {
				return completion.Ok(curV)
			}
		}
		rv, c := ops.Q(ec.EvalExpression(e.Right))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if c := ec.PutValue(ref.Reference, rv.(values.Value)); c.IsAbrupt() {
			return ec.realize(c)
		}
		return completion.Ok(rv.(values.Value))
	}
	if e.Operator == "=" {
		rv, c := ops.Q(ec.EvalExpression(e.Right))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if c := ec.PutValue(ref.Reference, rv.(values.Value)); c.IsAbrupt() {
			return ec.realize(c)
		}
		return completion.Ok(rv.(values.Value))
	}
	cur, c := ops.Q(ec.GetValue(ref.Reference))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	rv, c := ops.Q(ec.EvalExpression(e.Right))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	result, c := ops.Q(ec.applyCompoundOp(e.Operator, cur.(values.Value), rv.(values.Value)))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if c := ec.PutValue(ref.Reference, result.(values.Value)); c.IsAbrupt() {
		return ec.realize(c)
	}
	return completion.Ok(result.(values.Value))
}

func (ec *EvalContext) applyCompoundOp(operator string, left, right values.Value) completion.Completion {
	switch operator[:len(operator)-1] {
	case "+":
		return ops.Add(left, right)
	case "-":
		return ops.Subtract(left, right)
	case "*":
		return ops.Multiply(left, right)
	case "/":
		return ops.Divide(left, right)
	case "%":
		return ops.Modulo(left, right)
	case "**":
		return ops.Exponentiate(left, right)
	case "&":
		return ops.BitwiseAnd(left, right)
	case "|":
		return ops.BitwiseOr(left, right)
	case "^":
		return ops.BitwiseXor(left, right)
	case "<<":
		return ops.ShiftLeft(left, right)
	case ">>":
		return ops.ShiftRight(left, right)
	case ">>>":
		return ops.UnsignedShiftRight(left, right)
	}
	return ec.ThrowSyntaxError("unsupported compound assignment operator " + operator)
}
