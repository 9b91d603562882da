package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// bindPatternInit implements spec's BindingInitialization for a pattern
// whose bindings were already created (as uninitialized, TDZ-gated
// bindings) during declaration instantiation (internal/evaluator/
// declarations.go): every leaf identifier is initialized directly on env
// via InitializeBinding, never resolved through the lexical chain, since a
// `let`/`const`/catch-param/function-param binding always lives in the
// environment record created for that exact scope.
func (ec *EvalContext) bindPatternInit(env environment.Record, pat ast.Pattern, value values.Value) completion.Completion {
	switch p := pat.(type) {
	case *ast.Identifier:
		env.InitializeBinding(p.Name, value)
		return completion.Empty
	case *ast.AssignmentPattern:
		v := value
		if isNullish(v) && v.Kind() == values.UndefinedKind {
			dv, c := ops.Q(ec.EvalExpression(p.Default))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			v = dv.(values.Value)
		}
		return ec.bindPatternInit(env, p.Left, v)
	case *ast.ArrayPattern:
		return ec.bindArrayPatternInit(env, p, value)
	case *ast.ObjectPattern:
		return ec.bindObjectPatternInit(env, p, value)
	case *ast.RestElement:
		return ec.bindPatternInit(env, p.Argument, value)
	default:
		return ec.ThrowSyntaxError("unsupported binding pattern")
	}
}

func (ec *EvalContext) bindArrayPatternInit(env environment.Record, p *ast.ArrayPattern, value values.Value) completion.Completion {
	recV, c := ops.Q(ops.GetIterator(value, ops.SyncIterator))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	rec := recV.(*ops.IteratorRecord)
	var triggering completion.Completion
	done := false
	next := func() values.Value {
		if done {
			return values.Undefined
		}
		result, c := ops.IteratorStep(rec)
		if c.IsAbrupt() {
			triggering = c
			done = true
			return values.Undefined
		}
		if result == nil {
			done = true
			return values.Undefined
		}
		v, c := ops.Q(ops.IteratorValue(result))
		if c.IsAbrupt() {
			triggering = c
			done = true
			return values.Undefined
		}
		return v.(values.Value)
	}
	for _, el := range p.Elements {
		if triggering.IsAbrupt() {
			break
		}
		if rest, ok := el.(*ast.RestElement); ok {
			arr := object.NewArrayObject(ec.Realm.Intrinsics.ArrayPrototype, ec.Realm, 0)
			idx := uint32(0)
			for !done {
				v := next()
				if triggering.IsAbrupt() || done {
					break
				}
				ops.CreateDataProperty(arr, values.StringKey(formatIndex(idx)), v)
				idx++
			}
			if triggering.IsAbrupt() {
				break
			}
			if c := ec.bindPatternInit(env, rest.Argument, arr); c.IsAbrupt() {
				return ec.realize(ops.IteratorClose(rec, c))
			}
			continue
		}
		v := next()
		if triggering.IsAbrupt() {
			break
		}
		if el == nil {
			continue
		}
		if c := ec.bindPatternInit(env, el, v); c.IsAbrupt() {
			return ec.realize(ops.IteratorClose(rec, c))
		}
	}
	if triggering.IsAbrupt() {
		return ec.realize(triggering)
	}
	if !done {
		return ec.realize(ops.IteratorClose(rec, completion.Empty))
	}
	return completion.Empty
}

func (ec *EvalContext) bindObjectPatternInit(env environment.Record, p *ast.ObjectPattern, value values.Value) completion.Completion {
	if c, ok := ops.RequireObjectCoercible(value), true; ok && c.IsAbrupt() {
		return ec.realize(c)
	}
	var seen []values.PropertyKey
	for _, prop := range p.Properties {
		key, c := ec.destructuringKey(prop.Key, prop.Computed)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		seen = append(seen, key)
		v, c := ops.Q(ec.getPropertyOf(value, key))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if c := ec.bindPatternInit(env, prop.Value, v.(values.Value)); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	if p.Rest != nil {
		rest := object.NewObject(ec.Realm.Intrinsics.ObjectPrototype, ec.Realm)
		if obj, ok := value.(*object.Object); ok {
			for _, k := range obj.OwnPropertyKeys() {
				if keyIn(k, seen) {
					continue
				}
				desc, present := obj.GetOwnProperty(k)
				if !present || !desc.Enumerable {
					continue
				}
				gv, c := ops.Q(obj.Get_(k, obj))
				if ac, bad := ec.abrupt(c); bad {
					return ac
				}
				if c := ops.CreateDataProperty(rest, k, gv.(values.Value)); c.IsAbrupt() {
					return ec.realize(c)
				}
			}
		}
		if c := ec.bindPatternInit(env, p.Rest, rest); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	return completion.Empty
}

func keyIn(k values.PropertyKey, seen []values.PropertyKey) bool {
	for _, s := range seen {
		if s.Equal(k) {
			return true
		}
	}
	return false
}

func (ec *EvalContext) destructuringKey(keyExpr ast.Expression, computed bool) (values.PropertyKey, completion.Completion) {
	if !computed {
		switch k := keyExpr.(type) {
		case *ast.IdentifierExpression:
			return values.StringKey(k.Name), completion.Empty
		case *ast.StringLiteral:
			return values.StringKey(k.Value), completion.Empty
		case *ast.NumberLiteral:
			return values.StringKey(formatIndex(uint32(k.Value))), completion.Empty
		}
	}
	v, c := ops.Q(ec.EvalExpression(keyExpr))
	if ac, bad := ec.abrupt(c); bad {
		return values.PropertyKey{}, ac
	}
	return ops.Q2(ops.ToPropertyKey(v.(values.Value)))
}

// getPropertyOf reads key off value, boxing primitives through ToObject
// the same way evaluator/reference.go's GetValue does for a property
// reference whose base isn't already an Object.
func (ec *EvalContext) getPropertyOf(value values.Value, key values.PropertyKey) completion.Completion {
	obj, ok := value.(*object.Object)
	if !ok {
		v, c := ops.Q(ops.ToObject(ec.Realm, value))
		if c.IsAbrupt() {
			return c
		}
		obj = v.(values.Value).(*object.Object)
	}
	return obj.Get_(key, value)
}

// assignPattern implements spec's DestructuringAssignmentEvaluation /
// plain assignment to an already-existing binding or property target:
// every leaf is an Expression (Identifier or MemberExpression), resolved
// via evalRef + PutValue rather than InitializeBinding, matching `var`'s
// reuse-the-hoisted-binding semantics and destructuring *assignment*
// (`[a, b.c] = ...`, as opposed to a `let`/`const` destructuring
// *declaration*).
func (ec *EvalContext) assignPattern(pat ast.Node, value values.Value) completion.Completion {
	switch p := pat.(type) {
	case *ast.Identifier:
		ref := ec.ResolveBinding(p.Name)
		return ec.PutValue(ref, value)
	case ast.PatternExpr:
		// exprToPattern wraps a non-destructurable lvalue (a
		// MemberExpression, or any other plain assignment target) in a
		// Pattern-shaped adapter so AssignmentExpression.Left can stay
		// uniformly typed; Unwrap recovers the real Expression so evalRef's
		// type switch sees its genuine concrete type.
		ref, c := ec.evalRef(p.Unwrap())
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return ec.PutValue(ref.Reference, value)
	}
	switch p := pat.(type) {
	case *ast.AssignmentPattern:
		v := value
		if v.Kind() == values.UndefinedKind {
			dv, c := ops.Q(ec.EvalExpression(p.Default))
			if ac, bad := ec.abrupt(c); bad {
				return ac
			}
			v = dv.(values.Value)
		}
		return ec.assignPattern(p.Left, v)
	case *ast.ArrayPattern:
		return ec.assignArrayPattern(p, value)
	case *ast.ObjectPattern:
		return ec.assignObjectPattern(p, value)
	case *ast.RestElement:
		return ec.assignPattern(p.Argument, value)
	}
	return ec.ThrowSyntaxError("invalid destructuring assignment target")
}

func (ec *EvalContext) assignArrayPattern(p *ast.ArrayPattern, value values.Value) completion.Completion {
	recV, c := ops.Q(ops.GetIterator(value, ops.SyncIterator))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	rec := recV.(*ops.IteratorRecord)
	var triggering completion.Completion
	done := false
	next := func() values.Value {
		if done {
			return values.Undefined
		}
		result, c := ops.IteratorStep(rec)
		if c.IsAbrupt() {
			triggering, done = c, true
			return values.Undefined
		}
		if result == nil {
			done = true
			return values.Undefined
		}
		v, c := ops.Q(ops.IteratorValue(result))
		if c.IsAbrupt() {
			triggering, done = c, true
			return values.Undefined
		}
		return v.(values.Value)
	}
	for _, el := range p.Elements {
		if triggering.IsAbrupt() {
			break
		}
		if rest, ok := el.(*ast.RestElement); ok {
			arr := object.NewArrayObject(ec.Realm.Intrinsics.ArrayPrototype, ec.Realm, 0)
			idx := uint32(0)
			for !done {
				v := next()
				if triggering.IsAbrupt() || done {
					break
				}
				ops.CreateDataProperty(arr, values.StringKey(formatIndex(idx)), v)
				idx++
			}
			if triggering.IsAbrupt() {
				break
			}
			if c := ec.assignPattern(rest.Argument, arr); c.IsAbrupt() {
				return ec.realize(ops.IteratorClose(rec, c))
			}
			continue
		}
		v := next()
		if triggering.IsAbrupt() {
			break
		}
		if el == nil {
			continue
		}
		if c := ec.assignPattern(el, v); c.IsAbrupt() {
			return ec.realize(ops.IteratorClose(rec, c))
		}
	}
	if triggering.IsAbrupt() {
		return ec.realize(triggering)
	}
	if !done {
		return ec.realize(ops.IteratorClose(rec, completion.Empty))
	}
	return completion.Empty
}

func (ec *EvalContext) assignObjectPattern(p *ast.ObjectPattern, value values.Value) completion.Completion {
	if c := ops.RequireObjectCoercible(value); c.IsAbrupt() {
		return ec.realize(c)
	}
	var seen []values.PropertyKey
	for _, prop := range p.Properties {
		key, c := ec.destructuringKey(prop.Key, prop.Computed)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		seen = append(seen, key)
		v, c := ops.Q(ec.getPropertyOf(value, key))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if c := ec.assignPattern(prop.Value, v.(values.Value)); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	if p.Rest != nil {
		rest := object.NewObject(ec.Realm.Intrinsics.ObjectPrototype, ec.Realm)
		if obj, ok := value.(*object.Object); ok {
			for _, k := range obj.OwnPropertyKeys() {
				if keyIn(k, seen) {
					continue
				}
				desc, present := obj.GetOwnProperty(k)
				if !present || !desc.Enumerable {
					continue
				}
				gv, c := ops.Q(obj.Get_(k, obj))
				if ac, bad := ec.abrupt(c); bad {
					return ac
				}
				ops.CreateDataProperty(rest, k, gv.(values.Value))
			}
		}
		if c := ec.assignPattern(p.Rest, rest); c.IsAbrupt() {
			return ec.realize(c)
		}
	}
	return completion.Empty
}
