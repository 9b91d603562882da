package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// evalClassDeclaration implements spec.md §4.8's ClassDeclarationEvaluation:
// a class's own scope (the binding that lets its methods reference the
// class by name even though the outer `let`-style TDZ binding isn't
// initialized until the class finishes building) hosts the construction,
// and the finished constructor is what initializes the outer binding.
func (ec *EvalContext) evalClassDeclaration(s *ast.ClassDeclaration) completion.Completion {
	ctor, c := ec.buildClass(s)
	if c.IsAbrupt() {
		return c
	}
	if s.ID != nil {
		ec.Lexical.InitializeBinding(s.ID.Name, ctor)
	}
	return completion.Empty
}

// evalClassExpression implements ClassExpression evaluation, used by
// expressions.go for `const C = class extends Base { ... }`.
func (ec *EvalContext) evalClassExpression(s *ast.ClassDeclaration) completion.Completion {
	ctor, c := ec.buildClass(s)
	if c.IsAbrupt() {
		return c
	}
	return completion.Ok(ctor)
}

// buildClass implements the shared core of class declaration/expression
// evaluation: resolve the superclass, build the prototype chain, install
// methods/accessors (static ones on the constructor itself, instance ones
// on its .prototype), and wire the constructor's [[Construct]] to either a
// user-written `constructor` method or spec's default
// (`constructor(...args) { super(...args) }` for a derived class,
// `constructor() {}` for a base one).
func (ec *EvalContext) buildClass(s *ast.ClassDeclaration) (*object.Object, completion.Completion) {
	classEnv := environment.NewDeclarative(ec.Lexical)
	if s.ID != nil {
		classEnv.CreateImmutableBinding(s.ID.Name, true)
	}
	classCtx := ec.WithLexical(classEnv)

	var superCtor, superProto *object.Object
	isDerived := s.SuperClass != nil
	protoParent := values.Value(ec.Realm.Intrinsics.ObjectPrototype)
	ctorParent := values.Value(ec.Realm.Intrinsics.FunctionPrototype)
	if isDerived {
		v, c := ops.Q(classCtx.EvalExpression(s.SuperClass))
		if ac, bad := classCtx.abrupt(c); bad {
			return nil, ac
		}
		if v.(values.Value).Kind() == values.NullKind {
			protoParent = values.Null
		} else {
			sc, ok := v.(values.Value).(*object.Object)
			if !ok || !sc.IsConstructor() {
				return nil, classCtx.ThrowTypeError("class extends value is not a constructor")
			}
			superCtor = sc
			ctorParent = sc
			protoVal := sc.Get_(values.StringKey("prototype"), sc)
			if ac, bad := classCtx.abrupt(protoVal); bad {
				return nil, ac
			}
			sp, ok := protoVal.Value.(values.Value).(*object.Object)
			if !ok {
				return nil, classCtx.ThrowTypeError("superclass prototype is not an object")
			}
			superProto = sp
			protoParent = sp
		}
	}

	proto := object.NewObject(protoParent, ec.Realm)

	var ctorMember *ast.ClassMember
	for _, m := range s.Body {
		if m.Kind == "constructor" {
			ctorMember = m
		}
	}

	var ctor *object.Object
	if ctorMember != nil {
		ctor = classCtx.makeFunctionObject(ctorMember.Value.Params, ctorMember.Value.Body, "normal", false, false, proto, classEnv, className(s.ID))
	} else {
		ctor = classCtx.defaultConstructor(isDerived, proto, classEnv, className(s.ID))
	}
	ctor.FunctionKind = "classConstructor"
	ctor.SuperClassLinked = isDerived
	ctor.SetPrototypeOf(ctorParent)
	ctor.Construct = func(args []values.Value, newTarget values.Value) completion.Completion {
		return classCtx.constructFunctionObject(ctor, ctor.Internal.(*functionData), args, newTarget)
	}
	ctor.Call = func(this values.Value, args []values.Value) completion.Completion {
		return classCtx.ThrowTypeError("class constructor " + className(s.ID) + " cannot be invoked without 'new'")
	}
	ctor.DefineOwnProperty(values.StringKey("prototype"), property.DataDescriptor(proto, false, false, false))
	proto.DefineOwnProperty(values.StringKey("constructor"), property.DataDescriptor(ctor, true, false, true))
	if s.ID != nil {
		classEnv.InitializeBinding(s.ID.Name, ctor)
	}

	_ = superCtor
	for _, m := range s.Body {
		if m.Kind == "constructor" {
			continue
		}
		target := proto
		if m.Static {
			target = ctor
		}
		key, c := classCtx.destructuringKey(m.Key, m.Computed)
		if ac, bad := classCtx.abrupt(c); bad {
			return nil, ac
		}
		fn := classCtx.makeFunctionObject(m.Value.Params, m.Value.Body, "method", m.Value.Async, m.Value.Generator, target, classEnv, methodName(key, m.Kind))
		switch m.Kind {
		case "get":
			installAccessor(target, key, fn, nil)
		case "set":
			installAccessor(target, key, nil, fn)
		default:
			target.DefineOwnProperty(key, property.DataDescriptor(fn, true, false, true))
		}
	}

	return ctor, completion.Empty
}

// defaultConstructor builds spec's default class constructor when no
// `constructor` member is written: a derived class forwards its arguments
// to super(); a base class does nothing.
func (ec *EvalContext) defaultConstructor(isDerived bool, homeObject *object.Object, env environment.Record, name string) *object.Object {
	rest := &ast.RestElement{PatternBase: ast.PatternAt(ast.Position{}), Argument: &ast.Identifier{PatternBase: ast.PatternAt(ast.Position{}), Name: "args"}}
	var body *ast.BlockStatement
	var params []ast.Pattern
	if isDerived {
		params = []ast.Pattern{rest}
		body = &ast.BlockStatement{StmtBase: ast.StmtAt(ast.Position{}), Body: []ast.Statement{
			&ast.ExpressionStatement{StmtBase: ast.StmtAt(ast.Position{}), Expression: &ast.CallExpression{
				ExprBase: ast.ExprAt(ast.Position{}),
				Callee:   &ast.SuperExpression{ExprBase: ast.ExprAt(ast.Position{})},
				Arguments: []ast.Expression{&ast.SpreadElement{
					ExprBase: ast.ExprAt(ast.Position{}),
					Argument: &ast.IdentifierExpression{ExprBase: ast.ExprAt(ast.Position{}), Name: "args"},
				}},
			}},
		}}
	} else {
		body = &ast.BlockStatement{StmtBase: ast.StmtAt(ast.Position{})}
	}
	return ec.makeFunctionObject(params, body, "normal", false, false, homeObject, env, name)
}

func className(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func methodName(key values.PropertyKey, kind string) string {
	name := key.String()
	if kind == "get" {
		return "get " + name
	}
	if kind == "set" {
		return "set " + name
	}
	return name
}

// installAccessor merges a getter or setter into whatever accessor
// descriptor (if any) already occupies key, matching spec's "class bodies
// can declare a getter and setter for the same key as two separate
// members" (ClassElementEvaluation step for accessor pairs).
func installAccessor(target *object.Object, key values.PropertyKey, getter, setter *object.Object) {
	existing, ok := target.GetOwnProperty(key)
	desc := property.Descriptor{
		HasGet: true, HasSet: true,
		HasEnumerable: true, Enumerable: false,
		HasConfigurable: true, Configurable: true,
	}
	if ok && existing.IsAccessorDescriptor() {
		desc.Get, desc.Set = existing.Get, existing.Set
	}
	if getter != nil {
		desc.Get = getter
	}
	if setter != nil {
		desc.Set = setter
	}
	target.DefineOwnProperty(key, desc)
}
