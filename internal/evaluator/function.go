package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// functionData is what an ecmax-defined (as opposed to native) function
// object stashes in its Internal field: the closed-over scope plus enough
// of the defining context to build a fresh EvalContext at call time
// (spec.md §4.7's [[Environment]]/[[FormalParameters]]/[[ECMAScriptCode]]
// internal slots).
type functionData struct {
	Params []ast.Pattern
	Body   ast.Node // *ast.BlockStatement, or an Expression for an arrow's concise body
	Env    environment.Record
	Realm  *EvalContext // reused only for Agent/Realm/Strict; see newCallContext
}

// makeFunctionObject is the shared constructor behind function
// declarations, function expressions, object-literal methods, and class
// methods: spec's OrdinaryFunctionCreate plus generator/async kind
// selection.
func (ec *EvalContext) makeFunctionObject(params []ast.Pattern, body ast.Node, kindHint string, async, generator bool, homeObject *object.Object, env environment.Record, name string) *object.Object {
	kind := kindHint
	thisMode := "global"
	if ec.Strict {
		thisMode = "strict"
	}
	if kindHint == "arrow" {
		thisMode = "lexical"
	} else if async && generator {
		kind = "asyncGenerator"
	} else if async {
		kind = "async"
	} else if generator {
		kind = "generator"
	}

	data := &functionData{Params: params, Body: body, Env: env, Realm: ec}
	proto := values.Value(ec.Realm.Intrinsics.FunctionPrototype)
	switch kind {
	case "generator":
		proto = ec.Realm.Intrinsics.GeneratorPrototype
	case "asyncGenerator":
		proto = ec.Realm.Intrinsics.AsyncGeneratorPrototype
	}

	fnObj := object.NewFunctionObject(proto, ec.Realm, nil, nil, thisMode, kind)
	fnObj.HomeObject = homeObject
	fnObj.Internal = data
	fnObj.Call = func(this values.Value, args []values.Value) completion.Completion {
		return ec.callFunctionObject(fnObj, data, this, args)
	}
	if kind == "normal" || kind == "method" {
		fnObj.Construct = func(args []values.Value, newTarget values.Value) completion.Completion {
			return ec.constructFunctionObject(fnObj, data, args, newTarget)
		}
	}

	length := 0
	for _, p := range params {
		if _, ok := p.(*ast.Identifier); !ok {
			break
		}
		length++
	}
	fnObj.DefineOwnProperty(values.StringKey("length"), property.DataDescriptor(values.Number(length), false, false, true))
	fnObj.DefineOwnProperty(values.StringKey("name"), property.DataDescriptor(values.NewString(name), false, false, true))

	if kind == "normal" || kind == "method" || kind == "classConstructor" {
		proto := object.NewObject(ec.Realm.Intrinsics.ObjectPrototype, ec.Realm)
		proto.DefineOwnProperty(values.StringKey("constructor"), property.DataDescriptor(fnObj, true, false, true))
		fnObj.DefineOwnProperty(values.StringKey("prototype"), property.DataDescriptor(proto, true, false, false))
	}
	return fnObj
}

// makeFunctionExpression implements spec's named/anonymous
// FunctionExpression evaluation: a *named* function expression gets its
// own surrounding declarative scope binding its own name to itself (so
// `const f = function fact(n) { return n <= 1 ? 1 : n * fact(n-1) }` can
// recurse by name without leaking that name into the enclosing scope).
func (ec *EvalContext) makeFunctionExpression(e *ast.FunctionExpression) *object.Object {
	env := ec.Lexical
	name := ""
	if e.ID != nil {
		name = e.ID.Name
		env = environment.NewDeclarative(ec.Lexical)
	}
	fnObj := ec.makeFunctionObject(e.Params, e.Body, "normal", e.Async, e.Generator, nil, env, name)
	if e.ID != nil {
		env.CreateImmutableBinding(e.ID.Name, false)
		env.InitializeBinding(e.ID.Name, fnObj)
	}
	return fnObj
}

// makeArrowFunction implements spec's ArrowFunction evaluation: lexical
// `this`/`super`/`arguments`/`new.target`, no prototype property, never
// constructible.
func (ec *EvalContext) makeArrowFunction(e *ast.ArrowFunctionExpression) *object.Object {
	return ec.makeFunctionObject(e.Params, e.Body, "arrow", e.Async, false, nil, ec.Lexical, "")
}

// newCallContext builds the EvalContext a function body runs under:
// spec's PrepareForOrdinaryCall, minus the this-binding (done separately by
// OrdinaryCallBindThis, since an arrow's FunctionRecord never gets one).
func (defining *EvalContext) newCallContext(fnObj *object.Object, data *functionData, newTarget values.Value) (*EvalContext, *environment.FunctionRecord) {
	thisStatus := environment.Initialized
	switch {
	case fnObj.ThisMode == "lexical":
		thisStatus = environment.Lexical
	case fnObj.FunctionKind == "classConstructor" && fnObj.SuperClassLinked && newTarget != nil:
		// A derived constructor's `this` stays uninitialized until its
		// super() call runs (spec.md §4.8).
		thisStatus = environment.Uninitialized
	}
	fr := environment.NewFunctionRecord(data.Env, fnObj, thisStatus, newTarget, fnObj.HomeObject)
	callCtx := &EvalContext{
		Agent: defining.Agent, Realm: data.Realm.Realm,
		Lexical: fr, Variable: fr, Function: fnObj, NewTarget: newTarget,
		Strict: defining.Strict || fnObj.ThisMode == "strict",
	}
	return callCtx, fr
}

// ordinaryCallBindThis implements spec's OrdinaryCallBindThis: an arrow
// function never gets its own this-binding (HasThisBinding is false on its
// FunctionRecord, so GetThisBinding defers up the chain); everything else
// binds `this` directly, boxing a primitive `this` in sloppy mode per
// spec's non-strict auto-boxing rule (global/undefined `this` becomes the
// realm's globalThis).
func (callCtx *EvalContext) ordinaryCallBindThis(fnObj *object.Object, fr *environment.FunctionRecord, this values.Value) completion.Completion {
	if fnObj.ThisMode == "lexical" {
		return completion.Empty
	}
	thisValue := this
	if fnObj.ThisMode != "strict" {
		if this == nil || this.Kind() == values.UndefinedKind || this.Kind() == values.NullKind {
			thisValue = callCtx.Realm.GlobalObject
		} else if values.IsPrimitive(this) {
			boxed, c := ops.Q(ops.ToObject(callCtx.Realm, this))
			if c.IsAbrupt() {
				return c
			}
			thisValue = boxed.(values.Value)
		}
	}
	fr.SetThisValue(thisValue)
	return completion.Empty
}

// callFunctionObject is the [[Call]] closure every non-arrow/arrow ecmax
// function object shares: derived-class constructors call through
// [[Construct]] instead (a plain call of a class constructor is a
// TypeError, checked by the caller via FunctionKind), everything else runs
// FunctionDeclarationInstantiation then evaluates the body, routing
// generator/async bodies through the coroutine machinery.
func (ec *EvalContext) callFunctionObject(fnObj *object.Object, data *functionData, this values.Value, args []values.Value) completion.Completion {
	if fnObj.FunctionKind == "classConstructor" {
		return ec.ThrowTypeError("class constructor cannot be invoked without 'new'")
	}
	callCtx, fr := ec.newCallContext(fnObj, data, nil)
	if c := callCtx.ordinaryCallBindThis(fnObj, fr, this); c.IsAbrupt() {
		return callCtx.realize(c)
	}
	return callCtx.runFunctionBody(fnObj, data, fr, args)
}

// constructFunctionObject is the [[Construct]] closure for a normal
// function: spec's OrdinaryCallEvaluateBody / Construct split on whether
// the function is a base or derived-class constructor. ecmax has no
// derived-class-constructor distinct code path beyond a superclass link
// (internal/evaluator/class.go), so a plain function called with `new`
// always pre-allocates `this` from newTarget.prototype, matching spec's
// base-class behaviour.
func (ec *EvalContext) constructFunctionObject(fnObj *object.Object, data *functionData, args []values.Value, newTarget values.Value) completion.Completion {
	callCtx, fr := ec.newCallContext(fnObj, data, newTarget)
	ntObj, _ := newTarget.(*object.Object)
	if ntObj == nil {
		ntObj = fnObj
	}
	if fnObj.SuperClassLinked {
		// Derived constructors defer `this` allocation until their super()
		// call runs (fr starts Uninitialized; evalSuperCall binds it).
	} else {
		protoVal := ntObj.Get_(values.StringKey("prototype"), ntObj)
		if protoVal.IsAbrupt() {
			return callCtx.realize(protoVal)
		}
		proto, ok := protoVal.Value.(values.Value).(*object.Object)
		if !ok {
			proto = ec.Realm.Intrinsics.ObjectPrototype
		}
		instance := object.NewObject(proto, ec.Realm)
		fr.SetThisValue(instance)
	}
	result := callCtx.runFunctionBody(fnObj, data, fr, args)
	if result.Type == completion.Throw {
		return result
	}
	var v values.Value = values.Undefined
	if result.Type == completion.Return {
		v = result.Value.(values.Value)
	}
	if v.Kind() == values.ObjectKind {
		return completion.Ok(v)
	}
	thisC := fr.GetThisBinding()
	if thisC.IsAbrupt() {
		return callCtx.realize(thisC)
	}
	return completion.Ok(thisC.Value.(values.Value))
}

// runFunctionBody dispatches to a plain synchronous call, a generator
// start, or an async-coroutine drive depending on fnObj.FunctionKind, after
// running FunctionDeclarationInstantiation in every case.
func (callCtx *EvalContext) runFunctionBody(fnObj *object.Object, data *functionData, fr *environment.FunctionRecord, args []values.Value) completion.Completion {
	stmts, bodyExpr := bodyStatements(data.Body)

	switch fnObj.FunctionKind {
	case "generator", "asyncGenerator":
		return completion.Ok(callCtx.startGeneratorObject(fnObj, data, fr, args, stmts, bodyExpr, fnObj.FunctionKind == "asyncGenerator"))
	case "async":
		return completion.Ok(callCtx.startAsyncFunction(fnObj, data, fr, args, stmts, bodyExpr))
	default:
		callCtx.Generator = nil
		pop := callCtx.Push()
		defer pop()
		if c := callCtx.functionDeclarationInstantiation(fr, data.Params, stmts, args); c.IsAbrupt() {
			return c
		}
		return callCtx.evalFunctionBody(stmts, bodyExpr)
	}
}

// bodyStatements normalizes a function's body node: a block's own
// statement list, or — for an arrow's concise body — a single synthesized
// `return <expr>` so every call site can treat bodies uniformly.
func bodyStatements(body ast.Node) ([]ast.Statement, ast.Expression) {
	switch b := body.(type) {
	case *ast.BlockStatement:
		return b.Body, nil
	case ast.Expression:
		return nil, b
	}
	return nil, nil
}

func (ec *EvalContext) evalFunctionBody(stmts []ast.Statement, concise ast.Expression) completion.Completion {
	if concise != nil {
		v, c := ops.Q(ec.EvalExpression(concise))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		return completion.Returned(v.(values.Value))
	}
	c := ec.EvalStatements(stmts)
	if c.Type == completion.Return {
		return c
	}
	if c.IsAbrupt() {
		return c
	}
	return completion.Returned(values.Undefined)
}

// nativeFunction builds a Function-kind object around a Go closure,
// used by the promise-driving machinery below (and reusable by
// internal/builtins for intrinsic methods) without needing an AST body.
func (ec *EvalContext) nativeFunction(name string, length int, fn object.CallableFunc) *object.Object {
	o := object.NewFunctionObject(ec.Realm.Intrinsics.FunctionPrototype, ec.Realm, fn, nil, "strict", "normal")
	o.DefineOwnProperty(values.StringKey("length"), property.DataDescriptor(values.Number(length), false, false, true))
	o.DefineOwnProperty(values.StringKey("name"), property.DataDescriptor(values.NewString(name), false, false, true))
	return o
}

// --- Generator objects ---

// startGeneratorObject implements spec's [[Call]] for a generator
// function: the call itself only creates a suspended-start Generator
// instance: the body doesn't run a single statement until something calls
// .next().
func (ec *EvalContext) startGeneratorObject(fnObj *object.Object, data *functionData, fr *environment.FunctionRecord, args []values.Value, stmts []ast.Statement, concise ast.Expression, isAsync bool) *object.Object {
	gs := newGeneratorState()
	bodyCtx := *ec
	bodyCtx.Generator = gs
	bodyCtx.Lexical, bodyCtx.Variable = fr, fr
	bodyCtx.Function = fnObj

	gs.start(&bodyCtx, func(runCtx *EvalContext) completion.Completion {
		pop := runCtx.Push()
		defer pop()
		if c := runCtx.functionDeclarationInstantiation(fr, data.Params, stmts, args); c.IsAbrupt() {
			return c
		}
		return runCtx.evalFunctionBody(stmts, concise)
	})

	proto := ec.Realm.Intrinsics.GeneratorPrototype
	if isAsync {
		proto = ec.Realm.Intrinsics.AsyncGeneratorPrototype
	}
	gen := object.NewObject(proto, ec.Realm)
	gen.Class = "Generator"
	gen.Internal = gs
	ec.installGeneratorMethods(gen, gs, isAsync)
	return gen
}

// installGeneratorMethods attaches own next/throw/return (and, for a sync
// generator, @@iterator returning itself) directly on the instance. This
// keeps generator support usable ahead of internal/builtins installing the
// shared %GeneratorPrototype% surface — a later builtins pass can move
// these onto the prototype once it exists without changing this package.
func (ec *EvalContext) installGeneratorMethods(gen *object.Object, gs *generatorState, isAsync bool) {
	wrap := func(kind resumeKind) object.CallableFunc {
		return func(this values.Value, callArgs []values.Value) completion.Completion {
			var v values.Value = values.Undefined
			if len(callArgs) > 0 {
				v = callArgs[0]
			}
			c, done := gs.resumeWith(kind, v)
			if c.Type == completion.Throw {
				return c
			}
			var resultValue values.Value = values.Undefined
			if c.Value != nil {
				resultValue = c.Value.(values.Value)
			}
			return completion.Ok(ec.createIterResultObject(resultValue, done))
		}
	}
	gen.DefineOwnProperty(values.StringKey("next"), property.DataDescriptor(ec.nativeFunction("next", 1, wrap(resumeNext)), true, false, true))
	gen.DefineOwnProperty(values.StringKey("throw"), property.DataDescriptor(ec.nativeFunction("throw", 1, wrap(resumeThrow)), true, false, true))
	gen.DefineOwnProperty(values.StringKey("return"), property.DataDescriptor(ec.nativeFunction("return", 1, wrap(resumeReturn)), true, false, true))
	if !isAsync {
		selfIterator := ec.nativeFunction("[Symbol.iterator]", 0, func(this values.Value, _ []values.Value) completion.Completion {
			return completion.Ok(this)
		})
		gen.DefineOwnProperty(values.SymbolKey(values.SymIterator), property.DataDescriptor(selfIterator, true, false, true))
	}
}

func (ec *EvalContext) createIterResultObject(value values.Value, done bool) *object.Object {
	o := object.NewObject(ec.Realm.Intrinsics.ObjectPrototype, ec.Realm)
	ops.CreateDataProperty(o, values.StringKey("value"), value)
	ops.CreateDataProperty(o, values.StringKey("done"), values.BoolValue(done))
	return o
}

// --- Async functions ---

// startAsyncFunction implements spec's AsyncFunctionStart: run the body
// synchronously up to its first await/return/throw, then drive the rest
// from the job queue as each awaited value settles, settling the returned
// promise when the coroutine finishes.
func (ec *EvalContext) startAsyncFunction(fnObj *object.Object, data *functionData, fr *environment.FunctionRecord, args []values.Value, stmts []ast.Statement, concise ast.Expression) *object.Object {
	gs := newGeneratorState()
	bodyCtx := *ec
	bodyCtx.Generator = gs
	bodyCtx.Lexical, bodyCtx.Variable = fr, fr
	bodyCtx.Function = fnObj

	gs.start(&bodyCtx, func(runCtx *EvalContext) completion.Completion {
		pop := runCtx.Push()
		defer pop()
		if c := runCtx.functionDeclarationInstantiation(fr, data.Params, stmts, args); c.IsAbrupt() {
			return c
		}
		return runCtx.evalFunctionBody(stmts, concise)
	})

	enqueue := func(job func()) { ec.Agent.EnqueueJob(agent.Job{Realm: ec.Realm, Thunk: job}) }
	prom := ops.NewPromiseObject(ec.Realm.Intrinsics.PromisePrototype, ec.Realm, enqueue)
	pd, _ := ops.PromiseDataOf(prom)
	ec.driveAsync(gs, pd)
	return prom
}

func (ec *EvalContext) driveAsync(gs *generatorState, pd *ops.PromiseData) {
	c, done := gs.resumeWith(resumeNext, values.Undefined)
	ec.settleAsyncStep(gs, pd, c, done)
}

func (ec *EvalContext) settleAsyncStep(gs *generatorState, pd *ops.PromiseData, c completion.Completion, done bool) {
	if done {
		if c.Type == completion.Throw {
			pd.Reject(c.Value.(values.Value))
			return
		}
		var v values.Value = values.Undefined
		if c.Value != nil {
			v = c.Value.(values.Value)
		}
		pd.Fulfill(v)
		return
	}
	awaited := c.Value.(values.Value)
	ec.resolveAwaited(awaited,
		func(v values.Value) {
			rc, d := gs.resumeWith(resumeNext, v)
			ec.settleAsyncStep(gs, pd, rc, d)
		},
		func(v values.Value) {
			rc, d := gs.resumeWith(resumeThrow, v)
			ec.settleAsyncStep(gs, pd, rc, d)
		})
}

// resolveAwaited implements spec's Await abstract operation's
// resolution half: a native promise's reactions attach directly; a
// thenable's `then` method is called with native resolve/reject
// functions; any other value resolves after one microtask tick (spec's
// PromiseResolve wrapping a non-thenable).
func (ec *EvalContext) resolveAwaited(v values.Value, onFulfilled, onRejected func(values.Value)) {
	if obj, ok := v.(*object.Object); ok {
		if pd, ok := ops.PromiseDataOf(obj); ok {
			pd.Then(onFulfilled, onRejected)
			return
		}
		thenVal := obj.Get_(values.StringKey("then"), obj)
		if !thenVal.IsAbrupt() {
			if thenFn, ok := thenVal.Value.(values.Value).(*object.Object); ok && thenFn.IsCallable() {
				resolveFn := ec.nativeFunction("", 1, func(_ values.Value, callArgs []values.Value) completion.Completion {
					var a values.Value = values.Undefined
					if len(callArgs) > 0 {
						a = callArgs[0]
					}
					ec.Agent.EnqueueJob(agent.Job{Realm: ec.Realm, Thunk: func() { onFulfilled(a) }})
					return completion.Ok(values.Undefined)
				})
				rejectFn := ec.nativeFunction("", 1, func(_ values.Value, callArgs []values.Value) completion.Completion {
					var a values.Value = values.Undefined
					if len(callArgs) > 0 {
						a = callArgs[0]
					}
					ec.Agent.EnqueueJob(agent.Job{Realm: ec.Realm, Thunk: func() { onRejected(a) }})
					return completion.Ok(values.Undefined)
				})
				thenFn.Call(obj, []values.Value{resolveFn, rejectFn})
				return
			}
		}
	}
	ec.Agent.EnqueueJob(agent.Job{Realm: ec.Realm, Thunk: func() { onFulfilled(v) }})
}
