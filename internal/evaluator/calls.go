package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// evalArguments evaluates a call/new argument list left to right, expanding
// *ast.SpreadElement entries via IterableToList (spec's ArgumentListEvaluation).
func (ec *EvalContext) evalArguments(nodes []ast.Expression) ([]values.Value, completion.Completion) {
	args := make([]values.Value, 0, len(nodes))
	for _, n := range nodes {
		if spread, ok := n.(*ast.SpreadElement); ok {
			v, c := ops.Q(ec.EvalExpression(spread.Argument))
			if ac, bad := ec.abrupt(c); bad {
				return nil, ac
			}
			items, c := ops.IterableToList(v.(values.Value))
			if ac, bad := ec.abrupt(c); bad {
				return nil, ac
			}
			args = append(args, items...)
			continue
		}
		v, c := ops.Q(ec.EvalExpression(n))
		if ac, bad := ec.abrupt(c); bad {
			return nil, ac
		}
		args = append(args, v.(values.Value))
	}
	return args, completion.Empty
}

// evalCallExpression implements spec's EvaluateCall: a callee that's a
// MemberExpression is evaluated as a Reference so the receiver becomes the
// `this` argument, a super call constructs the active constructor's
// [[Prototype]] instead (evalSuperCall), and anything else calls with `this`
// undefined (spec.md §4.6's "calling a plain identifier never supplies a
// `this`").
func (ec *EvalContext) evalCallExpression(e *ast.CallExpression) completion.Completion {
	if _, ok := e.Callee.(*ast.SuperExpression); ok {
		return ec.evalSuperCall(e)
	}
	var thisArg values.Value = values.Undefined
	var funcVal values.Value
	if member, ok := e.Callee.(*ast.MemberExpression); ok {
		ref, c := ec.evalMemberRef(member)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if ref.ShortCircuited {
			return completion.Ok(values.Undefined)
		}
		v, c := ops.Q(ec.GetValue(ref.Reference))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		funcVal = v.(values.Value)
		if ref.IsSuper {
			thisArg = ref.ThisValue
		} else {
			thisArg = ref.Base
		}
	} else {
		v, c := ops.Q(ec.EvalExpression(e.Callee))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		funcVal = v.(values.Value)
	}
	if e.Optional && isNullish(funcVal) {
		return completion.Ok(values.Undefined)
	}
	args, c := ec.evalArguments(e.Arguments)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	fnObj, ok := funcVal.(*object.Object)
	if !ok || !fnObj.IsCallable() {
		return ec.ThrowTypeError(calleeDescription(e.Callee) + " is not a function")
	}
	return ec.realize(fnObj.Call(thisArg, args))
}

func calleeDescription(callee ast.Expression) string {
	switch c := callee.(type) {
	case *ast.IdentifierExpression:
		return c.Name
	case *ast.MemberExpression:
		if id, ok := c.Property.(*ast.IdentifierExpression); ok && !c.Computed {
			return calleeDescription(c.Object) + "." + id.Name
		}
	}
	return "expression"
}

// evalSuperCall implements spec's SuperCall evaluation: construct the
// active constructor's [[Prototype]] (the superclass constructor) with
// NewTarget, then bind the result as `this` in the running function
// environment (spec's derived-constructor "this is uninitialized until
// super() returns").
func (ec *EvalContext) evalSuperCall(e *ast.CallExpression) completion.Completion {
	fr := ec.functionRecord()
	if fr == nil || fr.FunctionObject == nil {
		return ec.ThrowSyntaxError("'super' keyword is only valid inside a derived constructor")
	}
	superCtor, ok := fr.FunctionObject.GetPrototypeOf().(*object.Object)
	if !ok || !superCtor.IsConstructor() {
		return ec.ThrowTypeError("super constructor is not a constructor")
	}
	args, c := ec.evalArguments(e.Arguments)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	newTarget, _ := ec.NewTarget.(values.Value)
	if newTarget == nil {
		newTarget = fr.FunctionObject
	}
	result, c := ops.Q(superCtor.Construct(args, newTarget))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	thisVal := result.(values.Value)
	if c := fr.BindThisValue(thisVal); c.IsAbrupt() {
		return ec.realize(c)
	}
	return completion.Ok(values.Undefined)
}

// functionRecord walks the lexical chain for the nearest non-lexical
// this-binding record, the running constructor's own environment (an arrow
// function nested in a constructor has Lexical ThisBindingStatus and
// defers super() lookups to its enclosing constructor the same way `this`
// does).
func (ec *EvalContext) functionRecord() *environment.FunctionRecord {
	for env := ec.Lexical; env != nil; env = env.Outer() {
		if fr, ok := env.(*environment.FunctionRecord); ok && fr.HasThisBinding() {
			return fr
		}
	}
	return nil
}

func (ec *EvalContext) evalNewExpression(e *ast.NewExpression) completion.Completion {
	v, c := ops.Q(ec.EvalExpression(e.Callee))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	ctor, ok := v.(values.Value).(*object.Object)
	if !ok || !ctor.IsConstructor() {
		return ec.ThrowTypeError(calleeDescription(e.Callee) + " is not a constructor")
	}
	args, c := ec.evalArguments(e.Arguments)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	return ec.realize(ctor.Construct(args, ctor))
}

// evalYield implements spec's YieldExpression evaluation: suspend the
// running generator and hand the (optionally delegated) value back to
// whichever of next/throw/return resumes it.
func (ec *EvalContext) evalYield(e *ast.YieldExpression) completion.Completion {
	if ec.Generator == nil {
		return ec.ThrowSyntaxError("yield used outside a generator function")
	}
	if e.Delegate {
		return ec.evalYieldDelegate(e.Argument)
	}
	var v values.Value = values.Undefined
	if e.Argument != nil {
		av, c := ops.Q(ec.EvalExpression(e.Argument))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		v = av.(values.Value)
	}
	return ec.Generator.yieldValue(v)
}

// evalYieldDelegate implements `yield*`: drain the delegate's iterator,
// re-yielding each value (spec's "delegating yield"). A throw() or return()
// received while suspended closes the delegate through ops.IteratorClose,
// which calls its return method, and then propagates; the delegate's throw
// method is never called.
func (ec *EvalContext) evalYieldDelegate(argExpr ast.Expression) completion.Completion {
	av, c := ops.Q(ec.EvalExpression(argExpr))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	recV, c := ops.Q(ops.GetIterator(av.(values.Value), ops.SyncIterator))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	rec := recV.(*ops.IteratorRecord)
	var sendValue values.Value
	for {
		resC := ops.IteratorNext(rec, sendValue)
		v, c := ops.Q(resC)
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		result := v.(*object.Object)
		doneV, c := ops.Q(ops.IteratorComplete(result))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		iv, c := ops.Q(ops.IteratorValue(result))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		if bool(doneV.(values.Value).(values.Boolean)) {
			return completion.Ok(iv.(values.Value))
		}
		resumeC := ec.Generator.yieldValue(iv.(values.Value))
		if resumeC.Type == completion.Throw {
			return ops.IteratorClose(rec, resumeC)
		}
		if resumeC.Type == completion.Return {
			return ops.IteratorClose(rec, resumeC)
		}
		sendValue = resumeC.Value.(values.Value)
	}
}

// evalAwait implements spec's AwaitExpression: suspend the async function's
// coroutine until the awaited value's promise settles (the job queue drives
// resumption via the generator channel the same way a generator's next()
// does, grounded on spec.md §5's single job-queue concurrency model).
func (ec *EvalContext) evalAwait(e *ast.AwaitExpression) completion.Completion {
	if ec.Generator == nil {
		return ec.ThrowSyntaxError("await used outside an async function")
	}
	v, c := ops.Q(ec.EvalExpression(e.Argument))
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	// An async function body reuses the generator suspend/resume channel
	// for await points too: the driver that started this coroutine (see
	// function.go's async call path) treats every yielded value as a
	// promise to resolve and feeds the settlement back through resumeWith,
	// which is indistinguishable here from a generator's next()/throw().
	return ec.Generator.yieldValue(v.(values.Value))
}

func (ec *EvalContext) evalDynamicImport(e *ast.ImportExpression) completion.Completion {
	return ec.ThrowTypeError("dynamic import is not supported in this host")
}
