// Package builtins installs method bodies onto the bare prototype/
// constructor objects internal/realm.Bootstrap allocates — spec.md §4.6's
// "Global object & intrinsics" surface. Grounded on the teacher's
// internal/interp/builtins package (one file per intrinsic family, a
// Context-plus-args calling convention for every builtin function), adapted
// from DWScript's single global function namespace to ECMAScript's
// prototype-method layout.
package builtins

import (
	"strconv"

	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func itoa(i int) string { return strconv.Itoa(i) }

// dataProp is the writable/non-enumerable/configurable attribute triple a
// namespace object like Math or JSON is installed onto the global object
// with.
func dataProp(v values.Value) property.Descriptor {
	return property.DataDescriptor(v, true, false, true)
}

// method is the shape every intrinsic function body is written against: the
// same (this, args) convention object.CallableFunc uses, with the owning
// realm threaded through explicitly since builtins never have an
// EvalContext to pull it from.
type method func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion

// nativeFunction mirrors evaluator.(*EvalContext).nativeFunction at realm
// granularity: a Function-kind object around a Go closure, with the
// non-enumerable "length"/"name" own properties spec.md §4.3 requires every
// built-in function expose.
func nativeFunction(rlm *realm.Realm, name string, length int, fn method) *object.Object {
	o := object.NewFunctionObject(rlm.Intrinsics.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		return fn(rlm, this, args)
	}, nil, "strict", "normal")
	o.DefineOwnProperty(values.StringKey("length"), property.DataDescriptor(values.Number(length), false, false, true))
	o.DefineOwnProperty(values.StringKey("name"), property.DataDescriptor(values.NewString(name), false, false, true))
	return o
}

// defineMethod installs fn as a non-enumerable, writable, configurable own
// method of target under name — the attribute triple spec.md §4.3 assigns
// to every built-in method.
func defineMethod(rlm *realm.Realm, target *object.Object, name string, length int, fn method) {
	target.DefineOwnProperty(values.StringKey(name), property.DataDescriptor(nativeFunction(rlm, name, length, fn), true, false, true))
}

// defineValue installs a plain non-enumerable data property, the attribute
// triple built-in non-function intrinsic properties use (e.g. Math.PI,
// Number.EPSILON).
func defineValue(target *object.Object, name string, v values.Value, writable bool) {
	target.DefineOwnProperty(values.StringKey(name), property.DataDescriptor(v, writable, false, false))
}

func arg(args []values.Value, i int) values.Value {
	if i < len(args) {
		return args[i]
	}
	return values.Undefined
}

// enqueueFn adapts rlm's owning agent into the bare func(func()) shape
// ops.NewPromiseObject wants, so a promise's reactions run as a proper
// agent job (spec.md §4.9) rather than synchronously from native code.
func enqueueFn(rlm *realm.Realm) func(func()) {
	return func(job func()) {
		rlm.Agent.EnqueueJob(agent.Job{Realm: rlm, Thunk: job})
	}
}

// thisObject coerces this to an Object, the shared first step of nearly
// every Object.prototype/Array.prototype/... method (spec's "Let O be ?
// ToObject(this value)").
func thisObject(rlm *realm.Realm, this values.Value) (*object.Object, completion.Completion) {
	v, c := completion.Q(ops.ToObject(rlm, this))
	if c.IsAbrupt() {
		return nil, c
	}
	return v.(*object.Object), completion.Empty
}
