package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// NewFunctionObject creates a Function-kind object. call/construct are the
// closures that implement [[Call]]/[[Construct]]; pass a nil construct for
// arrows, generators, async functions, and any native function that isn't
// constructible (spec.md §4.3: "optional HomeObject for super").
func NewFunctionObject(proto values.Value, realm RealmHandle, call CallableFunc, construct ConstructableFunc, thisMode, kind string) *Object {
	return &Object{
		proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "Function",
		Methods: OrdinaryMethodTable(),
		Call:    call, Construct: construct,
		ThisMode: thisMode, FunctionKind: kind,
	}
}

// NewBoundFunctionObject implements spec's BoundFunctionCreate: [[Call]]
// prepends BoundThis and BoundArguments ahead of the caller's own args;
// [[Construct]] (only present if target is itself a constructor) prepends
// only BoundArguments, since `new` ignores `this`.
func NewBoundFunctionObject(proto values.Value, realm RealmHandle, target *Object, boundThis values.Value, boundArgs []values.Value) *Object {
	o := &Object{
		proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "Function",
		Methods: OrdinaryMethodTable(),
		BoundTargetFunction: target, BoundThis: boundThis, BoundArguments: boundArgs,
	}
	o.Call = func(this values.Value, args []values.Value) completion.Completion {
		full := append(append([]values.Value{}, boundArgs...), args...)
		return target.Call(boundThis, full)
	}
	if target.IsConstructor() {
		o.Construct = func(args []values.Value, newTarget values.Value) completion.Completion {
			full := append(append([]values.Value{}, boundArgs...), args...)
			nt := newTarget
			if ntObj, ok := newTarget.(*Object); ok && ntObj == o {
				nt = target
			}
			return target.Construct(full, nt)
		}
	}
	return o
}
