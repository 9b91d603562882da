package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installFunction wires up %Function.prototype%'s call/apply/bind triad
// (spec.md §4.3) and a minimal %Function% constructor (throws rather than
// compiling a source string, since this host never exposes `new Function`
// as a way to reach the parser from script — spec.md's Non-goals keep the
// dynamic-code-from-string surface closed).
func installFunction(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.FunctionPrototype
	proto.Call = func(this values.Value, args []values.Value) completion.Completion { return completion.Returned(values.Undefined) }

	ctor := object.NewFunctionObject(proto, rlm, func(this values.Value, args []values.Value) completion.Completion {
		return completion.Thrown(ops.TypeErrorValue("Function constructor is not supported"))
	}, nil, "strict", "normal")
	in.FunctionConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Function", rlm)

	defineMethod(rlm, proto, "call", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		fn, ok := this.(*object.Object)
		if !ok || !fn.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Function.prototype.call called on non-callable"))
		}
		newThis := arg(args, 0)
		var rest []values.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return fn.Call(newThis, rest)
	})

	defineMethod(rlm, proto, "apply", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		fn, ok := this.(*object.Object)
		if !ok || !fn.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Function.prototype.apply called on non-callable"))
		}
		newThis := arg(args, 0)
		argArray := arg(args, 1)
		if argArray == values.Undefined || argArray == values.Null {
			return fn.Call(newThis, nil)
		}
		list, c := ops.IterableToList(argArray)
		if c.IsAbrupt() {
			argObj, ok := argArray.(*object.Object)
			if !ok {
				return completion.Thrown(ops.TypeErrorValue("CreateListFromArrayLike called on non-object"))
			}
			list = arrayLikeToList(argObj)
		}
		return fn.Call(newThis, list)
	})

	defineMethod(rlm, proto, "bind", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		fn, ok := this.(*object.Object)
		if !ok || !fn.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Function.prototype.bind called on non-callable"))
		}
		boundThis := arg(args, 0)
		var boundArgs []values.Value
		if len(args) > 1 {
			boundArgs = args[1:]
		}
		bound := object.NewBoundFunctionObject(proto, rlm, fn, boundThis, boundArgs)
		return completion.Returned(bound)
	})

	defineMethod(rlm, proto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		fn, ok := this.(*object.Object)
		if !ok || !fn.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Function.prototype.toString called on non-function"))
		}
		return completion.Returned(values.NewString("function () { [native code] }"))
	})
}

// arrayLikeToList reads an array-like object's indices [0, length) the way
// spec's CreateListFromArrayLike does for Function.prototype.apply's second
// argument when it isn't iterable (e.g. a plain {0:.., 1:.., length:..}
// object).
func arrayLikeToList(o *object.Object) []values.Value {
	lenVal, c := completion.Q(ops.Get(o, values.StringKey("length")))
	if c.IsAbrupt() {
		return nil
	}
	n, c := completion.Q(ops.ToLength(lenVal.(values.Value)))
	if c.IsAbrupt() {
		return nil
	}
	length := int(n.(values.Number))
	out := make([]values.Value, length)
	for i := 0; i < length; i++ {
		v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
		if c.IsAbrupt() {
			out[i] = values.Undefined
			continue
		}
		out[i] = v.(values.Value)
	}
	return out
}
