package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installError wires %Error% plus the five NativeError subtypes spec.md §7
// names (TypeError, RangeError, ReferenceError, SyntaxError, URIError, plus
// EvalError for the prototype spec.md §4.6 already reserves), each sharing
// the same constructor shape: an own "message" property when an argument is
// given, inheriting "name" and "toString" from its prototype.
func installError(rlm *realm.Realm) {
	in := rlm.Intrinsics

	makeErrorConstructor := func(name string, proto *object.Object) *object.Object {
		proto.DefineOwnProperty(values.StringKey("name"), property.DataDescriptor(values.NewString(name), true, false, true))
		proto.DefineOwnProperty(values.StringKey("message"), property.DataDescriptor(values.NewString(""), true, false, true))

		construct := func(args []values.Value, newTarget values.Value) completion.Completion {
			o := object.NewObject(proto, rlm)
			o.Class = "Error"
			if len(args) > 0 && args[0] != values.Undefined {
				s, c := completion.Q(ops.ToStringValue(args[0]))
				if c.IsAbrupt() {
					return c
				}
				o.DefineOwnProperty(values.StringKey("message"), property.DataDescriptor(s.(values.Value), true, false, true))
			}
			return completion.Returned(o)
		}
		ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
			return construct(args, nil)
		}, construct, "strict", "normal")
		realm.LinkConstructor(ctor, proto, name, rlm)
		return ctor
	}

	errProto := in.ErrorPrototype
	in.ErrorConstructor = makeErrorConstructor("Error", errProto)
	defineMethod(rlm, errProto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := this.(*object.Object)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("Error.prototype.toString called on non-object"))
		}
		name, c := completion.Q(ops.Get(o, values.StringKey("name")))
		if c.IsAbrupt() {
			return c
		}
		nameStr, c := completion.Q(ops.ToStringValue(name.(values.Value)))
		if c.IsAbrupt() {
			return c
		}
		msg, c := completion.Q(ops.Get(o, values.StringKey("message")))
		if c.IsAbrupt() {
			return c
		}
		msgStr, c := completion.Q(ops.ToStringValue(msg.(values.Value)))
		if c.IsAbrupt() {
			return c
		}
		n, m := nameStr.(values.String).Go(), msgStr.(values.String).Go()
		if m == "" {
			return completion.Returned(values.NewString(n))
		}
		if n == "" {
			return completion.Returned(values.NewString(m))
		}
		return completion.Returned(values.NewString(n + ": " + m))
	})

	for name, proto := range map[string]*object.Object{
		"TypeError":      in.TypeErrorPrototype,
		"RangeError":     in.RangeErrorPrototype,
		"ReferenceError": in.ReferenceErrorPrototype,
		"SyntaxError":    in.SyntaxErrorPrototype,
		"URIError":       in.URIErrorPrototype,
		"EvalError":      in.EvalErrorPrototype,
	} {
		makeErrorConstructor(name, proto)
	}
}
