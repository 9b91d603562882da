package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func installBoolean(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.BooleanPrototype
	proto.Class = "Boolean"

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		return completion.Returned(values.BoolValue(ops.ToBoolean(arg(args, 0))))
	}, func(args []values.Value, newTarget values.Value) completion.Completion {
		o := object.NewObject(proto, rlm)
		o.Class = "Boolean"
		o.Internal = values.BoolValue(ops.ToBoolean(arg(args, 0)))
		return completion.Returned(o)
	}, "strict", "normal")
	in.BooleanConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Boolean", rlm)

	thisBoolean := func(this values.Value) (bool, completion.Completion) {
		if b, ok := this.(values.Boolean); ok {
			return bool(b), completion.Empty
		}
		if o, ok := this.(*object.Object); ok && o.Class == "Boolean" {
			if b, ok := o.Internal.(values.Boolean); ok {
				return bool(b), completion.Empty
			}
		}
		return false, completion.Thrown(ops.TypeErrorValue("Boolean.prototype method called on incompatible receiver"))
	}

	defineMethod(rlm, proto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		b, c := thisBoolean(this)
		if c.IsAbrupt() {
			return c
		}
		if b {
			return completion.Returned(values.NewString("true"))
		}
		return completion.Returned(values.NewString("false"))
	})
	defineMethod(rlm, proto, "valueOf", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		b, c := thisBoolean(this)
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.BoolValue(b))
	})
}
