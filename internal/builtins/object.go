package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installObject wires up %Object% and %Object.prototype% per spec.md §4.6,
// grounded on the shape of the teacher's builtins.Context-style dispatch
// (one Go function per built-in, registered into a table) adapted from a
// flat global namespace to prototype methods.
func installObject(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.ObjectPrototype

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		if len(args) == 0 || args[0] == values.Undefined || args[0] == values.Null {
			return completion.Returned(object.NewObject(proto, rlm))
		}
		return ops.ToObject(rlm, args[0])
	}, func(args []values.Value, newTarget values.Value) completion.Completion {
		if len(args) == 0 || args[0] == values.Undefined || args[0] == values.Null {
			return completion.Returned(object.NewObject(proto, rlm))
		}
		return ops.ToObject(rlm, args[0])
	}, "strict", "normal")
	in.ObjectConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Object", rlm)

	defineMethod(rlm, proto, "hasOwnProperty", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		key, c := completion.Q(ops.ToPropertyKey(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		_, ok := o.GetOwnProperty(key.(values.PropertyKey))
		return completion.Returned(values.BoolValue(ok))
	})

	defineMethod(rlm, proto, "isPrototypeOf", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		v, ok := arg(args, 0).(*object.Object)
		if !ok {
			return completion.Returned(values.False)
		}
		p := v.GetPrototypeOf()
		for {
			pObj, isObj := p.(*object.Object)
			if !isObj {
				return completion.Returned(values.False)
			}
			if pObj == o {
				return completion.Returned(values.True)
			}
			p = pObj.GetPrototypeOf()
		}
	})

	defineMethod(rlm, proto, "propertyIsEnumerable", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		key, c := completion.Q(ops.ToPropertyKey(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		desc, ok := o.GetOwnProperty(key.(values.PropertyKey))
		return completion.Returned(values.BoolValue(ok && desc.Enumerable))
	})

	defineMethod(rlm, proto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		if this == values.Undefined {
			return completion.Returned(values.NewString("[object Undefined]"))
		}
		if this == values.Null {
			return completion.Returned(values.NewString("[object Null]"))
		}
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.NewString("[object " + o.Class + "]"))
	})

	defineMethod(rlm, proto, "valueOf", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return ops.ToObject(rlm, this)
	})

	// Object statics.
	defineMethod(rlm, ctor, "keys", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return objectKeysLike(rlm, args, func(o *object.Object, k string) values.Value { return values.NewString(k) })
	})
	defineMethod(rlm, ctor, "values", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return objectKeysLike(rlm, args, func(o *object.Object, k string) values.Value {
			v, c := completion.Q(ops.Get(o, values.StringKey(k)))
			if c.IsAbrupt() {
				return values.Undefined
			}
			return v.(values.Value)
		})
	})
	defineMethod(rlm, ctor, "entries", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := completion.Q(ops.ToObject(rlm, arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		obj := o.(*object.Object)
		names, c := ops.EnumerableOwnPropertyKeys(obj)
		if c.IsAbrupt() {
			return c
		}
		out := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, 0)
		for i, k := range names {
			v, c := completion.Q(ops.Get(obj, values.StringKey(k)))
			if c.IsAbrupt() {
				return c
			}
			pair := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, 2)
			ops.CreateDataProperty(pair, values.StringKey("0"), values.NewString(k))
			ops.CreateDataProperty(pair, values.StringKey("1"), v.(values.Value))
			ops.CreateDataProperty(out, values.StringKey(itoa(i)), pair)
		}
		return completion.Returned(out)
	})
	defineMethod(rlm, ctor, "assign", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		target, c := completion.Q(ops.ToObject(rlm, arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		to := target.(*object.Object)
		for _, src := range args[1:] {
			if src == values.Undefined || src == values.Null {
				continue
			}
			from, c := completion.Q(ops.ToObject(rlm, src))
			if c.IsAbrupt() {
				return c
			}
			fromObj := from.(*object.Object)
			names, c := ops.EnumerableOwnPropertyKeys(fromObj)
			if c.IsAbrupt() {
				return c
			}
			for _, k := range names {
				v, c := completion.Q(ops.Get(fromObj, values.StringKey(k)))
				if c.IsAbrupt() {
					return c
				}
				if c := ops.Set(to, values.StringKey(k), v.(values.Value), true); c.IsAbrupt() {
					return c
				}
			}
		}
		return completion.Returned(to)
	})
	defineMethod(rlm, ctor, "freeze", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return completion.Returned(arg(args, 0))
		}
		o.PreventExtensions()
		for _, k := range o.OwnPropertyKeys() {
			desc, _ := o.GetOwnProperty(k)
			desc.Configurable, desc.HasConfigurable = false, true
			if desc.IsDataDescriptor() {
				desc.Writable, desc.HasWritable = false, true
			}
			o.DefineOwnProperty(k, desc)
		}
		return completion.Returned(o)
	})
	defineMethod(rlm, ctor, "isFrozen", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return completion.Returned(values.True)
		}
		if o.IsExtensible() {
			return completion.Returned(values.False)
		}
		for _, k := range o.OwnPropertyKeys() {
			desc, _ := o.GetOwnProperty(k)
			if desc.Configurable || (desc.IsDataDescriptor() && desc.Writable) {
				return completion.Returned(values.False)
			}
		}
		return completion.Returned(values.True)
	})
	defineMethod(rlm, ctor, "getPrototypeOf", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := completion.Q(ops.ToObject(rlm, arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(o.(*object.Object).GetPrototypeOf())
	})
	defineMethod(rlm, ctor, "setPrototypeOf", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return completion.Returned(arg(args, 0))
		}
		if !o.SetPrototypeOf(arg(args, 1)) {
			return completion.Thrown(ops.TypeErrorValue("cannot set prototype"))
		}
		return completion.Returned(o)
	})
	defineMethod(rlm, ctor, "defineProperty", 3, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("Object.defineProperty called on non-object"))
		}
		key, c := completion.Q(ops.ToPropertyKey(arg(args, 1)))
		if c.IsAbrupt() {
			return c
		}
		descObj, ok := arg(args, 2).(*object.Object)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("property description must be an object"))
		}
		desc, c := toPropertyDescriptor(descObj)
		if c.IsAbrupt() {
			return c
		}
		ok2, c := o.DefineOwnProperty(key.(values.PropertyKey), desc)
		if c.IsAbrupt() {
			return c
		}
		if !ok2 {
			return completion.Thrown(ops.TypeErrorValue("cannot define property " + key.(values.PropertyKey).String()))
		}
		return completion.Returned(o)
	})
}

func objectKeysLike(rlm *realm.Realm, args []values.Value, project func(o *object.Object, k string) values.Value) completion.Completion {
	o, c := completion.Q(ops.ToObject(rlm, arg(args, 0)))
	if c.IsAbrupt() {
		return c
	}
	obj := o.(*object.Object)
	names, c := ops.EnumerableOwnPropertyKeys(obj)
	if c.IsAbrupt() {
		return c
	}
	out := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, 0)
	for i, k := range names {
		ops.CreateDataProperty(out, values.StringKey(itoa(i)), project(obj, k))
	}
	return completion.Returned(out)
}

// toPropertyDescriptor implements spec's ToPropertyDescriptor, reading the
// well-known fields off a plain descriptor-literal object.
func toPropertyDescriptor(o *object.Object) (property.Descriptor, completion.Completion) {
	var d property.Descriptor
	if has, c := o.HasProperty(values.StringKey("value")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("value")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Value, d.HasValue = v.(values.Value), true
	}
	if has, c := o.HasProperty(values.StringKey("writable")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("writable")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Writable, d.HasWritable = ops.ToBoolean(v.(values.Value)), true
	}
	if has, c := o.HasProperty(values.StringKey("enumerable")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("enumerable")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Enumerable, d.HasEnumerable = ops.ToBoolean(v.(values.Value)), true
	}
	if has, c := o.HasProperty(values.StringKey("configurable")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("configurable")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Configurable, d.HasConfigurable = ops.ToBoolean(v.(values.Value)), true
	}
	if has, c := o.HasProperty(values.StringKey("get")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("get")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Get, d.HasGet = v.(values.Value), true
	}
	if has, c := o.HasProperty(values.StringKey("set")); c.IsAbrupt() {
		return d, c
	} else if has {
		v, c := completion.Q(ops.Get(o, values.StringKey("set")))
		if c.IsAbrupt() {
			return d, c
		}
		d.Set, d.HasSet = v.(values.Value), true
	}
	return d, completion.Empty
}
