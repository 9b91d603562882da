package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// NewProxyObject creates a proxy-like exotic object (spec.md §4.3). Traps
// are looked up on handler by name each call (matching the spec's "has
// trap" check); a missing trap forwards straight to target, the "no trap"
// fallback path. No invariant is checked on a trap's result, and the
// getOwnPropertyDescriptor and defineProperty traps are never consulted:
// those two methods always forward to target.
func NewProxyObject(realm RealmHandle, target, handler *Object) *Object {
	o := &Object{Realm: realm, Class: "Proxy", ProxyTarget: target, ProxyHandler: handler}
	o.Methods = &MethodTable{
		GetPrototypeOf:    proxyGetPrototypeOf,
		SetPrototypeOf:    proxySetPrototypeOf,
		IsExtensible:      proxyIsExtensible,
		PreventExtensions: proxyPreventExtensions,
		GetOwnProperty:    proxyGetOwnProperty,
		DefineOwnProperty: proxyDefineOwnProperty,
		HasProperty:       proxyHasProperty,
		Get:               proxyGet,
		Set:               proxySet,
		Delete:            proxyDelete,
		OwnPropertyKeys:   proxyOwnPropertyKeys,
	}
	if target.IsCallable() {
		o.Call = func(this values.Value, args []values.Value) completion.Completion {
			if trap, ok := trapOf(o, "apply"); ok {
				return trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, this, argsToArray(args)})
			}
			return o.ProxyTarget.Call(this, args)
		}
	}
	if target.IsConstructor() {
		o.Construct = func(args []values.Value, newTarget values.Value) completion.Completion {
			if trap, ok := trapOf(o, "construct"); ok {
				return trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, argsToArray(args), newTarget})
			}
			return o.ProxyTarget.Construct(args, newTarget)
		}
	}
	return o
}

// argsToArray builds the argument list handed to the apply and construct
// traps (object cannot construct a language Array itself without importing
// the realm/array-constructor machinery). Its hook defaults to a stub that
// returns undefined, and nothing in this repository calls
// SetArgsToArrayHook, so those traps receive undefined in place of the
// argument array.
var argsToArrayHook = func(args []values.Value) values.Value { return values.Undefined }

// SetArgsToArrayHook replaces the "wrap a []Value as a language Array"
// hook used by argsToArray; a hook set from a higher layer avoids what
// would otherwise be an object -> realm import cycle.
func SetArgsToArrayHook(f func([]values.Value) values.Value) { argsToArrayHook = f }

func argsToArray(args []values.Value) values.Value { return argsToArrayHook(args) }

func trapOf(o *Object, name string) (*Object, bool) {
	if o.IsRevoked {
		return nil, false
	}
	v := o.ProxyHandler.Get_(values.StringKey(name), o.ProxyHandler)
	if v.IsAbrupt() {
		return nil, false
	}
	fn, ok := v.Value.(*Object)
	if !ok || fn == nil || !fn.IsCallable() {
		return nil, false
	}
	return fn, true
}

func proxyGetPrototypeOf(o *Object) values.Value {
	if trap, ok := trapOf(o, "getPrototypeOf"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget})
		if !r.IsAbrupt() {
			return r.Value.(values.Value)
		}
	}
	return o.ProxyTarget.GetPrototypeOf()
}

func proxySetPrototypeOf(o *Object, proto values.Value) bool {
	if trap, ok := trapOf(o, "setPrototypeOf"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, proto})
		return !r.IsAbrupt() && r.Value == values.True
	}
	return o.ProxyTarget.SetPrototypeOf(proto)
}

func proxyIsExtensible(o *Object) bool {
	if trap, ok := trapOf(o, "isExtensible"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget})
		return !r.IsAbrupt() && r.Value == values.True
	}
	return o.ProxyTarget.IsExtensible()
}

func proxyPreventExtensions(o *Object) bool {
	if trap, ok := trapOf(o, "preventExtensions"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget})
		return !r.IsAbrupt() && r.Value == values.True
	}
	return o.ProxyTarget.PreventExtensions()
}

func proxyGetOwnProperty(o *Object, key values.PropertyKey) (property.Descriptor, bool) {
	// Simplified: the "getOwnPropertyDescriptor" trap is not consulted (its
	// result would need ToPropertyDescriptor, which lives in internal/ops);
	// this always forwards to target.
	return o.ProxyTarget.GetOwnProperty(key)
}

func proxyDefineOwnProperty(o *Object, key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion) {
	return o.ProxyTarget.DefineOwnProperty(key, desc)
}

func proxyHasProperty(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	if trap, ok := trapOf(o, "has"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, keyToValue(key)})
		if r.IsAbrupt() {
			return false, r
		}
		return toBool(r.Value), completion.Empty
	}
	return o.ProxyTarget.HasProperty(key)
}

func proxyGet(o *Object, key values.PropertyKey, receiver values.Value) completion.Completion {
	if trap, ok := trapOf(o, "get"); ok {
		return trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, keyToValue(key), receiver})
	}
	return o.ProxyTarget.Get_(key, receiver)
}

func proxySet(o *Object, key values.PropertyKey, v values.Value, receiver values.Value) (bool, completion.Completion) {
	if trap, ok := trapOf(o, "set"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, keyToValue(key), v, receiver})
		if r.IsAbrupt() {
			return false, r
		}
		return toBool(r.Value), completion.Empty
	}
	return o.ProxyTarget.Set_(key, v, receiver)
}

func proxyDelete(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	if trap, ok := trapOf(o, "deleteProperty"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget, keyToValue(key)})
		if r.IsAbrupt() {
			return false, r
		}
		return toBool(r.Value), completion.Empty
	}
	return o.ProxyTarget.Delete(key)
}

func proxyOwnPropertyKeys(o *Object) []values.PropertyKey {
	if trap, ok := trapOf(o, "ownKeys"); ok {
		r := trap.Call(o.ProxyHandler, []values.Value{o.ProxyTarget})
		if !r.IsAbrupt() {
			if keys, ok := r.Value.([]values.PropertyKey); ok {
				return keys
			}
		}
	}
	return o.ProxyTarget.OwnPropertyKeys()
}

func keyToValue(key values.PropertyKey) values.Value {
	if key.IsSym {
		return key.Sym
	}
	return values.NewString(key.Str)
}

func toBool(v values.Value) bool {
	b, ok := v.(values.Boolean)
	return ok && bool(b)
}
