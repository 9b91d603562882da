package esvm

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/evaluator"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// asValue narrows a completion's carried `any` (or any other Go value a
// host holds onto) down to values.Value. A Completion's Value field is
// `any` purely so internal/completion doesn't need to import internal/values
// (shorthand.go's Q/X already strip the envelope); every normal-path value
// that ever lands there is concretely a values.Value.
func asValue(v any) (values.Value, bool) {
	val, ok := v.(values.Value)
	return val, ok
}

// Type implements spec.md §6's `Type` helper: the ECMAScript Type(x)
// abstract operation, returning one of "undefined", "null", "boolean",
// "string", "number", "bigint", "symbol", "object".
func Type(v any) string {
	val, ok := asValue(v)
	if !ok {
		return "undefined"
	}
	return val.Kind().String()
}

// ToString implements spec.md §6's `ToString` helper.
func ToString(v any) (string, completion.Completion) {
	val, ok := asValue(v)
	if !ok {
		return "", completion.Empty
	}
	s, c := completion.Q(ops.ToStringValue(val))
	if c.IsAbrupt() {
		return "", c
	}
	return s.(values.String).Go(), completion.Empty
}

// Call implements spec.md §6's `Call` helper: invoke f with this and args,
// each already a values.Value (or a bare Go value convertible to one via
// asValue for the call target itself).
func Call(f any, this any, args []values.Value) completion.Completion {
	fn, ok := asValue(f)
	if !ok {
		return completion.Thrown(nil)
	}
	thisVal, ok := asValue(this)
	if !ok {
		thisVal = values.Undefined
	}
	return ops.Call(fn, thisVal, args)
}

// CreateDataProperty implements spec.md §6's `CreateDataProperty` helper.
func CreateDataProperty(o *object.Object, key string, v values.Value) completion.Completion {
	return ops.CreateDataProperty(o, values.StringKey(key), v)
}

// Throw implements spec.md §6's `Throw(realm, kind, message)` helper,
// building a realm-bound Error object of the named taxonomy kind (spec.md
// §7: TypeError, RangeError, ReferenceError, SyntaxError, URIError,
// EvalError) without needing a running execution context.
func Throw(r *Realm, kind, message string) completion.Completion {
	return completion.Thrown(evaluator.NewErrorValue(r.inner, kind, message))
}
