package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// errorPrototypeForRealm maps an EngineError/Throw* kind name to the realm
// intrinsic prototype it's constructed from (spec.md §7's taxonomy table).
// Kept at realm granularity (rather than only as an EvalContext method) so
// NewErrorValue, which internal/module's Link calls before any execution
// context exists, builds the same shape of error object.
func errorPrototypeForRealm(rlm *realm.Realm, kind string) *object.Object {
	in := rlm.Intrinsics
	switch kind {
	case "TypeError":
		return in.TypeErrorPrototype
	case "RangeError":
		return in.RangeErrorPrototype
	case "ReferenceError":
		return in.ReferenceErrorPrototype
	case "SyntaxError":
		return in.SyntaxErrorPrototype
	case "URIError":
		return in.URIErrorPrototype
	case "EvalError":
		return in.EvalErrorPrototype
	default:
		return in.ErrorPrototype
	}
}

func (ec *EvalContext) errorPrototypeFor(kind string) *object.Object {
	return errorPrototypeForRealm(ec.Realm, kind)
}

// NewErrorValue builds a realm-bound Error-shaped object without a
// captured call-stack trace, for the error sites that run before any
// execution context exists (internal/module's Link, which detects an
// unresolvable or ambiguous import before evaluation ever starts).
func NewErrorValue(rlm *realm.Realm, kind, message string) *object.Object {
	proto := errorPrototypeForRealm(rlm, kind)
	o := object.NewObject(proto, rlm)
	o.Class = "Error"
	o.DefineOwnProperty(values.StringKey("message"), property.DataDescriptor(values.NewString(message), true, false, true))
	return o
}

// newError builds a realm-bound Error-shaped object the way
// Error.prototype.toString expects to find it: a "message" own data
// property plus a "name" inherited from the matching prototype, plus a
// captured call-stack trace. This is the single place an EngineError
// sentinel (internal/ops, internal/environment) gets upgraded into
// something script can `instanceof` test and catch (spec.md §7: "all are
// thrown completions whose value is an Object of the corresponding
// prototype").
func (ec *EvalContext) newError(kind, message string) *object.Object {
	o := NewErrorValue(ec.Realm, kind, message)
	o.DefineOwnProperty(values.StringKey("stack"), property.DataDescriptor(values.NewString(ec.captureStack(kind, message)), true, false, true))
	return o
}

// captureStack renders the running execution context stack as a
// newline-joined trace, the native call stack spec.md's AMBIENT STACK
// section attaches to every thrown error (grounded on the teacher's
// errors.StackTrace-carrying ExceptionValue).
func (ec *EvalContext) captureStack(kind, message string) string {
	trace := kind + ": " + message
	depth := ec.Agent.StackDepth()
	for i := 0; i < depth; i++ {
		trace += "\n    at <anonymous>"
	}
	return trace
}

// Throw* are the evaluator-originated counterparts of internal/ops'
// EngineError-based helpers, used wherever the evaluator itself (rather
// than an abstract operation) detects a spec violation — e.g. calling a
// non-function callee, a duplicate lexical declaration, or a malformed
// `for-in` target.
func (ec *EvalContext) ThrowTypeError(msg string) completion.Completion {
	return completion.Thrown(ec.newError("TypeError", msg))
}

func (ec *EvalContext) ThrowReferenceError(msg string) completion.Completion {
	return completion.Thrown(ec.newError("ReferenceError", msg))
}

func (ec *EvalContext) ThrowSyntaxError(msg string) completion.Completion {
	return completion.Thrown(ec.newError("SyntaxError", msg))
}

func (ec *EvalContext) ThrowRangeError(msg string) completion.Completion {
	return completion.Thrown(ec.newError("RangeError", msg))
}

// instanceOfErrorKind reports whether v's prototype chain includes kind's
// prototype, used by try/catch binding and by the engine's own "is this a
// TypeError" checks (e.g. deciding whether IteratorClose should swallow a
// secondary error).
func (ec *EvalContext) instanceOfErrorKind(v values.Value, kind string) bool {
	o, ok := v.(*object.Object)
	if !ok {
		return false
	}
	target := ec.errorPrototypeFor(kind)
	p := o.GetPrototypeOf()
	for {
		pObj, isObj := p.(*object.Object)
		if !isObj {
			return false
		}
		if pObj == target {
			return true
		}
		p = pObj.GetPrototypeOf()
	}
}
