// Package ops implements spec.md §4.6's abstract operations: type
// conversions, comparisons, the iteration protocol, and the
// property-traversal primitives (Get/Set/Call/Construct) that bridge
// internal/values and internal/object into the evaluator's actual
// behaviour. Grounded on the teacher's conversion ladder
// (internal/interp/conversion.go and conversion_test.go), generalised from
// DWScript's static-typed coercions to the language's dynamic ToNumber/
// ToString/ToPrimitive ladder.
package ops

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Hint selects the method order OrdinaryToPrimitive tries.
type Hint int

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToPrimitive implements spec.md §4.6: call @@toPrimitive if present, else
// run OrdinaryToPrimitive with method order [valueOf, toString] for
// "number"/"default", [toString, valueOf] for "string".
func ToPrimitive(v values.Value, hint Hint) completion.Completion {
	obj, isObj := v.(*object.Object)
	if !isObj {
		return completion.Ok(v)
	}
	exoticVal := obj.Get_(values.SymbolKey(values.SymToPrimitive), obj)
	if exoticVal.IsAbrupt() {
		return exoticVal
	}
	exotic, _ := exoticVal.Value.(values.Value)
	if fn, ok := exotic.(*object.Object); ok && fn.IsCallable() {
		hintStr := "default"
		switch hint {
		case HintNumber:
			hintStr = "number"
		case HintString:
			hintStr = "string"
		}
		res := fn.Call(obj, []values.Value{values.NewString(hintStr)})
		if res.IsAbrupt() {
			return res
		}
		if result, ok := res.Value.(values.Value); ok {
			if values.IsPrimitive(result) {
				return completion.Ok(result)
			}
		}
		return completion.Thrown(TypeErrorValue("Symbol.toPrimitive must return a primitive value"))
	}
	return OrdinaryToPrimitive(obj, hint)
}

// OrdinaryToPrimitive tries valueOf/toString (or the reverse for
// HintString) in order, returning the first primitive result.
func OrdinaryToPrimitive(obj *object.Object, hint Hint) completion.Completion {
	methods := []string{"valueOf", "toString"}
	if hint == HintString {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		mv := obj.Get_(values.StringKey(name), obj)
		if mv.IsAbrupt() {
			return mv
		}
		method, _ := mv.Value.(values.Value)
		fn, ok := method.(*object.Object)
		if !ok || !fn.IsCallable() {
			continue
		}
		res := fn.Call(obj, nil)
		if res.IsAbrupt() {
			return res
		}
		if result, ok := res.Value.(values.Value); ok && values.IsPrimitive(result) {
			return completion.Ok(result)
		}
	}
	return completion.Thrown(TypeErrorValue("cannot convert object to primitive value"))
}

// ToBoolean never throws (spec.md §4.6 table).
func ToBoolean(v values.Value) bool {
	switch x := v.(type) {
	case *object.Object:
		return true
	case values.Boolean:
		return bool(x)
	case values.Number:
		return !(x == 0 || math.IsNaN(float64(x)))
	case values.String:
		return x.Length() != 0
	case values.BigInt:
		return x.V.Sign() != 0
	case *values.Symbol:
		return true
	}
	return false
}

// ToNumber implements the coercion ladder of spec.md §4.6.
func ToNumber(v values.Value) completion.Completion {
	switch x := v.(type) {
	case values.Boolean:
		if x {
			return completion.Ok(values.Number(1))
		}
		return completion.Ok(values.Number(0))
	case values.Number:
		return completion.Ok(x)
	case values.String:
		return completion.Ok(stringToNumber(x))
	case values.BigInt:
		return completion.Thrown(TypeErrorValue("cannot convert a BigInt to a number"))
	case *values.Symbol:
		return completion.Thrown(TypeErrorValue("cannot convert a Symbol to a number"))
	case *object.Object:
		prim, c := Q(ToPrimitive(x, HintNumber))
		if c.IsAbrupt() {
			return c
		}
		return ToNumber(prim.(values.Value))
	}
	switch v.Kind() {
	case values.UndefinedKind:
		return completion.Ok(values.Number(math.NaN()))
	case values.NullKind:
		return completion.Ok(values.Number(0))
	}
	return completion.Ok(values.Number(math.NaN()))
}

func stringToNumber(s values.String) values.Number {
	str := strings.TrimSpace(s.Go())
	if str == "" {
		return 0
	}
	if str == "Infinity" || str == "+Infinity" {
		return values.Number(math.Inf(1))
	}
	if str == "-Infinity" {
		return values.Number(math.Inf(-1))
	}
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		n, err := strconv.ParseUint(str[2:], 16, 64)
		if err != nil {
			return values.Number(math.NaN())
		}
		return values.Number(n)
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return values.Number(math.NaN())
	}
	return values.Number(f)
}

// ToStringValue implements spec's ToString abstract operation, returning a
// language String (never a Go string) via a Completion since ToObject-free
// Object stringification can throw (Symbol always throws; Object may throw
// through ToPrimitive).
func ToStringValue(v values.Value) completion.Completion {
	switch x := v.(type) {
	case values.Boolean:
		if x {
			return completion.Ok(values.NewString("true"))
		}
		return completion.Ok(values.NewString("false"))
	case values.Number:
		return completion.Ok(values.NewString(NumberToString(float64(x))))
	case values.String:
		return completion.Ok(x)
	case values.BigInt:
		return completion.Ok(values.NewString(x.V.String()))
	case *values.Symbol:
		return completion.Thrown(TypeErrorValue("cannot convert a Symbol to a string"))
	case *object.Object:
		prim, c := Q(ToPrimitive(x, HintString))
		if c.IsAbrupt() {
			return c
		}
		return ToStringValue(prim.(values.Value))
	}
	switch v.Kind() {
	case values.UndefinedKind:
		return completion.Ok(values.NewString("undefined"))
	case values.NullKind:
		return completion.Ok(values.NewString("null"))
	}
	return completion.Ok(values.NewString(""))
}

// NumberToString formats f per the language's Number::toString radix-10
// algorithm, close enough for conformance testing (exponential notation
// thresholds match the spec's informal boundaries).
func NumberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "0"
		}
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs < 1e-6 && abs > 0) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToObject implements spec's ToObject: wraps primitives, throws TypeError
// for undefined/null (spec.md §7: "coercion target rejects (e.g., ToObject
// on null)").
func ToObject(r *realm.Realm, v values.Value) completion.Completion {
	switch v.Kind() {
	case values.UndefinedKind, values.NullKind:
		return completion.Thrown(TypeErrorValue("cannot convert undefined or null to object"))
	case values.ObjectKind:
		return completion.Ok(v)
	}
	// Primitive wrapper objects: a minimal wrapper carrying the primitive
	// via StringData for String (so the string-exotic index/length
	// machinery in internal/object keeps working on a boxed string) or
	// Internal for Number/Boolean/Symbol/BigInt, with the realm's matching
	// prototype wired per spec's ToObject table.
	var proto values.Value
	switch v.Kind() {
	case values.StringKind:
		proto = r.Intrinsics.StringPrototype
	case values.NumberKind:
		proto = r.Intrinsics.NumberPrototype
	case values.BooleanKind:
		proto = r.Intrinsics.BooleanPrototype
	case values.SymbolKind:
		proto = r.Intrinsics.SymbolPrototype
	case values.BigIntKind:
		proto = r.Intrinsics.BigIntPrototype
	}
	if s, ok := v.(values.String); ok {
		wrapper := object.NewStringObject(proto, r, s)
		wrapper.Internal = v
		return completion.Ok(wrapper)
	}
	wrapper := object.NewObject(proto, r)
	wrapper.Internal = v
	return completion.Ok(wrapper)
}

// ToPropertyKey implements spec's ToPropertyKey: Symbols pass through,
// everything else goes through ToStringValue.
func ToPropertyKey(v values.Value) (values.PropertyKey, completion.Completion) {
	if sym, ok := v.(*values.Symbol); ok {
		return values.SymbolKey(sym), completion.Empty
	}
	s, c := Q(ToStringValue(v))
	if c.IsAbrupt() {
		return values.PropertyKey{}, c
	}
	return values.StringKey(s.(values.String).Go()), completion.Empty
}

// ToInteger truncates toward zero after ToNumber, per spec's ToIntegerOrInfinity.
func ToInteger(v values.Value) completion.Completion {
	n, c := Q(ToNumber(v))
	if c.IsAbrupt() {
		return c
	}
	f := float64(n.(values.Number))
	if math.IsNaN(f) {
		return completion.Ok(values.Number(0))
	}
	if math.IsInf(f, 0) {
		return completion.Ok(values.Number(f))
	}
	return completion.Ok(values.Number(math.Trunc(f)))
}

// ToLength clamps ToInteger's result to [0, 2^53-1] (spec.md §4.6).
func ToLength(v values.Value) completion.Completion {
	n, c := Q(ToInteger(v))
	if c.IsAbrupt() {
		return c
	}
	f := float64(n.(values.Number))
	if f <= 0 {
		return completion.Ok(values.Number(0))
	}
	const maxLength = 1<<53 - 1
	if f > maxLength {
		return completion.Ok(values.Number(maxLength))
	}
	return completion.Ok(values.Number(f))
}

// ToUint32 implements the modular-reduction coercion used by bitwise
// operators and TypedArray-adjacent code.
func ToUint32(v values.Value) completion.Completion {
	n, c := Q(ToNumber(v))
	if c.IsAbrupt() {
		return c
	}
	f := float64(n.(values.Number))
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return completion.Ok(values.Number(0))
	}
	i := math.Trunc(f)
	mod := math.Mod(i, 4294967296)
	if mod < 0 {
		mod += 4294967296
	}
	return completion.Ok(values.Number(mod))
}

func ToInt32(v values.Value) completion.Completion {
	u, c := Q(ToUint32(v))
	if c.IsAbrupt() {
		return c
	}
	n := uint32(u.(values.Number))
	if n >= 1<<31 {
		return completion.Ok(values.Number(int64(n) - 1<<32))
	}
	return completion.Ok(values.Number(n))
}

// ToIndex implements spec's ToIndex: a non-negative integer in
// [0, 2^53-1], throwing RangeError otherwise (spec.md §7: "array past
// 2^53-1" is a TypeError for length but ToIndex itself raises RangeError,
// matching the spec's IntegerIndexedElementSet / ArrayCreate split).
func ToIndex(v values.Value) completion.Completion {
	i, c := Q(ToInteger(v))
	if c.IsAbrupt() {
		return c
	}
	f := float64(i.(values.Number))
	const maxIndex = 1<<53 - 1
	if f < 0 || f > maxIndex {
		return completion.Thrown(RangeErrorValue("index out of range"))
	}
	return completion.Ok(values.Number(f))
}

// RequireObjectCoercible throws TypeError for undefined/null, otherwise
// passes v through — the guard at the top of every String.prototype
// method and similar "this must be coercible to an object" algorithm steps.
func RequireObjectCoercible(v values.Value) completion.Completion {
	switch v.Kind() {
	case values.UndefinedKind, values.NullKind:
		return completion.Thrown(TypeErrorValue("value is undefined or null"))
	}
	return completion.Ok(v)
}

// ToBigInt converts a primitive to a BigInt (spec's ToBigInt): Booleans
// and decimal integer strings convert, an unparsable string throws a
// SyntaxError, and every Number, Symbol, undefined and null throws a
// TypeError.
func ToBigInt(v values.Value) completion.Completion {
	switch x := v.(type) {
	case values.BigInt:
		return completion.Ok(x)
	case values.Boolean:
		if x {
			return completion.Ok(values.BigIntFromInt64(1))
		}
		return completion.Ok(values.BigIntFromInt64(0))
	case values.String:
		i := new(big.Int)
		if _, ok := i.SetString(strings.TrimSpace(x.Go()), 10); !ok {
			return completion.Thrown(SyntaxErrorValue("cannot convert string to a BigInt"))
		}
		return completion.Ok(values.NewBigInt(i))
	default:
		return completion.Thrown(TypeErrorValue("cannot convert to a BigInt"))
	}
}

// Q mirrors completion.Q but lives here too so ops.go callers can write the
// same `v, c := Q(op())` idiom without importing two packages under
// different names at every call site.
func Q(c completion.Completion) (any, completion.Completion) { return completion.Q(c) }

// Q2 is Q specialised for operations that return a (values.PropertyKey,
// completion.Completion) pair instead of (any, completion.Completion) —
// ToPropertyKey's shape — so call sites can write
// `ops.Q2(ops.ToPropertyKey(v))` the same way they write `ops.Q(op())`
// elsewhere, without a throwaway type assertion back to PropertyKey.
func Q2(key values.PropertyKey, c completion.Completion) (values.PropertyKey, completion.Completion) {
	if c.IsAbrupt() {
		return values.PropertyKey{}, c
	}
	return key, completion.Empty
}
