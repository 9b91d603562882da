package ops

import (
	"math/big"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// StrictEquals implements the language's === (spec's IsStrictlyEqual):
// same Kind, then Number compares by IEEE-754 equality (NaN != NaN, this
// is the one operation that does NOT use values.SameValue — === and
// Object.is deliberately disagree on NaN and signed zero).
func StrictEquals(a, b values.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case values.Number:
		return float64(av) == float64(b.(values.Number))
	case values.String:
		return av.Equal(b.(values.String))
	case values.Boolean:
		return av == b.(values.Boolean)
	case values.BigInt:
		return av.V.Cmp(b.(values.BigInt).V) == 0
	case *values.Symbol:
		return av == b.(*values.Symbol)
	case *object.Object:
		return av == b.(*object.Object)
	default:
		return true // Undefined/Null: Kind equality is sufficient
	}
}

// LooseEquals implements == (spec's IsLooselyEqual), including the
// cross-kind coercion table: Null/Undefined are mutually loosely equal and
// equal to nothing else; Number/String/BigInt compare after numeric
// coercion; Object compares after ToPrimitive.
func LooseEquals(a, b values.Value) completion.Completion {
	if a.Kind() == b.Kind() {
		return completion.Ok(values.BoolValue(StrictEquals(a, b)))
	}
	aIsNullish := a.Kind() == values.UndefinedKind || a.Kind() == values.NullKind
	bIsNullish := b.Kind() == values.UndefinedKind || b.Kind() == values.NullKind
	if aIsNullish || bIsNullish {
		return completion.Ok(values.BoolValue(aIsNullish && bIsNullish))
	}
	if a.Kind() == values.NumberKind && b.Kind() == values.StringKind {
		bn := stringToNumber(b.(values.String))
		return LooseEquals(a, bn)
	}
	if a.Kind() == values.StringKind && b.Kind() == values.NumberKind {
		an := stringToNumber(a.(values.String))
		return LooseEquals(an, b)
	}
	if a.Kind() == values.BigIntKind && b.Kind() == values.StringKind {
		bi, c := Q(ToBigInt(b))
		if c.IsAbrupt() {
			return completion.Ok(values.False)
		}
		return completion.Ok(values.BoolValue(a.(values.BigInt).V.Cmp(bi.(values.BigInt).V) == 0))
	}
	if a.Kind() == values.StringKind && b.Kind() == values.BigIntKind {
		return LooseEquals(b, a)
	}
	if a.Kind() == values.BooleanKind {
		an, c := Q(ToNumber(a))
		if c.IsAbrupt() {
			return c
		}
		return LooseEquals(an.(values.Value), b)
	}
	if b.Kind() == values.BooleanKind {
		bn, c := Q(ToNumber(b))
		if c.IsAbrupt() {
			return c
		}
		return LooseEquals(a, bn.(values.Value))
	}
	if (a.Kind() == values.NumberKind || a.Kind() == values.StringKind || a.Kind() == values.BigIntKind || a.Kind() == values.SymbolKind) && b.Kind() == values.ObjectKind {
		bp, c := Q(ToPrimitive(b, HintDefault))
		if c.IsAbrupt() {
			return c
		}
		return LooseEquals(a, bp.(values.Value))
	}
	if a.Kind() == values.ObjectKind && (b.Kind() == values.NumberKind || b.Kind() == values.StringKind || b.Kind() == values.BigIntKind || b.Kind() == values.SymbolKind) {
		ap, c := Q(ToPrimitive(a, HintDefault))
		if c.IsAbrupt() {
			return c
		}
		return LooseEquals(ap.(values.Value), b)
	}
	if (a.Kind() == values.BigIntKind && b.Kind() == values.NumberKind) || (a.Kind() == values.NumberKind && b.Kind() == values.BigIntKind) {
		return completion.Ok(values.BoolValue(bigIntNumberEqual(a, b)))
	}
	return completion.Ok(values.False)
}

func bigIntNumberEqual(a, b values.Value) bool {
	var bi values.BigInt
	var n values.Number
	if x, ok := a.(values.BigInt); ok {
		bi, n = x, b.(values.Number)
	} else {
		bi, n = b.(values.BigInt), a.(values.Number)
	}
	f := float64(n)
	if f != float64(int64(f)) {
		return false
	}
	return bi.V.Cmp(big.NewInt(int64(f))) == 0
}
