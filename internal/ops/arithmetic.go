package ops

import (
	"math"
	"math/big"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Add implements spec's evaluation of the `+` operator: ToPrimitive both
// operands first; if either primitive is a String, concatenate; otherwise
// ToNumeric both sides and add, throwing TypeError on a Number/BigInt
// mismatch (spec's rule that `+` never implicitly crosses the
// Number/BigInt line).
func Add(a, b values.Value) completion.Completion {
	pa, c := Q(ToPrimitive(a, HintDefault))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	pb, c := Q(ToPrimitive(b, HintDefault))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	av, bv := pa.(values.Value), pb.(values.Value)
	if av.Kind() == values.StringKind || bv.Kind() == values.StringKind {
		as, c := Q(ToStringValue(av))
		if ac, bad := abrupt(c); bad {
			return ac
		}
		bs, c := Q(ToStringValue(bv))
		if ac, bad := abrupt(c); bad {
			return ac
		}
		return completion.Ok(as.(values.Value).(values.String).Concat(bs.(values.Value).(values.String)))
	}
	return numericBinOp(av, bv, func(x, y float64) float64 { return x + y }, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

func abrupt(c completion.Completion) (completion.Completion, bool) {
	if c.IsAbrupt() {
		return c, true
	}
	return completion.Completion{}, false
}

// numericBinOp implements the common "ToNumeric both operands, require the
// same numeric kind, apply the matching op" shape shared by every
// arithmetic operator except `+` (spec's ApplyStringOrNumericBinaryOperator
// minus its string branch).
func numericBinOp(a, b values.Value, numOp func(x, y float64) float64, bigOp func(x, y *big.Int) *big.Int) completion.Completion {
	an, c := Q(ToNumeric(a))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToNumeric(b))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	av, bv := an.(values.Value), bn.(values.Value)
	if av.Kind() != bv.Kind() {
		return completion.Thrown(TypeErrorValue("cannot mix BigInt and other types"))
	}
	if bi, ok := av.(values.BigInt); ok {
		return completion.Ok(values.NewBigInt(bigOp(bi.V, bv.(values.BigInt).V)))
	}
	return completion.Ok(values.Number(numOp(float64(av.(values.Number)), float64(bv.(values.Number)))))
}

// ToNumeric implements spec's ToNumeric: ToPrimitive with hint number,
// then pass BigInt through and ToNumber everything else.
func ToNumeric(v values.Value) completion.Completion {
	prim, c := Q(ToPrimitive(v, HintNumber))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	pv := prim.(values.Value)
	if _, ok := pv.(values.BigInt); ok {
		return completion.Ok(pv)
	}
	return ToNumber(pv)
}

func Subtract(a, b values.Value) completion.Completion {
	return numericBinOp(a, b, func(x, y float64) float64 { return x - y }, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

func Multiply(a, b values.Value) completion.Completion {
	return numericBinOp(a, b, func(x, y float64) float64 { return x * y }, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

func Divide(a, b values.Value) completion.Completion {
	return numericBinOp(a, b, func(x, y float64) float64 { return x / y }, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			return big.NewInt(0)
		}
		return new(big.Int).Quo(x, y)
	})
}

func Modulo(a, b values.Value) completion.Completion {
	return numericBinOp(a, b, math.Mod, func(x, y *big.Int) *big.Int {
		if y.Sign() == 0 {
			return big.NewInt(0)
		}
		return new(big.Int).Rem(x, y)
	})
}

func Exponentiate(a, b values.Value) completion.Completion {
	return numericBinOp(a, b, math.Pow, func(x, y *big.Int) *big.Int {
		if y.Sign() < 0 {
			return big.NewInt(0)
		}
		return new(big.Int).Exp(x, y, nil)
	})
}

func int32BinOp(a, b values.Value, op func(x, y int32) int32) completion.Completion {
	an, c := Q(ToInt32(a))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToInt32(b))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	return completion.Ok(values.Number(op(int32(an.(values.Number)), int32(bn.(values.Number)))))
}

func BitwiseAnd(a, b values.Value) completion.Completion {
	return int32BinOp(a, b, func(x, y int32) int32 { return x & y })
}
func BitwiseOr(a, b values.Value) completion.Completion {
	return int32BinOp(a, b, func(x, y int32) int32 { return x | y })
}
func BitwiseXor(a, b values.Value) completion.Completion {
	return int32BinOp(a, b, func(x, y int32) int32 { return x ^ y })
}

func ShiftLeft(a, b values.Value) completion.Completion {
	an, c := Q(ToInt32(a))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToUint32(b))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	shift := uint32(bn.(values.Number)) & 31
	return completion.Ok(values.Number(int32(an.(values.Number)) << shift))
}

func ShiftRight(a, b values.Value) completion.Completion {
	an, c := Q(ToInt32(a))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToUint32(b))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	shift := uint32(bn.(values.Number)) & 31
	return completion.Ok(values.Number(int32(an.(values.Number)) >> shift))
}

func UnsignedShiftRight(a, b values.Value) completion.Completion {
	an, c := Q(ToUint32(a))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToUint32(b))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	shift := uint32(bn.(values.Number)) & 31
	return completion.Ok(values.Number(uint32(an.(values.Number)) >> shift))
}

// LessThan implements spec's AbstractRelationalComparison for a < b. It has
// no LeftFirst flag: it always runs ToPrimitive on a before b, and the call
// sites pass the operands swapped for `>` and `<=`, so those two convert
// their right operand first. The result is Undefined (not a
// Boolean) when either side produces NaN, matching the spec exactly so
// callers can distinguish "false" from "NaN-tainted" for >= chains.
func LessThan(a, b values.Value) completion.Completion {
	pa, c := Q(ToPrimitive(a, HintNumber))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	pb, c := Q(ToPrimitive(b, HintNumber))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	av, bv := pa.(values.Value), pb.(values.Value)
	if av.Kind() == values.StringKind && bv.Kind() == values.StringKind {
		return completion.Ok(values.BoolValue(av.(values.String).Less(bv.(values.String))))
	}
	if _, aBig := av.(values.BigInt); aBig {
		if _, bBig := bv.(values.BigInt); !bBig {
			return bigIntNumberLess(av, bv, true)
		}
	}
	if _, bBig := bv.(values.BigInt); bBig {
		if _, aBig := av.(values.BigInt); !aBig {
			return bigIntNumberLess(av, bv, false)
		}
	}
	an, c := Q(ToNumeric(av))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	bn, c := Q(ToNumeric(bv))
	if ac, bad := abrupt(c); bad {
		return ac
	}
	if bi, ok := an.(values.Value).(values.BigInt); ok {
		return completion.Ok(values.BoolValue(bi.V.Cmp(bn.(values.Value).(values.BigInt).V) < 0))
	}
	x, y := float64(an.(values.Value).(values.Number)), float64(bn.(values.Value).(values.Number))
	if math.IsNaN(x) || math.IsNaN(y) {
		return completion.Ok(values.Undefined)
	}
	return completion.Ok(values.BoolValue(x < y))
}

func bigIntNumberLess(a, b values.Value, aIsBig bool) completion.Completion {
	var bi values.BigInt
	var n float64
	if aIsBig {
		bi, n = a.(values.BigInt), float64(b.(values.Number))
	} else {
		bi, n = b.(values.BigInt), float64(a.(values.Number))
	}
	if math.IsNaN(n) {
		return completion.Ok(values.Undefined)
	}
	bf := new(big.Float).SetInt(bi.V)
	nf := big.NewFloat(n)
	cmp := bf.Cmp(nf)
	if aIsBig {
		return completion.Ok(values.BoolValue(cmp < 0))
	}
	return completion.Ok(values.BoolValue(cmp > 0))
}
