package values

import "math/big"

// undefinedValue and nullValue are unexported so Undefined and Null (below)
// remain the only instances in existence, matching spec.md §3's "the
// singletons undefined, null, true, false are canonical".
type undefinedValue struct{}
type nullValue struct{}

func (undefinedValue) Kind() Kind { return UndefinedKind }
func (nullValue) Kind() Kind      { return NullKind }

// Undefined and Null are the two canonical empty values.
var (
	Undefined Value = undefinedValue{}
	Null      Value = nullValue{}
)

// Boolean is a language boolean. True and False below are its canonical
// instances; nothing stops a caller from writing Boolean(true) directly, but
// the canonical singletons let ==-comparisons on Value (an interface) work
// for booleans without a type switch, the same way Undefined/Null do.
type Boolean bool

func (Boolean) Kind() Kind { return BooleanKind }

var (
	True  Value = Boolean(true)
	False Value = Boolean(false)
)

// BoolValue returns the canonical True or False for a Go bool.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number is an IEEE-754 double. Go's native float64 equality already
// matches the language's Number equality (NaN != NaN, -0 == 0), so
// Number(==) comparisons need no helper; SameValue and SameValueZero (which
// disagree with Go equality only on the sign of zero and on NaN) are
// provided in equality.go.
type Number float64

func (Number) Kind() Kind { return NumberKind }

// BigInt is an arbitrary-precision integer. The zero value is not a valid
// BigInt (it has a nil *big.Int); always construct through NewBigInt.
type BigInt struct {
	V *big.Int
}

func (BigInt) Kind() Kind { return BigIntKind }

// NewBigInt wraps i. The caller retains no aliasing obligations: BigInt
// values are treated as immutable by every operation in this engine even
// though *big.Int itself is mutable, matching spec.md §3 ("Values other
// than Objects are immutable").
func NewBigInt(i *big.Int) BigInt { return BigInt{V: new(big.Int).Set(i)} }

// BigIntFromInt64 is a convenience constructor for small literal BigInts.
func BigIntFromInt64(n int64) BigInt { return BigInt{V: big.NewInt(n)} }
