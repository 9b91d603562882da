package values

import "math"

// SameValue implements the spec's SameValue algorithm (used by Object.is and
// by property-descriptor comparison in ValidateAndApplyPropertyDescriptor).
// It differs from Go's == on two points for Number: +0 and -0 are distinct,
// and NaN is equal to itself.
func SameValue(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Number:
		bv := b.(Number)
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		if av == 0 && bv == 0 {
			return math.Signbit(float64(av)) == math.Signbit(float64(bv))
		}
		return av == bv
	default:
		return sameValueZeroRest(a, b)
	}
}

// SameValueZero is SameValue except +0 and -0 are considered equal (used by
// Array.prototype.includes, Set/Map key equality, and ToIndex-adjacent
// checks).
func SameValueZero(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if av, ok := a.(Number); ok {
		bv := b.(Number)
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	}
	return sameValueZeroRest(a, b)
}

// sameValueZeroRest handles every kind where SameValue and SameValueZero
// agree (everything but Number).
func sameValueZeroRest(a, b Value) bool {
	switch av := a.(type) {
	case undefinedValue, nullValue:
		return true // same Kind already established
	case Boolean:
		return av == b.(Boolean)
	case String:
		return av.Equal(b.(String))
	case BigInt:
		return av.V.Cmp(b.(BigInt).V) == 0
	case *Symbol:
		return av == b.(*Symbol)
	default:
		// Object: identity.
		return a == b
	}
}

// PropertyKey is either a String or a *Symbol — the two key kinds own
// property stores are indexed by (spec.md §3, "Property Descriptor").
// PropertyKey is deliberately its own type rather than reusing Value so
// property-store code cannot accidentally be handed a Number or Boolean
// key; every call site that derives a key from a Value must go through
// ToPropertyKey (internal/ops), which performs the ToString coercion the
// spec requires for array-index-shaped and other non-symbol keys.
type PropertyKey struct {
	Sym   *Symbol
	Str   string // UTF-8 Go string; engine-internal, not a language String
	IsSym bool
}

func StringKey(s string) PropertyKey  { return PropertyKey{Str: s} }
func SymbolKey(s *Symbol) PropertyKey { return PropertyKey{Sym: s, IsSym: true} }

func (k PropertyKey) String() string {
	if k.IsSym {
		return "Symbol(" + k.Sym.Description + ")"
	}
	return k.Str
}

func (k PropertyKey) Equal(o PropertyKey) bool {
	if k.IsSym != o.IsSym {
		return false
	}
	if k.IsSym {
		return k.Sym == o.Sym
	}
	return k.Str == o.Str
}
