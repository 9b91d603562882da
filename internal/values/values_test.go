package values

import (
	"math"
	"testing"
)

func TestCanonicalSingletons(t *testing.T) {
	if Undefined.Kind() != UndefinedKind || Null.Kind() != NullKind {
		t.Fatalf("canonical singletons have wrong kind")
	}
	if True.Kind() != BooleanKind || False == True {
		t.Fatalf("True/False must be distinct canonical booleans")
	}
}

func TestNumberNaNNotEqualToItself(t *testing.T) {
	nan := Number(nanValue())
	if nan == nan {
		// Go float64 NaN != NaN even via == on the Number alias; this
		// documents that language-level Number(==) needs no special
		// casing beyond what Go already gives us.
		t.Fatalf("expected Go NaN semantics (NaN != NaN) to hold for Number")
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestSameValueDistinguishesZeroSign(t *testing.T) {
	posZero := Number(0)
	negZero := Number(math.Copysign(0, -1))
	if SameValue(posZero, negZero) {
		t.Fatalf("SameValue(+0, -0) must be false")
	}
	if !SameValueZero(posZero, negZero) {
		t.Fatalf("SameValueZero(+0, -0) must be true")
	}
}

func TestSameValueNaNEqualsItself(t *testing.T) {
	nan := Number(nanValue())
	if !SameValue(nan, nan) {
		t.Fatalf("SameValue(NaN, NaN) must be true")
	}
}

func TestStringEqualityAndOrdering(t *testing.T) {
	a := NewString("abc")
	b := NewString("abd")
	if !a.Equal(NewString("abc")) {
		t.Fatalf("equal strings must compare equal")
	}
	if !a.Less(b) {
		t.Fatalf("'abc' must be less than 'abd'")
	}
	if a.Length() != 3 {
		t.Fatalf("expected length 3, got %d", a.Length())
	}
}

func TestPropertyKeyEquality(t *testing.T) {
	k1 := StringKey("x")
	k2 := StringKey("x")
	if !k1.Equal(k2) {
		t.Fatalf("identical string keys must be equal")
	}
	s := NewSymbol("s")
	if SymbolKey(s).Equal(k1) {
		t.Fatalf("a symbol key must never equal a string key")
	}
}
