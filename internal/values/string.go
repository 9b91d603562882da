package values

import "unicode/utf16"

// String is an immutable UTF-16 code-unit sequence (spec.md §3). Indexing,
// .length, and iteration all need code-unit semantics rather than Go's
// UTF-8-rune semantics — e.g. a surrogate pair counts as length 2 — so the
// underlying representation is []uint16, not string.
type String []uint16

func (String) Kind() Kind { return StringKind }

// NewString converts a Go (UTF-8) string into a language String by encoding
// it to UTF-16. This is lossless for any valid Unicode input; lone
// surrogates (only producible from within the engine via FromCodeUnits, not
// from Go string literals) are preserved as-is.
func NewString(s string) String {
	return String(utf16.Encode([]rune(s)))
}

// FromCodeUnits builds a String directly from UTF-16 code units, allowing
// lone surrogates that NewString could never produce. Used by
// String.fromCharCode and the other string and URI builtins that build
// results from code units.
func FromCodeUnits(units []uint16) String {
	cp := make([]uint16, len(units))
	copy(cp, units)
	return String(cp)
}

// Go decodes s back to a Go (UTF-8) string. Lone surrogates decode to
// U+FFFD, the standard replacement character — an accepted simplification
// documented in DESIGN.md; a fully spec-faithful engine would need a WTF-8
// intermediate representation to round-trip lone surrogates, which is out
// of scope for this engine's core.
func (s String) Go() string {
	return string(utf16.Decode(s))
}

// Length is the string's length in UTF-16 code units — the value JavaScript
// code observes as `str.length`.
func (s String) Length() int { return len(s) }

// CharCodeAt returns the code unit at index i. The caller is responsible for
// bounds-checking (ToInteger-derived indices can be out of range, which
// per-spec yields NaN rather than a panic); an out-of-range index panics.
func (s String) CharCodeAt(i int) uint16 { return s[i] }

// Concat appends other to s, returning a new String (Strings are immutable).
func (s String) Concat(other String) String {
	out := make(String, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}

// Equal implements language string equality: same length, same code units
// in order.
func (s String) Equal(other String) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Less implements the code-unit-by-code-unit ordering used by the relational
// operators (<, <=, >, >=) on strings.
func (s String) Less(other String) bool {
	n := len(s)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if s[i] != other[i] {
			return s[i] < other[i]
		}
	}
	return len(s) < len(other)
}
