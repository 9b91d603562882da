package completion

// Q implements the spec's "? OperationName()" shorthand: on an abrupt
// completion the caller is expected to immediately propagate it. Go has no
// non-local return, so every call site spells this out as:
//
//	v, abrupt := completion.Q(op())
//	if abrupt.IsAbrupt() {
//		return abrupt
//	}
//
// Q returns the carried value plus the completion itself so both forms are
// available without re-deriving one from the other.
func Q(c Completion) (any, Completion) {
	if c.IsAbrupt() {
		return nil, c
	}
	return c.Value, Completion{}
}

// X implements the spec's "! OperationName()" shorthand: an assertion that c
// is a Normal completion. It panics on an abrupt completion, since reaching
// here means the engine itself violated one of its own invariants (e.g.
// internal bookkeeping that the spec defines as never failing, like creating
// a binding in a fresh declarative environment). It must never be used on an
// operation whose abrupt path is reachable from user script.
func X(c Completion) any {
	if c.IsAbrupt() {
		panic("completion.X: asserted-normal completion was abrupt: " + c.Type.String())
	}
	return c.Value
}
