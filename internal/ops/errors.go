package ops

import "github.com/ecmax-lang/ecmax/internal/environment"

// TypeErrorValue, RangeErrorValue, SyntaxErrorValue, ReferenceErrorValue,
// and URIErrorValue build the same minimal environment.EngineError marker
// internal/environment uses for its own internally-produced
// ReferenceError/TypeError completions (see environment/record.go's
// comment on why that package can't construct a realm-bound Error object
// directly). internal/evaluator's exception machinery
// (evaluator/exceptions.go) recognises EngineError values wherever they
// surface as a throw completion's payload and upgrades them to a real
// Error-prototype object bound to the running realm before the completion
// is observable from script — so every abstract operation in this package
// can build the taxonomy of spec.md §7 without importing internal/realm.
func TypeErrorValue(msg string) environment.EngineError {
	return environment.EngineError{Kind: "TypeError", Message: msg}
}

func RangeErrorValue(msg string) environment.EngineError {
	return environment.EngineError{Kind: "RangeError", Message: msg}
}

func SyntaxErrorValue(msg string) environment.EngineError {
	return environment.EngineError{Kind: "SyntaxError", Message: msg}
}

func ReferenceErrorValue(msg string) environment.EngineError {
	return environment.EngineError{Kind: "ReferenceError", Message: msg}
}

func URIErrorValue(msg string) environment.EngineError {
	return environment.EngineError{Kind: "URIError", Message: msg}
}
