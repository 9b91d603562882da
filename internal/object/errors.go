package object

// EngineError is this package's own minimal error-marker type, mirroring
// internal/environment.EngineError: internal/object can't import
// internal/environment (environment already imports object, for
// object.Environment/EnvBinding), so an exotic-object algorithm that needs
// to throw (array length coercion, typed-array bounds) builds one of these
// instead of a realm-bound Error object. internal/evaluator's exception
// machinery recognizes both sentinel types and upgrades them the same way.
type EngineError struct {
	Kind    string
	Message string
}

func RangeErrorValue(msg string) EngineError { return EngineError{Kind: "RangeError", Message: msg} }
func TypeErrorValue(msg string) EngineError  { return EngineError{Kind: "TypeError", Message: msg} }
