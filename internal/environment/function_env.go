package environment

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// ThisBindingStatus mirrors the spec's three-state this-binding lifecycle:
// a derived-class constructor's `this` starts Uninitialized until its
// super() call runs, an arrow function is Lexical (no binding of its own,
// defers to the outer environment), and everything else is Initialized
// immediately.
type ThisBindingStatus int

const (
	Lexical ThisBindingStatus = iota
	Initialized
	Uninitialized
)

// FunctionRecord adds this-binding state, new.target, and the super chain
// to a Declarative record (spec.md §3/§4.4).
type FunctionRecord struct {
	*Declarative
	thisValue      values.Value
	thisStatus     ThisBindingStatus
	FunctionObject *object.Object
	NewTarget      values.Value
	HomeObject     *object.Object // for super property lookups
}

func NewFunctionRecord(outer Record, fn *object.Object, thisStatus ThisBindingStatus, newTarget values.Value, homeObject *object.Object) *FunctionRecord {
	return &FunctionRecord{
		Declarative:    NewDeclarative(outer),
		thisStatus:     thisStatus,
		FunctionObject: fn,
		NewTarget:      newTarget,
		HomeObject:     homeObject,
	}
}

func (f *FunctionRecord) HasThisBinding() bool { return f.thisStatus != Lexical }

func (f *FunctionRecord) HasSuperBinding() bool {
	return f.thisStatus != Lexical && f.HomeObject != nil
}

// BindThisValue sets the this-binding exactly once, transitioning out of
// Uninitialized (the derived-constructor case, after its super() call
// returns) — calling it twice is a script-level ReferenceError
// ("super called twice").
func (f *FunctionRecord) BindThisValue(v values.Value) completion.Completion {
	if f.thisStatus == Uninitialized {
		f.thisValue = v
		f.thisStatus = Initialized
		return completion.Empty
	}
	return completion.Thrown(referenceError("super called twice in derived constructor"))
}

// SetThisValue sets the this-binding unconditionally, used by
// OrdinaryCallBindThis (every ordinary/base-constructor call binds `this`
// once up front, with no prior TDZ state to protect) — as opposed to
// BindThisValue, which enforces the derived-constructor's single-super()-
// call invariant.
func (f *FunctionRecord) SetThisValue(v values.Value) {
	f.thisValue = v
	f.thisStatus = Initialized
}

func (f *FunctionRecord) GetThisBinding() completion.Completion {
	if f.thisStatus == Uninitialized {
		return completion.Thrown(referenceError("must call super constructor before accessing 'this'"))
	}
	return completion.Ok(f.thisValue)
}

// GetSuperBase resolves the [[HomeObject]].[[GetPrototypeOf]]() used by
// `super.prop` lookups.
func (f *FunctionRecord) GetSuperBase() values.Value {
	if f.HomeObject == nil {
		return values.Undefined
	}
	return f.HomeObject.GetPrototypeOf()
}

// GetMapped and SetMapped satisfy object.EnvBinding: the mapped-arguments
// object (internal/object/arguments.go) aliases arguments[i] to the i-th
// named parameter binding in this record, so a write through either the
// binding or the array index must be visible through the other
// (spec.md §4.3's parameter-map arguments-exotic object). Both forward
// straight to the Declarative embed's binding table; a name absent from
// the map (e.g. a later `var` with the same name shadowing the parameter)
// is simply a no-op read/write, since the arguments object stops aliasing
// that index the moment its own property is redefined non-writable
// (handled by the caller, internal/object's argumentsDefineOwnProperty).
func (f *FunctionRecord) GetMapped(name string) values.Value {
	c := f.Declarative.GetBindingValue(name, false)
	if c.IsAbrupt() {
		return values.Undefined
	}
	return c.Value.(values.Value)
}

func (f *FunctionRecord) SetMapped(name string, v values.Value) {
	f.Declarative.SetMutableBinding(name, v, false)
}
