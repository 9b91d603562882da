// Package environment implements the environment-record hierarchy of
// spec.md §3/§4.4: a binding table plus an OuterEnv reference forming a
// chain, with Declarative, Object, Function, Global, and Module variants.
package environment

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Record is the common interface every environment-record variant
// implements (spec.md §4.4). The operations that can throw
// (SetMutableBinding, GetBindingValue) return a Completion carrying the
// ReferenceError/TypeError; the others return plain values.
type Record interface {
	HasBinding(name string) bool
	CreateMutableBinding(name string, deletable bool)
	CreateImmutableBinding(name string, strict bool)
	InitializeBinding(name string, v values.Value)
	SetMutableBinding(name string, v values.Value, strict bool) completion.Completion
	GetBindingValue(name string, strict bool) completion.Completion
	DeleteBinding(name string) bool
	HasThisBinding() bool
	HasSuperBinding() bool
	WithBaseObject() values.Value // values.Undefined unless an object environment created via `with`
	Outer() Record

	// EnvironmentRecord satisfies object.Environment (see
	// internal/object's package doc for why this indirection exists) so a
	// Function object's captured scope can be stored as object.Environment
	// without internal/object importing this package.
	EnvironmentRecord()
}

// binding is the per-name state a Declarative-family record stores.
type binding struct {
	value       values.Value
	mutable     bool
	deletable   bool
	initialized bool
	strict      bool
}

// Declarative is the base environment-record variant: let/const/function
// bindings with initialization state (the temporal dead zone, spec.md
// §4.4). Function, Global (partly), and Module environments all embed one.
type Declarative struct {
	bindings map[string]*binding
	outer    Record
}

func NewDeclarative(outer Record) *Declarative {
	return &Declarative{bindings: make(map[string]*binding), outer: outer}
}

func (d *Declarative) EnvironmentRecord() {}
func (d *Declarative) Outer() Record      { return d.outer }

func (d *Declarative) HasBinding(name string) bool {
	_, ok := d.bindings[name]
	return ok
}

func (d *Declarative) CreateMutableBinding(name string, deletable bool) {
	d.bindings[name] = &binding{mutable: true, deletable: deletable, initialized: false, value: values.Undefined}
}

func (d *Declarative) CreateImmutableBinding(name string, strict bool) {
	d.bindings[name] = &binding{mutable: false, strict: strict, initialized: false, value: values.Undefined}
}

// InitializeBinding sets the initial value of an uninitialized binding,
// ending its temporal dead zone (spec's InitializeBinding). It does not
// signal a Completion; calling it again overwrites the value, which the
// evaluator does only for a named `export default function` (initialized
// at module instantiation and again when its statement runs).
func (d *Declarative) InitializeBinding(name string, v values.Value) {
	b := d.bindings[name]
	b.value = v
	b.initialized = true
}

func (d *Declarative) SetMutableBinding(name string, v values.Value, strict bool) completion.Completion {
	b, ok := d.bindings[name]
	if !ok {
		if strict {
			return completion.Thrown(referenceError("assignment to an undeclared variable " + name))
		}
		d.CreateMutableBinding(name, true)
		d.InitializeBinding(name, v)
		return completion.Empty
	}
	if !b.initialized {
		return completion.Thrown(referenceError("cannot access '" + name + "' before initialization"))
	}
	if !b.mutable {
		if strict || b.strict {
			return completion.Thrown(typeError("assignment to constant variable " + name))
		}
		return completion.Empty
	}
	b.value = v
	return completion.Empty
}

func (d *Declarative) GetBindingValue(name string, strict bool) completion.Completion {
	b, ok := d.bindings[name]
	if !ok {
		return completion.Thrown(referenceError(name + " is not defined"))
	}
	if !b.initialized {
		return completion.Thrown(referenceError("cannot access '" + name + "' before initialization"))
	}
	return completion.Ok(b.value)
}

func (d *Declarative) DeleteBinding(name string) bool {
	b, ok := d.bindings[name]
	if !ok {
		return true
	}
	if !b.deletable {
		return false
	}
	delete(d.bindings, name)
	return true
}

// BindingNames returns this record's own binding names, used by
// statements.go's per-iteration `for (let ...)` copy (spec's
// CreatePerIterationEnvironment).
func (d *Declarative) BindingNames() []string {
	names := make([]string, 0, len(d.bindings))
	for n := range d.bindings {
		names = append(names, n)
	}
	return names
}

func (d *Declarative) HasThisBinding() bool         { return false }
func (d *Declarative) HasSuperBinding() bool        { return false }
func (d *Declarative) WithBaseObject() values.Value { return values.Undefined }

// referenceError and typeError build minimal EngineError marker values. The
// evaluator's exception machinery (internal/evaluator) replaces these with
// fully-realized Error-prototype objects bound to the running realm; these
// markers exist so internal/environment — which cannot import
// internal/realm without a cycle — can still produce a throw Completion whose payload
// the evaluator recognizes and upgrades. See evaluator/exceptions.go.
type EngineError struct {
	Kind    string
	Message string
}

func referenceError(msg string) EngineError { return EngineError{Kind: "ReferenceError", Message: msg} }
func typeError(msg string) EngineError      { return EngineError{Kind: "TypeError", Message: msg} }
