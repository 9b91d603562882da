// Package object implements the object model of spec.md §3/§4.3: a heap
// entity with a prototype slot, an extensibility bit, an (insertion-order
// preserving) property store, and a dispatch table of internal methods.
// Exotic object kinds (array, string, arguments, integer-indexed, proxy-like,
// bound-function, function) override entries of that table rather than
// subclassing an "ordinary object" type, per the design note in spec.md §9:
// "Model an object as a record holding an interface pointer to a method
// table (one table per kind), not as subclass inheritance."
package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// RealmHandle is the object package's view of a realm: just enough to know
// which realm an object belongs to (spec.md §3, "each object is associated
// with exactly one realm at creation") without internal/object importing
// internal/realm, which itself needs to create objects. internal/realm.Realm
// implements this by having a RealmID method.
type RealmHandle interface {
	RealmID() int
}

// CallableFunc is the shape every [[Call]]-capable object stores. Both
// native (Go-implemented) and user-defined (AST-evaluated) functions are
// represented the same way: a plain closure. The evaluator is what builds
// the AST-evaluating closure for user functions; this package never needs
// to know an AST node exists.
type CallableFunc func(this values.Value, args []values.Value) completion.Completion

// ConstructableFunc is the shape every [[Construct]]-capable object stores.
// newTarget is the constructor originally targeted by `new`, needed for
// correct prototype selection in derived-class construction (spec.md §4.7).
type ConstructableFunc func(args []values.Value, newTarget values.Value) completion.Completion

// MethodTable holds the 11 internal methods every object implements
// (spec.md §3). A kind's constructor wires up a *MethodTable once; after
// that, Object.Get/Set/etc. just forward to whatever is in the table,
// keeping call sites kind-agnostic.
type MethodTable struct {
	GetPrototypeOf    func(o *Object) values.Value
	SetPrototypeOf    func(o *Object, proto values.Value) bool
	IsExtensible      func(o *Object) bool
	PreventExtensions func(o *Object) bool
	GetOwnProperty    func(o *Object, key values.PropertyKey) (property.Descriptor, bool)
	DefineOwnProperty func(o *Object, key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion)
	HasProperty       func(o *Object, key values.PropertyKey) (bool, completion.Completion)
	Get               func(o *Object, key values.PropertyKey, receiver values.Value) completion.Completion
	Set               func(o *Object, key values.PropertyKey, v values.Value, receiver values.Value) (bool, completion.Completion)
	Delete            func(o *Object, key values.PropertyKey) (bool, completion.Completion)
	OwnPropertyKeys   func(o *Object) []values.PropertyKey
}

// Object is the single concrete heap-entity type for every object kind.
// Kind-specific state (array length tracking, string data, bound-function
// slots, ...) lives in dedicated fields below rather than in per-kind Go
// types, matching the "one table per kind" design rather than subclassing.
type Object struct {
	proto      values.Value // Object or values.Null
	extensible bool
	props      *Store
	Methods    *MethodTable
	Class      string // diagnostic/dispatch tag: "Object", "Array", "String", "Arguments", ...
	Realm      RealmHandle

	// Callable/constructor slots (spec.md §3: "Callable objects additionally
	// have [[Call]]; constructors have [[Construct]]"). Both nil for a
	// plain (non-function) object.
	Call      CallableFunc
	Construct ConstructableFunc

	// Function-kind introspection fields (spec.md §4.3).
	ThisMode     string // "lexical" | "strict" | "global"
	FunctionKind string // "normal" | "classConstructor" | "generator" | "async" | "asyncGenerator" | "arrow"
	HomeObject   *Object

	// SuperClassLinked marks a derived-class constructor (spec.md §4.8's
	// "constructor has a [[ConstructorKind]] of derived"): its [[Construct]]
	// defers `this` allocation until its body's super() call runs, instead
	// of pre-allocating an instance from newTarget.prototype.
	SuperClassLinked bool

	// Bound-function fields (spec.md §3 table).
	BoundTargetFunction *Object
	BoundThis           values.Value
	BoundArguments      []values.Value

	// String-exotic field: the wrapped primitive string.
	StringData values.String

	// Arguments-exotic field: maps argument index -> parameter binding name
	// in ParameterEnv, so writes to arguments[i] alias the named binding.
	ParameterMap   map[int]string
	ParameterEnv   Environment

	// Integer-indexed (typed-array-style) field.
	IsIntegerIndexed bool

	// Proxy-like fields.
	ProxyTarget  *Object
	ProxyHandler *Object
	IsRevoked    bool

	// Internal is an extension point for the evaluator to stash
	// AST-and-environment-shaped data (the parsed body, captured scope) on
	// a function object without this package needing to import the
	// evaluator or AST packages.
	Internal any
}

// Environment is the object package's opaque view of an environment record,
// mirroring RealmHandle's cycle-breaking trick: internal/environment
// implements this (trivially — any *environment.Record already satisfies an
// empty-ish marker) so Object can reference its closure environment without
// an import cycle.
type Environment interface {
	EnvironmentRecord()
}

func NewObject(proto values.Value, realm RealmHandle) *Object {
	o := &Object{proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "Object"}
	o.Methods = OrdinaryMethodTable()
	return o
}

// --- Thin forwarding wrappers so call sites never touch o.Methods directly ---

func (o *Object) GetPrototypeOf() values.Value { return o.Methods.GetPrototypeOf(o) }
func (o *Object) SetPrototypeOf(proto values.Value) bool {
	return o.Methods.SetPrototypeOf(o, proto)
}
func (o *Object) IsExtensible() bool      { return o.Methods.IsExtensible(o) }
func (o *Object) PreventExtensions() bool { return o.Methods.PreventExtensions(o) }
func (o *Object) GetOwnProperty(key values.PropertyKey) (property.Descriptor, bool) {
	return o.Methods.GetOwnProperty(o, key)
}
func (o *Object) DefineOwnProperty(key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion) {
	return o.Methods.DefineOwnProperty(o, key, desc)
}
func (o *Object) HasProperty(key values.PropertyKey) (bool, completion.Completion) {
	return o.Methods.HasProperty(o, key)
}
func (o *Object) Get_(key values.PropertyKey, receiver values.Value) completion.Completion {
	return o.Methods.Get(o, key, receiver)
}
func (o *Object) Set_(key values.PropertyKey, v values.Value, receiver values.Value) (bool, completion.Completion) {
	return o.Methods.Set(o, key, v, receiver)
}
func (o *Object) Delete(key values.PropertyKey) (bool, completion.Completion) {
	return o.Methods.Delete(o, key)
}
func (o *Object) OwnPropertyKeys() []values.PropertyKey { return o.Methods.OwnPropertyKeys(o) }

// IsCallable and IsConstructor are plain nil-checks, not internal-method
// dispatch, since [[Call]]/[[Construct]] aren't part of the common 11-entry
// table (spec.md §3).
func (o *Object) IsCallable() bool   { return o.Call != nil }
func (o *Object) IsConstructor() bool { return o.Construct != nil }

// Kind satisfies values.Value: any type with this method is, structurally,
// a language value of kind Object — this is the whole cycle-breaking trick
// described in internal/values's package doc.
func (*Object) Kind() values.Kind { return values.ObjectKind }

// Proto/Extensible/Props are exposed read-only accessors for the ordinary
// algorithms (defined in ordinary.go) and for exotic overrides that still
// need to poke at the base representation.
func (o *Object) protoSlot() values.Value    { return o.proto }
func (o *Object) setProtoSlot(v values.Value) { o.proto = v }
func (o *Object) extensibleBit() bool         { return o.extensible }
func (o *Object) setExtensibleBit(v bool)     { o.extensible = v }
func (o *Object) store() *Store              { return o.props }
