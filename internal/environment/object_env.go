package environment

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// ObjectRecord is an environment record whose bindings are backed by an
// object's own properties (spec.md §3/§4.4) — used for the global object's
// bindings and for `with` statements. IsWith marks the latter, which is
// what makes WithBaseObject return something other than undefined.
type ObjectRecord struct {
	bindingObject *object.Object
	outer         Record
	IsWith        bool
}

func NewObjectRecord(bindingObject *object.Object, outer Record, isWith bool) *ObjectRecord {
	return &ObjectRecord{bindingObject: bindingObject, outer: outer, IsWith: isWith}
}

func (o *ObjectRecord) EnvironmentRecord() {}
func (o *ObjectRecord) Outer() Record      { return o.outer }
func (o *ObjectRecord) BindingObject() *object.Object { return o.bindingObject }

func (o *ObjectRecord) HasBinding(name string) bool {
	has, c := o.bindingObject.HasProperty(values.StringKey(name))
	if c.IsAbrupt() {
		return false
	}
	if !has || !o.IsWith {
		return has
	}
	// `with` environments additionally consult @@unscopables (spec.md
	// §4.4's implicit requirement for `with` semantics).
	unscopablesC := o.bindingObject.Get_(values.SymbolKey(values.SymUnscopables), o.bindingObject)
	if unscopablesC.IsAbrupt() {
		return true
	}
	unscopables, ok := unscopablesC.Value.(*object.Object)
	if !ok {
		return true
	}
	blockedC := unscopables.Get_(values.StringKey(name), unscopables)
	if blockedC.IsAbrupt() {
		return true
	}
	if b, ok := blockedC.Value.(values.Boolean); ok && bool(b) {
		return false
	}
	return true
}

func (o *ObjectRecord) CreateMutableBinding(name string, deletable bool) {
	desc := property.DataDescriptor(values.Undefined, true, true, deletable)
	o.bindingObject.DefineOwnProperty(values.StringKey(name), desc)
}

func (o *ObjectRecord) CreateImmutableBinding(name string, strict bool) {
	desc := property.DataDescriptor(values.Undefined, false, true, false)
	o.bindingObject.DefineOwnProperty(values.StringKey(name), desc)
}

func (o *ObjectRecord) InitializeBinding(name string, v values.Value) {
	o.bindingObject.Set_(values.StringKey(name), v, o.bindingObject)
}

func (o *ObjectRecord) SetMutableBinding(name string, v values.Value, strict bool) completion.Completion {
	has, c := o.bindingObject.HasProperty(values.StringKey(name))
	if c.IsAbrupt() {
		return c
	}
	if !has && strict {
		return completion.Thrown(referenceError(name + " is not defined"))
	}
	ok, c := o.bindingObject.Set_(values.StringKey(name), v, o.bindingObject)
	if c.IsAbrupt() {
		return c
	}
	if !ok && strict {
		return completion.Thrown(typeError("cannot assign to read only property " + name))
	}
	return completion.Empty
}

func (o *ObjectRecord) GetBindingValue(name string, strict bool) completion.Completion {
	has, c := o.bindingObject.HasProperty(values.StringKey(name))
	if c.IsAbrupt() {
		return c
	}
	if !has {
		if strict {
			return completion.Thrown(referenceError(name + " is not defined"))
		}
		return completion.Ok(values.Undefined)
	}
	return o.bindingObject.Get_(values.StringKey(name), o.bindingObject)
}

func (o *ObjectRecord) DeleteBinding(name string) bool {
	ok, c := o.bindingObject.Delete(values.StringKey(name))
	return ok && !c.IsAbrupt()
}

func (o *ObjectRecord) HasThisBinding() bool  { return false }
func (o *ObjectRecord) HasSuperBinding() bool { return false }
func (o *ObjectRecord) WithBaseObject() values.Value {
	if o.IsWith {
		return o.bindingObject
	}
	return values.Undefined
}
