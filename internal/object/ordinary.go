package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// OrdinaryMethodTable returns the default algorithms of spec.md §4.2,
// shared by ordinary objects and reused (field by field) by every exotic
// kind that doesn't need to override a given entry.
func OrdinaryMethodTable() *MethodTable {
	return &MethodTable{
		GetPrototypeOf:    OrdinaryGetPrototypeOf,
		SetPrototypeOf:    OrdinarySetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: OrdinaryPreventExtensions,
		GetOwnProperty:    OrdinaryGetOwnProperty,
		DefineOwnProperty: OrdinaryDefineOwnProperty,
		HasProperty:       OrdinaryHasProperty,
		Get:               OrdinaryGet,
		Set:               OrdinarySet,
		Delete:            OrdinaryDelete,
		OwnPropertyKeys:   OrdinaryOwnPropertyKeys,
	}
}

func OrdinaryGetPrototypeOf(o *Object) values.Value { return o.protoSlot() }

// OrdinarySetPrototypeOf implements the cycle-rejecting prototype mutation
// algorithm: walking up the would-be new prototype chain, if o is found
// (and every intermediate object is ordinary with the default
// GetPrototypeOf), the change is rejected.
func OrdinarySetPrototypeOf(o *Object, proto values.Value) bool {
	current := o.protoSlot()
	if proto == current {
		return true
	}
	if !o.extensibleBit() {
		return false
	}
	p := proto
	for {
		obj, isObj := p.(*Object)
		if !isObj {
			break
		}
		if obj == o {
			return false
		}
		// Stop walking once we hit a non-ordinary GetPrototypeOf (e.g. a
		// proxy) to avoid assuming its behavior; the spec's algorithm
		// allows continuing for "ordinary object or has a
		// [[GetPrototypeOf]] of %ObjectPrototype%"-style exotic chains,
		// but bailing out here is a conservative, safe approximation.
		if obj.ProxyTarget != nil {
			break
		}
		p = obj.GetPrototypeOf()
		if p == values.Null {
			break
		}
	}
	o.setProtoSlot(proto)
	return true
}

func OrdinaryIsExtensible(o *Object) bool { return o.extensibleBit() }

func OrdinaryPreventExtensions(o *Object) bool {
	o.setExtensibleBit(false)
	return true
}

func OrdinaryGetOwnProperty(o *Object, key values.PropertyKey) (property.Descriptor, bool) {
	return o.store().get(key)
}

// OrdinaryDefineOwnProperty runs ValidateAndApplyPropertyDescriptor and, if
// valid, stores the merged descriptor.
func OrdinaryDefineOwnProperty(o *Object, key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion) {
	current, present := o.store().get(key)
	merged, ok := property.ValidateAndApplyPropertyDescriptor(
		property.Current{Descriptor: current, Present: present}, o.extensibleBit(), desc)
	if !ok {
		return false, completion.Empty
	}
	o.store().set(key, merged)
	return true, completion.Empty
}

// OrdinaryHasProperty walks the prototype chain: spec.md §4.2.
func OrdinaryHasProperty(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	if _, ok := o.store().get(key); ok {
		return true, completion.Empty
	}
	parent := o.GetPrototypeOf()
	if parent == values.Null {
		return false, completion.Empty
	}
	parentObj, ok := parent.(*Object)
	if !ok {
		return false, completion.Empty
	}
	return parentObj.HasProperty(key)
}

// OrdinaryGet walks the prototype chain for inherited properties and
// forwards the *original* receiver (not the holder) to any accessor's
// getter, per spec.md §4.2 ("accessor calls forward the original receiver,
// not the holder").
func OrdinaryGet(o *Object, key values.PropertyKey, receiver values.Value) completion.Completion {
	desc, ok := o.store().get(key)
	if !ok {
		parent := o.GetPrototypeOf()
		if parent == values.Null {
			return completion.Ok(values.Undefined)
		}
		parentObj, isObj := parent.(*Object)
		if !isObj {
			return completion.Ok(values.Undefined)
		}
		return parentObj.Get_(key, receiver)
	}
	if desc.IsAccessorDescriptor() {
		getter, _ := desc.Get.(*Object)
		if getter == nil || !getter.IsCallable() {
			return completion.Ok(values.Undefined)
		}
		return getter.Call(receiver, nil)
	}
	return completion.Ok(desc.Value)
}

// OrdinarySet distinguishes own vs inherited data/accessor properties,
// creating a new own data property at the receiver when the inherited
// shape is a data property (spec.md §4.2).
func OrdinarySet(o *Object, key values.PropertyKey, v values.Value, receiver values.Value) (bool, completion.Completion) {
	ownDesc, ok := o.store().get(key)
	if !ok {
		parent := o.GetPrototypeOf()
		if parent != values.Null {
			if parentObj, isObj := parent.(*Object); isObj {
				return parentObj.Set_(key, v, receiver)
			}
		}
		ownDesc = property.DataDescriptor(values.Undefined, true, true, true)
	}

	if ownDesc.IsDataDescriptor() {
		if !ownDesc.Writable {
			return false, completion.Empty
		}
		receiverObj, isObj := receiver.(*Object)
		if !isObj {
			return false, completion.Empty
		}
		existing, existingPresent := receiverObj.store().get(key)
		if existingPresent {
			if existing.IsAccessorDescriptor() {
				return false, completion.Empty
			}
			if !existing.Writable {
				return false, completion.Empty
			}
			valueDesc := property.Descriptor{Value: v, HasValue: true}
			return receiverObj.DefineOwnProperty(key, valueDesc)
		}
		return receiverObj.DefineOwnProperty(key, property.DataDescriptor(v, true, true, true))
	}

	setter, _ := ownDesc.Set.(*Object)
	if setter == nil || !setter.IsCallable() {
		return false, completion.Empty
	}
	c := setter.Call(receiver, []values.Value{v})
	if c.IsAbrupt() {
		return false, c
	}
	return true, completion.Empty
}

func OrdinaryDelete(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	desc, ok := o.store().get(key)
	if !ok {
		return true, completion.Empty
	}
	if !desc.Configurable {
		return false, completion.Empty
	}
	o.store().delete(key)
	return true, completion.Empty
}

func OrdinaryOwnPropertyKeys(o *Object) []values.PropertyKey {
	return o.store().orderedKeys()
}
