package ops

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// IsCallable implements spec's IsCallable.
func IsCallable(v values.Value) bool {
	o, ok := v.(*object.Object)
	return ok && o.IsCallable()
}

// IsConstructor implements spec's IsConstructor.
func IsConstructor(v values.Value) bool {
	o, ok := v.(*object.Object)
	return ok && o.IsConstructor()
}

// Call implements spec's Call(F, V, argumentsList): error if not callable,
// otherwise dispatch to [[Call]] (spec.md §4.6).
func Call(f values.Value, this values.Value, args []values.Value) completion.Completion {
	fn, ok := f.(*object.Object)
	if !ok || !fn.IsCallable() {
		return completion.Thrown(TypeErrorValue("value is not a function"))
	}
	return fn.Call(this, args)
}

// Construct implements spec's Construct(F, argumentsList, newTarget).
func Construct(f values.Value, args []values.Value, newTarget values.Value) completion.Completion {
	fn, ok := f.(*object.Object)
	if !ok || !fn.IsConstructor() {
		return completion.Thrown(TypeErrorValue("value is not a constructor"))
	}
	if newTarget == nil {
		newTarget = fn
	}
	return fn.Construct(args, newTarget)
}

// SpeciesConstructor implements spec.md §4.6: consult `constructor` then
// @@species, falling back to defaultCtor when `constructor` is undefined or
// @@species is undefined/null (a `constructor` that is not an object, null
// included, throws TypeError), used by derived-class creation in
// Array.prototype and Promise.prototype methods.
func SpeciesConstructor(o *object.Object, defaultCtor *object.Object) completion.Completion {
	ctorVal := o.Get_(values.StringKey("constructor"), o)
	if ctorVal.IsAbrupt() {
		return ctorVal
	}
	ctor, _ := ctorVal.Value.(values.Value)
	if ctor == nil || ctor.Kind() == values.UndefinedKind {
		return completion.Ok(defaultCtor)
	}
	ctorObj, ok := ctor.(*object.Object)
	if !ok {
		return completion.Thrown(TypeErrorValue("constructor is not an object"))
	}
	speciesVal := ctorObj.Get_(values.SymbolKey(values.SymSpecies), ctorObj)
	if speciesVal.IsAbrupt() {
		return speciesVal
	}
	species, _ := speciesVal.Value.(values.Value)
	if species == nil || species.Kind() == values.UndefinedKind || species.Kind() == values.NullKind {
		return completion.Ok(defaultCtor)
	}
	speciesObj, ok := species.(*object.Object)
	if !ok || !speciesObj.IsConstructor() {
		return completion.Thrown(TypeErrorValue("@@species is not a constructor"))
	}
	return completion.Ok(speciesObj)
}

// InstanceofOperator implements the `instanceof` operator: consult
// @@hasInstance if present, else OrdinaryHasInstance's prototype-chain walk.
func InstanceofOperator(v values.Value, target values.Value) completion.Completion {
	targetObj, ok := target.(*object.Object)
	if !ok {
		return completion.Thrown(TypeErrorValue("right-hand side of 'instanceof' is not an object"))
	}
	hasInstVal := targetObj.Get_(values.SymbolKey(values.SymHasInstance), targetObj)
	if hasInstVal.IsAbrupt() {
		return hasInstVal
	}
	hasInst, _ := hasInstVal.Value.(values.Value)
	if fn, ok := hasInst.(*object.Object); ok && fn.IsCallable() {
		res := fn.Call(targetObj, []values.Value{v})
		if res.IsAbrupt() {
			return res
		}
		return completion.Ok(values.BoolValue(ToBoolean(res.Value.(values.Value))))
	}
	if !targetObj.IsCallable() {
		return completion.Thrown(TypeErrorValue("right-hand side of 'instanceof' is not callable"))
	}
	return OrdinaryHasInstance(targetObj, v)
}

// OrdinaryHasInstance walks v's prototype chain looking for
// target.prototype (spec's OrdinaryHasInstance).
func OrdinaryHasInstance(target *object.Object, v values.Value) completion.Completion {
	if target.BoundTargetFunction != nil {
		return InstanceofOperator(v, target.BoundTargetFunction)
	}
	vObj, ok := v.(*object.Object)
	if !ok {
		return completion.Ok(values.False)
	}
	protoVal := target.Get_(values.StringKey("prototype"), target)
	if protoVal.IsAbrupt() {
		return protoVal
	}
	proto, ok := protoVal.Value.(values.Value).(*object.Object)
	if !ok {
		return completion.Thrown(TypeErrorValue("prototype is not an object"))
	}
	p := vObj.GetPrototypeOf()
	for {
		pObj, isObj := p.(*object.Object)
		if !isObj {
			return completion.Ok(values.False)
		}
		if pObj == proto {
			return completion.Ok(values.True)
		}
		p = pObj.GetPrototypeOf()
	}
}
