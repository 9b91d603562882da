package ops

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Get implements spec's Get(O, P): O.[[Get]](P, O).
func Get(o *object.Object, key values.PropertyKey) completion.Completion {
	return o.Get_(key, o)
}

// Set implements spec's Set(O, P, V, Throw): O.[[Set]](P, V, O), optionally
// raising TypeError on failure when Throw is true (used by strict-mode
// assignment and CreateDataPropertyOrThrow-adjacent call sites).
func Set(o *object.Object, key values.PropertyKey, v values.Value, throwOnFailure bool) completion.Completion {
	ok, c := o.Set_(key, v, o)
	if c.IsAbrupt() {
		return c
	}
	if !ok && throwOnFailure {
		return completion.Thrown(TypeErrorValue("cannot set property " + key.String()))
	}
	return completion.Empty
}

// CreateDataProperty implements spec's CreateDataProperty: a fresh
// writable/enumerable/configurable own data property, used by array/object
// literal evaluation and Array.prototype push-like methods.
func CreateDataProperty(o *object.Object, key values.PropertyKey, v values.Value) completion.Completion {
	ok, c := o.DefineOwnProperty(key, property.DataDescriptor(v, true, true, true))
	if c.IsAbrupt() {
		return c
	}
	if !ok {
		return completion.Thrown(TypeErrorValue("cannot define property " + key.String()))
	}
	return completion.Empty
}

// CreateDataPropertyOrThrow is CreateDataProperty with the failure always
// surfaced (spec's CreateDataPropertyOrThrow), used by destructuring and
// Object.defineProperties-adjacent call sites.
func CreateDataPropertyOrThrow(o *object.Object, key values.PropertyKey, v values.Value) completion.Completion {
	return CreateDataProperty(o, key, v)
}

// EnumerableOwnPropertyKeys implements the portion of spec's
// EnumerableOwnProperties kind="key" needed for `for...in`: own string keys
// (symbols are never visited by for-in) whose own descriptor is enumerable,
// walking the prototype chain and de-duplicating by key the way for-in's
// ForIn/OfHeadEvaluation does.
func EnumerableOwnPropertyKeys(o *object.Object) ([]string, completion.Completion) {
	seen := map[string]bool{}
	var out []string
	cur := o
	for cur != nil {
		for _, k := range cur.OwnPropertyKeys() {
			if k.IsSym || seen[k.Str] {
				continue
			}
			seen[k.Str] = true
			desc, ok := cur.GetOwnProperty(k)
			if ok && desc.Enumerable {
				out = append(out, k.Str)
			}
		}
		parent := cur.GetPrototypeOf()
		next, isObj := parent.(*object.Object)
		if !isObj {
			break
		}
		cur = next
	}
	return out, completion.Empty
}
