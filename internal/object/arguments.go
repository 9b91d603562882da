package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// EnvBinding is the minimal surface object needs from an environment record
// to alias a mapped-arguments index to a named parameter binding, again
// avoiding an import of internal/environment.
type EnvBinding interface {
	Environment
	GetMapped(name string) values.Value
	SetMapped(name string, v values.Value)
}

// NewMappedArgumentsObject creates the "mapped" arguments-exotic object used
// for non-strict functions: writes to arguments[i] alias the i-th named
// parameter binding, and vice versa (spec.md §3/§4.7). Strict-mode
// functions and functions whose parameter list is not simple get a plain
// ordinary object instead; arrow functions get no arguments object of their
// own (spec.md §4.7: "the arguments object (unmapped for strict / mapped
// otherwise)").
func NewMappedArgumentsObject(proto values.Value, realm RealmHandle, paramNames []string, env EnvBinding, argCount int) *Object {
	o := &Object{proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "Arguments"}
	table := *OrdinaryMethodTable()
	table.GetOwnProperty = argumentsGetOwnProperty
	table.DefineOwnProperty = argumentsDefineOwnProperty
	table.Get = argumentsGet
	table.Set = argumentsSet
	table.Delete = argumentsDelete
	o.Methods = &table
	o.ParameterEnv = env

	pm := make(map[int]string)
	for i := 0; i < argCount; i++ {
		if i < len(paramNames) {
			pm[i] = paramNames[i]
		}
	}
	o.ParameterMap = pm
	return o
}

func mappedName(o *Object, key values.PropertyKey) (string, bool) {
	if key.IsSym || o.ParameterMap == nil {
		return "", false
	}
	idx, ok := arrayIndex(key)
	if !ok {
		return "", false
	}
	name, mapped := o.ParameterMap[int(idx)]
	return name, mapped
}

func argumentsGetOwnProperty(o *Object, key values.PropertyKey) (property.Descriptor, bool) {
	desc, ok := OrdinaryGetOwnProperty(o, key)
	if !ok {
		return desc, false
	}
	if name, mapped := mappedName(o, key); mapped {
		desc.Value = o.ParameterEnv.(EnvBinding).GetMapped(name)
	}
	return desc, true
}

func argumentsDefineOwnProperty(o *Object, key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion) {
	name, mapped := mappedName(o, key)
	ok, c := OrdinaryDefineOwnProperty(o, key, desc)
	if c.IsAbrupt() || !ok {
		return ok, c
	}
	if mapped {
		if desc.HasValue {
			o.ParameterEnv.(EnvBinding).SetMapped(name, desc.Value)
		}
		if desc.HasWritable && !desc.Writable {
			delete(o.ParameterMap, mustIndex(key))
		}
	}
	return true, completion.Empty
}

func argumentsGet(o *Object, key values.PropertyKey, receiver values.Value) completion.Completion {
	if name, mapped := mappedName(o, key); mapped {
		return completion.Ok(o.ParameterEnv.(EnvBinding).GetMapped(name))
	}
	return OrdinaryGet(o, key, receiver)
}

func argumentsSet(o *Object, key values.PropertyKey, v values.Value, receiver values.Value) (bool, completion.Completion) {
	if ro, ok := receiver.(*Object); ok && ro == o {
		if name, mapped := mappedName(o, key); mapped {
			o.ParameterEnv.(EnvBinding).SetMapped(name, v)
		}
	}
	return OrdinarySet(o, key, v, receiver)
}

func argumentsDelete(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	name, mapped := mappedName(o, key)
	ok, c := OrdinaryDelete(o, key)
	if ok && mapped {
		delete(o.ParameterMap, mustIndex(key))
		_ = name
	}
	return ok, c
}

func mustIndex(key values.PropertyKey) int {
	idx, _ := arrayIndex(key)
	return int(idx)
}
