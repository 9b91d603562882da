package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Reference is spec.md §4.7's internal lvalue carrier: never exposed to
// script, produced only by identifier and member expressions, and
// consumed by GetValue/PutValue. Exactly one of Env (an identifier
// reference) or Base (a property reference) is set; Unresolvable marks an
// identifier found in no environment record on the chain, which is not
// itself an error until something calls GetValue or a non-typeof PutValue
// on it (spec's ResolveBinding / unresolvable reference rules).
type Reference struct {
	Env           environment.Record // set for an identifier reference
	Name          string
	Base          values.Value // set for a property reference (object.[[Get]]/[[Set]] receiver)
	Key           values.PropertyKey
	Strict        bool
	Unresolvable  bool
	ThisValue     values.Value // for super.prop: the running this, distinct from Base (the super-base)
	IsSuper       bool
}

// ResolveBinding implements spec's ResolveBinding: walk the lexical
// environment chain from the running context outward, returning the first
// record that HasBinding(name), or an Unresolvable reference if none do.
func (ec *EvalContext) ResolveBinding(name string) Reference {
	for env := ec.Lexical; env != nil; env = env.Outer() {
		if env.HasBinding(name) {
			return Reference{Env: env, Name: name, Strict: ec.Strict}
		}
	}
	return Reference{Name: name, Strict: ec.Strict, Unresolvable: true}
}

// GetValue implements spec's GetValue: dereference an identifier
// reference through its environment record, or a property reference
// through [[Get]].
func (ec *EvalContext) GetValue(ref Reference) completion.Completion {
	if ref.Env != nil {
		return ec.realize(ref.Env.GetBindingValue(ref.Name, ref.Strict))
	}
	if ref.Unresolvable {
		return ec.ThrowReferenceError(ref.Name + " is not defined")
	}
	obj, ok := ref.Base.(*object.Object)
	if !ok {
		prim, c := ops.Q(ops.ToObject(ec.Realm, ref.Base))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		obj = prim.(values.Value).(*object.Object)
	}
	receiver := ref.Base
	if ref.IsSuper {
		receiver = ref.ThisValue
	}
	return ec.realize(obj.Get_(ref.Key, receiver))
}

// PutValue implements spec's PutValue.
func (ec *EvalContext) PutValue(ref Reference, v values.Value) completion.Completion {
	if ref.Env != nil {
		return ec.realize(ref.Env.SetMutableBinding(ref.Name, v, ref.Strict))
	}
	if ref.Unresolvable {
		if ref.Strict {
			return ec.ThrowReferenceError(ref.Name + " is not defined")
		}
		ec.Realm.GlobalEnv.CreateGlobalVarBinding(ref.Name, true)
		return ec.realize(ec.Realm.GlobalEnv.SetMutableBinding(ref.Name, v, false))
	}
	obj, ok := ref.Base.(*object.Object)
	if !ok {
		prim, c := ops.Q(ops.ToObject(ec.Realm, ref.Base))
		if ac, bad := ec.abrupt(c); bad {
			return ac
		}
		obj = prim.(values.Value).(*object.Object)
	}
	receiver := ref.Base
	if ref.IsSuper {
		receiver = ref.ThisValue
	}
	ok2, c := obj.Set_(ref.Key, v, receiver)
	if ac, bad := ec.abrupt(c); bad {
		return ac
	}
	if !ok2 && ref.Strict {
		return ec.ThrowTypeError("cannot assign to property " + ref.Key.String())
	}
	return completion.Empty
}
