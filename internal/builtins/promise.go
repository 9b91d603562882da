package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/evaluator"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installPromise wires %Promise% (spec.md §4.9) on top of
// internal/ops/promise.go's PromiseData: the executor pattern, then/catch/
// finally, and the four combinators. resolveValue below reimplements the
// thenable-unwrapping half of EvalContext.resolveAwaited (internal/
// evaluator/function.go) at realm granularity, since a native Promise
// constructor call has no execution context to borrow one from.
func installPromise(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.PromisePrototype
	proto.Class = "Promise"

	construct := func(args []values.Value, newTarget values.Value) completion.Completion {
		executor, ok := arg(args, 0).(*object.Object)
		if !ok || !executor.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Promise resolver is not a function"))
		}
		p := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
		pd, _ := ops.PromiseDataOf(p)
		var alreadyResolved bool
		resolveFn := nativeFunction(rlm, "", 1, func(rlm *realm.Realm, this values.Value, a []values.Value) completion.Completion {
			if alreadyResolved {
				return completion.Returned(values.Undefined)
			}
			alreadyResolved = true
			resolveValue(rlm, pd, arg(a, 0))
			return completion.Returned(values.Undefined)
		})
		rejectFn := nativeFunction(rlm, "", 1, func(rlm *realm.Realm, this values.Value, a []values.Value) completion.Completion {
			if alreadyResolved {
				return completion.Returned(values.Undefined)
			}
			alreadyResolved = true
			pd.Reject(arg(a, 0))
			return completion.Returned(values.Undefined)
		})
		c := executor.Call(values.Undefined, []values.Value{resolveFn, rejectFn})
		if c.IsAbrupt() {
			if !alreadyResolved {
				pd.Reject(c.Value.(values.Value))
			}
		}
		return completion.Returned(p)
	}
	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		return completion.Thrown(ops.TypeErrorValue("Promise constructor cannot be invoked without 'new'"))
	}, construct, "strict", "normal")
	in.PromiseConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Promise", rlm)

	defineMethod(rlm, ctor, "resolve", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		v := arg(args, 0)
		if o, ok := v.(*object.Object); ok {
			if _, ok := ops.PromiseDataOf(o); ok {
				return completion.Returned(o)
			}
		}
		p := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
		pd, _ := ops.PromiseDataOf(p)
		resolveValue(rlm, pd, v)
		return completion.Returned(p)
	})
	defineMethod(rlm, ctor, "reject", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		p := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
		pd, _ := ops.PromiseDataOf(p)
		pd.Reject(arg(args, 0))
		return completion.Returned(p)
	})
	defineMethod(rlm, ctor, "all", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return combinator(rlm, proto, arg(args, 0), combinatorAll)
	})
	defineMethod(rlm, ctor, "allSettled", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return combinator(rlm, proto, arg(args, 0), combinatorAllSettled)
	})
	defineMethod(rlm, ctor, "race", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return combinator(rlm, proto, arg(args, 0), combinatorRace)
	})
	defineMethod(rlm, ctor, "any", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return combinator(rlm, proto, arg(args, 0), combinatorAny)
	})

	defineMethod(rlm, proto, "then", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		self, ok := this.(*object.Object)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("Promise.prototype.then called on a non-promise"))
		}
		pd, ok := ops.PromiseDataOf(self)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("Promise.prototype.then called on a non-promise"))
		}
		onFulfilled, _ := arg(args, 0).(*object.Object)
		onRejected, _ := arg(args, 1).(*object.Object)

		result := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
		resultPD, _ := ops.PromiseDataOf(result)
		pd.Then(
			func(v values.Value) { runReaction(rlm, resultPD, onFulfilled, v, true) },
			func(v values.Value) { runReaction(rlm, resultPD, onRejected, v, false) },
		)
		return completion.Returned(result)
	})
	defineMethod(rlm, proto, "catch", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		thenFn, c := completion.Q(ops.Get(this.(*object.Object), values.StringKey("then")))
		if c.IsAbrupt() {
			return c
		}
		return ops.Call(thenFn.(values.Value), this, []values.Value{values.Undefined, arg(args, 0)})
	})
	defineMethod(rlm, proto, "finally", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		onFinally, _ := arg(args, 0).(*object.Object)
		wrap := func(pass bool) *object.Object {
			return nativeFunction(rlm, "", 1, func(rlm *realm.Realm, _ values.Value, a []values.Value) completion.Completion {
				if onFinally != nil && onFinally.IsCallable() {
					c := onFinally.Call(values.Undefined, nil)
					if c.IsAbrupt() {
						return c
					}
				}
				if pass {
					return completion.Returned(arg(a, 0))
				}
				return completion.Thrown(arg(a, 0))
			})
		}
		thenFn, c := completion.Q(ops.Get(this.(*object.Object), values.StringKey("then")))
		if c.IsAbrupt() {
			return c
		}
		return ops.Call(thenFn.(values.Value), this, []values.Value{wrap(true), wrap(false)})
	})
}

// resolveValue implements spec's ResolvePromise: a thenable has its then
// method invoked with fresh resolve/reject callbacks, anything else
// fulfills directly.
func resolveValue(rlm *realm.Realm, pd *ops.PromiseData, v values.Value) {
	if o, ok := v.(*object.Object); ok {
		if otherPD, ok := ops.PromiseDataOf(o); ok {
			otherPD.Then(pd.Fulfill, pd.Reject)
			return
		}
		thenVal, c := completion.Q(ops.Get(o, values.StringKey("then")))
		if !c.IsAbrupt() {
			if thenFn, ok := thenVal.(values.Value).(*object.Object); ok && thenFn.IsCallable() {
				var settled bool
				resolveFn := nativeFunction(rlm, "", 1, func(rlm *realm.Realm, _ values.Value, a []values.Value) completion.Completion {
					if settled {
						return completion.Returned(values.Undefined)
					}
					settled = true
					resolveValue(rlm, pd, arg(a, 0))
					return completion.Returned(values.Undefined)
				})
				rejectFn := nativeFunction(rlm, "", 1, func(rlm *realm.Realm, _ values.Value, a []values.Value) completion.Completion {
					if settled {
						return completion.Returned(values.Undefined)
					}
					settled = true
					pd.Reject(arg(a, 0))
					return completion.Returned(values.Undefined)
				})
				c := thenFn.Call(o, []values.Value{resolveFn, rejectFn})
				if c.IsAbrupt() && !settled {
					settled = true
					pd.Reject(c.Value.(values.Value))
				}
				return
			}
		}
	}
	pd.Fulfill(v)
}

// runReaction implements the body of a PromiseReactionJob (spec.md §4.9):
// a missing handler simply forwards the settlement, a handler that throws
// rejects the derived promise, and a handler's return value is itself
// resolved (so returning a promise/thenable from .then chains correctly).
func runReaction(rlm *realm.Realm, resultPD *ops.PromiseData, handler *object.Object, v values.Value, wasFulfilled bool) {
	if handler == nil || !handler.IsCallable() {
		if wasFulfilled {
			resultPD.Fulfill(v)
		} else {
			resultPD.Reject(v)
		}
		return
	}
	c := handler.Call(values.Undefined, []values.Value{v})
	if c.IsAbrupt() {
		resultPD.Reject(c.Value.(values.Value))
		return
	}
	resolveValue(rlm, resultPD, c.Value.(values.Value))
}

type combinatorKind int

const (
	combinatorAll combinatorKind = iota
	combinatorAllSettled
	combinatorRace
	combinatorAny
)

// combinator implements Promise.all/allSettled/race/any by iterating the
// iterable once into a concrete slice (spec's GetIterator+IteratorStep
// loop collapses cleanly since this engine already exposes
// ops.IterableToList) and wiring every element's settlement into one
// shared result promise.
func combinator(rlm *realm.Realm, proto *object.Object, iterable values.Value, kind combinatorKind) completion.Completion {
	list, c := ops.IterableToList(iterable)
	if c.IsAbrupt() {
		return c
	}

	result := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
	resultPD, _ := ops.PromiseDataOf(result)

	if len(list) == 0 {
		switch kind {
		case combinatorAll, combinatorAllSettled:
			resultPD.Fulfill(object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, 0))
		case combinatorAny:
			resultPD.Reject(evaluator.NewErrorValue(rlm, "AggregateError", "all promises were rejected"))
		}
		return completion.Returned(result)
	}

	values_ := make([]values.Value, len(list))
	remaining := len(list)
	var done bool

	for idx, item := range list {
		idx := idx
		p := ops.NewPromiseObject(proto, rlm, enqueueFn(rlm))
		pd, _ := ops.PromiseDataOf(p)
		resolveValue(rlm, pd, item)

		pd.Then(func(v values.Value) {
			if done {
				return
			}
			switch kind {
			case combinatorAll:
				values_[idx] = v
				remaining--
				if remaining == 0 {
					done = true
					resultPD.Fulfill(toArray(rlm, values_))
				}
			case combinatorAllSettled:
				values_[idx] = settledRecord(rlm, "fulfilled", v)
				remaining--
				if remaining == 0 {
					done = true
					resultPD.Fulfill(toArray(rlm, values_))
				}
			case combinatorRace:
				done = true
				resultPD.Fulfill(v)
			case combinatorAny:
				done = true
				resultPD.Fulfill(v)
			}
		}, func(v values.Value) {
			if done {
				return
			}
			switch kind {
			case combinatorAll:
				done = true
				resultPD.Reject(v)
			case combinatorAllSettled:
				values_[idx] = settledRecord(rlm, "rejected", v)
				remaining--
				if remaining == 0 {
					done = true
					resultPD.Fulfill(toArray(rlm, values_))
				}
			case combinatorRace:
				done = true
				resultPD.Reject(v)
			case combinatorAny:
				values_[idx] = v
				remaining--
				if remaining == 0 {
					done = true
					resultPD.Reject(evaluator.NewErrorValue(rlm, "AggregateError", "all promises were rejected"))
				}
			}
		})
	}
	return completion.Returned(result)
}

func toArray(rlm *realm.Realm, vals []values.Value) *object.Object {
	out := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, uint32(len(vals)))
	for i, v := range vals {
		ops.CreateDataProperty(out, values.StringKey(itoa(i)), v)
	}
	return out
}

func settledRecord(rlm *realm.Realm, status string, v values.Value) *object.Object {
	o := object.NewObject(rlm.Intrinsics.ObjectPrototype, rlm)
	ops.CreateDataProperty(o, values.StringKey("status"), values.NewString(status))
	if status == "fulfilled" {
		ops.CreateDataProperty(o, values.StringKey("value"), v)
	} else {
		ops.CreateDataProperty(o, values.StringKey("reason"), v)
	}
	return o
}
