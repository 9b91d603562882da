package builtins

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func arrayLength(rlm *realm.Realm, o *object.Object) (int, completion.Completion) {
	lenVal, c := completion.Q(ops.Get(o, values.StringKey("length")))
	if c.IsAbrupt() {
		return 0, c
	}
	n, c := completion.Q(ops.ToLength(lenVal.(values.Value)))
	if c.IsAbrupt() {
		return 0, c
	}
	return int(n.(values.Number)), completion.Empty
}

// installArray wires %Array% and %Array.prototype% per spec.md §4.6,
// grounded on the teacher's array-handling in
// internal/interp/builtins_arrays.go (per-element iteration driven by a
// length read, rather than a Go slice backing store — ecmax arrays are
// property-store-backed exotic objects, so every method here reads/writes
// through Get/Set like the teacher reads/writes its ArrayValue elements).
func installArray(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.ArrayPrototype

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		return arrayConstruct(rlm, args)
	}, func(args []values.Value, newTarget values.Value) completion.Completion {
		return arrayConstruct(rlm, args)
	}, "strict", "normal")
	in.ArrayConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Array", rlm)

	defineMethod(rlm, ctor, "isArray", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, ok := arg(args, 0).(*object.Object)
		return completion.Returned(values.BoolValue(ok && o.Class == "Array"))
	})
	defineMethod(rlm, ctor, "of", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		out := object.NewArrayObject(proto, rlm, uint32(len(args)))
		for i, v := range args {
			ops.CreateDataProperty(out, values.StringKey(itoa(i)), v)
		}
		return completion.Returned(out)
	})
	defineMethod(rlm, ctor, "from", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		src := arg(args, 0)
		mapFn, hasMap := arg(args, 1).(*object.Object)
		list, c := ops.IterableToList(src)
		if c.IsAbrupt() {
			srcObj, ok := src.(*object.Object)
			if !ok {
				return completion.Thrown(ops.TypeErrorValue("Array.from source is not iterable or array-like"))
			}
			list = arrayLikeToList(srcObj)
		}
		out := object.NewArrayObject(proto, rlm, uint32(len(list)))
		for i, v := range list {
			if hasMap && mapFn.IsCallable() {
				r, c := completion.Q(mapFn.Call(values.Undefined, []values.Value{v, values.Number(i)}))
				if c.IsAbrupt() {
					return c
				}
				v = r.(values.Value)
			}
			ops.CreateDataProperty(out, values.StringKey(itoa(i)), v)
		}
		return completion.Returned(out)
	})

	defineMethod(rlm, proto, "push", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		for _, v := range args {
			if c := ops.Set(o, values.StringKey(itoa(n)), v, true); c.IsAbrupt() {
				return c
			}
			n++
		}
		if c := ops.Set(o, values.StringKey("length"), values.Number(n), true); c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.Number(n))
	})

	defineMethod(rlm, proto, "pop", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		if n == 0 {
			return completion.Returned(values.Undefined)
		}
		key := values.StringKey(itoa(n - 1))
		v, c := completion.Q(ops.Get(o, key))
		if c.IsAbrupt() {
			return c
		}
		o.Delete(key)
		if c := ops.Set(o, values.StringKey("length"), values.Number(n-1), true); c.IsAbrupt() {
			return c
		}
		return completion.Returned(v.(values.Value))
	})

	defineMethod(rlm, proto, "shift", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		if n == 0 {
			return completion.Returned(values.Undefined)
		}
		first, c := completion.Q(ops.Get(o, values.StringKey("0")))
		if c.IsAbrupt() {
			return c
		}
		for i := 1; i < n; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			if c := ops.Set(o, values.StringKey(itoa(i-1)), v.(values.Value), true); c.IsAbrupt() {
				return c
			}
		}
		o.Delete(values.StringKey(itoa(n - 1)))
		if c := ops.Set(o, values.StringKey("length"), values.Number(n-1), true); c.IsAbrupt() {
			return c
		}
		return completion.Returned(first.(values.Value))
	})

	defineMethod(rlm, proto, "unshift", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		k := len(args)
		for i := n - 1; i >= 0; i-- {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			if c := ops.Set(o, values.StringKey(itoa(i+k)), v.(values.Value), true); c.IsAbrupt() {
				return c
			}
		}
		for i, v := range args {
			if c := ops.Set(o, values.StringKey(itoa(i)), v, true); c.IsAbrupt() {
				return c
			}
		}
		if c := ops.Set(o, values.StringKey("length"), values.Number(n+k), true); c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.Number(n + k))
	})

	defineMethod(rlm, proto, "slice", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		start, c := relativeIndex(args, 0, n, 0)
		if c.IsAbrupt() {
			return c
		}
		end, c := relativeIndex(args, 1, n, n)
		if c.IsAbrupt() {
			return c
		}
		out := object.NewArrayObject(proto, rlm, 0)
		idx := 0
		for i := start; i < end; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			ops.CreateDataProperty(out, values.StringKey(itoa(idx)), v.(values.Value))
			idx++
		}
		return completion.Returned(out)
	})

	defineMethod(rlm, proto, "splice", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		start, c := relativeIndex(args, 0, n, 0)
		if c.IsAbrupt() {
			return c
		}
		deleteCount := n - start
		if len(args) > 1 {
			dc, c := completion.Q(ops.ToInteger(arg(args, 1)))
			if c.IsAbrupt() {
				return c
			}
			deleteCount = clampInt(int(dc.(values.Number)), 0, n-start)
		}
		removed := object.NewArrayObject(proto, rlm, 0)
		for i := 0; i < deleteCount; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(start+i))))
			if c.IsAbrupt() {
				return c
			}
			ops.CreateDataProperty(removed, values.StringKey(itoa(i)), v.(values.Value))
		}
		items := args
		if len(items) > 2 {
			items = items[2:]
		} else {
			items = nil
		}
		tail := make([]values.Value, 0, n-start-deleteCount)
		for i := start + deleteCount; i < n; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			tail = append(tail, v.(values.Value))
		}
		idx := start
		for _, v := range items {
			if c := ops.Set(o, values.StringKey(itoa(idx)), v, true); c.IsAbrupt() {
				return c
			}
			idx++
		}
		for _, v := range tail {
			if c := ops.Set(o, values.StringKey(itoa(idx)), v, true); c.IsAbrupt() {
				return c
			}
			idx++
		}
		newLen := idx
		for i := newLen; i < n; i++ {
			o.Delete(values.StringKey(itoa(i)))
		}
		if c := ops.Set(o, values.StringKey("length"), values.Number(newLen), true); c.IsAbrupt() {
			return c
		}
		return completion.Returned(removed)
	})

	defineMethod(rlm, proto, "concat", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		out := object.NewArrayObject(proto, rlm, 0)
		idx := 0
		appendAll := func(src values.Value) completion.Completion {
			if srcObj, ok := src.(*object.Object); ok && srcObj.Class == "Array" {
				n, c := arrayLength(rlm, srcObj)
				if c.IsAbrupt() {
					return c
				}
				for i := 0; i < n; i++ {
					v, c := completion.Q(ops.Get(srcObj, values.StringKey(itoa(i))))
					if c.IsAbrupt() {
						return c
					}
					ops.CreateDataProperty(out, values.StringKey(itoa(idx)), v.(values.Value))
					idx++
				}
				return completion.Empty
			}
			ops.CreateDataProperty(out, values.StringKey(itoa(idx)), src)
			idx++
			return completion.Empty
		}
		if c := appendAll(o); c.IsAbrupt() {
			return c
		}
		for _, a := range args {
			if c := appendAll(a); c.IsAbrupt() {
				return c
			}
		}
		return completion.Returned(out)
	})

	defineMethod(rlm, proto, "join", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		sep := ","
		if arg(args, 0) != values.Undefined {
			s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
			if c.IsAbrupt() {
				return c
			}
			sep = s.(values.String).Go()
		}
		out := ""
		for i := 0; i < n; i++ {
			if i > 0 {
				out += sep
			}
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			if v.(values.Value) == values.Undefined || v.(values.Value) == values.Null {
				continue
			}
			s, c := completion.Q(ops.ToStringValue(v.(values.Value)))
			if c.IsAbrupt() {
				return c
			}
			out += s.(values.String).Go()
		}
		return completion.Returned(values.NewString(out))
	})

	defineMethod(rlm, proto, "indexOf", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arraySearch(rlm, this, args, false)
	})
	defineMethod(rlm, proto, "includes", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arraySearch(rlm, this, args, true)
	})

	defineMethod(rlm, proto, "forEach", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				if _, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o})); c.IsAbrupt() {
					return c
				}
			}
			return completion.Returned(values.Undefined)
		})
	})

	defineMethod(rlm, proto, "map", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			out := object.NewArrayObject(proto, rlm, uint32(n))
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				r, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o}))
				if c.IsAbrupt() {
					return c
				}
				ops.CreateDataProperty(out, values.StringKey(itoa(i)), r.(values.Value))
			}
			return completion.Returned(out)
		})
	})

	defineMethod(rlm, proto, "filter", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			out := object.NewArrayObject(proto, rlm, 0)
			idx := 0
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				r, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o}))
				if c.IsAbrupt() {
					return c
				}
				if ops.ToBoolean(r.(values.Value)) {
					ops.CreateDataProperty(out, values.StringKey(itoa(idx)), v.(values.Value))
					idx++
				}
			}
			return completion.Returned(out)
		})
	})

	defineMethod(rlm, proto, "find", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				r, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o}))
				if c.IsAbrupt() {
					return c
				}
				if ops.ToBoolean(r.(values.Value)) {
					return completion.Returned(v.(values.Value))
				}
			}
			return completion.Returned(values.Undefined)
		})
	})

	defineMethod(rlm, proto, "some", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				r, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o}))
				if c.IsAbrupt() {
					return c
				}
				if ops.ToBoolean(r.(values.Value)) {
					return completion.Returned(values.True)
				}
			}
			return completion.Returned(values.False)
		})
	})

	defineMethod(rlm, proto, "every", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return arrayIterate(rlm, this, args, func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion {
			for i := 0; i < n; i++ {
				v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return c
				}
				r, c := completion.Q(fn.Call(thisArg, []values.Value{v.(values.Value), values.Number(i), o}))
				if c.IsAbrupt() {
					return c
				}
				if !ops.ToBoolean(r.(values.Value)) {
					return completion.Returned(values.False)
				}
			}
			return completion.Returned(values.True)
		})
	})

	defineMethod(rlm, proto, "reduce", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		fn, ok := arg(args, 0).(*object.Object)
		if !ok || !fn.IsCallable() {
			return completion.Thrown(ops.TypeErrorValue("Array.prototype.reduce callback is not a function"))
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		i := 0
		var acc values.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if n == 0 {
				return completion.Thrown(ops.TypeErrorValue("reduce of empty array with no initial value"))
			}
			v, c := completion.Q(ops.Get(o, values.StringKey("0")))
			if c.IsAbrupt() {
				return c
			}
			acc = v.(values.Value)
			i = 1
		}
		for ; i < n; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			r, c := completion.Q(fn.Call(values.Undefined, []values.Value{acc, v.(values.Value), values.Number(i), o}))
			if c.IsAbrupt() {
				return c
			}
			acc = r.(values.Value)
		}
		return completion.Returned(acc)
	})

	defineMethod(rlm, proto, "reverse", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vi, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			vj, c := completion.Q(ops.Get(o, values.StringKey(itoa(j))))
			if c.IsAbrupt() {
				return c
			}
			if c := ops.Set(o, values.StringKey(itoa(i)), vj.(values.Value), true); c.IsAbrupt() {
				return c
			}
			if c := ops.Set(o, values.StringKey(itoa(j)), vi.(values.Value), true); c.IsAbrupt() {
				return c
			}
		}
		return completion.Returned(o)
	})

	defineMethod(rlm, proto, "sort", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		o, c := thisObject(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := arrayLength(rlm, o)
		if c.IsAbrupt() {
			return c
		}
		items := make([]values.Value, n)
		for i := 0; i < n; i++ {
			v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				return c
			}
			items[i] = v.(values.Value)
		}
		cmpFn, _ := arg(args, 0).(*object.Object)
		var sortErr completion.Completion
		less := func(a, b values.Value) bool {
			if sortErr.IsAbrupt() {
				return false
			}
			if cmpFn != nil && cmpFn.IsCallable() {
				r, c := completion.Q(cmpFn.Call(values.Undefined, []values.Value{a, b}))
				if c.IsAbrupt() {
					sortErr = c
					return false
				}
				n, c := completion.Q(ops.ToNumber(r.(values.Value)))
				if c.IsAbrupt() {
					sortErr = c
					return false
				}
				return float64(n.(values.Number)) < 0
			}
			as, c := completion.Q(ops.ToStringValue(a))
			if c.IsAbrupt() {
				sortErr = c
				return false
			}
			bs, c := completion.Q(ops.ToStringValue(b))
			if c.IsAbrupt() {
				sortErr = c
				return false
			}
			return as.(values.String).Less(bs.(values.String))
		}
		insertionSort(items, less)
		if sortErr.IsAbrupt() {
			return sortErr
		}
		for i, v := range items {
			if c := ops.Set(o, values.StringKey(itoa(i)), v, true); c.IsAbrupt() {
				return c
			}
		}
		return completion.Returned(o)
	})

	defineMethod(rlm, proto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		joinFn, c := completion.Q(ops.Get(proto, values.StringKey("join")))
		if c.IsAbrupt() {
			return c
		}
		return joinFn.(*object.Object).Call(this, nil)
	})
}

func arrayConstruct(rlm *realm.Realm, args []values.Value) completion.Completion {
	proto := rlm.Intrinsics.ArrayPrototype
	if len(args) == 1 {
		if n, ok := args[0].(values.Number); ok {
			f := float64(n)
			if f < 0 || f != float64(uint32(f)) {
				return completion.Thrown(ops.RangeErrorValue("invalid array length"))
			}
			return completion.Returned(object.NewArrayObject(proto, rlm, uint32(f)))
		}
	}
	out := object.NewArrayObject(proto, rlm, uint32(len(args)))
	for i, v := range args {
		ops.CreateDataProperty(out, values.StringKey(itoa(i)), v)
	}
	return completion.Returned(out)
}

func arrayIterate(rlm *realm.Realm, this values.Value, args []values.Value, run func(o *object.Object, n int, fn *object.Object, thisArg values.Value) completion.Completion) completion.Completion {
	o, c := thisObject(rlm, this)
	if c.IsAbrupt() {
		return c
	}
	fn, ok := arg(args, 0).(*object.Object)
	if !ok || !fn.IsCallable() {
		return completion.Thrown(ops.TypeErrorValue("callback is not a function"))
	}
	n, c := arrayLength(rlm, o)
	if c.IsAbrupt() {
		return c
	}
	return run(o, n, fn, arg(args, 1))
}

func arraySearch(rlm *realm.Realm, this values.Value, args []values.Value, useSameValueZero bool) completion.Completion {
	o, c := thisObject(rlm, this)
	if c.IsAbrupt() {
		return c
	}
	n, c := arrayLength(rlm, o)
	if c.IsAbrupt() {
		return c
	}
	target := arg(args, 0)
	for i := 0; i < n; i++ {
		v, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
		if c.IsAbrupt() {
			return c
		}
		match := false
		if useSameValueZero {
			match = ops.StrictEquals(v.(values.Value), target) || (isNaNValue(v.(values.Value)) && isNaNValue(target))
		} else {
			match = ops.StrictEquals(v.(values.Value), target)
		}
		if match {
			if useSameValueZero {
				return completion.Returned(values.True)
			}
			return completion.Returned(values.Number(i))
		}
	}
	if useSameValueZero {
		return completion.Returned(values.False)
	}
	return completion.Returned(values.Number(-1))
}

func isNaNValue(v values.Value) bool {
	n, ok := v.(values.Number)
	return ok && float64(n) != float64(n)
}

func relativeIndex(args []values.Value, pos, length, def int) (int, completion.Completion) {
	if pos >= len(args) || args[pos] == values.Undefined {
		return clampInt(def, 0, length), completion.Empty
	}
	n, c := completion.Q(ops.ToInteger(args[pos]))
	if c.IsAbrupt() {
		return 0, c
	}
	idx := int(n.(values.Number))
	if idx < 0 {
		idx += length
	}
	return clampInt(idx, 0, length), completion.Empty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// insertionSort is a stable O(n^2) sort, sufficient for the array sizes a
// tree-walking interpreter realistically handles and simpler than wiring
// Go's sort.Interface through a comparator that can itself throw.
func insertionSort(items []values.Value, less func(a, b values.Value) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
