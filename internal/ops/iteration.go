package ops

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// IteratorHint selects @@iterator vs @@asyncIterator (spec.md §4.6).
type IteratorHint int

const (
	SyncIterator IteratorHint = iota
	AsyncIterator
)

// IteratorRecord is spec's {iterator, nextMethod, done}.
type IteratorRecord struct {
	Iterator  *object.Object
	NextMethod *object.Object
	Done      bool
}

// GetIterator implements spec.md §4.6: obtain @@iterator (or
// @@asyncIterator); invoke it; validate the result is an Object.
func GetIterator(obj values.Value, hint IteratorHint) completion.Completion {
	sym := values.SymIterator
	if hint == AsyncIterator {
		sym = values.SymAsyncIterator
	}
	o, isObj := obj.(*object.Object)
	if !isObj {
		// Primitive iterables (strings) must already have been wrapped by
		// the caller via ops.ToObject, which needs a realm-bound
		// prototype object this package does not have access to — the
		// evaluator wraps before calling GetIterator (spec's GetIterator
		// step 1 itself calls GetV, which tolerates primitives because
		// property lookup on a primitive auto-boxes; this engine makes
		// that boxing an explicit caller responsibility instead).
		return completion.Thrown(TypeErrorValue("value is not iterable"))
	}
	methodVal := o.Get_(values.SymbolKey(sym), o)
	if methodVal.IsAbrupt() {
		return methodVal
	}
	method, _ := methodVal.Value.(values.Value).(*object.Object)
	if method == nil || !method.IsCallable() {
		return completion.Thrown(TypeErrorValue("value is not iterable"))
	}
	iterVal := method.Call(o, nil)
	if iterVal.IsAbrupt() {
		return iterVal
	}
	iter, ok := iterVal.Value.(values.Value).(*object.Object)
	if !ok {
		return completion.Thrown(TypeErrorValue("iterator result is not an object"))
	}
	nextVal := iter.Get_(values.StringKey("next"), iter)
	if nextVal.IsAbrupt() {
		return nextVal
	}
	next, ok := nextVal.Value.(values.Value).(*object.Object)
	if !ok || !next.IsCallable() {
		return completion.Thrown(TypeErrorValue("iterator.next is not a function"))
	}
	return completion.Ok(&IteratorRecord{Iterator: iter, NextMethod: next})
}

// IteratorNext calls iter.next(value) (value may be nil meaning "no
// argument") and validates the result is an Object (spec's IteratorNext).
func IteratorNext(iter *IteratorRecord, value values.Value) completion.Completion {
	var args []values.Value
	if value != nil {
		args = []values.Value{value}
	}
	res := iter.NextMethod.Call(iter.Iterator, args)
	if res.IsAbrupt() {
		return res
	}
	resultObj, ok := res.Value.(values.Value).(*object.Object)
	if !ok {
		return completion.Thrown(TypeErrorValue("iterator result is not an object"))
	}
	return completion.Ok(resultObj)
}

// IteratorComplete reads .done off an iterator result object.
func IteratorComplete(result *object.Object) completion.Completion {
	d := result.Get_(values.StringKey("done"), result)
	if d.IsAbrupt() {
		return d
	}
	return completion.Ok(values.BoolValue(ToBoolean(d.Value.(values.Value))))
}

// IteratorValue reads .value off an iterator result object.
func IteratorValue(result *object.Object) completion.Completion {
	return result.Get_(values.StringKey("value"), result)
}

// IteratorStep combines IteratorNext+IteratorComplete: returns (nil, normal
// empty) when done, else the result object (spec's IteratorStep).
func IteratorStep(iter *IteratorRecord) (*object.Object, completion.Completion) {
	resV, c := Q(IteratorNext(iter, nil))
	if c.IsAbrupt() {
		return nil, c
	}
	result := resV.(*object.Object)
	doneV, c := Q(IteratorComplete(result))
	if c.IsAbrupt() {
		return nil, c
	}
	if doneV.(values.Value) == values.True {
		return nil, completion.Empty
	}
	return result, completion.Empty
}

// IteratorClose implements spec's IteratorClose: always runs on abrupt
// exits from for-of / destructuring; `completion` is the completion that
// triggered the close (if abrupt, IteratorClose's own errors are
// swallowed so the original completion propagates — spec.md §4.6: "Close
// always runs on abrupt exits ... and may itself throw" only when the
// triggering completion was itself normal).
func IteratorClose(iter *IteratorRecord, triggering completion.Completion) completion.Completion {
	returnVal := iter.Iterator.Get_(values.StringKey("return"), iter.Iterator)
	if returnVal.IsAbrupt() {
		if triggering.IsAbrupt() {
			return triggering
		}
		return returnVal
	}
	ret, _ := returnVal.Value.(values.Value).(*object.Object)
	if ret == nil {
		return triggering
	}
	innerRes := ret.Call(iter.Iterator, nil)
	if triggering.IsAbrupt() {
		return triggering
	}
	if innerRes.IsAbrupt() {
		return innerRes
	}
	if _, ok := innerRes.Value.(values.Value).(*object.Object); !ok {
		return completion.Thrown(TypeErrorValue("iterator close result is not an object"))
	}
	return triggering
}

// IterableToList drains an iterable into a Go slice, used for spread
// arguments/elements and Array.from. It takes no per-element callback and
// closes the iterator (IteratorClose) only when reading a result's value
// throws.
func IterableToList(obj values.Value) ([]values.Value, completion.Completion) {
	recV, c := Q(GetIterator(obj, SyncIterator))
	if c.IsAbrupt() {
		return nil, c
	}
	rec := recV.(*IteratorRecord)
	var out []values.Value
	for {
		result, c := IteratorStep(rec)
		if c.IsAbrupt() {
			return nil, c
		}
		if result == nil {
			return out, completion.Empty
		}
		v, c := Q(IteratorValue(result))
		if c.IsAbrupt() {
			return nil, IteratorClose(rec, c)
		}
		out = append(out, v.(values.Value))
	}
}
