package object

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

const lengthKeyStr = "length"

var lengthKey = values.StringKey(lengthKeyStr)

// NewArrayObject creates an array-exotic object with the required "length"
// own property (spec's ArrayCreate).
func NewArrayObject(proto values.Value, realm RealmHandle, length uint32) *Object {
	o := &Object{proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "Array"}
	table := *OrdinaryMethodTable()
	table.DefineOwnProperty = ArrayDefineOwnProperty
	o.Methods = &table
	o.store().set(lengthKey, property.DataDescriptor(values.Number(length), true, false, false))
	return o
}

// ArrayLength reads the current "length" own property as a uint32.
func ArrayLength(o *Object) uint32 {
	desc, _ := o.store().get(lengthKey)
	return uint32(desc.Value.(values.Number))
}

// ArrayDefineOwnProperty implements spec.md §4.2's array-exotic override:
// defining "length" enforces array-index coherence (truncating/deleting
// indices >= the new length, aborting partway through on a non-configurable
// index); defining an integer-index property past the current length raises
// length to index+1 (spec.md §8 invariant 3: "every integer-indexed own
// property key k of A satisfies k < A.length").
func ArrayDefineOwnProperty(o *Object, key values.PropertyKey, desc property.Descriptor) (bool, completion.Completion) {
	if !key.IsSym && key.Str == lengthKeyStr {
		return arraySetLength(o, desc)
	}
	if idx, ok := arrayIndex(key); ok {
		lenDesc, _ := o.store().get(lengthKey)
		oldLen := uint32(lenDesc.Value.(values.Number))
		if idx >= oldLen && !lenDesc.Writable {
			return false, completion.Empty
		}
		ok, c := OrdinaryDefineOwnProperty(o, key, desc)
		if c.IsAbrupt() || !ok {
			return ok, c
		}
		if idx >= oldLen {
			newLenDesc := lenDesc
			newLenDesc.Value = values.Number(idx + 1)
			o.store().set(lengthKey, newLenDesc)
		}
		return true, completion.Empty
	}
	return OrdinaryDefineOwnProperty(o, key, desc)
}

func arraySetLength(o *Object, desc property.Descriptor) (bool, completion.Completion) {
	if !desc.HasValue {
		return OrdinaryDefineOwnProperty(o, lengthKey, desc)
	}
	newLenNum, ok := desc.Value.(values.Number)
	newLen := uint32(newLenNum)
	if !ok || float64(newLen) != float64(newLenNum) || newLenNum < 0 {
		return false, completion.Thrown(RangeErrorValue("invalid array length"))
	}

	lenDesc, _ := o.store().get(lengthKey)
	oldLen := uint32(lenDesc.Value.(values.Number))

	newLenDesc := desc
	newLenDesc.Value = values.Number(newLen)

	if newLen >= oldLen {
		return OrdinaryDefineOwnProperty(o, lengthKey, newLenDesc)
	}
	if !lenDesc.Writable {
		return false, completion.Empty
	}

	writableBefore := true
	if newLenDesc.HasWritable && !newLenDesc.Writable {
		writableBefore = false
		newLenDesc.Writable = true
	}

	ok2, c := OrdinaryDefineOwnProperty(o, lengthKey, newLenDesc)
	if c.IsAbrupt() || !ok2 {
		return ok2, c
	}

	for idx := oldLen; idx > newLen; idx-- {
		deleteKey := values.StringKey(formatUint32(idx - 1))
		deleted, c := o.Delete(deleteKey)
		if c.IsAbrupt() {
			return false, c
		}
		if !deleted {
			stopLenDesc, _ := o.store().get(lengthKey)
			stopLenDesc.Value = values.Number(idx)
			if !writableBefore {
				stopLenDesc.Writable = false
			}
			o.store().set(lengthKey, stopLenDesc)
			return false, completion.Empty
		}
	}

	if !writableBefore {
		finalDesc, _ := o.store().get(lengthKey)
		finalDesc.Writable = false
		o.store().set(lengthKey, finalDesc)
	}
	return true, completion.Empty
}

func formatUint32(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
