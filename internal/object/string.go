package object

import (
	"strconv"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// NewStringObject creates a String-exotic wrapper object (`new String("x")`,
// or the boxed `this` inside a non-strict string method). Its
// [[GetOwnProperty]], [[OwnPropertyKeys]], and [[HasProperty]] expose
// code-unit indices as virtual own properties (spec.md §4.3).
func NewStringObject(proto values.Value, realm RealmHandle, s values.String) *Object {
	o := &Object{proto: proto, extensible: true, props: newStore(), Realm: realm, Class: "String", StringData: s}
	table := *OrdinaryMethodTable()
	table.GetOwnProperty = StringGetOwnProperty
	table.HasProperty = StringHasProperty
	table.OwnPropertyKeys = StringOwnPropertyKeys
	o.Methods = &table
	o.store().set(values.StringKey(lengthKeyStr), property.DataDescriptor(values.Number(s.Length()), false, false, false))
	return o
}

func stringIndex(o *Object, key values.PropertyKey) (int, bool) {
	if key.IsSym {
		return 0, false
	}
	idx, ok := arrayIndex(key)
	if !ok || int(idx) >= o.StringData.Length() {
		return 0, false
	}
	return int(idx), true
}

func StringGetOwnProperty(o *Object, key values.PropertyKey) (property.Descriptor, bool) {
	if idx, ok := stringIndex(o, key); ok {
		ch := values.FromCodeUnits([]uint16{o.StringData.CharCodeAt(idx)})
		return property.DataDescriptor(ch, false, true, false), true
	}
	return OrdinaryGetOwnProperty(o, key)
}

func StringHasProperty(o *Object, key values.PropertyKey) (bool, completion.Completion) {
	if _, ok := stringIndex(o, key); ok {
		return true, completion.Empty
	}
	return OrdinaryHasProperty(o, key)
}

func StringOwnPropertyKeys(o *Object) []values.PropertyKey {
	keys := make([]values.PropertyKey, 0, o.StringData.Length()+2)
	for i := 0; i < o.StringData.Length(); i++ {
		keys = append(keys, values.StringKey(strconv.Itoa(i)))
	}
	rest := OrdinaryOwnPropertyKeys(o)
	// OrdinaryOwnPropertyKeys already orders its own (non-index) keys
	// correctly; index keys for the wrapped characters always sort first.
	return append(keys, rest...)
}
