package object

import (
	"testing"

	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

type fakeRealm struct{ id int }

func (f fakeRealm) RealmID() int { return f.id }

func TestOrdinaryGetWalksPrototypeChain(t *testing.T) {
	proto := NewObject(values.Null, fakeRealm{1})
	proto.DefineOwnProperty(values.StringKey("greeting"), property.DataDescriptor(values.NewString("hi"), true, true, true))

	child := NewObject(proto, fakeRealm{1})
	result := child.Get_(values.StringKey("greeting"), child)
	if result.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %#v", result)
	}
	s, ok := result.Value.(values.String)
	if !ok || !s.Equal(values.NewString("hi")) {
		t.Fatalf("expected inherited value 'hi', got %#v", result.Value)
	}
}

func TestOrdinarySetCreatesOwnPropertyOnReceiver(t *testing.T) {
	proto := NewObject(values.Null, fakeRealm{1})
	proto.DefineOwnProperty(values.StringKey("x"), property.DataDescriptor(values.Number(1), true, true, true))

	child := NewObject(proto, fakeRealm{1})
	ok, c := child.Set_(values.StringKey("x"), values.Number(2), child)
	if !ok || c.IsAbrupt() {
		t.Fatalf("set through prototype chain should create an own data property")
	}
	if _, present := child.GetOwnProperty(values.StringKey("x")); !present {
		t.Fatalf("expected an own property 'x' on the receiver after set")
	}
	if _, present := proto.GetOwnProperty(values.StringKey("x")); !present {
		t.Fatalf("prototype's own property must be untouched")
	}
}

func TestNonConfigurableDeleteFails(t *testing.T) {
	o := NewObject(values.Null, fakeRealm{1})
	o.DefineOwnProperty(values.StringKey("x"), property.DataDescriptor(values.Number(1), true, true, false))
	ok, _ := o.Delete(values.StringKey("x"))
	if ok {
		t.Fatalf("deleting a non-configurable property must fail")
	}
}

func TestArrayLengthCoherence(t *testing.T) {
	a := NewArrayObject(values.Null, fakeRealm{1}, 0)
	ok, c := a.DefineOwnProperty(values.StringKey("3"), property.DataDescriptor(values.Number(1), true, true, true))
	if !ok || c.IsAbrupt() {
		t.Fatalf("defining index 3 must succeed")
	}
	if ArrayLength(a) != 4 {
		t.Fatalf("setting index 3 must raise length to 4, got %d", ArrayLength(a))
	}

	ok, c = a.DefineOwnProperty(lengthKey, property.Descriptor{Value: values.Number(0), HasValue: true})
	if !ok || c.IsAbrupt() {
		t.Fatalf("truncating length to 0 must succeed")
	}
	if _, present := a.GetOwnProperty(values.StringKey("3")); present {
		t.Fatalf("truncating length must delete index 3")
	}
}

func TestArrayNonConfigurableIndexBlocksTruncation(t *testing.T) {
	a := NewArrayObject(values.Null, fakeRealm{1}, 0)
	a.DefineOwnProperty(values.StringKey("0"), property.DataDescriptor(values.Number(1), true, true, false))
	a.DefineOwnProperty(values.StringKey("1"), property.DataDescriptor(values.Number(2), true, true, true))

	ok, c := a.DefineOwnProperty(lengthKey, property.Descriptor{Value: values.Number(0), HasValue: true})
	if ok || c.IsAbrupt() {
		t.Fatalf("truncation past a non-configurable index must fail, not throw")
	}
	if ArrayLength(a) != 1 {
		t.Fatalf("length must stop at the first non-deletable index + 1, got %d", ArrayLength(a))
	}
	if _, present := a.GetOwnProperty(values.StringKey("0")); !present {
		t.Fatalf("the non-configurable index must still be present")
	}
}

func TestStringExoticExposesCodeUnitIndices(t *testing.T) {
	s := NewStringObject(values.Null, fakeRealm{1}, values.NewString("ab"))
	desc, present := s.GetOwnProperty(values.StringKey("0"))
	if !present {
		t.Fatalf("expected index 0 to be a virtual own property")
	}
	ch, ok := desc.Value.(values.String)
	if !ok || ch.Go() != "a" {
		t.Fatalf("expected 'a' at index 0, got %#v", desc.Value)
	}
	keys := s.OwnPropertyKeys()
	if len(keys) < 3 { // "0", "1", "length"
		t.Fatalf("expected at least index keys + length, got %v", keys)
	}
}

func TestOrdinaryOwnPropertyKeysOrdering(t *testing.T) {
	o := NewObject(values.Null, fakeRealm{1})
	o.DefineOwnProperty(values.StringKey("b"), property.DataDescriptor(values.Number(1), true, true, true))
	o.DefineOwnProperty(values.StringKey("2"), property.DataDescriptor(values.Number(1), true, true, true))
	o.DefineOwnProperty(values.StringKey("a"), property.DataDescriptor(values.Number(1), true, true, true))
	o.DefineOwnProperty(values.StringKey("0"), property.DataDescriptor(values.Number(1), true, true, true))

	keys := o.OwnPropertyKeys()
	want := []string{"0", "2", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(keys), keys)
	}
	for i, w := range want {
		if keys[i].Str != w {
			t.Fatalf("key %d: want %q, got %q (full order: %v)", i, w, keys[i].Str, keys)
		}
	}
}
