package completion

import "testing"

func TestEmptyIsNormal(t *testing.T) {
	if !Empty.IsNormal() || Empty.IsAbrupt() {
		t.Fatalf("Empty completion must be Normal")
	}
	if Empty.Value != nil {
		t.Fatalf("Empty completion must carry no value")
	}
}

func TestZeroValueIsNormal(t *testing.T) {
	var c Completion
	if c.Type != Normal {
		t.Fatalf("zero-valued Completion must default to Normal, got %v", c.Type)
	}
}

func TestQPropagatesAbrupt(t *testing.T) {
	abrupt := Thrown("boom")
	v, c := Q(abrupt)
	if v != nil || !c.IsAbrupt() || c.Type != Throw {
		t.Fatalf("Q must propagate the abrupt completion unchanged, got %#v", c)
	}
}

func TestQPassesNormalValueThrough(t *testing.T) {
	v, c := Q(Ok(42))
	if c.IsAbrupt() {
		t.Fatalf("Q must not flag a normal completion as abrupt")
	}
	if v != 42 {
		t.Fatalf("Q must return the carried value, got %v", v)
	}
}

func TestXPanicsOnAbrupt(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("X must panic when asserting a completion that is actually abrupt")
		}
	}()
	X(Thrown("unexpected"))
}

func TestXReturnsValueOnNormal(t *testing.T) {
	if X(Ok("value")) != "value" {
		t.Fatalf("X must return the carried value for a normal completion")
	}
}

func TestCompletionTypeString(t *testing.T) {
	cases := map[Type]string{
		Normal: "normal", Break: "break", Continue: "continue",
		Return: "return", Throw: "throw",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("Type(%d).String() = %q, want %q", typ, got, want)
		}
	}
}
