package builtins

import (
	"testing"

	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func newTestRealm() *realm.Realm {
	rlm := realm.New()
	rlm.Bootstrap()
	rlm.Agent = agent.New(nil)
	Install(rlm)
	return rlm
}

func callGlobal(rlm *realm.Realm, name string, args ...values.Value) completion.Completion {
	fnVal, c := completion.Q(ops.Get(rlm.GlobalObject, values.StringKey(name)))
	if c.IsAbrupt() {
		return c
	}
	return ops.Call(fnVal.(values.Value), values.Undefined, args)
}

func TestEncodeURIComponentEscapesReserved(t *testing.T) {
	rlm := newTestRealm()
	c := callGlobal(rlm, "encodeURIComponent", values.NewString("a b&c"))
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %#v", c)
	}
	got := c.Value.(values.String).Go()
	if got != "a%20b%26c" {
		t.Fatalf("encodeURIComponent(\"a b&c\") = %q, want \"a%%20b%%26c\"", got)
	}
}

func TestEncodeURIKeepsReservedChars(t *testing.T) {
	rlm := newTestRealm()
	c := callGlobal(rlm, "encodeURI", values.NewString("http://a.com/x y"))
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %#v", c)
	}
	got := c.Value.(values.String).Go()
	if got != "http://a.com/x%20y" {
		t.Fatalf("encodeURI result = %q", got)
	}
}

func TestDecodeURIComponentRoundTrips(t *testing.T) {
	rlm := newTestRealm()
	enc := callGlobal(rlm, "encodeURIComponent", values.NewString("héllo world!"))
	if enc.IsAbrupt() {
		t.Fatalf("encode failed: %#v", enc)
	}
	dec := callGlobal(rlm, "decodeURIComponent", enc.Value.(values.Value))
	if dec.IsAbrupt() {
		t.Fatalf("decode failed: %#v", dec)
	}
	got := dec.Value.(values.String).Go()
	if got != "héllo world!" {
		t.Fatalf("round trip = %q, want original", got)
	}
}

func TestDecodeURIComponentRejectsMalformedSequence(t *testing.T) {
	rlm := newTestRealm()
	c := callGlobal(rlm, "decodeURIComponent", values.NewString("%zz"))
	if !c.IsAbrupt() || c.Type != completion.Throw {
		t.Fatalf("expected a thrown URIError for a malformed escape, got %#v", c)
	}
}

func TestDecodeURIComponentRejectsTruncatedEscape(t *testing.T) {
	rlm := newTestRealm()
	c := callGlobal(rlm, "decodeURIComponent", values.NewString("%4"))
	if !c.IsAbrupt() || c.Type != completion.Throw {
		t.Fatalf("expected a thrown URIError for a truncated escape, got %#v", c)
	}
}
