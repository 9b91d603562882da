package esvm

import (
	"testing"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/module"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func newTestRealm(t *testing.T) *Realm {
	t.Helper()
	a, err := NewAgent(nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return NewRealm(a, RealmOptions{})
}

func TestEvaluateScriptReturnsNormalValue(t *testing.T) {
	r := newTestRealm(t)
	c := r.EvaluateScript("1 + 2;", "test.js")
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %#v", c)
	}
}

func TestEvaluateScriptPropagatesThrow(t *testing.T) {
	r := newTestRealm(t)
	c := r.EvaluateScript("throw new TypeError('boom');", "test.js")
	if !c.IsAbrupt() || c.Type != completion.Throw {
		t.Fatalf("expected a throw completion, got %#v", c)
	}
}

func TestEvaluateScriptSyntaxErrorBecomesThrow(t *testing.T) {
	r := newTestRealm(t)
	c := r.EvaluateScript("var = ;", "bad.js")
	if !c.IsAbrupt() || c.Type != completion.Throw {
		t.Fatalf("expected malformed source to surface as a thrown SyntaxError, got %#v", c)
	}
}

func TestNewAgentRejectsUnknownFeature(t *testing.T) {
	if _, err := NewAgent(map[string]bool{"not-a-real-flag": true}); err == nil {
		t.Fatalf("expected an unknown feature flag to be rejected")
	}
}

func TestNewAgentAcceptsKnownFeature(t *testing.T) {
	if _, err := NewAgent(map[string]bool{"bigint": true}); err != nil {
		t.Fatalf("unexpected error for a known feature flag: %v", err)
	}
}

func TestTypeHelper(t *testing.T) {
	if got := Type(values.Undefined); got != "undefined" {
		t.Fatalf("Type(undefined) = %q", got)
	}
	if got := Type(values.Number(1)); got != "number" {
		t.Fatalf("Type(number) = %q", got)
	}
	if got := Type(nil); got != "undefined" {
		t.Fatalf("Type(nil) should fall back to undefined, got %q", got)
	}
}

func TestToStringHelper(t *testing.T) {
	s, c := ToString(values.Number(42))
	if c.IsAbrupt() {
		t.Fatalf("unexpected abrupt completion: %#v", c)
	}
	if s != "42" {
		t.Fatalf("ToString(42) = %q, want \"42\"", s)
	}
}

func TestGlobalReturnsBootstrappedObject(t *testing.T) {
	r := newTestRealm(t)
	if r.Global() == nil {
		t.Fatalf("Global() must not be nil after NewRealm")
	}
}

func TestCreateSourceTextModuleLinkAndEvaluate(t *testing.T) {
	a, err := NewAgent(nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	r := NewRealm(a, RealmOptions{
		ResolveImportedModule: func(referrer, specifier string) (*module.Module, error) {
			t.Fatalf("unexpected import resolution for %q from %q", specifier, referrer)
			return nil, nil
		},
	})
	m, err := r.CreateSourceTextModule("main.mjs", "export const answer = 42;")
	if err != nil {
		t.Fatalf("CreateSourceTextModule: %v", err)
	}
	if c := m.Link(); c.IsAbrupt() {
		t.Fatalf("Link failed: %#v", c)
	}
	prom := m.Evaluate()
	data, ok := ops.PromiseDataOf(prom)
	if !ok {
		t.Fatalf("Evaluate must return a promise-shaped object")
	}
	if data.State != ops.PromiseFulfilled {
		t.Fatalf("expected module evaluation to fulfill, got state %v", data.State)
	}
}

func TestCreateSourceTextModuleRejectsOnEvaluationError(t *testing.T) {
	a, err := NewAgent(nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	r := NewRealm(a, RealmOptions{})
	m, err := r.CreateSourceTextModule("main.mjs", "throw new Error('nope');")
	if err != nil {
		t.Fatalf("CreateSourceTextModule: %v", err)
	}
	if c := m.Link(); c.IsAbrupt() {
		t.Fatalf("Link failed: %#v", c)
	}
	prom := m.Evaluate()
	data, ok := ops.PromiseDataOf(prom)
	if !ok {
		t.Fatalf("Evaluate must return a promise-shaped object")
	}
	if data.State != ops.PromiseRejected {
		t.Fatalf("expected module evaluation to reject, got state %v", data.State)
	}
}
