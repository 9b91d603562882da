package module

import (
	"testing"

	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
)

func newTestRealm() *realm.Realm {
	rlm := realm.New()
	rlm.Bootstrap()
	rlm.Agent = agent.New(nil)
	return rlm
}

func TestNewSourceTextModulePopulatesExportTable(t *testing.T) {
	rlm := newTestRealm()
	m, errs := NewSourceTextModule(rlm, "main.mjs", "export const answer = 42;")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(m.LocalExportEntries) != 1 || m.LocalExportEntries[0].ExportName != "answer" {
		t.Fatalf("expected a single local export named 'answer', got %#v", m.LocalExportEntries)
	}
}

func TestNewSourceTextModuleRecordsRequestedModules(t *testing.T) {
	rlm := newTestRealm()
	m, errs := NewSourceTextModule(rlm, "main.mjs", "import { x } from './dep.mjs';")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(m.RequestedModules) != 1 || m.RequestedModules[0] != "./dep.mjs" {
		t.Fatalf("expected a single requested module './dep.mjs', got %#v", m.RequestedModules)
	}
	if len(m.ImportEntries) != 1 || m.ImportEntries[0].LocalName != "x" || m.ImportEntries[0].ImportName != "x" {
		t.Fatalf("unexpected import entries: %#v", m.ImportEntries)
	}
}

func TestLinkAndEvaluateAcrossTwoModules(t *testing.T) {
	rlm := newTestRealm()
	dep, errs := NewSourceTextModule(rlm, "./dep.mjs", "export const x = 7;")
	if len(errs) > 0 {
		t.Fatalf("dep parse errors: %v", errs)
	}
	main, errs := NewSourceTextModule(rlm, "main.mjs", "import { x } from './dep.mjs'; export const y = x + 1;")
	if len(errs) > 0 {
		t.Fatalf("main parse errors: %v", errs)
	}
	rlm.ResolveImportedModule = func(referrer, specifier string) (any, error) {
		if specifier == "./dep.mjs" {
			return dep, nil
		}
		t.Fatalf("unexpected resolution request for %q from %q", specifier, referrer)
		return nil, nil
	}

	if c := main.Link(); c.IsAbrupt() {
		t.Fatalf("Link failed: %#v", c)
	}
	if main.Status != Linked {
		t.Fatalf("expected main to be Linked, got %s", main.Status)
	}
	if dep.Status != Linked {
		t.Fatalf("expected dep to be Linked as a transitive dependency, got %s", dep.Status)
	}

	prom := main.Evaluate(rlm.Agent)
	data, ok := ops.PromiseDataOf(prom)
	if !ok {
		t.Fatalf("Evaluate must return a promise-shaped object")
	}
	if data.State != ops.PromiseFulfilled {
		t.Fatalf("expected evaluation to fulfill, got state %v", data.State)
	}
	if main.Status != Evaluated || dep.Status != Evaluated {
		t.Fatalf("expected both modules Evaluated, got main=%s dep=%s", main.Status, dep.Status)
	}
}

func TestNamespaceExposesExportedBindings(t *testing.T) {
	rlm := newTestRealm()
	m, errs := NewSourceTextModule(rlm, "main.mjs", "export const answer = 42;")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if c := m.Link(); c.IsAbrupt() {
		t.Fatalf("Link failed: %#v", c)
	}
	if prom := m.Evaluate(rlm.Agent); prom == nil {
		t.Fatalf("Evaluate returned nil")
	}
	ns, c := m.Namespace()
	if c.IsAbrupt() {
		t.Fatalf("Namespace failed: %#v", c)
	}
	if ns == nil {
		t.Fatalf("expected a non-nil namespace object")
	}
}
