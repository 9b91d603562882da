package cmd

import (
	"github.com/ecmax-lang/ecmax/pkg/esvm"
	"testing"
)

func newTestRealm(t *testing.T) *esvm.Realm {
	t.Helper()
	ag, err := esvm.NewAgent(nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return esvm.NewRealm(ag, esvm.RealmOptions{})
}

func TestRunAsScriptSucceedsOnValidSource(t *testing.T) {
	rlm := newTestRealm(t)
	if err := runAsScript(rlm, "<test>", "1 + 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunAsScriptReportsUncaughtThrow(t *testing.T) {
	rlm := newTestRealm(t)
	if err := runAsScript(rlm, "<test>", "throw new Error('boom');"); err == nil {
		t.Fatalf("expected an error for an uncaught throw")
	}
}

func TestRunAsModuleSucceedsOnValidSource(t *testing.T) {
	rlm := newTestRealm(t)
	if err := runAsModule(rlm, "main.mjs", "export const x = 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunAsModuleReportsRejection(t *testing.T) {
	rlm := newTestRealm(t)
	if err := runAsModule(rlm, "main.mjs", "throw new Error('boom');"); err == nil {
		t.Fatalf("expected an error for a rejected module evaluation")
	}
}
