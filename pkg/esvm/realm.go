package esvm

import (
	"github.com/ecmax-lang/ecmax/internal/builtins"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/evaluator"
	"github.com/ecmax-lang/ecmax/internal/module"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/parser"
	"github.com/ecmax-lang/ecmax/internal/realm"
)

// RealmOptions configures a Realm at construction — spec.md §6's
// `new Realm({resolveImportedModule})`.
type RealmOptions struct {
	// ResolveImportedModule is the host resolver hook spec.md §4.8 names
	// HostResolveImportedModule. Leave nil if the realm never imports.
	ResolveImportedModule func(referencingSpecifier, requestedSpecifier string) (*module.Module, error)
}

// Realm wraps internal/realm.Realm plus the agent it runs under. Bootstrap
// and builtins.Install both run at construction, so a Realm returned from
// NewRealm is immediately ready to evaluate scripts.
type Realm struct {
	agent *Agent
	inner *realm.Realm
}

// NewRealm allocates and bootstraps a realm owned by a (spec.md §4.5's
// "a self-contained universe of intrinsics and a shared global", §3's
// Agent-owns-Realm relationship the job queue depends on to know which
// realm a job resumes under).
func NewRealm(a *Agent, opts RealmOptions) *Realm {
	rlm := realm.New()
	rlm.Bootstrap()
	rlm.Agent = a.inner
	if opts.ResolveImportedModule != nil {
		rlm.ResolveImportedModule = func(referrer, specifier string) (any, error) {
			return opts.ResolveImportedModule(referrer, specifier)
		}
	}
	builtins.Install(rlm)
	return &Realm{agent: a, inner: rlm}
}

// Global returns the global object handle, spec.md §6's `realm.global`.
func (r *Realm) Global() *object.Object { return r.inner.GlobalObject }

// EvaluateScript parses source as a script and runs it to completion,
// draining the agent's job queue before returning (spec.md §6:
// "realm.evaluateScript(source, {specifier}) → Completion"). specifier is
// carried only for diagnostics — EvalScript's ScriptOrModule slot records
// the parsed program itself, per spec.md §3's execution-context shape.
func (r *Realm) EvaluateScript(source, specifier string) completion.Completion {
	prog, errs := parser.Parse(source, false)
	if len(errs) > 0 {
		msg := "script " + specifier + ": " + errs[0].Error()
		return completion.Thrown(evaluator.NewErrorValue(r.inner, "SyntaxError", msg))
	}
	return evaluator.EvalScript(r.agent.inner, r.inner, prog)
}

// CreateSourceTextModule implements spec.md §6's
// `realm.createSourceTextModule(specifier, source) → Module | throw`.
func (r *Realm) CreateSourceTextModule(specifier, source string) (*Module, error) {
	m, errs := module.NewSourceTextModule(r.inner, specifier, source)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &Module{agent: r.agent, inner: m}, nil
}

// Inspect renders v the way a REPL would, spec.md §6's
// `inspect(value, realm) → string`.
func (r *Realm) Inspect(v any) string {
	val, ok := asValue(v)
	if !ok {
		return "undefined"
	}
	return builtins.Inspect(val, r.inner, map[*object.Object]bool{})
}
