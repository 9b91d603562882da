// Package evaluator implements spec.md §4.7: a tree-walking interpreter,
// parameterised by the running execution context, that turns pkg/ast nodes
// into completion.Completion values. Declaration instantiation, the
// call/construct protocol, and generator/async suspension all live here;
// everything below it (values, property, object, environment, realm, ops)
// is a pure data/algorithm layer this package drives.
package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/realm"
)

// EvalContext is the typed view of spec.md §3's Execution Context
// {Function, Realm, LexicalEnv, VariableEnv, ScriptOrModule} that this
// package actually reads and writes. agent.Context stores the same fields
// as `any` to avoid an import cycle (see agent.Context's doc comment);
// EvalContext is what gets pushed/popped, downcasting on every push so the
// rest of the evaluator never touches `any`.
type EvalContext struct {
	Agent          *agent.Agent
	Realm          *realm.Realm
	Lexical        environment.Record
	Variable       environment.Record
	Function       *object.Object
	NewTarget      any // values.Value or nil
	Strict         bool
	ScriptOrModule any
	Generator      *generatorState // non-nil while running inside a generator/async body
}

// Push makes ec the running execution context on ec.Agent's stack and
// returns a function that pops it — callers invoke this as
// `defer ec.Push()()` immediately, so the pop runs on every exit path
// including a propagated throw completion (spec.md §5).
func (ec *EvalContext) Push() func() {
	ec.Agent.Push(&agent.Context{
		Function: ec.Function, Realm: ec.Realm,
		LexicalEnv: ec.Lexical, VariableEnv: ec.Variable,
		ScriptOrModule: ec.ScriptOrModule, GeneratorState: ec.Generator,
	})
	return ec.Agent.Pop
}

// WithLexical returns a shallow copy of ec with a new running lexical
// environment — used whenever a block/loop/catch-clause needs its own
// declarative environment without disturbing VariableEnv (spec's
// "LexicalEnvironment" vs "VariableEnvironment" split, spec.md §3).
func (ec *EvalContext) WithLexical(env environment.Record) *EvalContext {
	clone := *ec
	clone.Lexical = env
	return &clone
}

// WithBoth returns a copy of ec with both LexicalEnv and VariableEnv
// replaced — used at function-call entry, where a fresh function
// environment record becomes both (spec.md §4.7's
// PrepareForOrdinaryCall: "fresh LexicalEnv = VariableEnv = a new function
// environment record").
func (ec *EvalContext) WithBoth(env environment.Record) *EvalContext {
	clone := *ec
	clone.Lexical = env
	clone.Variable = env
	return &clone
}

// abrupt reports whether c is abrupt, upgrading any EngineError sentinel
// payload (produced by internal/ops and internal/environment, which can't
// construct a realm-bound Error object without an import cycle) into a
// fully realised Error-prototype instance before the completion becomes
// observable to script. Every call site in this package that consumes a
// completion from a lower layer should route through this rather than
// c.IsAbrupt() directly.
func (ec *EvalContext) abrupt(c completion.Completion) (completion.Completion, bool) {
	if !c.IsAbrupt() {
		return completion.Completion{}, false
	}
	return ec.realize(c), true
}

// realize upgrades c's EngineError payload (if any) the same way abrupt
// does, without the is-abrupt gate — used by the few call sites that
// already know c is abrupt (e.g. rethrowing inside a finally handler).
func (ec *EvalContext) realize(c completion.Completion) completion.Completion {
	if c.Type != completion.Throw {
		return c
	}
	if ee, ok := c.Value.(environment.EngineError); ok {
		return completion.Thrown(ec.newError(ee.Kind, ee.Message))
	}
	if ee, ok := c.Value.(object.EngineError); ok {
		return completion.Thrown(ec.newError(ee.Kind, ee.Message))
	}
	return c
}
