package evaluator

import (
	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// EvalScript implements spec.md §4.1/§5's script evaluation job: build the
// top-level execution context over realm's global environment, run
// GlobalDeclarationInstantiation, evaluate the body, then drain the
// Agent's job queue so every microtask a top-level await, promise
// reaction, or async function scheduled settles before control returns to
// the host (spec.md §4.9: "after the running context stack empties, the
// Agent dequeues jobs"). Draining happens whether the body completed
// normally or threw — an uncaught exception doesn't cancel already-
// scheduled reactions, it just means this call still returns the throw
// completion once the queue empties.
func EvalScript(ag *agent.Agent, rlm *realm.Realm, prog *ast.Program) completion.Completion {
	ec := &EvalContext{
		Agent:          ag,
		Realm:          rlm,
		Lexical:        rlm.GlobalEnv,
		Variable:       rlm.GlobalEnv,
		ScriptOrModule: prog,
	}
	pop := ec.Push()
	result := func() completion.Completion {
		defer pop()
		if c := ec.globalDeclarationInstantiation(prog.Body, rlm.GlobalEnv); c.IsAbrupt() {
			return c
		}
		return ec.EvalStatements(prog.Body)
	}()
	ag.DrainJobs()
	return result
}

// EvalModule implements spec.md §4.8's module body evaluation: run
// ModuleDeclarationInstantiation's non-import half (moduleDeclarationInstantiation,
// declarations.go — import bindings are already wired onto env by
// internal/module's Link before Evaluate ever calls this), then run the
// body with the module environment as both LexicalEnv and VariableEnv
// (spec's "a module's top-level scope is its module environment record,
// full stop — there is no separate var-scope"). The caller
// (internal/module's Evaluate, which implements the Tarjan-SCC evaluation
// DFS) is responsible for draining the job queue once the whole dependency
// graph has run, not this function — a single module body finishing
// doesn't mean no sibling in its SCC still has pending work.
func EvalModule(ag *agent.Agent, rlm *realm.Realm, env *environment.ModuleRecord, prog *ast.Program) completion.Completion {
	ec := &EvalContext{
		Agent:          ag,
		Realm:          rlm,
		Lexical:        env,
		Variable:       env,
		ScriptOrModule: prog,
		Strict:         true,
	}
	pop := ec.Push()
	defer pop()
	if c := ec.moduleDeclarationInstantiation(prog.Body, env); c.IsAbrupt() {
		return c
	}
	return ec.EvalStatements(prog.Body)
}
