package module

import (
	"github.com/ecmax-lang/ecmax/internal/agent"
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/evaluator"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Evaluate implements spec.md §4.8's module evaluation and §6's
// `module.Evaluate() → Promise-value`: a DFS over the (already linked)
// import graph runs each module's body exactly once, in dependency order,
// then settles a promise with the root module's namespace object — or with
// whatever value the first thrown completion anywhere in the graph carried,
// which spec.md §4.8 requires be "propagated to all modules in the SCC": a
// module that depends (even transitively, even through a cycle) on a
// failing one is marked evaluated with that same evaluationError rather
// than left stuck in "evaluating" forever.
func (m *Module) Evaluate(ag *agent.Agent) *object.Object {
	enqueue := func(job func()) { ag.EnqueueJob(agent.Job{Realm: m.Realm, Thunk: job}) }
	prom := ops.NewPromiseObject(m.Realm.Intrinsics.PromisePrototype, m.Realm, enqueue)
	pd, _ := ops.PromiseDataOf(prom)

	var inFlight []*Module
	visited := map[*Module]bool{}
	var run func(*Module) completion.Completion
	run = func(mod *Module) completion.Completion {
		if mod.Status == Evaluated {
			return mod.EvaluationError
		}
		if visited[mod] {
			// Already on this DFS's call chain: a cycle. Its eventual
			// outcome is whatever the chain as a whole resolves to, applied
			// below once run(m) returns.
			return completion.Empty
		}
		visited[mod] = true
		inFlight = append(inFlight, mod)
		mod.Status = Evaluating
		for _, specifier := range mod.RequestedModules {
			dep, c := mod.resolve(specifier)
			if c.IsAbrupt() {
				return c
			}
			if c := run(dep); c.IsAbrupt() {
				return c
			}
		}
		c := evaluator.EvalModule(ag, mod.Realm, mod.Env, mod.Program)
		mod.Status = Evaluated
		mod.EvaluationError = c
		return c
	}

	result := run(m)
	for _, mod := range inFlight {
		if mod.Status != Evaluated {
			mod.Status = Evaluated
			mod.EvaluationError = result
		}
	}
	ag.DrainJobs()

	if result.IsAbrupt() {
		pd.Reject(result.Value.(values.Value))
		return prom
	}
	ns, c := m.Namespace()
	if c.IsAbrupt() {
		pd.Reject(c.Value.(values.Value))
		return prom
	}
	pd.Fulfill(ns)
	return prom
}
