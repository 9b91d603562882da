package esvm

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/module"
	"github.com/ecmax-lang/ecmax/internal/object"
)

// Module wraps internal/module.Module, spec.md §6's `module.Link()`/
// `module.Evaluate()` pair.
type Module struct {
	agent *Agent
	inner *module.Module
}

// Link runs spec.md §4.8's linking DFS over the import graph.
func (m *Module) Link() completion.Completion { return m.inner.Link() }

// Evaluate runs the module body (and every dependency not yet evaluated),
// returning a Promise-shaped object that settles with the module namespace
// or the first evaluation error anywhere in its import graph (spec.md §6:
// "module.Evaluate() → Promise-value").
func (m *Module) Evaluate() *object.Object {
	return m.inner.Evaluate(m.agent.inner)
}

// Namespace returns the module namespace object for `import * as ns`
// resolution from the host side, building it on first access.
func (m *Module) Namespace() (*object.Object, completion.Completion) {
	return m.inner.Namespace()
}
