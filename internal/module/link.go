package module

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/evaluator"
)

// resolve implements spec's HostResolveImportedModule, memoized per calling
// module: the host hook spec.md §6 requires return the same module
// identity for the same (referencingModule, specifier) pair, which this
// cache enforces even if the host's own resolver is sloppy about it.
func (m *Module) resolve(specifier string) (*Module, completion.Completion) {
	if dep, ok := m.resolved[specifier]; ok {
		return dep, completion.Empty
	}
	if m.Realm.ResolveImportedModule == nil {
		return nil, completion.Thrown(evaluator.NewErrorValue(m.Realm, "TypeError", "no module resolver configured for this realm"))
	}
	raw, err := m.Realm.ResolveImportedModule(m.Specifier, specifier)
	if err != nil {
		return nil, completion.Thrown(evaluator.NewErrorValue(m.Realm, "TypeError", "cannot resolve module "+specifier+": "+err.Error()))
	}
	dep, ok := raw.(*Module)
	if !ok {
		return nil, completion.Thrown(evaluator.NewErrorValue(m.Realm, "TypeError", "resolver returned a non-Module value for "+specifier))
	}
	m.resolved[specifier] = dep
	return dep, completion.Empty
}

// Link implements spec.md §4.8's Link: a Tarjan-SCC depth-first walk over
// the import graph (DFS over requestedModules, assigning dfsIndex/
// dfsAncestorIndex exactly as spec.md §3 names them). Each module's
// environment is created when the walk first enters it, and its imports are
// bound as soon as its own dependencies have been visited; because every
// environment already exists by then, an import from a module still on the
// stack (a cyclic `import`/`export` pair) has a target environment to point
// into. A module is marked Linked when its whole strongly-connected
// component is popped.
func (m *Module) Link() completion.Completion {
	if m.Status == Linked || m.Status == Evaluating || m.Status == Evaluated {
		return completion.Empty
	}
	index := 0
	var stack []*Module
	var visit func(*Module) completion.Completion
	visit = func(mod *Module) completion.Completion {
		mod.Status = Linking
		mod.dfsIndex = index
		mod.dfsAncestorIndex = index
		index++
		stack = append(stack, mod)
		mod.Env = environment.NewModuleRecord(mod.Realm.GlobalEnv)

		for _, specifier := range mod.RequestedModules {
			dep, c := mod.resolve(specifier)
			if c.IsAbrupt() {
				return c
			}
			switch dep.Status {
			case Unlinked:
				if c := visit(dep); c.IsAbrupt() {
					return c
				}
				if dep.dfsAncestorIndex < mod.dfsAncestorIndex {
					mod.dfsAncestorIndex = dep.dfsAncestorIndex
				}
			case Linking:
				if dep.dfsIndex < mod.dfsAncestorIndex {
					mod.dfsAncestorIndex = dep.dfsIndex
				}
			}
		}

		if c := mod.initializeEnvironment(); c.IsAbrupt() {
			return c
		}

		if mod.dfsAncestorIndex == mod.dfsIndex {
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				top.Status = Linked
				if top == mod {
					break
				}
			}
		}
		return completion.Empty
	}
	return visit(m)
}

// initializeEnvironment implements the binding-resolution half of spec's
// InitializeEnvironment: every ImportEntry resolves (via ResolveExport,
// which recurses into already-linked-or-linking dependencies) to a
// concrete binding in the exporting module's environment, bound here as an
// indirect binding in mod's own module environment. A namespace import
// binds to the freshly built namespace object instead of aliasing another
// environment slot.
func (mod *Module) initializeEnvironment() completion.Completion {
	for _, entry := range mod.ImportEntries {
		dep, c := mod.resolve(entry.ModuleRequest)
		if c.IsAbrupt() {
			return c
		}
		if entry.ImportName == NamespaceImport {
			ns, c := dep.Namespace()
			if c.IsAbrupt() {
				return c
			}
			mod.Env.CreateMutableBinding(entry.LocalName, false)
			mod.Env.InitializeBinding(entry.LocalName, ns)
			continue
		}
		binding, ambiguous, c := dep.resolveExport(entry.ImportName, map[exportKey]bool{})
		if c.IsAbrupt() {
			return c
		}
		if ambiguous {
			return completion.Thrown(evaluator.NewErrorValue(mod.Realm, "SyntaxError", "ambiguous import '"+entry.ImportName+"' from "+entry.ModuleRequest))
		}
		if binding == nil {
			return completion.Thrown(evaluator.NewErrorValue(mod.Realm, "SyntaxError", "module "+entry.ModuleRequest+" has no export '"+entry.ImportName+"'"))
		}
		mod.Env.CreateImportBinding(entry.LocalName, binding.TargetEnv, binding.TargetName)
	}
	// Local export entries need no binding of their own here: the
	// var/lexical/function declaration they alias is created by
	// moduleDeclarationInstantiation (internal/evaluator) at evaluation time.
	return completion.Empty
}

type exportKey struct {
	module *Module
	name   string
}

// resolveExport implements spec's ResolveExport: a local export resolves
// directly to this module's own environment; an indirect export (including
// `export * as ns from`) defers to the named dependency; a star export
// defers to every starred dependency and is ambiguous if two disagree on
// the binding. visited guards against both infinite recursion on an export
// cycle (spec treats a cycle as unresolved, not an error) and repeated work
// across diamond-shaped star-export graphs.
func (m *Module) resolveExport(name string, visited map[exportKey]bool) (*environment.IndirectBinding, bool, completion.Completion) {
	key := exportKey{m, name}
	if visited[key] {
		return nil, false, completion.Empty
	}
	visited[key] = true

	for _, e := range m.LocalExportEntries {
		if e.ExportName == name {
			return &environment.IndirectBinding{TargetEnv: m.Env, TargetName: e.LocalName}, false, completion.Empty
		}
	}
	for _, e := range m.IndirectExportEntries {
		if e.ExportName != name {
			continue
		}
		dep, c := m.resolve(e.ModuleRequest)
		if c.IsAbrupt() {
			return nil, false, c
		}
		if e.ImportName == NamespaceImport {
			ns, c := dep.Namespace()
			if c.IsAbrupt() {
				return nil, false, c
			}
			holder := environment.NewDeclarative(nil)
			holder.CreateImmutableBinding("*ns*", false)
			holder.InitializeBinding("*ns*", ns)
			return &environment.IndirectBinding{TargetEnv: holder, TargetName: "*ns*"}, false, completion.Empty
		}
		return dep.resolveExport(e.ImportName, visited)
	}
	if name == "default" {
		return nil, false, completion.Empty
	}
	var found *environment.IndirectBinding
	for _, e := range m.StarExportEntries {
		dep, c := m.resolve(e.ModuleRequest)
		if c.IsAbrupt() {
			return nil, false, c
		}
		b, ambiguous, c := dep.resolveExport(name, visited)
		if c.IsAbrupt() {
			return nil, false, c
		}
		if ambiguous {
			return nil, true, completion.Empty
		}
		if b == nil {
			continue
		}
		if found != nil && (found.TargetEnv != b.TargetEnv || found.TargetName != b.TargetName) {
			return nil, true, completion.Empty
		}
		found = b
	}
	return found, false, completion.Empty
}

// exportedNames implements spec's GetExportedNames: the union of this
// module's own export names and every star-exported dependency's (minus
// "default", which a star export never forwards), deduplicated.
func (m *Module) exportedNames(visited map[*Module]bool) ([]string, completion.Completion) {
	if visited[m] {
		return nil, completion.Empty
	}
	visited[m] = true
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, e := range m.LocalExportEntries {
		add(e.ExportName)
	}
	for _, e := range m.IndirectExportEntries {
		add(e.ExportName)
	}
	for _, e := range m.StarExportEntries {
		dep, c := m.resolve(e.ModuleRequest)
		if c.IsAbrupt() {
			return nil, c
		}
		starNames, c := dep.exportedNames(visited)
		if c.IsAbrupt() {
			return nil, c
		}
		for _, n := range starNames {
			if n != "default" {
				add(n)
			}
		}
	}
	return names, completion.Empty
}
