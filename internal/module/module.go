// Package module implements spec.md §3's Module Record and §4.8's Module
// Loader: parsing a source text module into its requested-module and
// import/export tables, then linking (Tarjan SCC over the import graph,
// resolving every import binding to a concrete export binding) and
// evaluating (a depth-first walk running each module's body once, in
// dependency order, and recording the first evaluation error on every
// module still in flight) per spec.md §4.8.
// Grounded on the teacher's internal/interp/unit_loader.go (LoadUnit's
// registry-backed caching of a {name -> loaded unit} map, and
// InitializeUnits'/FinalizeUnits' dependency-ordered traversal), adapted
// from DWScript's acyclic `uses`-clause units to ECMAScript's import graph
// that spec.md explicitly allows cycles in (hence Tarjan SCC rather than a
// plain topological sort).
package module

import (
	"fmt"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/environment"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/parser"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
	"github.com/ecmax-lang/ecmax/pkg/ast"
)

// Status is one of spec.md §3's Module Record status transitions:
// unlinked -> linking -> linked -> evaluating -> evaluated (or evaluated
// with a non-nil EvaluationError).
type Status string

const (
	Unlinked   Status = "unlinked"
	Linking    Status = "linking"
	Linked     Status = "linked"
	Evaluating Status = "evaluating"
	Evaluated  Status = "evaluated"
)

// Sentinel import/export names spec's abstract operations use for a
// namespace import and the local slot of an `export default` expression,
// distinct from any identifier a script could actually name (spec.md's
// ImportEntry/ExportEntry use the same convention). DefaultImport is the
// export name a default import looks up: "default", the name that
// `export default` and `export { x as default }` both export under.
const (
	NamespaceImport = "*"
	DefaultImport   = "default"
	DefaultExport   = "*default*"
)

// ImportEntry is one row of spec.md §3's [[ImportEntries]]: a local name
// bound to either a single named export (ImportName), the whole namespace
// (ImportName == NamespaceImport), or the default export (ImportName ==
// DefaultImport) of ModuleRequest.
type ImportEntry struct {
	ModuleRequest string
	ImportName    string
	LocalName     string
}

// ExportEntry covers all three of spec's export tables with one shape:
// ModuleRequest is empty for a local export (ExportName aliases LocalName
// in this module's own environment); non-empty for an indirect export
// (ExportName aliases ImportName in ModuleRequest) or a star entry (no
// ExportName/ImportName — every name ModuleRequest exports, except
// "default", re-exports under its own name).
type ExportEntry struct {
	ExportName    string
	ModuleRequest string
	ImportName    string
	LocalName     string
}

// Module is spec.md §3's Module Record. Realm is set at creation; Env is
// nil until Link sets it. RequestedModules, ImportEntries and the three
// export tables are populated directly from the parsed AST by
// populateTables.
type Module struct {
	Specifier string
	Realm     *realm.Realm
	Env       *environment.ModuleRecord
	Program   *ast.Program

	RequestedModules      []string
	ImportEntries         []ImportEntry
	LocalExportEntries    []ExportEntry
	IndirectExportEntries []ExportEntry
	StarExportEntries     []ExportEntry

	Status          Status
	EvaluationError completion.Completion

	dfsIndex, dfsAncestorIndex int
	resolved                   map[string]*Module
	namespace                  *object.Object
}

// NewSourceTextModule implements the embedder-facing
// `realm.createSourceTextModule(specifier, source) → Module | throw` entry
// point (spec.md §6): parse src as a module and bind it to r, ready for
// Link. Parse errors surface as the parser's own *parser.ParseError list
// rather than a thrown Completion, since no execution context exists yet
// to throw a SyntaxError value into.
func NewSourceTextModule(r *realm.Realm, specifier, src string) (*Module, []*parser.ParseError) {
	prog, errs := parser.Parse(src, true)
	if len(errs) > 0 {
		return nil, errs
	}
	m := &Module{
		Specifier: specifier,
		Realm:     r,
		Program:   prog,
		Status:    Unlinked,
		resolved:  map[string]*Module{},
	}
	m.populateTables()
	return m, nil
}

// populateTables derives RequestedModules and the export tables from the
// program's top-level import/export declarations (spec's ParseModule step
// "for each ImportEntry/ExportEntry produced by parsing").
func (m *Module) populateTables() {
	seen := map[string]bool{}
	request := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			m.RequestedModules = append(m.RequestedModules, s)
		}
	}
	for _, s := range m.Program.Body {
		switch d := s.(type) {
		case *ast.ImportDeclaration:
			request(d.Source)
			for _, spec := range d.Specifiers {
				switch {
				case spec.Namespace:
					m.ImportEntries = append(m.ImportEntries, ImportEntry{ModuleRequest: d.Source, ImportName: NamespaceImport, LocalName: spec.Local})
				case spec.Default:
					m.ImportEntries = append(m.ImportEntries, ImportEntry{ModuleRequest: d.Source, ImportName: DefaultImport, LocalName: spec.Local})
				default:
					m.ImportEntries = append(m.ImportEntries, ImportEntry{ModuleRequest: d.Source, ImportName: spec.Imported, LocalName: spec.Local})
				}
			}
		case *ast.ExportNamedDeclaration:
			switch {
			case d.Source != "":
				request(d.Source)
				for _, spec := range d.Specifiers {
					m.IndirectExportEntries = append(m.IndirectExportEntries, ExportEntry{ExportName: spec.Exported, ModuleRequest: d.Source, ImportName: spec.Local})
				}
			case d.Declaration != nil:
				for _, name := range declaredNames(d.Declaration) {
					m.LocalExportEntries = append(m.LocalExportEntries, ExportEntry{ExportName: name, LocalName: name})
				}
			default:
				for _, spec := range d.Specifiers {
					m.LocalExportEntries = append(m.LocalExportEntries, ExportEntry{ExportName: spec.Exported, LocalName: spec.Local})
				}
			}
		case *ast.ExportDefaultDeclaration:
			m.LocalExportEntries = append(m.LocalExportEntries, ExportEntry{ExportName: "default", LocalName: DefaultExport})
		case *ast.ExportAllDeclaration:
			request(d.Source)
			if d.As != "" {
				m.IndirectExportEntries = append(m.IndirectExportEntries, ExportEntry{ExportName: d.As, ModuleRequest: d.Source, ImportName: NamespaceImport})
			} else {
				m.StarExportEntries = append(m.StarExportEntries, ExportEntry{ModuleRequest: d.Source})
			}
		}
	}
}

// declaredNames returns the identifier(s) a `export <declaration>` binds,
// mirroring internal/evaluator's unexported patternBoundNames (duplicated
// here in miniature rather than exported across the package boundary,
// since this is the only other place that needs it).
func declaredNames(s ast.Statement) []string {
	switch d := s.(type) {
	case *ast.VariableDeclaration:
		var out []string
		for _, decl := range d.Declarations {
			out = append(out, boundNames(decl.ID)...)
		}
		return out
	case *ast.FunctionDeclaration:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	case *ast.ClassDeclaration:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	}
	return nil
}

func boundNames(p ast.Pattern) []string {
	switch v := p.(type) {
	case *ast.Identifier:
		return []string{v.Name}
	case *ast.ArrayPattern:
		var out []string
		for _, el := range v.Elements {
			if el != nil {
				out = append(out, boundNames(el)...)
			}
		}
		return out
	case *ast.ObjectPattern:
		var out []string
		for _, prop := range v.Properties {
			out = append(out, boundNames(prop.Value)...)
		}
		if v.Rest != nil {
			out = append(out, boundNames(v.Rest)...)
		}
		return out
	case *ast.AssignmentPattern:
		return boundNames(v.Left)
	case *ast.RestElement:
		return boundNames(v.Argument)
	}
	return nil
}

// Namespace returns (building it on first call) the module namespace
// object spec's GetModuleNamespace exposes for `import * as ns`: a plain
// object with a null prototype and one data property per resolvable
// exported name, holding the binding's value at the time of that first
// call (spec.md §4.4's module namespace exotic object, simplified). Later
// changes to the exporting bindings are not reflected in it; direct import
// bindings stay live.
func (m *Module) Namespace() (*object.Object, completion.Completion) {
	if m.namespace != nil {
		return m.namespace, completion.Empty
	}
	ns := object.NewObject(values.Null, m.Realm)
	names, c := m.exportedNames(map[*Module]bool{})
	if c.IsAbrupt() {
		return nil, c
	}
	for _, name := range names {
		binding, ambiguous, c := m.resolveExport(name, map[exportKey]bool{})
		if c.IsAbrupt() {
			return nil, c
		}
		if ambiguous || binding == nil {
			continue
		}
		v := binding.TargetEnv.GetBindingValue(binding.TargetName, true)
		if v.IsAbrupt() {
			return nil, v
		}
		if c := ops.CreateDataProperty(ns, values.StringKey(name), v.Value.(values.Value)); c.IsAbrupt() {
			return nil, c
		}
	}
	m.namespace = ns
	return ns, completion.Empty
}

func (m *Module) String() string {
	return fmt.Sprintf("Module(%s)", m.Specifier)
}
