package environment

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// GlobalRecord is the composite environment record spec.md §4.4 describes
// for the global scope: an ObjectRecord backed by the global object (so
// `var x` and function declarations show up as configurable-false global
// properties and `this.x` sees them) plus a Declarative record for
// lexical (`let`/`const`/`class`) globals, which must NOT become
// properties of the global object. VarNames tracks which identifiers were
// established via var/function-declaration instantiation, which is what
// HasVarDeclaration and the rest of global declaration instantiation
// (internal/evaluator) consult to avoid re-declaring across script
// evaluations.
type GlobalRecord struct {
	objectRecord *ObjectRecord
	declarative  *Declarative
	varNames     map[string]bool
	globalThis   values.Value
}

func NewGlobalRecord(globalObject *object.Object, globalThis values.Value) *GlobalRecord {
	return &GlobalRecord{
		objectRecord: NewObjectRecord(globalObject, nil, false),
		declarative:  NewDeclarative(nil),
		varNames:     make(map[string]bool),
		globalThis:   globalThis,
	}
}

func (g *GlobalRecord) EnvironmentRecord() {}
func (g *GlobalRecord) Outer() Record      { return nil }

func (g *GlobalRecord) GlobalObject() *object.Object { return g.objectRecord.BindingObject() }

func (g *GlobalRecord) HasBinding(name string) bool {
	return g.declarative.HasBinding(name) || g.objectRecord.HasBinding(name)
}

func (g *GlobalRecord) HasVarDeclaration(name string) bool { return g.varNames[name] }

func (g *GlobalRecord) HasLexicalDeclaration(name string) bool {
	return g.declarative.HasBinding(name)
}

func (g *GlobalRecord) HasRestrictedGlobalProperty(name string) bool {
	desc, present := g.GlobalObject().GetOwnProperty(values.StringKey(name))
	return present && !desc.Configurable
}

// CreateMutableBinding dispatches to the declarative side unless the name
// is explicitly a var binding; global var/function declarations go
// through CreateGlobalVarBinding / CreateGlobalFunctionBinding instead,
// which is why this treats every call as a lexical (let/const/class)
// declaration — the evaluator never calls the bare Record interface method
// for var-style globals.
func (g *GlobalRecord) CreateMutableBinding(name string, deletable bool) {
	g.declarative.CreateMutableBinding(name, deletable)
}

func (g *GlobalRecord) CreateImmutableBinding(name string, strict bool) {
	g.declarative.CreateImmutableBinding(name, strict)
}

func (g *GlobalRecord) InitializeBinding(name string, v values.Value) {
	if g.declarative.HasBinding(name) {
		g.declarative.InitializeBinding(name, v)
		return
	}
	g.objectRecord.InitializeBinding(name, v)
}

func (g *GlobalRecord) SetMutableBinding(name string, v values.Value, strict bool) completion.Completion {
	if g.declarative.HasBinding(name) {
		return g.declarative.SetMutableBinding(name, v, strict)
	}
	return g.objectRecord.SetMutableBinding(name, v, strict)
}

func (g *GlobalRecord) GetBindingValue(name string, strict bool) completion.Completion {
	if g.declarative.HasBinding(name) {
		return g.declarative.GetBindingValue(name, strict)
	}
	return g.objectRecord.GetBindingValue(name, strict)
}

func (g *GlobalRecord) DeleteBinding(name string) bool {
	if g.declarative.HasBinding(name) {
		return g.declarative.DeleteBinding(name)
	}
	ok := g.objectRecord.DeleteBinding(name)
	if ok {
		delete(g.varNames, name)
	}
	return ok
}

func (g *GlobalRecord) HasThisBinding() bool  { return true }
func (g *GlobalRecord) HasSuperBinding() bool { return false }
func (g *GlobalRecord) GetThisBinding() values.Value {
	return g.globalThis
}
func (g *GlobalRecord) WithBaseObject() values.Value { return values.Undefined }

// CreateGlobalVarBinding implements spec.md §4.4's CreateGlobalVarBinding:
// var declarations (and function declarations, via
// CreateGlobalFunctionBinding below) become non-deletable-by-default
// properties of the global object rather than declarative bindings, so
// `var x` and later `delete x` (non-strict, no-op) and `typeof x` via
// property lookup all observe the same slot as `globalThis.x`.
func (g *GlobalRecord) CreateGlobalVarBinding(name string, deletable bool) completion.Completion {
	hasProp, c := g.GlobalObject().HasProperty(values.StringKey(name))
	if c.IsAbrupt() {
		return c
	}
	if !hasProp && g.GlobalObject().IsExtensible() {
		g.objectRecord.CreateMutableBinding(name, deletable)
		g.objectRecord.InitializeBinding(name, values.Undefined)
	}
	g.varNames[name] = true
	return completion.Empty
}

// CreateGlobalFunctionBinding installs a top-level function declaration's
// initial value directly (spec's CreateGlobalFunctionBinding), overwriting
// an existing non-configurable data property's value in place rather than
// redefining it, matching the spec's property-preserving fast path.
func (g *GlobalRecord) CreateGlobalFunctionBinding(name string, v values.Value, deletable bool) completion.Completion {
	existing, present := g.GlobalObject().GetOwnProperty(values.StringKey(name))
	if !present || existing.Configurable {
		g.objectRecord.CreateMutableBinding(name, deletable)
		g.objectRecord.InitializeBinding(name, v)
	} else {
		ok, c := g.GlobalObject().Set_(values.StringKey(name), v, g.GlobalObject())
		if c.IsAbrupt() {
			return c
		}
		if !ok {
			return completion.Thrown(typeError("cannot redefine global function " + name))
		}
	}
	g.varNames[name] = true
	return completion.Empty
}
