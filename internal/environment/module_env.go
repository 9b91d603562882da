package environment

import (
	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// IndirectBinding resolves a module's imported name to the binding that
// actually holds the value, which lives in another module's environment
// record (spec.md §4.4's indirect bindings for `import { x } from ...`).
// TargetEnv and TargetName are fixed when the import binding is created;
// the value itself is read from the target on every access, so a target
// initialized later (as in a cycle) is seen once it is.
type IndirectBinding struct {
	TargetEnv  Record
	TargetName string
}

// ModuleRecord extends Declarative with import bindings that alias
// another module's exported bindings (spec.md §4.4 module environment
// records). Reads of an imported name forward to TargetEnv and writes to it
// throw a TypeError. This record's own bindings map (inherited from
// Declarative) holds the module's own let/const/var/function declarations
// and any namespace import (`import * as ns`), which is an ordinary binding
// holding the namespace object.
type ModuleRecord struct {
	*Declarative
	imports map[string]IndirectBinding
}

func NewModuleRecord(outer Record) *ModuleRecord {
	return &ModuleRecord{Declarative: NewDeclarative(outer), imports: make(map[string]IndirectBinding)}
}

// CreateImportBinding registers an indirect binding; it is immutable from
// the importing module's perspective (import bindings can never be
// assigned to) regardless of whether the exporting binding is mutable.
func (m *ModuleRecord) CreateImportBinding(localName string, targetEnv Record, targetName string) {
	m.imports[localName] = IndirectBinding{TargetEnv: targetEnv, TargetName: targetName}
}

func (m *ModuleRecord) HasBinding(name string) bool {
	if _, ok := m.imports[name]; ok {
		return true
	}
	return m.Declarative.HasBinding(name)
}

func (m *ModuleRecord) GetBindingValue(name string, strict bool) completion.Completion {
	if ind, ok := m.imports[name]; ok {
		return ind.TargetEnv.GetBindingValue(ind.TargetName, true)
	}
	return m.Declarative.GetBindingValue(name, strict)
}

// SetMutableBinding always rejects writes to import bindings: the spec
// requires module environments to throw a TypeError for assignment to an
// imported name even in non-strict code, since imports are always
// immutable from the importing side.
func (m *ModuleRecord) SetMutableBinding(name string, v values.Value, strict bool) completion.Completion {
	if _, ok := m.imports[name]; ok {
		return completion.Thrown(typeError("assignment to imported binding " + name))
	}
	return m.Declarative.SetMutableBinding(name, v, strict)
}

func (m *ModuleRecord) DeleteBinding(name string) bool {
	if _, ok := m.imports[name]; ok {
		return false
	}
	return m.Declarative.DeleteBinding(name)
}

func (m *ModuleRecord) HasThisBinding() bool { return true }

// GetThisBinding for a module environment is always undefined (top-level
// `this` inside an ES module), distinct from the global record's
// globalThis and from a function record's bound this.
func (m *ModuleRecord) GetThisBinding() values.Value { return values.Undefined }
