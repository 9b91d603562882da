package values

// Symbol is a unique-identity value, optionally carrying a description and,
// for symbols minted via Symbol.for, a registry key (spec.md §3). Identity
// is the pointer identity of the *Symbol itself — two Symbol values with the
// same description are never equal unless they are the same pointer, which
// is exactly what Go pointer comparison gives for free.
type Symbol struct {
	Description string
	HasDesc     bool
	RegistryKey string
	HasKey      bool
}

func (*Symbol) Kind() Kind { return SymbolKind }

// NewSymbol creates a fresh, globally unique symbol with the given
// description (Symbol(description) in script).
func NewSymbol(description string) *Symbol {
	return &Symbol{Description: description, HasDesc: true}
}

// NewSymbolNoDescription creates a fresh symbol with no description
// (Symbol() with no arguments).
func NewSymbolNoDescription() *Symbol {
	return &Symbol{}
}

// well-known symbols, installed on every Realm (spec.md §4.5). Each is a
// distinct *Symbol allocated once per process; realms share the same
// well-known symbol identities, matching the language's requirement that
// e.g. @@iterator behave the same across realms when a value crosses a
// realm boundary.
var (
	SymIterator           = &Symbol{Description: "Symbol.iterator", HasDesc: true}
	SymAsyncIterator      = &Symbol{Description: "Symbol.asyncIterator", HasDesc: true}
	SymToPrimitive        = &Symbol{Description: "Symbol.toPrimitive", HasDesc: true}
	SymToStringTag        = &Symbol{Description: "Symbol.toStringTag", HasDesc: true}
	SymUnscopables        = &Symbol{Description: "Symbol.unscopables", HasDesc: true}
	SymHasInstance        = &Symbol{Description: "Symbol.hasInstance", HasDesc: true}
	SymIsConcatSpreadable = &Symbol{Description: "Symbol.isConcatSpreadable", HasDesc: true}
	SymSpecies            = &Symbol{Description: "Symbol.species", HasDesc: true}
	SymMatch              = &Symbol{Description: "Symbol.match", HasDesc: true}
	SymReplace            = &Symbol{Description: "Symbol.replace", HasDesc: true}
	SymSearch             = &Symbol{Description: "Symbol.search", HasDesc: true}
	SymSplit              = &Symbol{Description: "Symbol.split", HasDesc: true}
)
