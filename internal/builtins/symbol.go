package builtins

import (
	"sync"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// symbolRegistry backs Symbol.for/Symbol.keyFor (spec.md §4.5's global
// symbol registry). It is process-wide rather than per-realm, mirroring
// values.SymIterator and friends being allocated once per process.
var (
	symbolRegistryMu sync.Mutex
	symbolRegistry   = map[string]*values.Symbol{}
)

// installSymbol wires %Symbol%: a call-only constructor (spec forbids
// `new Symbol()`), the well-known-symbol statics already allocated in
// internal/values/symbol.go, the global registry pair, and
// Symbol.prototype's description getter/toString.
func installSymbol(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.SymbolPrototype
	proto.Class = "Symbol"

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		desc := ""
		hasDesc := arg(args, 0) != values.Undefined
		if hasDesc {
			s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
			if c.IsAbrupt() {
				return c
			}
			desc = s.(values.String).Go()
		}
		if hasDesc {
			return completion.Returned(values.NewSymbol(desc))
		}
		return completion.Returned(values.NewSymbolNoDescription())
	}, nil, "strict", "normal")
	in.SymbolConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Symbol", rlm)

	wellKnown := map[string]*values.Symbol{
		"iterator":           values.SymIterator,
		"asyncIterator":      values.SymAsyncIterator,
		"toPrimitive":        values.SymToPrimitive,
		"toStringTag":        values.SymToStringTag,
		"unscopables":        values.SymUnscopables,
		"hasInstance":        values.SymHasInstance,
		"isConcatSpreadable": values.SymIsConcatSpreadable,
		"species":            values.SymSpecies,
		"match":              values.SymMatch,
		"replace":            values.SymReplace,
		"search":             values.SymSearch,
		"split":              values.SymSplit,
	}
	for name, sym := range wellKnown {
		defineValue(ctor, name, sym, false)
	}

	defineMethod(rlm, ctor, "for", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		key := s.(values.String).Go()
		symbolRegistryMu.Lock()
		defer symbolRegistryMu.Unlock()
		if sym, ok := symbolRegistry[key]; ok {
			return completion.Returned(sym)
		}
		sym := &values.Symbol{Description: key, HasDesc: true, RegistryKey: key, HasKey: true}
		symbolRegistry[key] = sym
		return completion.Returned(sym)
	})
	defineMethod(rlm, ctor, "keyFor", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		sym, ok := arg(args, 0).(*values.Symbol)
		if !ok {
			return completion.Thrown(ops.TypeErrorValue("Symbol.keyFor called on a non-symbol"))
		}
		if sym.HasKey {
			return completion.Returned(values.NewString(sym.RegistryKey))
		}
		return completion.Returned(values.Undefined)
	})

	thisSymbol := func(this values.Value) (*values.Symbol, completion.Completion) {
		if s, ok := this.(*values.Symbol); ok {
			return s, completion.Empty
		}
		if o, ok := this.(*object.Object); ok && o.Class == "Symbol" {
			if s, ok := o.Internal.(*values.Symbol); ok {
				return s, completion.Empty
			}
		}
		return nil, completion.Thrown(ops.TypeErrorValue("Symbol.prototype method called on incompatible receiver"))
	}

	defineMethod(rlm, proto, "toString", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		sym, c := thisSymbol(this)
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.NewString("Symbol(" + sym.Description + ")"))
	})
	defineMethod(rlm, proto, "valueOf", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return completion.Returned(this)
	})
	proto.DefineOwnProperty(values.StringKey("description"), property.AccessorDescriptor(
		nativeFunction(rlm, "get description", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
			sym, c := thisSymbol(this)
			if c.IsAbrupt() {
				return c
			}
			if !sym.HasDesc {
				return completion.Returned(values.Undefined)
			}
			return completion.Returned(values.NewString(sym.Description))
		}),
		nil, false, true,
	))
}
