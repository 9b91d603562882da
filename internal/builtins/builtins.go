package builtins

import (
	"math"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Install populates every intrinsic method body onto the prototype/
// constructor objects realm.Bootstrap already allocated, then attaches the
// global free functions spec.md §4.6 lists outside any namespace object
// (parseInt/parseFloat, the same function objects as Number's statics,
// plus isNaN/isFinite, which apply ToNumber to their argument first). Call
// this once per realm, immediately
// after Bootstrap and before any script runs in it.
func Install(rlm *realm.Realm) {
	installObject(rlm)
	installFunction(rlm)
	installArray(rlm)
	installString(rlm)
	installNumber(rlm)
	installBoolean(rlm)
	installSymbol(rlm)
	installError(rlm)
	installMath(rlm)
	installJSON(rlm)
	installPromise(rlm)
	installConsole(rlm)
	installURIFunctions(rlm)
	installGlobalFunctions(rlm)
}

func installGlobalFunctions(rlm *realm.Realm) {
	g := rlm.GlobalObject
	in := rlm.Intrinsics

	g.DefineOwnProperty(values.StringKey("globalThis"), dataProp(g))
	g.DefineOwnProperty(values.StringKey("undefined"), dataProp(values.Undefined))
	g.DefineOwnProperty(values.StringKey("NaN"), dataProp(values.Number(math.NaN())))
	g.DefineOwnProperty(values.StringKey("Infinity"), dataProp(values.Number(math.Inf(1))))

	copyStatic := func(name string) {
		fn, c := completion.Q(ops.Get(in.NumberConstructor, values.StringKey(name)))
		if c.IsAbrupt() {
			return
		}
		g.DefineOwnProperty(values.StringKey(name), dataProp(fn.(values.Value)))
	}
	copyStatic("parseInt")
	copyStatic("parseFloat")

	defineMethod(rlm, g, "isNaN", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := completion.Q(ops.ToNumber(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.BoolValue(math.IsNaN(float64(n.(values.Number)))))
	})
	defineMethod(rlm, g, "isFinite", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := completion.Q(ops.ToNumber(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		f := float64(n.(values.Number))
		return completion.Returned(values.BoolValue(!math.IsNaN(f) && !math.IsInf(f, 0)))
	})
}
