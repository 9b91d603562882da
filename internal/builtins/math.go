package builtins

import (
	"math"
	"math/rand"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installMath wires the %Math% namespace object (spec.md §4.6) directly
// onto Go's math package, the same one-to-one mapping the teacher's
// interp/builtins/math.go gives DWScript's Sqrt/Sin/Cos/... built-ins.
func installMath(rlm *realm.Realm) {
	in := rlm.Intrinsics
	m := object.NewObject(in.ObjectPrototype, rlm)
	m.Class = "Math"

	defineValue(m, "PI", values.Number(math.Pi), false)
	defineValue(m, "E", values.Number(math.E), false)
	defineValue(m, "LN2", values.Number(math.Ln2), false)
	defineValue(m, "LN10", values.Number(math.Log(10)), false)
	defineValue(m, "LOG2E", values.Number(1/math.Ln2), false)
	defineValue(m, "LOG10E", values.Number(1/math.Log(10)), false)
	defineValue(m, "SQRT2", values.Number(math.Sqrt2), false)
	defineValue(m, "SQRT1_2", values.Number(math.Sqrt(0.5)), false)

	unary := func(name string, fn func(float64) float64) {
		defineMethod(rlm, m, name, 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
			n, c := completion.Q(ops.ToNumber(arg(args, 0)))
			if c.IsAbrupt() {
				return c
			}
			return completion.Returned(values.Number(fn(float64(n.(values.Number)))))
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("log1p", math.Log1p)
	unary("exp", math.Exp)
	unary("expm1", math.Expm1)
	unary("sign", func(x float64) float64 {
		switch {
		case math.IsNaN(x):
			return x
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return x
		}
	})
	unary("round", func(x float64) float64 {
		return math.Floor(x + 0.5)
	})

	defineMethod(rlm, m, "pow", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		base, c := completion.Q(ops.ToNumber(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		exp, c := completion.Q(ops.ToNumber(arg(args, 1)))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.Number(math.Pow(float64(base.(values.Number)), float64(exp.(values.Number)))))
	})
	defineMethod(rlm, m, "atan2", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		y, c := completion.Q(ops.ToNumber(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		x, c := completion.Q(ops.ToNumber(arg(args, 1)))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.Number(math.Atan2(float64(y.(values.Number)), float64(x.(values.Number)))))
	})
	defineMethod(rlm, m, "hypot", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		sum := 0.0
		for _, a := range args {
			n, c := completion.Q(ops.ToNumber(a))
			if c.IsAbrupt() {
				return c
			}
			v := float64(n.(values.Number))
			sum += v * v
		}
		return completion.Returned(values.Number(math.Sqrt(sum)))
	})
	defineMethod(rlm, m, "max", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return minMax(args, false)
	})
	defineMethod(rlm, m, "min", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return minMax(args, true)
	})
	defineMethod(rlm, m, "random", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return completion.Returned(values.Number(rand.Float64()))
	})

	rlm.GlobalObject.DefineOwnProperty(values.StringKey("Math"), dataProp(m))
	in.ByName["Math"] = m
}

func minMax(args []values.Value, wantMin bool) completion.Completion {
	if len(args) == 0 {
		if wantMin {
			return completion.Returned(values.Number(math.Inf(1)))
		}
		return completion.Returned(values.Number(math.Inf(-1)))
	}
	best := math.NaN()
	for i, a := range args {
		n, c := completion.Q(ops.ToNumber(a))
		if c.IsAbrupt() {
			return c
		}
		v := float64(n.(values.Number))
		if math.IsNaN(v) {
			return completion.Returned(values.Number(math.NaN()))
		}
		if i == 0 || (wantMin && v < best) || (!wantMin && v > best) {
			best = v
		}
	}
	return completion.Returned(values.Number(best))
}
