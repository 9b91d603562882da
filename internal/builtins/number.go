package builtins

import (
	"math"
	"strconv"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

func installNumber(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.NumberPrototype
	proto.Class = "Number"

	toThisNumber := func(this values.Value) (float64, completion.Completion) {
		if n, ok := this.(values.Number); ok {
			return float64(n), completion.Empty
		}
		if o, ok := this.(*object.Object); ok && o.Class == "Number" {
			if n, ok := o.Internal.(values.Number); ok {
				return float64(n), completion.Empty
			}
		}
		return 0, completion.Thrown(ops.TypeErrorValue("Number.prototype method called on incompatible receiver"))
	}

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		if len(args) == 0 {
			return completion.Returned(values.Number(0))
		}
		n, c := completion.Q(ops.ToNumber(args[0]))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(n.(values.Value))
	}, func(args []values.Value, newTarget values.Value) completion.Completion {
		n := values.Number(0)
		if len(args) > 0 {
			v, c := completion.Q(ops.ToNumber(args[0]))
			if c.IsAbrupt() {
				return c
			}
			n = v.(values.Number)
		}
		o := object.NewObject(proto, rlm)
		o.Class = "Number"
		o.Internal = n
		return completion.Returned(o)
	}, "strict", "normal")
	in.NumberConstructor = ctor
	realm.LinkConstructor(ctor, proto, "Number", rlm)

	defineValue(ctor, "EPSILON", values.Number(2.220446049250313e-16), false)
	defineValue(ctor, "MAX_SAFE_INTEGER", values.Number(9007199254740991), false)
	defineValue(ctor, "MIN_SAFE_INTEGER", values.Number(-9007199254740991), false)
	defineValue(ctor, "MAX_VALUE", values.Number(math.MaxFloat64), false)
	defineValue(ctor, "MIN_VALUE", values.Number(5e-324), false)
	defineValue(ctor, "POSITIVE_INFINITY", values.Number(math.Inf(1)), false)
	defineValue(ctor, "NEGATIVE_INFINITY", values.Number(math.Inf(-1)), false)
	defineValue(ctor, "NaN", values.Number(math.NaN()), false)

	defineMethod(rlm, ctor, "isInteger", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, ok := arg(args, 0).(values.Number)
		return completion.Returned(values.BoolValue(ok && !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0) && math.Trunc(float64(n)) == float64(n)))
	})
	defineMethod(rlm, ctor, "isFinite", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, ok := arg(args, 0).(values.Number)
		return completion.Returned(values.BoolValue(ok && !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)))
	})
	defineMethod(rlm, ctor, "isNaN", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, ok := arg(args, 0).(values.Number)
		return completion.Returned(values.BoolValue(ok && math.IsNaN(float64(n))))
	})
	defineMethod(rlm, ctor, "parseFloat", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return globalParseFloat(rlm, this, args)
	})
	defineMethod(rlm, ctor, "parseInt", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return globalParseInt(rlm, this, args)
	})

	defineMethod(rlm, proto, "toString", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := toThisNumber(this)
		if c.IsAbrupt() {
			return c
		}
		radix := 10
		if arg(args, 0) != values.Undefined {
			r, c := completion.Q(ops.ToInteger(arg(args, 0)))
			if c.IsAbrupt() {
				return c
			}
			radix = int(r.(values.Number))
		}
		if radix == 10 {
			return completion.Returned(values.NewString(ops.NumberToString(n)))
		}
		return completion.Returned(values.NewString(strconv.FormatInt(int64(n), radix)))
	})
	defineMethod(rlm, proto, "valueOf", 0, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := toThisNumber(this)
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.Number(n))
	})
	defineMethod(rlm, proto, "toFixed", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := toThisNumber(this)
		if c.IsAbrupt() {
			return c
		}
		digits := 0
		if arg(args, 0) != values.Undefined {
			d, c := completion.Q(ops.ToInteger(arg(args, 0)))
			if c.IsAbrupt() {
				return c
			}
			digits = int(d.(values.Number))
		}
		return completion.Returned(values.NewString(strconv.FormatFloat(n, 'f', digits, 64)))
	})
	defineMethod(rlm, proto, "toPrecision", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		n, c := toThisNumber(this)
		if c.IsAbrupt() {
			return c
		}
		if arg(args, 0) == values.Undefined {
			return completion.Returned(values.NewString(ops.NumberToString(n)))
		}
		p, c := completion.Q(ops.ToInteger(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(values.NewString(strconv.FormatFloat(n, 'g', int(p.(values.Number)), 64)))
	})
}

func globalParseFloat(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
	s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
	if c.IsAbrupt() {
		return c
	}
	str := trimLeadingSpace(s.(values.String).Go())
	end := 0
	for end < len(str) && isFloatChar(str, end) {
		end++
	}
	f, err := strconv.ParseFloat(str[:end], 64)
	if err != nil {
		return completion.Returned(values.Number(math.NaN()))
	}
	return completion.Returned(values.Number(f))
}

func globalParseInt(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
	s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
	if c.IsAbrupt() {
		return c
	}
	str := trimLeadingSpace(s.(values.String).Go())
	radix := 10
	if arg(args, 1) != values.Undefined {
		r, c := completion.Q(ops.ToInteger(arg(args, 1)))
		if c.IsAbrupt() {
			return c
		}
		radix = int(r.(values.Number))
		if radix == 0 {
			radix = 10
		}
	}
	neg := false
	if len(str) > 0 && (str[0] == '+' || str[0] == '-') {
		neg = str[0] == '-'
		str = str[1:]
	}
	if radix == 16 || radix == 0 {
		if len(str) > 1 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X') {
			str = str[2:]
			radix = 16
		}
	}
	end := 0
	for end < len(str) && digitValue(str[end]) < radix {
		end++
	}
	if end == 0 {
		return completion.Returned(values.Number(math.NaN()))
	}
	n, err := strconv.ParseInt(str[:end], radix, 64)
	if err != nil {
		return completion.Returned(values.Number(math.NaN()))
	}
	if neg {
		n = -n
	}
	return completion.Returned(values.Number(n))
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	default:
		return 99
	}
}

func isFloatChar(s string, i int) bool {
	b := s[i]
	return b == '+' || b == '-' || b == '.' || b == 'e' || b == 'E' || (b >= '0' && b <= '9')
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return s[i:]
}
