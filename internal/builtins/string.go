package builtins

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installString wires %String% and %String.prototype%, grounded on the
// teacher's internal/interp/builtins/strings.go (Pos/Copy/UpperCase-style
// functions over Go's UTF-8 `string`) and builtins/strings_compare.go's
// locale-aware CompareText (golang.org/x/text/collate), adapted to this
// engine's UTF-16 values.String by going through String.Go()/NewString at
// each method's boundary.
func installString(rlm *realm.Realm) {
	in := rlm.Intrinsics
	proto := in.StringPrototype
	proto.StringData = values.NewString("")

	ctor := object.NewFunctionObject(in.FunctionPrototype, rlm, func(this values.Value, args []values.Value) completion.Completion {
		if len(args) == 0 {
			return completion.Returned(values.NewString(""))
		}
		s, c := completion.Q(ops.ToStringValue(args[0]))
		if c.IsAbrupt() {
			return c
		}
		return completion.Returned(s.(values.Value))
	}, func(args []values.Value, newTarget values.Value) completion.Completion {
		s := values.NewString("")
		if len(args) > 0 {
			v, c := completion.Q(ops.ToStringValue(args[0]))
			if c.IsAbrupt() {
				return c
			}
			s = v.(values.String)
		}
		return completion.Returned(object.NewStringObject(proto, rlm, s))
	}, "strict", "normal")
	in.StringConstructor = ctor
	realm.LinkConstructor(ctor, proto, "String", rlm)

	defineMethod(rlm, ctor, "fromCharCode", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		units := make([]uint16, len(args))
		for i, a := range args {
			n, c := completion.Q(ops.ToNumber(a))
			if c.IsAbrupt() {
				return c
			}
			units[i] = uint16(int64(float64(n.(values.Number))))
		}
		return completion.Returned(values.FromCodeUnits(units))
	})

	thisString := func(rlm *realm.Realm, this values.Value) (values.String, completion.Completion) {
		if s, ok := this.(values.String); ok {
			return s, completion.Empty
		}
		if o, ok := this.(*object.Object); ok && o.Class == "String" {
			return o.StringData, completion.Empty
		}
		v, c := completion.Q(ops.ToStringValue(this))
		if c.IsAbrupt() {
			return nil, c
		}
		return v.(values.String), completion.Empty
	}

	method1 := func(name string, length int, fn func(s string, args []values.Value) (values.Value, completion.Completion)) {
		defineMethod(rlm, proto, name, length, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
			s, c := thisString(rlm, this)
			if c.IsAbrupt() {
				return c
			}
			v, c := fn(s.Go(), args)
			if c.IsAbrupt() {
				return c
			}
			return completion.Returned(v)
		})
	}

	method1("toUpperCase", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(strings.ToUpper(s)), completion.Empty
	})
	method1("toLowerCase", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(strings.ToLower(s)), completion.Empty
	})
	method1("trim", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(strings.TrimSpace(s)), completion.Empty
	})
	method1("trimStart", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(strings.TrimLeft(s, " \t\n\r\v\f")), completion.Empty
	})
	method1("trimEnd", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(strings.TrimRight(s, " \t\n\r\v\f")), completion.Empty
	})
	method1("toString", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(s), completion.Empty
	})
	method1("valueOf", 0, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return values.NewString(s), completion.Empty
	})
	method1("indexOf", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		sub, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		return values.Number(utf16Index(s, sub.(values.String).Go())), completion.Empty
	})
	method1("includes", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		sub, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		return values.BoolValue(strings.Contains(s, sub.(values.String).Go())), completion.Empty
	})
	method1("startsWith", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		sub, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		return values.BoolValue(strings.HasPrefix(s, sub.(values.String).Go())), completion.Empty
	})
	method1("endsWith", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		sub, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		return values.BoolValue(strings.HasSuffix(s, sub.(values.String).Go())), completion.Empty
	})
	method1("split", 2, func(s string, args []values.Value) (values.Value, completion.Completion) {
		var parts []string
		if arg(args, 0) == values.Undefined {
			parts = []string{s}
		} else {
			sep, c := completion.Q(ops.ToStringValue(arg(args, 0)))
			if c.IsAbrupt() {
				return nil, c
			}
			sepStr := sep.(values.String).Go()
			if sepStr == "" {
				parts = strings.Split(s, "")
			} else {
				parts = strings.Split(s, sepStr)
			}
		}
		out := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, uint32(len(parts)))
		for i, p := range parts {
			ops.CreateDataProperty(out, values.StringKey(itoa(i)), values.NewString(p))
		}
		return out, completion.Empty
	})
	method1("repeat", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		n, c := completion.Q(ops.ToInteger(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		count := int(n.(values.Number))
		if count < 0 {
			return nil, completion.Thrown(ops.RangeErrorValue("repeat count must be non-negative"))
		}
		return values.NewString(strings.Repeat(s, count)), completion.Empty
	})
	method1("concat", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		out := s
		for _, a := range args {
			v, c := completion.Q(ops.ToStringValue(a))
			if c.IsAbrupt() {
				return nil, c
			}
			out += v.(values.String).Go()
		}
		return values.NewString(out), completion.Empty
	})
	method1("charAt", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		units := values.NewString(s)
		n, c := completion.Q(ops.ToInteger(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		i := int(n.(values.Number))
		if i < 0 || i >= units.Length() {
			return values.NewString(""), completion.Empty
		}
		return values.FromCodeUnits([]uint16{units.CharCodeAt(i)}), completion.Empty
	})
	method1("charCodeAt", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		units := values.NewString(s)
		n, c := completion.Q(ops.ToInteger(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		i := int(n.(values.Number))
		if i < 0 || i >= units.Length() {
			return values.Number(nan()), completion.Empty
		}
		return values.Number(units.CharCodeAt(i)), completion.Empty
	})
	method1("slice", 2, func(s string, args []values.Value) (values.Value, completion.Completion) {
		units := values.NewString(s)
		length := units.Length()
		start, c := relativeIndex(args, 0, length, 0)
		if c.IsAbrupt() {
			return nil, c
		}
		end, c := relativeIndex(args, 1, length, length)
		if c.IsAbrupt() {
			return nil, c
		}
		if start >= end {
			return values.NewString(""), completion.Empty
		}
		return values.FromCodeUnits([]uint16(units[start:end])), completion.Empty
	})
	method1("substring", 2, func(s string, args []values.Value) (values.Value, completion.Completion) {
		units := values.NewString(s)
		length := units.Length()
		start, c := nonNegIndex(args, 0, length, 0)
		if c.IsAbrupt() {
			return nil, c
		}
		end, c := nonNegIndex(args, 1, length, length)
		if c.IsAbrupt() {
			return nil, c
		}
		if start > end {
			start, end = end, start
		}
		return values.FromCodeUnits([]uint16(units[start:end])), completion.Empty
	})
	method1("padStart", 2, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return padString(s, args, true)
	})
	method1("padEnd", 2, func(s string, args []values.Value) (values.Value, completion.Completion) {
		return padString(s, args, false)
	})
	method1("normalize", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		form := "NFC"
		if arg(args, 0) != values.Undefined {
			f, c := completion.Q(ops.ToStringValue(arg(args, 0)))
			if c.IsAbrupt() {
				return nil, c
			}
			form = f.(values.String).Go()
		}
		var nf norm.Form
		switch form {
		case "NFD":
			nf = norm.NFD
		case "NFKC":
			nf = norm.NFKC
		case "NFKD":
			nf = norm.NFKD
		default:
			nf = norm.NFC
		}
		return values.NewString(nf.String(s)), completion.Empty
	})
	method1("localeCompare", 1, func(s string, args []values.Value) (values.Value, completion.Completion) {
		other, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return nil, c
		}
		col := collate.New(language.Und)
		return values.Number(col.CompareString(s, other.(values.String).Go())), completion.Empty
	})

	defineMethod(rlm, proto, "at", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		s, c := thisString(rlm, this)
		if c.IsAbrupt() {
			return c
		}
		n, c := completion.Q(ops.ToInteger(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		i := int(n.(values.Number))
		if i < 0 {
			i += s.Length()
		}
		if i < 0 || i >= s.Length() {
			return completion.Returned(values.Undefined)
		}
		return completion.Returned(values.FromCodeUnits([]uint16{s.CharCodeAt(i)}))
	})
}

func utf16Index(s, sub string) int {
	byteIdx := strings.Index(s, sub)
	if byteIdx < 0 {
		return -1
	}
	return len(utf16.Encode([]rune(s[:byteIdx])))
}

func padString(s string, args []values.Value, start bool) (values.Value, completion.Completion) {
	n, c := completion.Q(ops.ToInteger(arg(args, 0)))
	if c.IsAbrupt() {
		return nil, c
	}
	targetLen := int(n.(values.Number))
	units := values.NewString(s)
	if targetLen <= units.Length() {
		return units, completion.Empty
	}
	pad := " "
	if arg(args, 1) != values.Undefined {
		p, c := completion.Q(ops.ToStringValue(arg(args, 1)))
		if c.IsAbrupt() {
			return nil, c
		}
		pad = p.(values.String).Go()
		if pad == "" {
			return units, completion.Empty
		}
	}
	need := targetLen - units.Length()
	fill := strings.Repeat(pad, need/len([]rune(pad))+1)
	fillUnits := values.NewString(fill)[:need]
	if start {
		return values.FromCodeUnits(append(append([]uint16{}, fillUnits...), units...)), completion.Empty
	}
	return values.FromCodeUnits(append(append([]uint16{}, units...), fillUnits...)), completion.Empty
}

func nonNegIndex(args []values.Value, pos, length, def int) (int, completion.Completion) {
	if pos >= len(args) || args[pos] == values.Undefined {
		return def, completion.Empty
	}
	n, c := completion.Q(ops.ToInteger(args[pos]))
	if c.IsAbrupt() {
		return 0, c
	}
	return clampInt(int(n.(values.Number)), 0, length), completion.Empty
}

func nan() float64 {
	var z float64
	return z / z
}
