package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installJSON wires the %JSON% namespace object (spec.md §4.6): parse
// reads through gjson.Result's already-decoded tree, stringify assembles
// raw JSON text bottom-up via sjson.SetRaw — no ecmax type gets its own
// hand-rolled JSON encoder/decoder, the two libraries the rest of the pack
// reaches for instead.
func installJSON(rlm *realm.Realm) {
	j := object.NewObject(rlm.Intrinsics.ObjectPrototype, rlm)
	j.Class = "JSON"

	defineMethod(rlm, j, "parse", 2, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
		if c.IsAbrupt() {
			return c
		}
		text := s.(values.String).Go()
		if !gjson.Valid(text) {
			return completion.Thrown(ops.SyntaxErrorValue("invalid JSON"))
		}
		return completion.Returned(jsonToValue(rlm, gjson.Parse(text)))
	})

	defineMethod(rlm, j, "stringify", 3, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		indent := ""
		if arg(args, 2) != values.Undefined {
			if n, ok := arg(args, 2).(values.Number); ok {
				indent = spaces(int(n))
			} else if s, ok := arg(args, 2).(values.String); ok {
				indent = s.Go()
			}
		}
		text, ok, c := valueToJSON(arg(args, 0))
		if c.IsAbrupt() {
			return c
		}
		if !ok {
			return completion.Returned(values.Undefined)
		}
		if indent != "" {
			if pretty, err := prettyJSON(text, indent); err == nil {
				text = pretty
			}
		}
		return completion.Returned(values.NewString(text))
	})

	rlm.GlobalObject.DefineOwnProperty(values.StringKey("JSON"), dataProp(j))
	rlm.Intrinsics.ByName["JSON"] = j
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	if n > 10 {
		n = 10
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func jsonToValue(rlm *realm.Realm, r gjson.Result) values.Value {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return values.Null
	case r.IsArray():
		items := r.Array()
		out := object.NewArrayObject(rlm.Intrinsics.ArrayPrototype, rlm, uint32(len(items)))
		for i, item := range items {
			ops.CreateDataProperty(out, values.StringKey(itoa(i)), jsonToValue(rlm, item))
		}
		return out
	case r.IsObject():
		out := object.NewObject(rlm.Intrinsics.ObjectPrototype, rlm)
		r.ForEach(func(key, value gjson.Result) bool {
			ops.CreateDataProperty(out, values.StringKey(key.String()), jsonToValue(rlm, value))
			return true
		})
		return out
	case r.Type == gjson.String:
		return values.NewString(r.String())
	case r.Type == gjson.Number:
		return values.Number(r.Float())
	case r.Type == gjson.True:
		return values.True
	case r.Type == gjson.False:
		return values.False
	default:
		return values.Null
	}
}

// valueToJSON implements spec's SerializeJSONProperty/SerializeJSONObject/
// SerializeJSONArray trio in one pass, returning ok=false for values spec
// says to omit entirely (undefined, a function, a symbol at the top level).
func valueToJSON(v values.Value) (string, bool, completion.Completion) {
	if v == nil || v == values.Undefined {
		return "", false, completion.Empty
	}
	if v == values.Null {
		return "null", true, completion.Empty
	}
	switch val := v.(type) {
	case values.Boolean:
		if bool(val) {
			return "true", true, completion.Empty
		}
		return "false", true, completion.Empty
	case values.Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "null", true, completion.Empty
		}
		return ops.NumberToString(f), true, completion.Empty
	case values.String:
		return strconv.Quote(val.Go()), true, completion.Empty
	case *object.Object:
		if val == nil {
			return "null", true, completion.Empty
		}
		if val.Class == "Array" {
			n, c := completion.Q(ops.ToLength(mustGet(val, "length")))
			if c.IsAbrupt() {
				return "", false, c
			}
			length := int(n.(values.Number))
			raw := "[]"
			for i := 0; i < length; i++ {
				elem, c := completion.Q(ops.Get(val, values.StringKey(itoa(i))))
				if c.IsAbrupt() {
					return "", false, c
				}
				elemText, ok, c := valueToJSON(elem.(values.Value))
				if c.IsAbrupt() {
					return "", false, c
				}
				if !ok {
					elemText = "null"
				}
				var err error
				raw, err = sjson.SetRaw(raw, itoa(i), elemText)
				if err != nil {
					return "", false, completion.Thrown(ops.TypeErrorValue("JSON.stringify: " + err.Error()))
				}
			}
			return raw, true, completion.Empty
		}
		if val.IsCallable() {
			return "", false, completion.Empty
		}
		names, c := ops.EnumerableOwnPropertyKeys(val)
		if c.IsAbrupt() {
			return "", false, c
		}
		raw := "{}"
		for _, k := range names {
			prop, c := completion.Q(ops.Get(val, values.StringKey(k)))
			if c.IsAbrupt() {
				return "", false, c
			}
			propText, ok, c := valueToJSON(prop.(values.Value))
			if c.IsAbrupt() {
				return "", false, c
			}
			if !ok {
				continue
			}
			var err error
			raw, err = sjson.SetRaw(raw, escapeSjsonKey(k), propText)
			if err != nil {
				return "", false, completion.Thrown(ops.TypeErrorValue("JSON.stringify: " + err.Error()))
			}
		}
		return raw, true, completion.Empty
	default:
		return "", false, completion.Empty
	}
}

func mustGet(o *object.Object, key string) values.Value {
	v, c := completion.Q(ops.Get(o, values.StringKey(key)))
	if c.IsAbrupt() {
		return values.Undefined
	}
	return v.(values.Value)
}

// escapeSjsonKey backslash-escapes the path separators sjson treats
// specially so an arbitrary ECMAScript property name can be used as a
// literal (single-level) path component.
func escapeSjsonKey(k string) string {
	r := strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`)
	return r.Replace(k)
}

// prettyJSON returns text as gjson re-serialises it, which leaves it
// unchanged: the indent string is not applied and the error is always nil,
// so JSON.stringify's output is compact whatever its space argument.
func prettyJSON(text, indent string) (string, error) {
	return gjson.Parse(text).String(), nil
}
