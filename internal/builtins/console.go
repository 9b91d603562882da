package builtins

import (
	"fmt"
	"os"
	"strings"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// installConsole wires a host console object on top of Inspect below,
// spec.md §6's embedder-facing `inspect(value, realm)` given a concrete
// script-facing consumer (the teacher has no equivalent; DWScript programs
// write through WriteLn against interp.Context's io.Writer, so the
// Fprintln-to-os.Stdout-by-default shape here is grounded on that, not on
// any host's console API).
func installConsole(rlm *realm.Realm) {
	c := object.NewObject(rlm.Intrinsics.ObjectPrototype, rlm)
	c.Class = "console"

	logTo := func(w *os.File) method {
		return func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = Inspect(a, rlm, map[*object.Object]bool{})
			}
			fmt.Fprintln(w, strings.Join(parts, " "))
			return completion.Returned(values.Undefined)
		}
	}
	defineMethod(rlm, c, "log", 0, logTo(os.Stdout))
	defineMethod(rlm, c, "info", 0, logTo(os.Stdout))
	defineMethod(rlm, c, "debug", 0, logTo(os.Stdout))
	defineMethod(rlm, c, "warn", 0, logTo(os.Stderr))
	defineMethod(rlm, c, "error", 0, logTo(os.Stderr))

	rlm.GlobalObject.DefineOwnProperty(values.StringKey("console"), dataProp(c))
	rlm.Intrinsics.ByName["console"] = c
}

// Inspect renders v the way a REPL or console.log would, following
// reference identity to break cycles ("[Circular]") rather than
// recursing forever — spec.md §6 names this exact signature
// (`inspect(value, realm) → string`) as part of the embedder API, so
// pkg/esvm re-exports this function rather than duplicating it.
func Inspect(v values.Value, rlm *realm.Realm, seen map[*object.Object]bool) string {
	switch val := v.(type) {
	case nil:
		return "undefined"
	case values.Boolean:
		if bool(val) {
			return "true"
		}
		return "false"
	case values.Number:
		return ops.NumberToString(float64(val))
	case values.String:
		return quoteString(val.Go())
	case *values.Symbol:
		return "Symbol(" + val.Description + ")"
	case values.BigInt:
		return val.V.String() + "n"
	case *object.Object:
		return inspectObject(val, rlm, seen)
	default:
		if v == values.Undefined {
			return "undefined"
		}
		if v == values.Null {
			return "null"
		}
		return fmt.Sprintf("%v", v)
	}
}

func inspectObject(o *object.Object, rlm *realm.Realm, seen map[*object.Object]bool) string {
	if o == nil {
		return "null"
	}
	if seen[o] {
		return "[Circular]"
	}
	seen[o] = true
	defer delete(seen, o)

	if o.IsCallable() {
		name, c := completion.Q(ops.Get(o, values.StringKey("name")))
		label := "anonymous"
		if !c.IsAbrupt() {
			if s, ok := name.(values.Value).(values.String); ok && s.Go() != "" {
				label = s.Go()
			}
		}
		return "[Function: " + label + "]"
	}
	if _, ok := ops.PromiseDataOf(o); ok {
		pd, _ := ops.PromiseDataOf(o)
		switch pd.State {
		case ops.PromisePending:
			return "Promise { <pending> }"
		case ops.PromiseFulfilled:
			return "Promise { " + Inspect(pd.Result, rlm, seen) + " }"
		default:
			return "Promise { <rejected> " + Inspect(pd.Result, rlm, seen) + " }"
		}
	}
	if o.Class == "Array" {
		n, c := completion.Q(ops.ToLength(mustGet(o, "length")))
		if c.IsAbrupt() {
			return "[]"
		}
		length := int(n.(values.Number))
		parts := make([]string, length)
		for i := 0; i < length; i++ {
			elem, c := completion.Q(ops.Get(o, values.StringKey(itoa(i))))
			if c.IsAbrupt() {
				parts[i] = "<error>"
				continue
			}
			parts[i] = Inspect(elem.(values.Value), rlm, seen)
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	}
	if o.Class == "Error" {
		name, _ := completion.Q(ops.Get(o, values.StringKey("name")))
		msg, _ := completion.Q(ops.Get(o, values.StringKey("message")))
		n, m := "Error", ""
		if name != nil {
			if s, ok := name.(values.Value).(values.String); ok {
				n = s.Go()
			}
		}
		if msg != nil {
			if s, ok := msg.(values.Value).(values.String); ok {
				m = s.Go()
			}
		}
		if m == "" {
			return n
		}
		return n + ": " + m
	}

	keys, c := ops.EnumerableOwnPropertyKeys(o)
	if c.IsAbrupt() {
		return "{}"
	}
	if len(keys) == 0 {
		return "{}"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, c := completion.Q(ops.Get(o, values.StringKey(k)))
		if c.IsAbrupt() {
			parts[i] = k + ": <error>"
			continue
		}
		parts[i] = k + ": " + Inspect(v.(values.Value), rlm, seen)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("\\'")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
