package builtins

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ecmax-lang/ecmax/internal/completion"
	"github.com/ecmax-lang/ecmax/internal/ops"
	"github.com/ecmax-lang/ecmax/internal/realm"
	"github.com/ecmax-lang/ecmax/internal/values"
)

const unreservedComponent = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"

const unreservedURI = unreservedComponent + ";/?:@&=+$,#"

// installURIFunctions wires the four global URI encode/decode functions
// spec.md §4.6 groups with the other abstract-operation-backed globals.
// Grounded on the teacher's internal/interp/encoding.go (re-encoding
// between Pascal's native string and UTF-8 at host boundaries via
// golang.org/x/text); here the same library does the UTF-16<->UTF-8
// transcoding step at each function's boundary instead of Go's stdlib
// unicode/utf16, since the teacher already reaches for x/text for this
// exact class of problem.
func installURIFunctions(rlm *realm.Realm) {
	g := rlm.GlobalObject
	defineMethod(rlm, g, "encodeURIComponent", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return encodeURIImpl(args, unreservedComponent)
	})
	defineMethod(rlm, g, "encodeURI", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return encodeURIImpl(args, unreservedURI)
	})
	defineMethod(rlm, g, "decodeURIComponent", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return decodeURIImpl(args)
	})
	defineMethod(rlm, g, "decodeURI", 1, func(rlm *realm.Realm, this values.Value, args []values.Value) completion.Completion {
		return decodeURIImpl(args)
	})
}

func encodeURIImpl(args []values.Value, safe string) completion.Completion {
	s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
	if c.IsAbrupt() {
		return c
	}
	raw, err := utf16ToUTF8(s.(values.String))
	if err != nil {
		return completion.Thrown(ops.URIErrorValue("malformed input to encodeURI"))
	}
	var b strings.Builder
	for _, by := range raw {
		if strings.IndexByte(safe, by) >= 0 {
			b.WriteByte(by)
		} else {
			fmt.Fprintf(&b, "%%%02X", by)
		}
	}
	return completion.Returned(values.NewString(b.String()))
}

func decodeURIImpl(args []values.Value) completion.Completion {
	s, c := completion.Q(ops.ToStringValue(arg(args, 0)))
	if c.IsAbrupt() {
		return c
	}
	str := s.(values.String).Go()
	out := make([]byte, 0, len(str))
	for i := 0; i < len(str); i++ {
		if str[i] != '%' {
			out = append(out, str[i])
			continue
		}
		if i+2 >= len(str) {
			return completion.Thrown(ops.URIErrorValue("malformed URI sequence"))
		}
		hi, ok1 := hexVal(str[i+1])
		lo, ok2 := hexVal(str[i+2])
		if !ok1 || !ok2 {
			return completion.Thrown(ops.URIErrorValue("malformed URI sequence"))
		}
		out = append(out, byte(hi<<4|lo))
		i += 2
	}
	units, err := utf8ToUTF16(out)
	if err != nil {
		return completion.Thrown(ops.URIErrorValue("malformed URI sequence"))
	}
	return completion.Returned(values.FromCodeUnits(units))
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

func utf16ToUTF8(s values.String) ([]byte, error) {
	raw := make([]byte, len(s)*2)
	for i, u := range s {
		binary.BigEndian.PutUint16(raw[i*2:], u)
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	return transform.Bytes(dec, raw)
}

func utf8ToUTF16(b []byte) ([]uint16, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := transform.Bytes(enc, b)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, len(out)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(out[i*2:])
	}
	return units, nil
}
