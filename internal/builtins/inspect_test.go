package builtins

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/ecmax-lang/ecmax/internal/object"
	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Snapshot-tests Inspect's rendering of each value kind, grounded on the
// teacher's fixture_test.go use of snaps.MatchSnapshot for expected-output
// comparison (here applied to the inspect formatter instead of a whole
// script's stdout, since ecmax has no line-oriented fixture corpus).
func TestInspectSnapshot(t *testing.T) {
	rlm := newTestRealm()

	obj := object.NewObject(rlm.Intrinsics.ObjectPrototype, rlm)
	obj.DefineOwnProperty(values.StringKey("a"), property.DataDescriptor(values.Number(1), true, true, true))

	cases := map[string]values.Value{
		"undefined": values.Undefined,
		"null":      values.Null,
		"boolean":   values.BoolValue(true),
		"number":    values.Number(3.5),
		"string":    values.NewString("hi"),
		"object":    obj,
	}
	for name, v := range cases {
		snaps.MatchSnapshot(t, name, Inspect(v, rlm, map[*object.Object]bool{}))
	}
}
