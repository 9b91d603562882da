// Package property implements the property-descriptor machinery of
// spec.md §4.2: data/accessor descriptors with possibly-absent fields, and
// ValidateAndApplyPropertyDescriptor, the algorithm every object kind's
// [[DefineOwnProperty]] routes through (ordinary objects directly; exotic
// objects after their own kind-specific pre-checks).
package property

import "github.com/ecmax-lang/ecmax/internal/values"

// Descriptor is a property descriptor. Unlike a struct with plain fields,
// every field is independently "present or absent" (spec.md §3: "Fields may
// be absent; absent fields have descriptor-composition semantics distinct
// from undefined"), so each value field is paired with a Has* bool rather
// than using a pointer-or-nil convention — a nil Value would be ambiguous
// with "absent" whereas an explicit bool is not.
type Descriptor struct {
	Value    values.Value
	HasValue bool
	Get      values.Value // callable Object, or values.Undefined to mean "no getter"
	HasGet   bool
	Set      values.Value
	HasSet   bool

	Writable        bool
	HasWritable     bool
	Enumerable      bool
	HasEnumerable   bool
	Configurable    bool
	HasConfigurable bool
}

// IsDataDescriptor reports whether d has a Value or Writable field (spec
// IsDataDescriptor). A fully-absent descriptor is neither.
func (d Descriptor) IsDataDescriptor() bool { return d.HasValue || d.HasWritable }

// IsAccessorDescriptor reports whether d has a Get or Set field.
func (d Descriptor) IsAccessorDescriptor() bool { return d.HasGet || d.HasSet }

// IsGenericDescriptor reports whether d is neither a data nor an accessor
// descriptor (only Enumerable/Configurable set, or fully absent) — the
// spec's IsGenericDescriptor.
func (d Descriptor) IsGenericDescriptor() bool {
	return !d.IsDataDescriptor() && !d.IsAccessorDescriptor()
}

// DataDescriptor builds a fully-populated data descriptor, the shape used
// when installing intrinsic methods and properties at realm-bootstrap time.
func DataDescriptor(v values.Value, writable, enumerable, configurable bool) Descriptor {
	return Descriptor{
		Value: v, HasValue: true,
		Writable: writable, HasWritable: true,
		Enumerable: enumerable, HasEnumerable: true,
		Configurable: configurable, HasConfigurable: true,
	}
}

// AccessorDescriptor builds a fully-populated accessor descriptor.
func AccessorDescriptor(get, set values.Value, enumerable, configurable bool) Descriptor {
	return Descriptor{
		Get: get, HasGet: true,
		Set: set, HasSet: true,
		Enumerable: enumerable, HasEnumerable: true,
		Configurable: configurable, HasConfigurable: true,
	}
}

// CompletePropertyDescriptor fills in spec-defined defaults for every absent
// field (spec's CompletePropertyDescriptor), used before handing a
// descriptor back to script code from e.g. Object.getOwnPropertyDescriptor.
func CompletePropertyDescriptor(d Descriptor) Descriptor {
	if d.IsGenericDescriptor() || d.IsDataDescriptor() {
		if !d.HasValue {
			d.Value, d.HasValue = values.Undefined, true
		}
		if !d.HasWritable {
			d.Writable, d.HasWritable = false, true
		}
	} else {
		if !d.HasGet {
			d.Get, d.HasGet = values.Undefined, true
		}
		if !d.HasSet {
			d.Set, d.HasSet = values.Undefined, true
		}
	}
	if !d.HasEnumerable {
		d.Enumerable, d.HasEnumerable = false, true
	}
	if !d.HasConfigurable {
		d.Configurable, d.HasConfigurable = false, true
	}
	return d
}
