package property

import "github.com/ecmax-lang/ecmax/internal/values"

// ValidateAndApplyPropertyDescriptor merges desc into current (which is
// absent-valued — Present==false — when the key has no own property yet)
// under the extensibility/configurability rules of spec.md §4.2:
//
//   - configurability may only be changed from true to false
//   - writability may only be tightened (true -> false) on a non-configurable
//     data property, never loosened
//   - a non-configurable data and accessor descriptor may not interconvert
//
// It returns the descriptor to store (fully merged with current) and
// whether the operation is valid; callers (OrdinaryDefineOwnProperty and the
// exotic variants that pre-check their own invariants first) translate a
// false return into a throw or a silent no-op per the caller's own
// semantics (strict vs non-strict define).
func ValidateAndApplyPropertyDescriptor(current Current, extensible bool, desc Descriptor) (Descriptor, bool) {
	if !current.Present {
		if !extensible {
			return Descriptor{}, false
		}
		if desc.IsGenericDescriptor() || desc.IsDataDescriptor() {
			return CompletePropertyDescriptor(desc), true
		}
		return CompletePropertyDescriptor(desc), true
	}

	// No fields to change at all: trivially valid.
	if isEmpty(desc) {
		return current.Descriptor, true
	}

	if !current.Descriptor.Configurable {
		if desc.HasConfigurable && desc.Configurable {
			return Descriptor{}, false
		}
		if desc.HasEnumerable && desc.Enumerable != current.Descriptor.Enumerable {
			return Descriptor{}, false
		}
	}

	merged := current.Descriptor

	switch {
	case desc.IsGenericDescriptor():
		// Nothing kind-specific to check; fall through to field merge.
	case current.Descriptor.IsDataDescriptor() != desc.IsDataDescriptor():
		if !current.Descriptor.Configurable {
			return Descriptor{}, false
		}
		// Convert between data and accessor, preserving Enumerable/
		// Configurable and resetting the other fields to their defaults.
		if current.Descriptor.IsDataDescriptor() {
			merged = Descriptor{
				Get: values.Undefined, HasGet: true,
				Set: values.Undefined, HasSet: true,
			}
		} else {
			merged = Descriptor{
				Value: values.Undefined, HasValue: true,
				Writable: false, HasWritable: true,
			}
		}
		merged.Enumerable, merged.HasEnumerable = current.Descriptor.Enumerable, true
		merged.Configurable, merged.HasConfigurable = current.Descriptor.Configurable, true
	case current.Descriptor.IsDataDescriptor() && desc.IsDataDescriptor():
		if !current.Descriptor.Configurable && !current.Descriptor.Writable {
			if desc.HasWritable && desc.Writable {
				return Descriptor{}, false
			}
			if desc.HasValue && !values.SameValue(desc.Value, current.Descriptor.Value) {
				return Descriptor{}, false
			}
		}
	default: // both accessor
		if !current.Descriptor.Configurable {
			if desc.HasGet && !sameFunctionOrAbsent(desc.Get, current.Descriptor.Get) {
				return Descriptor{}, false
			}
			if desc.HasSet && !sameFunctionOrAbsent(desc.Set, current.Descriptor.Set) {
				return Descriptor{}, false
			}
		}
	}

	if desc.HasValue {
		merged.Value, merged.HasValue = desc.Value, true
	}
	if desc.HasWritable {
		merged.Writable, merged.HasWritable = desc.Writable, true
	}
	if desc.HasGet {
		merged.Get, merged.HasGet = desc.Get, true
	}
	if desc.HasSet {
		merged.Set, merged.HasSet = desc.Set, true
	}
	if desc.HasEnumerable {
		merged.Enumerable, merged.HasEnumerable = desc.Enumerable, true
	}
	if desc.HasConfigurable {
		merged.Configurable, merged.HasConfigurable = desc.Configurable, true
	}

	return merged, true
}

// Current is what the caller looks up before calling
// ValidateAndApplyPropertyDescriptor: the own descriptor if one exists, or
// Present: false when the key is not yet an own property.
type Current struct {
	Descriptor Descriptor
	Present    bool
}

func isEmpty(d Descriptor) bool {
	return !d.HasValue && !d.HasWritable && !d.HasGet && !d.HasSet && !d.HasEnumerable && !d.HasConfigurable
}

func sameFunctionOrAbsent(a, b values.Value) bool {
	return a == b
}
