package property

import (
	"testing"

	"github.com/ecmax-lang/ecmax/internal/values"
)

func TestValidateNewPropertyRequiresExtensible(t *testing.T) {
	_, ok := ValidateAndApplyPropertyDescriptor(Current{}, false, DataDescriptor(values.Number(1), true, true, true))
	if ok {
		t.Fatalf("defining a new property on a non-extensible object must fail")
	}
}

func TestValidateNewPropertyOnExtensibleSucceeds(t *testing.T) {
	d, ok := ValidateAndApplyPropertyDescriptor(Current{}, true, DataDescriptor(values.Number(1), true, true, true))
	if !ok || !d.HasValue {
		t.Fatalf("defining a new property on an extensible object must succeed")
	}
}

func TestNonConfigurableCannotBecomeConfigurable(t *testing.T) {
	current := Current{Present: true, Descriptor: DataDescriptor(values.Number(1), true, true, false)}
	desc := Descriptor{Configurable: true, HasConfigurable: true}
	_, ok := ValidateAndApplyPropertyDescriptor(current, true, desc)
	if ok {
		t.Fatalf("configurable:false -> true must be rejected")
	}
}

func TestNonConfigurableNonWritableCannotChangeValue(t *testing.T) {
	current := Current{Present: true, Descriptor: DataDescriptor(values.Number(1), false, true, false)}
	desc := Descriptor{Value: values.Number(2), HasValue: true}
	_, ok := ValidateAndApplyPropertyDescriptor(current, true, desc)
	if ok {
		t.Fatalf("a non-configurable non-writable data property must reject a differing value")
	}

	sameValueDesc := Descriptor{Value: values.Number(1), HasValue: true}
	_, ok = ValidateAndApplyPropertyDescriptor(current, true, sameValueDesc)
	if !ok {
		t.Fatalf("re-defining with SameValue must succeed even when non-configurable/non-writable")
	}
}

func TestWritableMayOnlyBeTightened(t *testing.T) {
	current := Current{Present: true, Descriptor: DataDescriptor(values.Number(1), false, true, false)}
	desc := Descriptor{Writable: true, HasWritable: true}
	_, ok := ValidateAndApplyPropertyDescriptor(current, true, desc)
	if ok {
		t.Fatalf("writable:false -> true on a non-configurable property must be rejected")
	}
}

func TestDataAndAccessorCannotInterconvertWhenNonConfigurable(t *testing.T) {
	current := Current{Present: true, Descriptor: DataDescriptor(values.Number(1), true, true, false)}
	desc := Descriptor{Get: values.Undefined, HasGet: true}
	_, ok := ValidateAndApplyPropertyDescriptor(current, true, desc)
	if ok {
		t.Fatalf("a non-configurable data property must not convert to an accessor property")
	}
}

func TestCompletePropertyDescriptorFillsDataDefaults(t *testing.T) {
	d := CompletePropertyDescriptor(Descriptor{})
	if !d.HasValue || d.Value != values.Undefined {
		t.Fatalf("generic descriptor must complete to a data descriptor with Value: undefined")
	}
	if d.Writable || d.Enumerable || d.Configurable {
		t.Fatalf("absent boolean fields must default to false")
	}
}
