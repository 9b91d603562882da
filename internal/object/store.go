package object

import (
	"sort"
	"strconv"

	"github.com/ecmax-lang/ecmax/internal/property"
	"github.com/ecmax-lang/ecmax/internal/values"
)

// Store is the insertion-order-preserving own-property table every Object
// carries (spec.md §3: "a property store ... preserving insertion order for
// ordinary objects"). It is deliberately a map plus an order slice rather
// than a single ordered-map type: OwnKeys needs array-index keys sorted
// numerically ahead of everything else (spec.md §4.2), which a plain
// insertion-order structure can't give you without a second pass anyway.
type Store struct {
	data  map[values.PropertyKey]property.Descriptor
	order []values.PropertyKey // insertion order, across both string and symbol keys
}

func newStore() *Store {
	return &Store{data: make(map[values.PropertyKey]property.Descriptor)}
}

func (s *Store) get(key values.PropertyKey) (property.Descriptor, bool) {
	d, ok := s.data[key]
	return d, ok
}

func (s *Store) set(key values.PropertyKey, d property.Descriptor) {
	if _, exists := s.data[key]; !exists {
		s.order = append(s.order, key)
	}
	s.data[key] = d
}

func (s *Store) delete(key values.PropertyKey) {
	if _, exists := s.data[key]; !exists {
		return
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k.Equal(key) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// arrayIndex reports whether key is a canonical array-index string key
// (spec's array index: a String key whose value is a canonical numeric
// string in [0, 2^32-2]) and its numeric value.
func arrayIndex(key values.PropertyKey) (uint32, bool) {
	if key.IsSym {
		return 0, false
	}
	s := key.Str
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > 4294967294 {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != s {
		return 0, false // rejects leading zeros etc.
	}
	return uint32(n), true
}

// orderedKeys returns the store's own keys in spec order (spec.md §4.2):
// integer-index keys ascending numerically, then string keys in insertion
// order, then symbol keys in insertion order.
func (s *Store) orderedKeys() []values.PropertyKey {
	var indices []uint32
	var strs, syms []values.PropertyKey
	indexOf := map[uint32]values.PropertyKey{}

	for _, k := range s.order {
		if idx, ok := arrayIndex(k); ok {
			indices = append(indices, idx)
			indexOf[idx] = k
			continue
		}
		if k.IsSym {
			syms = append(syms, k)
		} else {
			strs = append(strs, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	out := make([]values.PropertyKey, 0, len(s.order))
	for _, idx := range indices {
		out = append(out, indexOf[idx])
	}
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}
