// Copyright 2025-2026 Sam Yellin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crunch

// MapField is a fixed-capacity map that is itself a message member. Keys
// are unique by deep equality. Lookup, insert and remove are linear scans
// over the current entries; there is no hashing and no sorting. That cost
// model is the contract, chosen so that capacity alone bounds the work.
//
// Like arrays, maps carry no presence flag; length validators stand in for
// presence constraints.
type MapField[K, V any] struct {
	id         FieldID
	keys       []K
	vals       []V
	n          int
	newKey     func() K
	newVal     func() V
	validators []Validator[int]
}

// NewMapField builds a map of up to maxSize entries. newKey and newVal
// must return fresh element containers; any non-container type panics.
// Validators receive the current entry count.
func NewMapField[K, V any](id FieldID, maxSize int, newKey func() K, newVal func() V, validators ...Validator[int]) *MapField[K, V] {
	m := &MapField[K, V]{
		id:         id,
		keys:       make([]K, maxSize),
		vals:       make([]V, maxSize),
		newKey:     newKey,
		newVal:     newVal,
		validators: validators,
	}
	for i := 0; i < maxSize; i++ {
		m.keys[i] = newKey()
		m.vals[i] = newVal()
	}
	if maxSize > 0 {
		checkElementType(m.keys[0], "map key")
		checkElementType(m.vals[0], "map value")
	}
	return m
}

// ID returns the field id.
func (m *MapField[K, V]) ID() FieldID { return m.id }

// Kind returns [KindMap].
func (m *MapField[K, V]) Kind() Kind { return KindMap }

func (m *MapField[K, V]) isMember() {}

// Insert copies a key/value pair into the map. The pair is first adopted
// into fresh prototype containers and validated there, so the map's own
// schema validators judge the values no matter what containers the caller
// built them in (entry failures carry field id 0). Then capacity, then key
// uniqueness. On any failure the map is unchanged; in particular a
// duplicate key does not overwrite the stored value.
func (m *MapField[K, V]) Insert(k K, v V) error {
	sk, sv := m.newKey(), m.newVal()
	if err := elementAdopt(sk, k); err != nil {
		return err
	}
	if err := elementValidate(sk, 0); err != nil {
		return err
	}
	if err := elementAdopt(sv, v); err != nil {
		return err
	}
	if err := elementValidate(sv, 0); err != nil {
		return err
	}
	if m.n >= len(m.keys) {
		return errCapacity(m.id, "map capacity exceeded")
	}
	for i := 0; i < m.n; i++ {
		if elementEqual(m.keys[i], sk) {
			return errValidation(m.id, "duplicate key in map")
		}
	}
	elementCopy(m.keys[m.n], sk)
	elementCopy(m.vals[m.n], sv)
	m.n++
	return nil
}

// At returns the live value container for k, or false when k is absent.
func (m *MapField[K, V]) At(k K) (V, bool) {
	for i := 0; i < m.n; i++ {
		if elementEqual(m.keys[i], k) {
			return m.vals[i], true
		}
	}
	var zero V
	return zero, false
}

// Remove deletes k and its value, shifting later entries down. Returns
// whether k was present.
func (m *MapField[K, V]) Remove(k K) bool {
	for i := 0; i < m.n; i++ {
		if !elementEqual(m.keys[i], k) {
			continue
		}
		for j := i; j < m.n-1; j++ {
			elementCopy(m.keys[j], m.keys[j+1])
			elementCopy(m.vals[j], m.vals[j+1])
		}
		elementClear(m.keys[m.n-1])
		elementClear(m.vals[m.n-1])
		m.n--
		return true
	}
	return false
}

// KeyAt returns the live key container at entry index i. Entry order is
// insertion order; i must be < [MapField.Len].
func (m *MapField[K, V]) KeyAt(i int) K { return m.keys[i] }

// ValueAt returns the live value container at entry index i.
func (m *MapField[K, V]) ValueAt(i int) V { return m.vals[i] }

// Len returns the current entry count.
func (m *MapField[K, V]) Len() int { return m.n }

// MaxSize returns the capacity.
func (m *MapField[K, V]) MaxSize() int { return len(m.keys) }

// Clear empties the map and resets every slot to its zero state.
func (m *MapField[K, V]) Clear() {
	for i := 0; i < m.n; i++ {
		elementClear(m.keys[i])
		elementClear(m.vals[i])
	}
	m.n = 0
}

// Validate checks every stored key and value (failures carry field id 0),
// then the length validators under the map's id.
func (m *MapField[K, V]) Validate() error {
	for i := 0; i < m.n; i++ {
		if err := elementValidate(m.keys[i], 0); err != nil {
			return err
		}
		if err := elementValidate(m.vals[i], 0); err != nil {
			return err
		}
	}
	return runValidators(m.validators, m.n, m.id)
}

// mapAccess is the codec-facing view of a map, erased over K and V.
type mapAccess interface {
	Member
	capSlots() int
	length() int
	setLength(n int)
	keySlot(i int) any
	valSlot(i int) any
	newKeyProto() any
	newValProto() any
	insertDecoded(k, v any) error
	clearAll()
	validateErased() error
}

func (m *MapField[K, V]) capSlots() int    { return len(m.keys) }
func (m *MapField[K, V]) length() int      { return m.n }
func (m *MapField[K, V]) setLength(n int)  { m.n = n }
func (m *MapField[K, V]) keySlot(i int) any { return m.keys[i] }
func (m *MapField[K, V]) valSlot(i int) any { return m.vals[i] }
func (m *MapField[K, V]) newKeyProto() any  { return m.newKey() }
func (m *MapField[K, V]) newValProto() any  { return m.newVal() }

// insertDecoded routes a decoded pair through Insert so that wire data
// hits the same capacity and uniqueness rules as programmatic inserts.
func (m *MapField[K, V]) insertDecoded(k, v any) error {
	return m.Insert(k.(K), v.(V))
}

func (m *MapField[K, V]) clearAll()             { m.Clear() }
func (m *MapField[K, V]) validateErased() error { return m.Validate() }

// mapEqual is unordered set equality: every entry of a must appear in b
// with a deep-equal key and value. With equal lengths and unique keys that
// relation is symmetric. The scan is O(n^2) on purpose; see [MapField].
func mapEqual(a, b mapAccess) bool {
	if a.length() != b.length() {
		return false
	}
	for i := 0; i < a.length(); i++ {
		if !mapHasEntry(b, a.keySlot(i), a.valSlot(i)) {
			return false
		}
	}
	return true
}

func mapHasEntry(m mapAccess, k, v any) bool {
	for i := 0; i < m.length(); i++ {
		if elementEqual(m.keySlot(i), k) {
			return elementEqual(m.valSlot(i), v)
		}
	}
	return false
}

func mapCopy(dst, src mapAccess) {
	dst.clearAll()
	for i := 0; i < src.length(); i++ {
		elementCopy(dst.keySlot(i), src.keySlot(i))
		elementCopy(dst.valSlot(i), src.valSlot(i))
	}
	dst.setLength(src.length())
}
