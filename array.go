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

// ArrayField is a fixed-capacity homogeneous array that is itself a
// message member. Element slots are allocated once at construction from
// the newElem factory and reused for the life of the array.
//
// Arrays carry no presence flag; "set" is inferred from Len() > 0, and
// presence-like constraints are expressed as length validators such as
// [LengthAtLeast].
type ArrayField[E any] struct {
	id         FieldID
	items      []E
	n          int
	validators []Validator[int]
}

// NewArrayField builds an array of up to maxSize elements. newElem must
// return a fresh element container (*Scalar, *String, a message, a nested
// array or map); any other type panics. Validators receive the current
// length.
func NewArrayField[E any](id FieldID, maxSize int, newElem func() E, validators ...Validator[int]) *ArrayField[E] {
	a := &ArrayField[E]{id: id, items: make([]E, maxSize), validators: validators}
	for i := range a.items {
		a.items[i] = newElem()
	}
	if maxSize > 0 {
		checkElementType(a.items[0], "array element")
	}
	return a
}

// ID returns the field id.
func (a *ArrayField[E]) ID() FieldID { return a.id }

// Kind returns [KindArray].
func (a *ArrayField[E]) Kind() Kind { return KindArray }

func (a *ArrayField[E]) isMember() {}

// Add copies v into the next free slot. Fails with [CodeCapacityExceeded]
// when the array is full or v holds a string too long for the slot. The
// element is not validated here; validation runs over all active elements
// at [Validate] time.
func (a *ArrayField[E]) Add(v E) error {
	if a.n >= len(a.items) {
		return errCapacity(a.id, "array capacity exceeded")
	}
	if err := elementAdopt(a.items[a.n], v); err != nil {
		return withField(err, a.id)
	}
	a.n++
	return nil
}

// Set replaces the whole contents with vs. Fails with
// [CodeCapacityExceeded] when len(vs) exceeds the capacity or an element
// does not fit its slot; on failure the contents are unchanged.
func (a *ArrayField[E]) Set(vs []E) error {
	if len(vs) > len(a.items) {
		return errCapacity(a.id, "array capacity exceeded")
	}
	for i, v := range vs {
		if err := elementFits(a.items[i], v); err != nil {
			return withField(err, a.id)
		}
	}
	for i, v := range vs {
		elementCopy(a.items[i], v)
	}
	for i := len(vs); i < a.n; i++ {
		elementClear(a.items[i])
	}
	a.n = len(vs)
	return nil
}

// At returns the element container at index i. The container is live:
// mutating it mutates the array. i must be < [ArrayField.Len].
func (a *ArrayField[E]) At(i int) E {
	return a.items[i]
}

// Len returns the current element count.
func (a *ArrayField[E]) Len() int { return a.n }

// MaxSize returns the capacity.
func (a *ArrayField[E]) MaxSize() int { return len(a.items) }

// Clear empties the array and resets every slot to its zero state.
func (a *ArrayField[E]) Clear() {
	for i := 0; i < a.n; i++ {
		elementClear(a.items[i])
	}
	a.n = 0
}

// Validate checks every active element, then the length validators.
// Scalar and string element failures carry the array's field id.
func (a *ArrayField[E]) Validate() error {
	for i := 0; i < a.n; i++ {
		if err := elementValidate(a.items[i], a.id); err != nil {
			return err
		}
	}
	return runValidators(a.validators, a.n, a.id)
}

// arrayAccess is the codec-facing view of an array, erased over E.
type arrayAccess interface {
	Member
	capSlots() int
	length() int
	setLength(n int)
	slot(i int) any
	addDecoded() (any, error)
	clearAll()
	validateErased() error
}

func (a *ArrayField[E]) capSlots() int   { return len(a.items) }
func (a *ArrayField[E]) length() int     { return a.n }
func (a *ArrayField[E]) setLength(n int) { a.n = n }
func (a *ArrayField[E]) slot(i int) any  { return a.items[i] }

// addDecoded claims the next slot for a decoder to fill in place.
func (a *ArrayField[E]) addDecoded() (any, error) {
	if a.n >= len(a.items) {
		return nil, errCapacity(a.id, "array capacity exceeded")
	}
	e := a.items[a.n]
	a.n++
	return e, nil
}

func (a *ArrayField[E]) clearAll()             { a.Clear() }
func (a *ArrayField[E]) validateErased() error { return a.Validate() }

func arrayEqual(a, b arrayAccess) bool {
	if a.length() != b.length() {
		return false
	}
	for i := 0; i < a.length(); i++ {
		if !elementEqual(a.slot(i), b.slot(i)) {
			return false
		}
	}
	return true
}

func arrayCopy(dst, src arrayAccess) {
	dst.clearAll()
	for i := 0; i < src.length(); i++ {
		elementCopy(dst.slot(i), src.slot(i))
	}
	dst.setLength(src.length())
}
