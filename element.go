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

import "fmt"

// The element helpers dispatch over the closed set of container types an
// array element, map key or map value may be: *Scalar[T], *String, a
// Message, a nested *ArrayField[E] or a nested *MapField[K, V]. Scalars,
// arrays and maps are matched through their unexported codec interfaces
// since their concrete types are generic; Message is matched as the public
// interface because user message types cannot implement unexported
// methods.

func elementKind(e any) Kind {
	switch e.(type) {
	case scalarContainer:
		return KindScalar
	case *String:
		return KindString
	case arrayAccess:
		return KindArray
	case mapAccess:
		return KindMap
	case Message:
		return KindMessage
	default:
		return 0
	}
}

// checkElementType panics when e is not a valid element container. It runs
// once per aggregate at construction, never on a hot path.
func checkElementType(e any, what string) {
	if elementKind(e) == 0 {
		panic(fmt.Sprintf("crunch: invalid %s type %T", what, e))
	}
}

// elementValidate validates a single element. Scalars and strings report
// failures under id (the owning aggregate's field id, or 0 for map
// entries); messages run the full validation pipeline; nested aggregates
// validate under their own field id.
func elementValidate(e any, id FieldID) error {
	switch v := e.(type) {
	case scalarContainer:
		return v.validateWithIDErased(id)
	case *String:
		return v.validateWithID(id)
	case arrayAccess:
		return v.validateErased()
	case mapAccess:
		return v.validateErased()
	case Message:
		return Validate(v)
	default:
		return nil
	}
}

func elementClear(e any) {
	switch v := e.(type) {
	case scalarContainer:
		v.clearErased()
	case *String:
		v.Clear()
	case arrayAccess:
		v.clearAll()
	case mapAccess:
		v.clearAll()
	case Message:
		clearMessage(v)
	}
}

// elementEqual reports deep equality of two elements of the same container
// type. Scalars compare by stored bits, messages field-wise, maps as
// unordered sets.
func elementEqual(a, b any) bool {
	switch x := a.(type) {
	case scalarContainer:
		y, ok := b.(scalarContainer)
		return ok && y.equalBits(x.loadBits())
	case *String:
		y, ok := b.(*String)
		return ok && x.Get() == y.Get()
	case arrayAccess:
		y, ok := b.(arrayAccess)
		return ok && arrayEqual(x, y)
	case mapAccess:
		y, ok := b.(mapAccess)
		return ok && mapEqual(x, y)
	case Message:
		y, ok := b.(Message)
		return ok && Equal(x, y)
	default:
		return false
	}
}

// elementFits reports whether src's current contents can be copied into
// dst without overflowing a fixed capacity anywhere. Callers may build
// source containers with larger capacities than the destination slots, so
// every string and aggregate along the way is checked before any copy.
func elementFits(dst, src any) error {
	switch s := src.(type) {
	case *String:
		if s.Len() > dst.(*String).MaxSize() {
			return errCapacity(0, "string exceeds capacity")
		}
	case arrayAccess:
		d := dst.(arrayAccess)
		if s.length() > d.capSlots() {
			return errCapacity(0, "array capacity exceeded")
		}
		for i := 0; i < s.length(); i++ {
			if err := elementFits(d.slot(i), s.slot(i)); err != nil {
				return err
			}
		}
	case mapAccess:
		d := dst.(mapAccess)
		if s.length() > d.capSlots() {
			return errCapacity(0, "map capacity exceeded")
		}
		for i := 0; i < s.length(); i++ {
			if err := elementFits(d.keySlot(i), s.keySlot(i)); err != nil {
				return err
			}
			if err := elementFits(d.valSlot(i), s.valSlot(i)); err != nil {
				return err
			}
		}
	case Message:
		fd, fs := dst.(Message).Fields(), s.Fields()
		for i := range fs {
			if err := memberFits(fd[i], fs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func memberFits(dst, src Member) error {
	switch s := src.(type) {
	case stringMember:
		if s.container().Len() > dst.(stringMember).container().MaxSize() {
			return errCapacity(s.ID(), "string exceeds capacity")
		}
	case messageMember:
		return elementFits(dst.(messageMember).message(), s.message())
	case arrayAccess:
		return elementFits(dst, s)
	case mapAccess:
		return elementFits(dst, s)
	}
	return nil
}

// elementAdopt is a checked elementCopy: nothing is written unless the
// whole source fits.
func elementAdopt(dst, src any) error {
	if err := elementFits(dst, src); err != nil {
		return err
	}
	elementCopy(dst, src)
	return nil
}

// elementCopy deep-copies src into dst. Both must be the same container
// type with sufficient capacity; aggregates copy their active entries and
// clear the rest.
func elementCopy(dst, src any) {
	switch s := src.(type) {
	case scalarContainer:
		dst.(scalarContainer).storeBits(s.loadBits())
	case *String:
		d := dst.(*String)
		d.setRaw(s.raw(), s.Len())
	case arrayAccess:
		arrayCopy(dst.(arrayAccess), s)
	case mapAccess:
		mapCopy(dst.(mapAccess), s)
	case Message:
		copyMessage(dst.(Message), s)
	}
}
