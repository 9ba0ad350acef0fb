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

import (
	"reflect"
	"unsafe"
)

// ScalarValue is the set of types a [Scalar] can hold: booleans,
// fixed-width integers (including named enum types) and floats.
type ScalarValue interface {
	~bool | Number
}

// scalarDesc is the runtime shape of a scalar type, computed once at
// construction so codecs can bit-cast values without knowing T.
type scalarDesc struct {
	kind  reflect.Kind
	width int
}

func descOf[T ScalarValue]() scalarDesc {
	t := reflect.TypeOf((*T)(nil)).Elem()
	k := t.Kind()
	w := int(t.Size())
	if k == reflect.Bool {
		w = 1
	}
	return scalarDesc{kind: k, width: w}
}

// Scalar is a single fixed-width value with optional validators. The zero
// Scalar is unusable; construct with [NewScalar] or [ScalarOf].
type Scalar[T ScalarValue] struct {
	value      T
	desc       scalarDesc
	validators []Validator[T]
}

// NewScalar returns a scalar holding the zero value of T.
func NewScalar[T ScalarValue](validators ...Validator[T]) *Scalar[T] {
	return &Scalar[T]{desc: descOf[T](), validators: validators}
}

// ScalarOf returns a scalar holding v, with no validators.
func ScalarOf[T ScalarValue](v T) *Scalar[T] {
	return &Scalar[T]{value: v, desc: descOf[T]()}
}

// Set validates v and stores it. On failure the stored value is unchanged.
func (s *Scalar[T]) Set(v T) error {
	return s.setWithID(v, 0)
}

func (s *Scalar[T]) setWithID(v T, id FieldID) error {
	if err := runValidators(s.validators, v, id); err != nil {
		return err
	}
	s.value = v
	return nil
}

// SetUnchecked stores v without running validators. Serialization still
// validates, so an invalid value stored here surfaces at [Serialize].
func (s *Scalar[T]) SetUnchecked(v T) {
	s.value = v
}

// Get returns the stored value.
func (s *Scalar[T]) Get() T {
	return s.value
}

// Clear resets the value to the zero value of T.
func (s *Scalar[T]) Clear() {
	var zero T
	s.value = zero
}

// Validate re-runs the validators against the stored value.
func (s *Scalar[T]) Validate() error {
	return s.validateWithID(0)
}

func (s *Scalar[T]) validateWithID(id FieldID) error {
	return runValidators(s.validators, s.value, id)
}

// scalarContainer is the codec-facing view of a Scalar, erased over T.
// Values cross it as raw bits: the value's in-memory representation
// zero-extended into a uint64.
type scalarContainer interface {
	scalarDesc() scalarDesc
	loadBits() uint64
	storeBits(bits uint64)
	validateWithIDErased(id FieldID) error
	clearErased()
	equalBits(bits uint64) bool
}

func (s *Scalar[T]) scalarDesc() scalarDesc { return s.desc }

func (s *Scalar[T]) validateWithIDErased(id FieldID) error { return s.validateWithID(id) }

func (s *Scalar[T]) clearErased() { s.Clear() }

func (s *Scalar[T]) equalBits(bits uint64) bool { return s.loadBits() == bits }

// loadBits reads the value's representation. The pointer cast is safe for
// every ScalarValue type: all are fixed-width with no pointers.
func (s *Scalar[T]) loadBits() uint64 {
	p := unsafe.Pointer(&s.value)
	switch s.desc.width {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	default:
		return *(*uint64)(p)
	}
}

func (s *Scalar[T]) storeBits(bits uint64) {
	if s.desc.kind == reflect.Bool {
		// Normalize: any nonzero wire value decodes as true.
		if bits != 0 {
			bits = 1
		}
	}
	p := unsafe.Pointer(&s.value)
	switch s.desc.width {
	case 1:
		*(*uint8)(p) = uint8(bits)
	case 2:
		*(*uint16)(p) = uint16(bits)
	case 4:
		*(*uint32)(p) = uint32(bits)
	default:
		*(*uint64)(p) = bits
	}
}
