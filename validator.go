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

import "math"

// Validator is a pure predicate over a field value. Check returns nil when
// the value is acceptable, or a [*Error] with [CodeValidationFailed]
// carrying id and a static description.
//
// Validators must be stateless and side-effect free; a field may carry any
// number of them, all of which must pass.
type Validator[T any] interface {
	Check(value T, id FieldID) error
}

// ValidatorFunc adapts a function to the [Validator] interface.
type ValidatorFunc[T any] func(value T, id FieldID) error

// Check implements [Validator].
func (f ValidatorFunc[T]) Check(value T, id FieldID) error { return f(value, id) }

// Integer is any fixed-width integer type, including named enum types.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is a fixed-width floating-point type.
type Float interface {
	~float32 | ~float64
}

// Number is anything from [Integer] or [Float].
type Number interface {
	Integer | Float
}

// None accepts every value. It exists so that a field with no constraints
// reads the same as one with them.
func None[T any]() Validator[T] {
	return ValidatorFunc[T](func(T, FieldID) error { return nil })
}

// True requires a boolean to be true.
func True[T ~bool]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v {
			return nil
		}
		return errValidation(id, "must be true")
	})
}

// False requires a boolean to be false.
func False[T ~bool]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if !v {
			return nil
		}
		return errValidation(id, "must be false")
	})
}

// IsFinite rejects NaN and infinities.
func IsFinite[T Float]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return nil
		}
		return errValidation(id, "must be finite")
	})
}

// Around requires |value - target| <= tolerance.
func Around[T Number](target, tolerance T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		d := v - target
		if d < 0 {
			d = -d
		}
		if d <= tolerance {
			return nil
		}
		return errValidation(id, "must be around target")
	})
}

// Positive requires value >= 0.
func Positive[T Number]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v >= 0 {
			return nil
		}
		return errValidation(id, "must be >= 0")
	})
}

// Negative requires value < 0.
func Negative[T Number]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v < 0 {
			return nil
		}
		return errValidation(id, "must be < 0")
	})
}

// NotZero requires value != 0.
func NotZero[T Number]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v != 0 {
			return nil
		}
		return errValidation(id, "must be != 0")
	})
}

// Even requires an even integer.
func Even[T Integer]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v%2 == 0 {
			return nil
		}
		return errValidation(id, "must be even")
	})
}

// Odd requires an odd integer.
func Odd[T Integer]() Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v%2 != 0 {
			return nil
		}
		return errValidation(id, "must be odd")
	})
}

// LessThan requires value < threshold.
func LessThan[T Number](threshold T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v < threshold {
			return nil
		}
		return errValidation(id, "must be < threshold")
	})
}

// GreaterThan requires value > threshold.
func GreaterThan[T Number](threshold T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v > threshold {
			return nil
		}
		return errValidation(id, "must be > threshold")
	})
}

// LessThanOrEqualTo requires value <= threshold.
func LessThanOrEqualTo[T Number](threshold T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v <= threshold {
			return nil
		}
		return errValidation(id, "must be <= threshold")
	})
}

// GreaterThanOrEqualTo requires value >= threshold.
func GreaterThanOrEqualTo[T Number](threshold T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v >= threshold {
			return nil
		}
		return errValidation(id, "must be >= threshold")
	})
}

// EqualTo requires value == want.
func EqualTo[T comparable](want T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v == want {
			return nil
		}
		return errValidation(id, "must equal threshold")
	})
}

// NotEqualTo requires value != forbidden.
func NotEqualTo[T comparable](forbidden T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		if v != forbidden {
			return nil
		}
		return errValidation(id, "must not equal threshold")
	})
}

// OneOf requires the value to be one of the allowed set.
func OneOf[T comparable](allowed ...T) Validator[T] {
	return ValidatorFunc[T](func(v T, id FieldID) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return errValidation(id, "must be one of allowed values")
	})
}

// Length requires a string of exactly n bytes.
func Length(n int) Validator[string] {
	return ValidatorFunc[string](func(v string, id FieldID) error {
		if len(v) == n {
			return nil
		}
		return errValidation(id, "length mismatch")
	})
}

// StringEquals requires the string to equal want.
func StringEquals(want string) Validator[string] {
	return ValidatorFunc[string](func(v string, id FieldID) error {
		if v == want {
			return nil
		}
		return errValidation(id, "must equal expected string")
	})
}

// StringNotEquals requires the string to differ from forbidden.
func StringNotEquals(forbidden string) Validator[string] {
	return ValidatorFunc[string](func(v string, id FieldID) error {
		if v != forbidden {
			return nil
		}
		return errValidation(id, "must not equal forbidden string")
	})
}

// LengthAtLeast requires an aggregate to hold at least n elements.
// Array and map validators receive the current element count.
func LengthAtLeast(n int) Validator[int] {
	return ValidatorFunc[int](func(v int, id FieldID) error {
		if v >= n {
			return nil
		}
		return errValidation(id, "length must be at least N")
	})
}

// LengthAtMost requires an aggregate to hold at most n elements.
func LengthAtMost(n int) Validator[int] {
	return ValidatorFunc[int](func(v int, id FieldID) error {
		if v <= n {
			return nil
		}
		return errValidation(id, "length must be at most N")
	})
}

// LengthExactly requires an aggregate to hold exactly n elements.
func LengthExactly(n int) Validator[int] {
	return ValidatorFunc[int](func(v int, id FieldID) error {
		if v == n {
			return nil
		}
		return errValidation(id, "length mismatch")
	})
}

func runValidators[T any](vs []Validator[T], v T, id FieldID) error {
	for _, val := range vs {
		if err := val.Check(v, id); err != nil {
			return err
		}
	}
	return nil
}
