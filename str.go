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

// String is a fixed-capacity byte string. Storage is allocated once at
// construction and never grows; a Set that would exceed the capacity fails
// with [CodeCapacityExceeded] and leaves the value unchanged.
type String struct {
	buf        []byte
	n          int
	validators []Validator[string]
}

// NewString returns an empty string with room for maxSize bytes.
func NewString(maxSize int, validators ...Validator[string]) *String {
	return &String{buf: make([]byte, maxSize), validators: validators}
}

// Set validates v and stores it. Fails with [CodeCapacityExceeded] when v
// is longer than the capacity, before validators run. Storage past the new
// length is zeroed so fixed-layout encodings never carry stale bytes.
func (s *String) Set(v string) error {
	return s.setWithID(v, 0)
}

func (s *String) setWithID(v string, id FieldID) error {
	if len(v) > len(s.buf) {
		return errCapacity(id, "string exceeds capacity")
	}
	if err := runValidators(s.validators, v, id); err != nil {
		return err
	}
	s.n = copy(s.buf, v)
	clear(s.buf[s.n:])
	return nil
}

// Get returns the stored string. The result shares no storage with the
// container.
func (s *String) Get() string {
	return string(s.buf[:s.n])
}

// Len returns the current length in bytes.
func (s *String) Len() int {
	return s.n
}

// MaxSize returns the capacity in bytes.
func (s *String) MaxSize() int {
	return len(s.buf)
}

// Clear resets to the empty string. The backing storage is zeroed so that
// fixed-layout serialization of a cleared string is deterministic.
func (s *String) Clear() {
	clear(s.buf)
	s.n = 0
}

// Validate re-runs the validators against the stored value.
func (s *String) Validate() error {
	return s.validateWithID(0)
}

func (s *String) validateWithID(id FieldID) error {
	return runValidators(s.validators, string(s.buf[:s.n]), id)
}

// raw exposes the full backing storage to codecs. Fixed layouts write all
// MaxSize bytes regardless of the current length.
func (s *String) raw() []byte {
	return s.buf
}

// setRaw installs decoded bytes without running validators; the decode
// pipeline re-validates the whole message afterwards. n must already be
// checked against the capacity.
func (s *String) setRaw(b []byte, n int) {
	copy(s.buf, b[:n])
	clear(s.buf[n:])
	s.n = n
}
