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

// Package wire implements the primitive encodings shared by the codecs:
// little-endian fixed-width integers and protobuf-style base-128 varints.
//
// All functions are bounds-checked against the supplied buffer and report
// failure by count: a write returns 0 when the buffer is too small, a read
// returns n == 0 when the buffer is truncated or the encoding is invalid.
package wire

// MaxVarintLen is the longest possible varint: ceil(64/7) bytes.
const MaxVarintLen = 10

// PutVarint encodes v at the start of b and returns the number of bytes
// written, or 0 when b is too small.
func PutVarint(b []byte, v uint64) int {
	if len(b) < VarintSize(v) {
		return 0
	}
	n := 0
	for v >= 0x80 {
		b[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	b[n] = byte(v)
	return n + 1
}

// Varint decodes a varint from the start of b. It returns n == 0 when b
// ends before the terminating byte or the encoding carries more than 64
// bits of payload.
func Varint(b []byte) (v uint64, n int) {
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0
		}
		v |= uint64(c&0x7F) << shift
		shift += 7
		if c&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, 0
}

// VarintSize returns the encoded length of v in bytes.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// PutFixed writes the low width bytes of v little-endian. width is 1, 2,
// 4 or 8. Returns width, or 0 when b is too small.
func PutFixed(b []byte, v uint64, width int) int {
	if len(b) < width {
		return 0
	}
	for i := 0; i < width; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return width
}

// Fixed reads a width-byte little-endian unsigned integer. Returns n == 0
// when b is too small.
func Fixed(b []byte, width int) (v uint64, n int) {
	if len(b) < width {
		return 0, 0
	}
	for i := 0; i < width; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v, width
}

// Wire types used by TLV tags.
const (
	TypeVarint          = 0
	TypeLengthDelimited = 1
)

// PutTag encodes (id << 3) | wireType as a varint.
func PutTag(b []byte, id int32, wireType int) int {
	return PutVarint(b, uint64(id)<<3|uint64(wireType))
}

// SplitTag decodes a tag varint into field id and wire type. n == 0 means
// an invalid or truncated tag.
func SplitTag(b []byte) (id int32, wireType int, n int) {
	v, n := Varint(b)
	if n == 0 || v>>3 > uint64(1<<29-1) {
		return 0, 0, 0
	}
	return int32(v >> 3), int(v & 7), n
}
