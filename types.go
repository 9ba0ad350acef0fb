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

// FieldID uniquely identifies a field within its owning message.
type FieldID int32

// MaxFieldID is the largest valid FieldID.
//
// TLV encoding packs tags as (FieldID << 3) | WireType, reserving the low
// three bits for the wire type, so a FieldID must fit in 29 bits.
const MaxFieldID FieldID = (1 << 29) - 1

// MessageID uniquely identifies a message type. It is written to the wire
// as the header discriminator and drives [Decoder] dispatch.
type MessageID int32

// Format identifies the wire format recorded in the message header.
type Format uint8

const (
	// FormatPacked is the fixed layout with no alignment padding.
	FormatPacked Format = 0x01
	// FormatAligned4 is the fixed layout with 4-byte alignment padding.
	FormatAligned4 Format = 0x02
	// FormatAligned8 is the fixed layout with 8-byte alignment padding.
	FormatAligned8 Format = 0x03
	// FormatTLV is the Tag-Length-Value encoding.
	FormatTLV Format = 0x04
)

// String implements [fmt.Stringer].
func (f Format) String() string {
	switch f {
	case FormatPacked:
		return "packed"
	case FormatAligned4:
		return "aligned4"
	case FormatAligned8:
		return "aligned8"
	case FormatTLV:
		return "tlv"
	default:
		return "invalid"
	}
}

// Version is the wire protocol version written into every header.
const Version byte = 0x03

// HeaderSize is the size of the common message header in bytes:
// [version (1)] [format (1)] [message id (4, little-endian)].
const HeaderSize = 6

// Presence is a field's presence policy.
type Presence uint8

const (
	// Required marks a field that must be set for validation to pass.
	Required Presence = iota + 1
	// Optional marks a field that may be left unset.
	Optional
)

// Kind discriminates the closed set of value containers.
type Kind uint8

const (
	// KindScalar is a fixed-width numeric, boolean or enum value.
	KindScalar Kind = iota + 1
	// KindString is a fixed-capacity string.
	KindString
	// KindMessage is a nested message.
	KindMessage
	// KindArray is a fixed-capacity homogeneous array.
	KindArray
	// KindMap is a fixed-capacity map with unique keys.
	KindMap
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindMessage:
		return "message"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}
