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

// Codec is a wire format. The built-in codecs are the fixed layouts
// ([CodecPacked], [CodecAligned4], [CodecAligned8]) and [CodecTLV]; the
// set is closed, a codec's working methods are internal.
type Codec interface {
	// Format returns the identifier written into the header.
	Format() Format

	// maxSize returns the largest number of bytes encode can produce for
	// m, including the header, excluding any integrity trailer. For the
	// fixed layouts this is exact, for TLV an upper bound.
	maxSize(m Message) int

	// encode writes the header and payload of m into b, which holds at
	// least maxSize(m) bytes, and returns the bytes written. m must
	// already be validated; encode cannot fail.
	encode(m Message, b []byte) int

	// decode populates m from b, which holds a header already validated
	// against m plus a payload, with any integrity trailer stripped.
	decode(b []byte, m Message) error
}

// Built-in codecs.
var (
	// CodecPacked is the fixed layout with no padding.
	CodecPacked Codec = fixedCodec{align: 1, format: FormatPacked}
	// CodecAligned4 is the fixed layout with values padded to 4-byte
	// boundaries (capped at their own width).
	CodecAligned4 Codec = fixedCodec{align: 4, format: FormatAligned4}
	// CodecAligned8 is the fixed layout with values padded to 8-byte
	// boundaries (capped at their own width).
	CodecAligned8 Codec = fixedCodec{align: 8, format: FormatAligned8}
	// CodecTLV is the Tag-Length-Value encoding; absent fields cost
	// nothing on the wire.
	CodecTLV Codec = tlvCodec{}
)
