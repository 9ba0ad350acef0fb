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

import "github.com/sam-w-yellin/crunch/internal/wire"

// tlvCodec is the Tag-Length-Value encoding. Only set fields reach the
// wire, each as a protobuf-style tag varint (id << 3 | wireType) followed
// by its value:
//
//   - Scalars use wire type 0. The value's bits are zero-extended into a
//     uint64 and varint encoded, so a negative int16 costs three bytes,
//     not a sign-extended ten.
//   - Strings, submessages, arrays and maps use wire type 1 with a length
//     varint. Arrays and maps share one packed form regardless of element
//     type: [total length][count][elements], elements tag-less, map
//     entries alternating key then value. Submessage content is the
//     nested fields only; the nested message id is schema knowledge.
//
// The whole payload is preceded by a 4-byte little-endian length at the
// end of the header, so trailing buffer padding never parses as fields.
//
// Length prefixes are backpatched: encode reserves the maximum varint
// width, writes the content, then shifts it left over the unused bytes.
// Unknown field ids on decode are a hard error; this format identifies
// messages, it does not carry foreign ones.
type tlvCodec struct{}

func (tlvCodec) Format() Format { return FormatTLV }

// tlvMaxTag is the worst-case tag varint: 29 id bits + 3 wire type bits.
const tlvMaxTag = (32 + 6) / 7

func (c tlvCodec) maxSize(m Message) int {
	return HeaderSize + 4 + c.maxFields(m)
}

func (c tlvCodec) maxFields(m Message) int {
	n := 0
	for _, f := range m.Fields() {
		n += c.maxMember(f)
	}
	return n
}

func (c tlvCodec) maxMember(f Member) int {
	switch v := f.(type) {
	case scalarMember:
		return tlvMaxTag + wire.MaxVarintLen
	case stringMember:
		return tlvMaxTag + wire.MaxVarintLen + v.container().MaxSize()
	case messageMember:
		return tlvMaxTag + wire.MaxVarintLen + c.maxFields(v.message())
	case arrayAccess:
		n := tlvMaxTag + 2*wire.MaxVarintLen
		for i := 0; i < v.capSlots(); i++ {
			n += c.maxValue(v.slot(i))
		}
		return n
	case mapAccess:
		n := tlvMaxTag + 2*wire.MaxVarintLen
		for i := 0; i < v.capSlots(); i++ {
			n += c.maxValue(v.keySlot(i)) + c.maxValue(v.valSlot(i))
		}
		return n
	}
	return 0
}

func (c tlvCodec) maxValue(e any) int {
	switch v := e.(type) {
	case scalarContainer:
		return wire.MaxVarintLen
	case *String:
		return wire.MaxVarintLen + v.MaxSize()
	case arrayAccess:
		n := tlvMaxTag + 2*wire.MaxVarintLen
		for i := 0; i < v.capSlots(); i++ {
			n += c.maxValue(v.slot(i))
		}
		return n
	case mapAccess:
		n := tlvMaxTag + 2*wire.MaxVarintLen
		for i := 0; i < v.capSlots(); i++ {
			n += c.maxValue(v.keySlot(i)) + c.maxValue(v.valSlot(i))
		}
		return n
	case Message:
		return wire.MaxVarintLen + c.maxFields(v)
	}
	return 0
}

func (c tlvCodec) encode(m Message, b []byte) int {
	lenOff := HeaderSize
	off := lenOff + 4
	start := off
	for _, f := range m.Fields() {
		off = c.encodeMember(f, b, off)
	}
	wire.PutFixed(b[lenOff:], uint64(uint32(off-start)), 4)
	return off
}

func (c tlvCodec) encodeMember(f Member, b []byte, off int) int {
	switch v := f.(type) {
	case scalarMember:
		if !v.isSet() {
			return off
		}
		off += wire.PutTag(b[off:], int32(v.ID()), wire.TypeVarint)
		return off + wire.PutVarint(b[off:], v.container().loadBits())
	case stringMember:
		if !v.isSet() {
			return off
		}
		off += wire.PutTag(b[off:], int32(v.ID()), wire.TypeLengthDelimited)
		return c.encodeString(v.container(), b, off)
	case messageMember:
		if !v.isSet() {
			return off
		}
		off += wire.PutTag(b[off:], int32(v.ID()), wire.TypeLengthDelimited)
		return c.encodeNested(v.message(), b, off)
	case arrayAccess:
		if v.length() == 0 {
			return off
		}
		off += wire.PutTag(b[off:], int32(v.ID()), wire.TypeLengthDelimited)
		return c.encodeArray(v, b, off)
	case mapAccess:
		if v.length() == 0 {
			return off
		}
		off += wire.PutTag(b[off:], int32(v.ID()), wire.TypeLengthDelimited)
		return c.encodeMap(v, b, off)
	}
	return off
}

func (c tlvCodec) encodeString(s *String, b []byte, off int) int {
	off += wire.PutVarint(b[off:], uint64(s.Len()))
	return off + copy(b[off:], s.raw()[:s.Len()])
}

// encodeNested writes a length-prefixed submessage: reserved length,
// fields, backpatch.
func (c tlvCodec) encodeNested(m Message, b []byte, off int) int {
	lenOff := off
	off += wire.MaxVarintLen
	start := off
	for _, f := range m.Fields() {
		off = c.encodeMember(f, b, off)
	}
	return fixupLength(b, lenOff, start, off)
}

func (c tlvCodec) encodeArray(a arrayAccess, b []byte, off int) int {
	lenOff := off
	off += wire.MaxVarintLen
	start := off
	off += wire.PutVarint(b[off:], uint64(a.length()))
	for i := 0; i < a.length(); i++ {
		off = c.encodeValue(a.slot(i), b, off)
	}
	return fixupLength(b, lenOff, start, off)
}

func (c tlvCodec) encodeMap(m mapAccess, b []byte, off int) int {
	lenOff := off
	off += wire.MaxVarintLen
	start := off
	off += wire.PutVarint(b[off:], uint64(m.length()))
	for i := 0; i < m.length(); i++ {
		off = c.encodeValue(m.keySlot(i), b, off)
		off = c.encodeValue(m.valSlot(i), b, off)
	}
	return fixupLength(b, lenOff, start, off)
}

// encodeValue writes a tag-less element inside a packed container.
func (c tlvCodec) encodeValue(e any, b []byte, off int) int {
	switch v := e.(type) {
	case scalarContainer:
		return off + wire.PutVarint(b[off:], v.loadBits())
	case *String:
		return c.encodeString(v, b, off)
	case arrayAccess:
		return c.encodeArray(v, b, off)
	case mapAccess:
		return c.encodeMap(v, b, off)
	case Message:
		return c.encodeNested(v, b, off)
	}
	return off
}

// fixupLength replaces the reserved maximum-width length prefix with the
// true length and shifts the content left over the slack. The copy
// regions overlap; copy is memmove-safe.
func fixupLength(b []byte, lenOff, start, off int) int {
	size := off - start
	n := wire.VarintSize(uint64(size))
	if n < wire.MaxVarintLen {
		copy(b[lenOff+n:], b[start:off])
		off -= wire.MaxVarintLen - n
	}
	wire.PutVarint(b[lenOff:], uint64(size))
	return off
}

func (c tlvCodec) decode(b []byte, m Message) error {
	off := HeaderSize
	if off+4 > len(b) {
		return errDeserialization("buffer too small for tlv length")
	}
	raw, _ := wire.Fixed(b[off:], 4)
	off += 4
	n := int(uint32(raw))
	if off+n > len(b) {
		return errDeserialization("tlv length exceeds buffer")
	}
	clearMessage(m)
	return c.decodePayload(b[:off+n], m, off)
}

// decodePayload consumes tagged fields until the end of buf. Every tag
// must name a declared field of m; a later occurrence of a field
// overwrites the earlier one.
func (c tlvCodec) decodePayload(buf []byte, m Message, off int) error {
	fields := m.Fields()
	for off < len(buf) {
		id, wt, n := wire.SplitTag(buf[off:])
		if n == 0 {
			return errDeserialization("invalid tag varint")
		}
		off += n

		var target Member
		for _, f := range fields {
			if f.ID() == FieldID(id) {
				target = f
				break
			}
		}
		if target == nil {
			return errDeserialization("unknown fields present")
		}

		var err error
		off, err = c.decodeMember(target, wt, buf, off)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c tlvCodec) decodeMember(f Member, wt int, buf []byte, off int) (int, error) {
	switch v := f.(type) {
	case scalarMember:
		if wt != wire.TypeVarint {
			return 0, errDeserialization("scalar must be varint")
		}
		raw, n := wire.Varint(buf[off:])
		if n == 0 {
			return 0, errDeserialization("invalid varint")
		}
		v.container().storeBits(raw)
		v.markSet(true)
		return off + n, nil

	case stringMember:
		if wt != wire.TypeLengthDelimited {
			return 0, errDeserialization("string requires length delimited")
		}
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := v.container().setWithID(string(content), v.ID()); err != nil {
			return 0, err
		}
		v.markSet(true)
		return off, nil

	case messageMember:
		if wt != wire.TypeLengthDelimited {
			return 0, errDeserialization("nested msg requires length delimited")
		}
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		clearMessage(v.message())
		if err := c.decodePayload(content, v.message(), 0); err != nil {
			return 0, err
		}
		v.markSet(true)
		return off, nil

	case arrayAccess:
		if wt != wire.TypeLengthDelimited {
			return 0, errDeserialization("array must be length delimited")
		}
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := c.decodeArrayContent(v, content); err != nil {
			return 0, err
		}
		return off, nil

	case mapAccess:
		if wt != wire.TypeLengthDelimited {
			return 0, errDeserialization("map must be length delimited")
		}
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := c.decodeMapContent(v, content); err != nil {
			return 0, err
		}
		return off, nil
	}
	return off, nil
}

// readDelimited reads a length varint and returns the following content
// slice and the offset past it.
func readDelimited(buf []byte, off int) ([]byte, int, error) {
	raw, n := wire.Varint(buf[off:])
	if n == 0 {
		return nil, 0, errDeserialization("invalid length")
	}
	off += n
	size := int(raw)
	if raw > uint64(len(buf)) || off+size > len(buf) {
		return nil, 0, errDeserialization("buffer underflow")
	}
	return buf[off : off+size], off + size, nil
}

// decodeArrayContent parses [count][elements...] into a, replacing its
// contents. Slots are claimed through the array's own capacity check, so
// an oversized count fails the same way an oversized Add would.
func (c tlvCodec) decodeArrayContent(a arrayAccess, content []byte) error {
	a.clearAll()
	raw, n := wire.Varint(content)
	if n == 0 {
		return errDeserialization("invalid array count")
	}
	off := n
	count := int(raw)
	for i := 0; i < count; i++ {
		slot, err := a.addDecoded()
		if err != nil {
			return err
		}
		off, err = c.decodeValue(slot, content, off)
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeMapContent parses [count][key value...] into m, replacing its
// contents. Pairs are decoded into scratch containers and routed through
// insert, so duplicate wire keys and oversized counts fail exactly like
// programmatic inserts.
func (c tlvCodec) decodeMapContent(m mapAccess, content []byte) error {
	m.clearAll()
	raw, n := wire.Varint(content)
	if n == 0 {
		return errDeserialization("invalid map count")
	}
	off := n
	count := int(raw)
	for i := 0; i < count; i++ {
		k, v := m.newKeyProto(), m.newValProto()
		var err error
		off, err = c.decodeValue(k, content, off)
		if err != nil {
			return err
		}
		off, err = c.decodeValue(v, content, off)
		if err != nil {
			return err
		}
		if err := m.insertDecoded(k, v); err != nil {
			return err
		}
	}
	return nil
}

// decodeValue parses a tag-less element inside a packed container.
// String elements are validated as they land; everything else is
// revalidated with the whole message after decode.
func (c tlvCodec) decodeValue(e any, buf []byte, off int) (int, error) {
	switch v := e.(type) {
	case scalarContainer:
		raw, n := wire.Varint(buf[off:])
		if n == 0 {
			return 0, errDeserialization("invalid varint in packed")
		}
		v.storeBits(raw)
		return off + n, nil
	case *String:
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := v.setWithID(string(content), 0); err != nil {
			return 0, err
		}
		return off, nil
	case arrayAccess:
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := c.decodeArrayContent(v, content); err != nil {
			return 0, err
		}
		return off, nil
	case mapAccess:
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		if err := c.decodeMapContent(v, content); err != nil {
			return 0, err
		}
		return off, nil
	case Message:
		content, off, err := readDelimited(buf, off)
		if err != nil {
			return 0, err
		}
		clearMessage(v)
		if err := c.decodePayload(content, v, 0); err != nil {
			return 0, err
		}
		return off, nil
	}
	return off, nil
}
