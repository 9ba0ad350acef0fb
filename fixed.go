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
	"github.com/sam-w-yellin/crunch/internal/debug"
	"github.com/sam-w-yellin/crunch/internal/wire"
)

// fixedCodec is the deterministic fixed-size layout. The byte length of a
// message is a function of its schema and the alignment alone: absent
// fields, empty strings and inactive aggregate slots are zero-filled at
// their full size, never omitted. Two encodings of the same type always
// line up byte for byte.
//
// Layout, after the common header:
//
//	[padding to alignment] [message id, 4 LE] [fields in declared order]
//
// Each scalar, string and submessage field is a 1-byte presence flag
// followed by its value; arrays and maps have no flag. Values are
// preceded by padding to min(unit, alignment), where the unit is the
// scalar's width, 4 for length prefixes and the full alignment for
// message boundaries. All offsets, including inside nested messages and
// aggregate slots, are absolute from the start of the buffer, so padding
// is identical on the size, encode and decode walks.
type fixedCodec struct {
	align  int
	format Format
}

func (c fixedCodec) Format() Format { return c.format }

func alignUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}

func (c fixedCodec) payloadStart() int {
	return alignUp(HeaderSize, c.align)
}

// pad returns the padding before a value whose alignment unit is width.
func (c fixedCodec) pad(offset, width int) int {
	a := min(width, c.align)
	return (a - offset%a) % a
}

func (c fixedCodec) maxSize(m Message) int {
	off := c.payloadStart() + 4
	for _, f := range m.Fields() {
		off = c.fieldEnd(f, off)
	}
	return off
}

// fieldEnd returns the absolute end offset of a field starting at off.
func (c fixedCodec) fieldEnd(f Member, off int) int {
	switch v := f.(type) {
	case scalarMember:
		return c.valueEnd(v.container(), off+1)
	case stringMember:
		return c.valueEnd(v.container(), off+1)
	case messageMember:
		return c.valueEnd(v.message(), off+1)
	case arrayAccess:
		return c.valueEnd(v, off)
	case mapAccess:
		return c.valueEnd(v, off)
	}
	return off
}

// valueEnd returns the absolute end offset of a value starting at off.
func (c fixedCodec) valueEnd(e any, off int) int {
	switch v := e.(type) {
	case scalarContainer:
		w := v.scalarDesc().width
		return off + c.pad(off, w) + w
	case *String:
		off += c.pad(off, 4) + 4
		return off + v.MaxSize()
	case arrayAccess:
		off += c.pad(off, 4) + 4
		for i := 0; i < v.capSlots(); i++ {
			off = c.valueEnd(v.slot(i), off)
		}
		return off
	case mapAccess:
		off += c.pad(off, 4) + 4
		for i := 0; i < v.capSlots(); i++ {
			off = c.valueEnd(v.keySlot(i), off)
			off = c.valueEnd(v.valSlot(i), off)
		}
		return off
	case Message:
		off += c.pad(off, c.align) + 4
		for _, f := range v.Fields() {
			off = c.fieldEnd(f, off)
		}
		return off
	}
	return off
}

func (c fixedCodec) encode(m Message, b []byte) int {
	off := HeaderSize
	clear(b[off:c.payloadStart()])
	off = c.payloadStart()
	off += wire.PutFixed(b[off:], uint64(uint32(m.MessageID())), 4)
	for _, f := range m.Fields() {
		off = c.encodeField(f, b, off)
	}
	if debug.Enabled {
		debug.Assert(off == c.maxSize(m), "fixed encode ended at %d, want %d", off, c.maxSize(m))
	}
	return off
}

func (c fixedCodec) encodeField(f Member, b []byte, off int) int {
	switch v := f.(type) {
	case scalarMember:
		return c.encodePresent(v.isSet(), v.container(), b, off)
	case stringMember:
		return c.encodePresent(v.isSet(), v.container(), b, off)
	case messageMember:
		return c.encodePresent(v.isSet(), v.message(), b, off)
	case arrayAccess:
		return c.encodeArray(v, b, off)
	case mapAccess:
		return c.encodeMap(v, b, off)
	}
	return off
}

// encodePresent writes the presence flag, then the value or its
// zero-filled footprint.
func (c fixedCodec) encodePresent(set bool, e any, b []byte, off int) int {
	if set {
		b[off] = 1
		return c.encodeValue(e, b, off+1)
	}
	b[off] = 0
	off++
	end := c.valueEnd(e, off)
	clear(b[off:end])
	return end
}

func (c fixedCodec) encodeValue(e any, b []byte, off int) int {
	switch v := e.(type) {
	case scalarContainer:
		w := v.scalarDesc().width
		off = c.zeroPad(b, off, c.pad(off, w))
		return off + wire.PutFixed(b[off:], v.loadBits(), w)
	case *String:
		off = c.zeroPad(b, off, c.pad(off, 4))
		off += wire.PutFixed(b[off:], uint64(v.Len()), 4)
		return off + copy(b[off:], v.raw())
	case arrayAccess:
		return c.encodeArray(v, b, off)
	case mapAccess:
		return c.encodeMap(v, b, off)
	case Message:
		off = c.zeroPad(b, off, c.pad(off, c.align))
		off += wire.PutFixed(b[off:], uint64(uint32(v.MessageID())), 4)
		for _, f := range v.Fields() {
			off = c.encodeField(f, b, off)
		}
		return off
	}
	return off
}

func (c fixedCodec) encodeArray(a arrayAccess, b []byte, off int) int {
	off = c.zeroPad(b, off, c.pad(off, 4))
	off += wire.PutFixed(b[off:], uint64(a.length()), 4)
	for i := 0; i < a.length(); i++ {
		off = c.encodeValue(a.slot(i), b, off)
	}
	for i := a.length(); i < a.capSlots(); i++ {
		end := c.valueEnd(a.slot(i), off)
		clear(b[off:end])
		off = end
	}
	return off
}

func (c fixedCodec) encodeMap(m mapAccess, b []byte, off int) int {
	off = c.zeroPad(b, off, c.pad(off, 4))
	off += wire.PutFixed(b[off:], uint64(m.length()), 4)
	for i := 0; i < m.length(); i++ {
		off = c.encodeValue(m.keySlot(i), b, off)
		off = c.encodeValue(m.valSlot(i), b, off)
	}
	for i := m.length(); i < m.capSlots(); i++ {
		end := c.valueEnd(m.keySlot(i), off)
		clear(b[off:end])
		off = end
		end = c.valueEnd(m.valSlot(i), off)
		clear(b[off:end])
		off = end
	}
	return off
}

func (c fixedCodec) zeroPad(b []byte, off, n int) int {
	clear(b[off : off+n])
	return off + n
}

func (c fixedCodec) decode(b []byte, m Message) error {
	if len(b) < c.maxSize(m) {
		return errDeserialization("buffer too small")
	}
	off := c.payloadStart()
	raw, _ := wire.Fixed(b[off:], 4)
	if MessageID(int32(uint32(raw))) != m.MessageID() {
		return errInvalidMessageID()
	}
	off += 4
	for _, f := range m.Fields() {
		var err error
		off, err = c.decodeField(f, b, off)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c fixedCodec) decodeField(f Member, b []byte, off int) (int, error) {
	switch v := f.(type) {
	case scalarMember:
		set := b[off] != 0
		v.markSet(set)
		return c.decodeValue(v.container(), set, b, off+1)
	case stringMember:
		set := b[off] != 0
		v.markSet(set)
		return c.decodeValue(v.container(), set, b, off+1)
	case messageMember:
		set := b[off] != 0
		v.markSet(set)
		return c.decodeValue(v.message(), set, b, off+1)
	case arrayAccess:
		return c.decodeArray(v, b, off)
	case mapAccess:
		return c.decodeMap(v, b, off)
	}
	return off, nil
}

func (c fixedCodec) decodeValue(e any, set bool, b []byte, off int) (int, error) {
	switch v := e.(type) {
	case scalarContainer:
		w := v.scalarDesc().width
		off += c.pad(off, w)
		if set {
			raw, _ := wire.Fixed(b[off:], w)
			v.storeBits(raw)
		} else {
			v.clearErased()
		}
		return off + w, nil
	case *String:
		off += c.pad(off, 4)
		raw, _ := wire.Fixed(b[off:], 4)
		off += 4
		if set {
			n := int(uint32(raw))
			if n > v.MaxSize() {
				return 0, errCapacity(0, "deserialized string too long")
			}
			v.setRaw(b[off:], n)
		} else {
			v.Clear()
		}
		return off + v.MaxSize(), nil
	case arrayAccess:
		return c.decodeArray(v, b, off)
	case mapAccess:
		return c.decodeMap(v, b, off)
	case Message:
		off += c.pad(off, c.align)
		raw, _ := wire.Fixed(b[off:], 4)
		off += 4
		if !set {
			clearMessage(v)
			for _, f := range v.Fields() {
				off = c.fieldEnd(f, off)
			}
			return off, nil
		}
		if MessageID(int32(uint32(raw))) != v.MessageID() {
			return 0, errInvalidMessageID()
		}
		for _, f := range v.Fields() {
			var err error
			off, err = c.decodeField(f, b, off)
			if err != nil {
				return 0, err
			}
		}
		return off, nil
	}
	return off, nil
}

func (c fixedCodec) decodeArray(a arrayAccess, b []byte, off int) (int, error) {
	end := c.valueEnd(a, off)
	a.clearAll()
	off += c.pad(off, 4)
	raw, _ := wire.Fixed(b[off:], 4)
	off += 4
	n := int(uint32(raw))
	if n > a.capSlots() {
		return 0, errCapacity(0, "array capacity exceeded")
	}
	for i := 0; i < n; i++ {
		var err error
		off, err = c.decodeValue(a.slot(i), true, b, off)
		if err != nil {
			return 0, err
		}
	}
	a.setLength(n)
	return end, nil
}

func (c fixedCodec) decodeMap(m mapAccess, b []byte, off int) (int, error) {
	end := c.valueEnd(m, off)
	m.clearAll()
	off += c.pad(off, 4)
	raw, _ := wire.Fixed(b[off:], 4)
	off += 4
	n := int(uint32(raw))
	if n > m.capSlots() {
		return 0, errCapacity(0, "map capacity exceeded")
	}
	for i := 0; i < n; i++ {
		var err error
		off, err = c.decodeValue(m.keySlot(i), true, b, off)
		if err != nil {
			return 0, err
		}
		off, err = c.decodeValue(m.valSlot(i), true, b, off)
		if err != nil {
			return 0, err
		}
	}
	m.setLength(n)
	return end, nil
}
