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

// Buffer owns the serialization storage for one message type. The storage
// is allocated once, sized to the worst case of codec, integrity policy
// and schema, and reused for every serialize and deserialize after that.
type Buffer struct {
	codec     Codec
	integrity IntegrityPolicy
	msgID     MessageID
	data      []byte
	used      int
}

// BufferSize returns the storage a [Buffer] allocates for m: the codec's
// worst-case encoding plus the integrity trailer.
func BufferSize(c Codec, p IntegrityPolicy, m Message) int {
	return c.maxSize(m) + p.Size()
}

// NewBuffer checks m's schema with [CheckMessage] and allocates a buffer
// sized for it. m only contributes its type; any instance does.
func NewBuffer(c Codec, p IntegrityPolicy, m Message) (*Buffer, error) {
	if err := CheckMessage(m); err != nil {
		return nil, err
	}
	return &Buffer{
		codec:     c,
		integrity: p,
		msgID:     m.MessageID(),
		data:      make([]byte, BufferSize(c, p, m)),
	}, nil
}

// Serialize validates m with the full pipeline, then encodes it: header,
// payload, integrity trailer. Nothing is written when validation fails.
func (b *Buffer) Serialize(m Message) error {
	if err := Validate(m); err != nil {
		return err
	}
	return b.serialize(m)
}

// SerializeWithoutValidation encodes m without the validation pass. The
// escape hatch for values already known valid; a receiver deserializing
// the result still revalidates.
func (b *Buffer) SerializeWithoutValidation(m Message) error {
	return b.serialize(m)
}

func (b *Buffer) serialize(m Message) error {
	if m.MessageID() != b.msgID {
		return errInvalidMessageID()
	}
	writeHeader(b.data, b.codec.Format(), b.msgID)
	n := b.codec.encode(m, b.data)
	if t := b.integrity.Size(); t > 0 {
		b.integrity.Sum(b.data[:n], b.data[n:n+t])
		n += t
	}
	b.used = n
	return nil
}

// Deserialize decodes the buffer's current contents into m: integrity
// check first, then header, then payload, then the full validation
// pipeline. m is not safe to use after an error.
func (b *Buffer) Deserialize(m Message) error {
	if m.MessageID() != b.msgID {
		return errInvalidMessageID()
	}
	return deserialize(b.codec, b.integrity, b.data[:b.used], m)
}

// Bytes returns the wire bytes of the last successful Serialize or Load.
// The slice aliases the buffer's storage.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.used]
}

// Load copies received wire bytes into the buffer for a later
// [Buffer.Deserialize]. Fails with [CodeCapacityExceeded] when data does
// not fit.
func (b *Buffer) Load(data []byte) error {
	if len(data) > len(b.data) {
		return errCapacity(0, "data exceeds buffer capacity")
	}
	b.used = copy(b.data, data)
	return nil
}

// deserialize is the shared receive pipeline, also used by [Decoder].
func deserialize(c Codec, p IntegrityPolicy, buf []byte, m Message) error {
	body, err := checkIntegrity(p, buf)
	if err != nil {
		return err
	}
	if err := validateHeader(body, c.Format(), m.MessageID()); err != nil {
		return err
	}
	if err := c.decode(body, m); err != nil {
		return err
	}
	return Validate(m)
}
