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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The packed layout of ping{f1: 42, f2: unset}, byte for byte.
func TestPackedExactBytes(t *testing.T) {
	t.Parallel()

	m := newPing()
	require.NoError(t, m.F1.Set(42))

	b, err := NewBuffer(CodecPacked, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	want := []byte{
		0x03, 0x01, 0x78, 0x56, 0x34, 0x12, // version, format, message id
		0x78, 0x56, 0x34, 0x12, // payload message id
		0x01, 0x2A, 0x00, 0x00, 0x00, // f1 present, 42 LE
		0x00, 0x00, 0x00, // f2 absent, zero-filled
	}
	assert.Equal(t, want, b.Bytes())
}

// Fixed layouts are deterministic: the length never depends on which
// optional fields are set, and absent fields leave only zeroes behind.
func TestFixedDeterministicSize(t *testing.T) {
	t.Parallel()

	for _, c := range []Codec{CodecPacked, CodecAligned4, CodecAligned8} {
		c := c
		t.Run(c.Format().String(), func(t *testing.T) {
			t.Parallel()

			with := newPing()
			require.NoError(t, with.F1.Set(1))
			require.NoError(t, with.F2.Set(-2))
			without := newPing()
			require.NoError(t, without.F1.Set(1))

			b1, err := NewBuffer(c, IntegrityNone, with)
			require.NoError(t, err)
			require.NoError(t, b1.Serialize(with))
			b2, err := NewBuffer(c, IntegrityNone, without)
			require.NoError(t, err)
			require.NoError(t, b2.Serialize(without))

			assert.Len(t, b2.Bytes(), len(b1.Bytes()))
			assert.Len(t, b1.Bytes(), BufferSize(c, IntegrityNone, with))
		})
	}
}

// Field-wise equal messages produce identical buffers, trailer included,
// regardless of the values their containers held earlier.
func TestFixedEqualMessagesEncodeIdentically(t *testing.T) {
	t.Parallel()

	a := validTelemetry()
	b := validTelemetry()
	require.NoError(t, b.Name.Set("ABCDEFGHIJKL"))
	require.NoError(t, b.Name.Set("unit-7"))
	require.True(t, Equal(a, b))

	ba, err := NewBuffer(CodecPacked, IntegrityCRC16, a)
	require.NoError(t, err)
	require.NoError(t, ba.Serialize(a))
	bb, err := NewBuffer(CodecPacked, IntegrityCRC16, b)
	require.NoError(t, err)
	require.NoError(t, bb.Serialize(b))

	assert.Equal(t, ba.Bytes(), bb.Bytes())
}

func TestFixedAlignedSizes(t *testing.T) {
	t.Parallel()

	m := newPing()
	// 6 header + 4 payload id + (1+4) f1 + (1+2) f2, no padding.
	assert.Equal(t, 18, BufferSize(CodecPacked, IntegrityNone, m))
	// Payload starts at 8; f1's value pads to offset 16, f2's to 22.
	assert.Equal(t, 24, BufferSize(CodecAligned4, IntegrityNone, m))
	assert.Equal(t, 24, BufferSize(CodecAligned8, IntegrityNone, m))
}

func TestFixedRoundTripAllAlignments(t *testing.T) {
	t.Parallel()

	for _, c := range []Codec{CodecPacked, CodecAligned4, CodecAligned8} {
		c := c
		t.Run(c.Format().String(), func(t *testing.T) {
			t.Parallel()

			m := validTelemetry()
			b, err := NewBuffer(c, IntegrityNone, m)
			require.NoError(t, err)
			require.NoError(t, b.Serialize(m))

			got := newTelemetry()
			require.NoError(t, b.Deserialize(got))
			assert.True(t, Equal(m, got))
		})
	}
}

// Decoding overwrites all prior state in the target, including fields
// the wire marks absent and aggregate entries beyond the wire count.
func TestFixedDecodeOverwrites(t *testing.T) {
	t.Parallel()

	m := validTelemetry()
	m.Temp.Clear()
	require.NoError(t, m.Samples.Set([]*Scalar[int32]{ScalarOf[int32](1)}))

	b, err := NewBuffer(CodecPacked, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	got := validTelemetry()
	require.NoError(t, got.Temp.Set(-5))
	require.NoError(t, b.Deserialize(got))

	assert.False(t, got.Temp.IsSet())
	assert.Zero(t, got.Temp.Get())
	assert.Equal(t, 1, got.Samples.Len())
	assert.True(t, Equal(m, got))
}

func TestFixedDecodeShortBuffer(t *testing.T) {
	t.Parallel()

	m := newPing()
	require.NoError(t, m.F1.Set(1))
	b, err := NewBuffer(CodecPacked, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	short := b.Bytes()[:10]
	require.NoError(t, b.Load(short))
	err = b.Deserialize(newPing())
	require.ErrorIs(t, err, ErrDeserialization)
	assert.ErrorContains(t, err, "buffer too small")
}

// The payload repeats the message id; a mismatch there is rejected even
// when the header agrees.
func TestFixedDecodePayloadIDMismatch(t *testing.T) {
	t.Parallel()

	m := newPing()
	require.NoError(t, m.F1.Set(1))
	b, err := NewBuffer(CodecPacked, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	raw := append([]byte{}, b.Bytes()...)
	raw[6] ^= 0xFF
	require.NoError(t, b.Load(raw))
	assert.ErrorIs(t, b.Deserialize(newPing()), ErrInvalidMessageID)
}

func TestFixedStringTooLongRejected(t *testing.T) {
	t.Parallel()

	m := validTelemetry()
	b, err := NewBuffer(CodecAligned4, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	// Corrupt the stored length of the name field past its capacity.
	// The length prefix sits right after the presence flag, 4-aligned.
	raw := append([]byte{}, b.Bytes()...)
	found := false
	for off := HeaderSize + 4; off+10 <= len(raw) && !found; off++ {
		if raw[off] == byte(len("unit-7")) && string(raw[off+4:off+4+6]) == "unit-7" {
			raw[off] = 200
			found = true
		}
	}
	require.True(t, found)

	require.NoError(t, b.Load(raw))
	assert.ErrorIs(t, b.Deserialize(newTelemetry()), ErrCapacityExceeded)
}

func TestFixedArrayCountTooLargeRejected(t *testing.T) {
	t.Parallel()

	m := &readings{
		Vals: NewArrayField(1, 3,
			func() *Scalar[int32] { return NewScalar[int32]() }),
	}
	require.NoError(t, m.Vals.Add(ScalarOf[int32](1)))
	b, err := NewBuffer(CodecPacked, IntegrityNone, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))

	// Packed layout: the array count sits right after the payload id.
	raw := append([]byte{}, b.Bytes()...)
	raw[HeaderSize+4] = 4
	require.NoError(t, b.Load(raw))

	got := &readings{
		Vals: NewArrayField(1, 3,
			func() *Scalar[int32] { return NewScalar[int32]() }),
	}
	assert.ErrorIs(t, b.Deserialize(got), ErrCapacityExceeded)
}
