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

package wire_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/sam-w-yellin/crunch/internal/wire"
)

// Varint encoding must agree with protowire byte for byte.
func TestVarintAgainstProtowire(t *testing.T) {
	t.Parallel()

	values := []uint64{
		0, 1, 127, 128, 150, 300, 16383, 16384,
		math.MaxUint32, math.MaxUint64,
		uint64(math.MaxInt64), 1 << 62,
	}
	for _, v := range values {
		var buf [wire.MaxVarintLen]byte
		n := wire.PutVarint(buf[:], v)
		require.Equal(t, protowire.AppendVarint(nil, v), buf[:n], "value %d", v)
		assert.Equal(t, n, wire.VarintSize(v))

		got, m := wire.Varint(buf[:n])
		require.NotZero(t, m)
		assert.Equal(t, v, got)
		assert.Equal(t, n, m)
	}
}

func TestVarintNegativeInt16IsThreeBytes(t *testing.T) {
	t.Parallel()

	// Scalars are zero-extended from their own width, so int16(-1)
	// crosses the wire as 0xFFFF, not a sign-extended 64-bit value.
	var buf [wire.MaxVarintLen]byte
	n := wire.PutVarint(buf[:], 0xFFFF)
	assert.Equal(t, 3, n)
}

func TestVarintTruncated(t *testing.T) {
	t.Parallel()

	// All continuation bits, no terminator.
	_, n := wire.Varint([]byte{0x80, 0x80})
	assert.Zero(t, n)
	_, n = wire.Varint(nil)
	assert.Zero(t, n)
}

func TestVarintOverflow(t *testing.T) {
	t.Parallel()

	// Ten bytes is the limit for 64 bits; an eleventh continuation
	// byte must be rejected.
	over := make([]byte, 11)
	for i := range over {
		over[i] = 0x80
	}
	over[10] = 0x01
	_, n := wire.Varint(over)
	assert.Zero(t, n)

	// Exactly ten bytes still decodes.
	max := protowire.AppendVarint(nil, math.MaxUint64)
	require.Len(t, max, 10)
	v, n := wire.Varint(max)
	require.NotZero(t, n)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestFixedRoundTrip(t *testing.T) {
	t.Parallel()

	var buf [8]byte
	for _, width := range []int{1, 2, 4, 8} {
		v := uint64(0x1122334455667788) & (1<<(8*width) - 1)
		n := wire.PutFixed(buf[:], v, width)
		require.Equal(t, width, n)
		got, m := wire.Fixed(buf[:width], width)
		require.Equal(t, width, m)
		assert.Equal(t, v, got)
	}

	// Little-endian byte order.
	wire.PutFixed(buf[:], 0x12345678, 4)
	assert.Equal(t, []byte{0x78, 0x56, 0x34, 0x12}, buf[:4])
}

func TestFixedTruncated(t *testing.T) {
	t.Parallel()

	_, n := wire.Fixed([]byte{1, 2}, 4)
	assert.Zero(t, n)
	assert.Zero(t, wire.PutFixed([]byte{0}, 7, 2))
}

func TestTagAgainstProtowire(t *testing.T) {
	t.Parallel()

	var buf [wire.MaxVarintLen]byte
	n := wire.PutTag(buf[:], 1, wire.TypeVarint)
	assert.Equal(t, []byte{0x08}, buf[:n])

	for _, id := range []int32{1, 2, 15, 16, 1000, 1<<29 - 1} {
		n := wire.PutTag(buf[:], id, wire.TypeLengthDelimited)
		// Wire type 1 here is this codec's length-delimited type, not
		// protobuf's, so only the varint packing is shared.
		want := protowire.AppendVarint(nil, uint64(id)<<3|1)
		require.Equal(t, want, buf[:n], "id %d", id)

		gotID, wt, m := wire.SplitTag(buf[:n])
		require.NotZero(t, m)
		assert.Equal(t, id, gotID)
		assert.Equal(t, wire.TypeLengthDelimited, wt)
	}
}

func TestSplitTagInvalid(t *testing.T) {
	t.Parallel()

	_, _, n := wire.SplitTag([]byte{0x80})
	assert.Zero(t, n)
}
