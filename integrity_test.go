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

// The standard CRC-16-CCITT check value.
func TestCRC16KnownVector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint16(0x29B1), crc16([]byte("123456789")))

	var sum [2]byte
	IntegrityCRC16.Sum([]byte("123456789"), sum[:])
	assert.Equal(t, []byte{0x29, 0xB1}, sum[:])
}

func TestParity(t *testing.T) {
	t.Parallel()

	var sum [1]byte
	IntegrityParity.Sum([]byte{0x01, 0x02, 0x04}, sum[:])
	assert.Equal(t, byte(0x07), sum[0])

	IntegrityParity.Sum(nil, sum[:])
	assert.Zero(t, sum[0])
}

func TestIntegritySizes(t *testing.T) {
	t.Parallel()

	assert.Zero(t, IntegrityNone.Size())
	assert.Equal(t, 1, IntegrityParity.Size())
	assert.Equal(t, 2, IntegrityCRC16.Size())
}

func TestCheckIntegrity(t *testing.T) {
	t.Parallel()

	body := []byte("123456789")
	buf := append(append([]byte{}, body...), 0x29, 0xB1)

	got, err := checkIntegrity(IntegrityCRC16, buf)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	// None passes everything through untouched.
	got, err = checkIntegrity(IntegrityNone, buf)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestCheckIntegrityMismatch(t *testing.T) {
	t.Parallel()

	buf := append([]byte("123456789"), 0x29, 0xB1)
	buf[0] ^= 0x01

	_, err := checkIntegrity(IntegrityCRC16, buf)
	require.ErrorIs(t, err, ErrIntegrityCheckFailed)

	// A buffer shorter than the trailer is a failed check, not a panic.
	_, err = checkIntegrity(IntegrityCRC16, []byte{0x29})
	assert.ErrorIs(t, err, ErrIntegrityCheckFailed)
}

// Every single-bit flip anywhere in the message is caught by parity.
func TestParityCatchesSingleBitFlips(t *testing.T) {
	t.Parallel()

	body := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	var sum [1]byte
	IntegrityParity.Sum(body, sum[:])
	buf := append(append([]byte{}, body...), sum[0])

	for i := range buf {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte{}, buf...)
			corrupted[i] ^= 1 << bit
			_, err := checkIntegrity(IntegrityParity, corrupted)
			assert.ErrorIs(t, err, ErrIntegrityCheckFailed, "byte %d bit %d", i, bit)
		}
	}
}

// Every single-bit flip in a CRC16-protected serialized message, header
// and trailer included, fails deserialization with an integrity error.
func TestCRC16CatchesSingleBitFlips(t *testing.T) {
	t.Parallel()

	m := newPing()
	require.NoError(t, m.F1.Set(42))
	b, err := NewBuffer(CodecPacked, IntegrityCRC16, m)
	require.NoError(t, err)
	require.NoError(t, b.Serialize(m))
	good := append([]byte{}, b.Bytes()...)

	for i := range good {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte{}, good...)
			corrupted[i] ^= 1 << bit
			require.NoError(t, b.Load(corrupted))
			err := b.Deserialize(newPing())
			assert.ErrorIs(t, err, ErrIntegrityCheckFailed, "byte %d bit %d", i, bit)
		}
	}
}
